package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/openjkit/jni-runtime/descriptor"
	"github.com/openjkit/jni-runtime/linker"
	"github.com/openjkit/jni-runtime/monitor"
	"github.com/openjkit/jni-runtime/native"
	"github.com/openjkit/jni-runtime/registry"
	"github.com/openjkit/jni-runtime/runtime"
)

// The CLI acts as interpreter thread 1.
const cliThread = monitor.ThreadID(1)

func main() {
	var (
		libs        = flag.String("lib", "", "Shared objects to load (comma-separated paths)")
		class       = flag.String("class", "", "Declaring class, slash form (java/lang/Object)")
		method      = flag.String("method", "", "Native method name")
		desc        = flag.String("desc", "", "Method descriptor, e.g. (II)I")
		argStr      = flag.String("args", "", "Arguments (comma-separated, per descriptor)")
		list        = flag.Bool("list", false, "List registered natives and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *libs == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: jnicall -lib <file.so,...> -class <cls> -method <name> -desc <(II)I> [-args 7,13]")
		fmt.Fprintln(os.Stderr, "       jnicall -list")
		fmt.Fprintln(os.Stderr, "       jnicall [-lib <file.so>] -i  (interactive mode)")
		os.Exit(1)
	}

	var opts []runtime.Option
	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		opts = append(opts, runtime.WithLogger(logger))
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*libs, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*libs, *class, *method, *desc, *argStr, *list, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(libStr, class, method, desc, argStr string, listOnly bool, opts []runtime.Option) error {
	rt, err := runtime.New(opts...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close()

	for _, path := range splitList(libStr) {
		lib, err := rt.LoadLibrary(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		fmt.Printf("Loaded: %s", lib.Path())
		if lib.OnLoad() != 0 {
			fmt.Printf(" (JNI_OnLoad at %#x)", lib.OnLoad())
		}
		fmt.Println()
	}

	if listOnly {
		keys := rt.Natives(cliThread)
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Class != keys[j].Class {
				return keys[i].Class < keys[j].Class
			}
			if keys[i].Name != keys[j].Name {
				return keys[i].Name < keys[j].Name
			}
			return keys[i].Desc < keys[j].Desc
		})
		fmt.Printf("\nRegistered natives:\n")
		for _, k := range keys {
			fmt.Printf("  %s.%s%s\n", k.Class, k.Name, k.Desc)
		}
		return nil
	}

	if class == "" || method == "" || desc == "" {
		return fmt.Errorf("need -class, -method and -desc to invoke")
	}

	parsed, err := descriptor.ParseMethod(desc)
	if err != nil {
		return err
	}
	args, err := parseArgs(parsed, splitList(argStr))
	if err != nil {
		return err
	}

	key := registry.Key{Class: class, Name: method, Desc: desc}
	if err := rt.DeclareNative(cliThread, key); err != nil {
		return err
	}

	fmt.Printf("\nInvoking %s.%s%s", class, method, desc)
	fmt.Printf(" via %s\n", linker.LongSymbol(class, method, desc))

	v, err := rt.Call(cliThread, key, args)
	if err != nil {
		return fmt.Errorf("call %s.%s: %w", class, method, err)
	}
	fmt.Printf("Result: %s\n", formatValue(v))
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseArgs converts textual arguments according to the descriptor's
// parameter kinds.
func parseArgs(m descriptor.Method, raw []string) ([]native.Argument, error) {
	if len(raw) != m.Arity() {
		return nil, fmt.Errorf("descriptor %s declares %d parameters, got %d arguments",
			m.Raw, m.Arity(), len(raw))
	}
	args := make([]native.Argument, len(raw))
	for i, s := range raw {
		p := m.Params[i]
		switch p.Kind {
		case native.Int32:
			v, err := strconv.ParseInt(s, 0, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = native.Int32Arg(int32(v))
		case native.Int64:
			v, err := strconv.ParseInt(s, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = native.Int64Arg(v)
		case native.Float32:
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = native.Float32Arg(float32(v))
		case native.Float64:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = native.Float64Arg(v)
		case native.Pointer:
			v, err := strconv.ParseUint(s, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %d (%s): %w", i, p.Desc, err)
			}
			args[i] = native.PointerArg(uintptr(v))
		}
	}
	return args, nil
}

func formatValue(v native.Value) string {
	switch v.Kind {
	case native.Void:
		return "void"
	case native.Int32:
		return fmt.Sprintf("int %d", v.Int32())
	case native.Int64:
		return fmt.Sprintf("long %d", v.Int64())
	case native.Float32:
		return fmt.Sprintf("float %g", v.Float32())
	case native.Float64:
		return fmt.Sprintf("double %g", v.Float64())
	case native.Pointer:
		return fmt.Sprintf("ref %#x", v.Pointer())
	}
	return fmt.Sprintf("%+v", v)
}
