package jdk

import (
	"fmt"
	"strings"

	"github.com/openjkit/jni-runtime/errors"
)

// Format renders a C-style format string against an argument list. It
// covers the subset the jio helpers need: %d %x %s %c %f and %%, with
// optional '-' and '0' flags and a field width. Unknown conversions and
// missing arguments are errors; surplus arguments are ignored, matching
// the C functions being stood in for.
func Format(format string, args []any) (string, error) {
	var b strings.Builder
	argi := 0
	next := func() (any, error) {
		if argi >= len(args) {
			return nil, errors.InvalidInput(errors.PhaseRuntime,
				fmt.Sprintf("format %q needs more than %d arguments", format, len(args)))
		}
		a := args[argi]
		argi++
		return a, nil
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", errors.InvalidInput(errors.PhaseRuntime, "format ends in bare %")
		}
		if format[i] == '%' {
			b.WriteByte('%')
			continue
		}

		spec := []byte{'%'}
		for i < len(format) && (format[i] == '-' || format[i] == '0') {
			spec = append(spec, format[i])
			i++
		}
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			spec = append(spec, format[i])
			i++
		}
		if i >= len(format) {
			return "", errors.InvalidInput(errors.PhaseRuntime, "format ends inside conversion")
		}

		verb := format[i]
		arg, err := next()
		if err != nil {
			return "", err
		}
		switch verb {
		case 'd':
			n, err := asInt64(arg)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, string(append(spec, 'd')), n)
		case 'x':
			n, err := asInt64(arg)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, string(append(spec, 'x')), uint64(n))
		case 's':
			s, ok := arg.(string)
			if !ok {
				return "", typeMismatch("%s", arg)
			}
			fmt.Fprintf(&b, string(append(spec, 's')), s)
		case 'c':
			n, err := asInt64(arg)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, string(append(spec, 'c')), rune(n))
		case 'f':
			f, ok := arg.(float64)
			if !ok {
				return "", typeMismatch("%f", arg)
			}
			fmt.Fprintf(&b, string(append(spec, 'f')), f)
		default:
			return "", errors.InvalidInput(errors.PhaseRuntime,
				fmt.Sprintf("unsupported conversion %%%c", verb))
		}
	}
	return b.String(), nil
}

// formatVerbs lists the conversion verbs of format in order, skipping
// %% escapes and the flag and width characters.
func formatVerbs(format string) ([]byte, error) {
	var verbs []byte
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i >= len(format) {
			return nil, errors.InvalidInput(errors.PhaseRuntime, "format ends in bare %")
		}
		if format[i] == '%' {
			continue
		}
		for i < len(format) && (format[i] == '-' || format[i] == '0') {
			i++
		}
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		if i >= len(format) {
			return nil, errors.InvalidInput(errors.PhaseRuntime, "format ends inside conversion")
		}
		verbs = append(verbs, format[i])
	}
	return verbs, nil
}

func asInt64(arg any) (int64, error) {
	switch v := arg.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	default:
		return 0, typeMismatch("integer conversion", arg)
	}
}

func typeMismatch(where string, arg any) error {
	return errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
		Value(arg).
		Detail("%T argument for %s", arg, where).
		Build()
}
