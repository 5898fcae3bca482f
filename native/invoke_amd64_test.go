//go:build linux && amd64

package native

import (
	"fmt"
	"sync"
	"testing"

	"github.com/openjkit/jni-runtime/internal/ctest"
)

func TestInvoke_AddInt32(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.AddI32(), Int32, Int32Arg(7), Int32Arg(13))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int32(); got != 20 {
		t.Errorf("add_i32(7, 13) = %d, want 20", got)
	}
	if want := ctest.DirectAddI32(7, 13); res.Int32() != want {
		t.Errorf("trampoline result %d differs from direct call %d", res.Int32(), want)
	}
}

func TestInvoke_NegativeInt32(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.AddI32(), Int32, Int32Arg(-100), Int32Arg(30))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int32(); got != -70 {
		t.Errorf("add_i32(-100, 30) = %d, want -70", got)
	}
}

func TestInvoke_Int64(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	const a, b = int64(1) << 40, int64(5)
	desc := mustDescriptor(t, ctest.AddI64(), Int64, Int64Arg(a), Int64Arg(b))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int64(); got != a+b {
		t.Errorf("add_i64 = %d, want %d", got, a+b)
	}
}

func TestInvoke_EightIntArgs(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	args := make([]Argument, 8)
	var want int64
	for i := range args {
		v := int64(1) << uint(i*4)
		args[i] = Int64Arg(v)
		want += v
	}
	desc := mustDescriptor(t, ctest.Sum8(), Int64, args...)
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int64(); got != want {
		t.Errorf("sum8 = %d, want %d", got, want)
	}
}

func TestInvoke_StackPassedArgs(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	// tail2 ignores the six register arguments and reads only the two
	// stack-passed ones, so a misplaced stack block fails loudly here.
	desc := mustDescriptor(t, ctest.Tail2(), Int32,
		Int32Arg(0), Int32Arg(0), Int32Arg(0), Int32Arg(0), Int32Arg(0), Int32Arg(0),
		Int32Arg(42), Int32Arg(7))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int32(); got != 42007 {
		t.Errorf("tail2 = %d, want 42007", got)
	}
}

func TestInvoke_Float64(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.AddF64(), Float64, Float64Arg(1.25), Float64Arg(2.5))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Float64(); got != 3.75 {
		t.Errorf("add_f64 = %v, want 3.75", got)
	}
}

func TestInvoke_Float32(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.AddF32(), Float32, Float32Arg(0.5), Float32Arg(1.25))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Float32(); got != 1.75 {
		t.Errorf("add_f32 = %v, want 1.75", got)
	}
}

func TestInvoke_MixedClasses(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.Mix(), Float64,
		Float64Arg(1.5), Int64Arg(100), Float32Arg(0.25), Int32Arg(-3))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := ctest.DirectMix(1.5, 100, 0.25, -3)
	if got := res.Float64(); got != want {
		t.Errorf("mix = %v, want %v", got, want)
	}
}

func TestInvoke_TenDoubles(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	// Two of the ten doubles spill past the eight SSE registers onto
	// the stack block.
	args := make([]Argument, 10)
	var want float64
	for i := range args {
		v := float64(i) + 0.5
		args[i] = Float64Arg(v)
		want += v
	}
	desc := mustDescriptor(t, ctest.Sum10D(), Float64, args...)
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Float64(); got != want {
		t.Errorf("sum10d = %v, want %v", got, want)
	}
}

func TestInvoke_PointerRoundTrip(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	p := uintptr(0xDEADBEEF00)
	desc := mustDescriptor(t, ctest.EchoPtr(), Pointer, PointerArg(p))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Pointer(); got != p {
		t.Errorf("echo_ptr = %#x, want %#x", got, p)
	}
}

func TestInvoke_Void(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	desc := mustDescriptor(t, ctest.Noop(), Void)
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !res.IsVoid() {
		t.Errorf("noop returned %+v, want void", res)
	}
}

func TestInvoke_NilDescriptor(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	if _, err := iv.Invoke(nil); err == nil {
		t.Fatal("nil descriptor accepted")
	}
}

func TestInvoke_Repeated(t *testing.T) {
	iv := NewInvoker(WithPoolLimit(1))
	defer iv.Close()

	// Reusing one pooled stack across invocations must not leak state
	// between calls.
	for i := 0; i < 200; i++ {
		desc := mustDescriptor(t, ctest.AddI32(), Int32,
			Int32Arg(int32(i)), Int32Arg(int32(i*2)))
		res, err := iv.Invoke(desc)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if got := res.Int32(); got != int32(i*3) {
			t.Fatalf("iteration %d: got %d, want %d", i, got, i*3)
		}
	}
}

func TestInvoke_Concurrent(t *testing.T) {
	iv := NewInvoker()
	defer iv.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				a, b := int32(g*1000+i), int32(i)
				desc, err := NewCallDescriptor(ctest.AddI32(), Int32,
					[]Argument{Int32Arg(a), Int32Arg(b)})
				if err != nil {
					errs <- err
					return
				}
				res, err := iv.Invoke(desc)
				if err != nil {
					errs <- err
					return
				}
				if res.Int32() != a+b {
					errs <- errBadSum{got: res.Int32(), want: a + b}
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

type errBadSum struct{ got, want int32 }

func (e errBadSum) Error() string {
	return fmt.Sprintf("concurrent invoke returned %d, want %d", e.got, e.want)
}

func TestInvoke_CallerStateRoundTrip(t *testing.T) {
	// Live locals held across the switch catch a trampoline that comes
	// back with the wrong stack pointer or a clobbered saved register.
	// Recursion varies the caller frame the call has to return into.
	iv := NewInvoker()
	defer iv.Close()

	pattern := func(depth, i int) uint64 {
		return uint64(depth)<<32 | uint64(i)*0x9E3779B9
	}

	var walk func(depth int) error
	walk = func(depth int) error {
		var locals [8]uint64
		for i := range locals {
			locals[i] = pattern(depth, i)
		}
		fa, fb := float64(depth)*1.5, float64(depth)*-2.25

		if depth > 0 {
			if err := walk(depth - 1); err != nil {
				return err
			}
		}

		desc := mustDescriptor(t, ctest.AddI32(), Int32,
			Int32Arg(int32(depth)), Int32Arg(100))
		res, err := iv.Invoke(desc)
		if err != nil {
			return err
		}
		if got := res.Int32(); got != int32(depth)+100 {
			return fmt.Errorf("add_i32(%d, 100) = %d at depth %d", depth, got, depth)
		}

		for i := range locals {
			if locals[i] != pattern(depth, i) {
				return fmt.Errorf("local %d changed at depth %d: %#x", i, depth, locals[i])
			}
		}
		if fa != float64(depth)*1.5 || fb != float64(depth)*-2.25 {
			return fmt.Errorf("float locals changed at depth %d: %v, %v", depth, fa, fb)
		}
		return nil
	}

	if err := walk(6); err != nil {
		t.Fatal(err)
	}
}

func TestInvoke_SmallStack(t *testing.T) {
	// A page-sized stack is plenty for a leaf call but an oversized
	// argument list still fails before the switch.
	iv := NewInvoker(WithStackSize(4096))
	defer iv.Close()

	desc := mustDescriptor(t, ctest.AddI32(), Int32, Int32Arg(2), Int32Arg(3))
	res, err := iv.Invoke(desc)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got := res.Int32(); got != 5 {
		t.Errorf("add_i32 = %d, want 5", got)
	}

	big := make([]Argument, 4096/8+16)
	for i := range big {
		big[i] = Int64Arg(1)
	}
	overflow := mustDescriptor(t, ctest.Sum8(), Int64, big...)
	if _, err := iv.Invoke(overflow); err == nil {
		t.Fatal("oversized argument list accepted")
	}
}
