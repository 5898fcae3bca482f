//go:build linux && amd64

// Package ctest provides compiled C reference functions for exercising the
// invocation path against the real host calling convention. Tests compare
// trampoline results with what the same functions return when called
// directly through cgo.
package ctest

/*
static int add_i32(int a, int b) { return a + b; }

static long long add_i64(long long a, long long b) { return a + b; }

static long long sum8(long long a, long long b, long long c, long long d,
                      long long e, long long f, long long g, long long h) {
	return a + b + c + d + e + f + g + h;
}

// Reads only the stack-passed arguments under the System V convention.
static int tail2(int a, int b, int c, int d, int e, int f, int g, int h) {
	(void)a; (void)b; (void)c; (void)d; (void)e; (void)f;
	return g * 1000 + h;
}

static double add_f64(double a, double b) { return a + b; }

static float add_f32(float a, float b) { return a + b; }

static double mix(double a, long long b, float c, int d) {
	return a + (double)b + (double)c + (double)d;
}

static double sum10d(double a, double b, double c, double d, double e,
                     double f, double g, double h, double i, double j) {
	return a + b + c + d + e + f + g + h + i + j;
}

static void* echo_ptr(void* p) { return p; }

static void noop(void) {}

static void* p_add_i32(void) { return (void*)&add_i32; }
static void* p_add_i64(void) { return (void*)&add_i64; }
static void* p_sum8(void)    { return (void*)&sum8; }
static void* p_tail2(void)   { return (void*)&tail2; }
static void* p_add_f64(void) { return (void*)&add_f64; }
static void* p_add_f32(void) { return (void*)&add_f32; }
static void* p_mix(void)     { return (void*)&mix; }
static void* p_sum10d(void)  { return (void*)&sum10d; }
static void* p_echo_ptr(void){ return (void*)&echo_ptr; }
static void* p_noop(void)    { return (void*)&noop; }
*/
import "C"

func AddI32() uintptr  { return uintptr(C.p_add_i32()) }
func AddI64() uintptr  { return uintptr(C.p_add_i64()) }
func Sum8() uintptr    { return uintptr(C.p_sum8()) }
func Tail2() uintptr   { return uintptr(C.p_tail2()) }
func AddF64() uintptr  { return uintptr(C.p_add_f64()) }
func AddF32() uintptr  { return uintptr(C.p_add_f32()) }
func Mix() uintptr     { return uintptr(C.p_mix()) }
func Sum10D() uintptr  { return uintptr(C.p_sum10d()) }
func EchoPtr() uintptr { return uintptr(C.p_echo_ptr()) }
func Noop() uintptr    { return uintptr(C.p_noop()) }

// DirectAddI32 calls the reference function through cgo, bypassing the
// trampoline, so tests can compare bit patterns.
func DirectAddI32(a, b int32) int32 {
	return int32(C.add_i32(C.int(a), C.int(b)))
}

// DirectMix mirrors mix through cgo.
func DirectMix(a float64, b int64, c float32, d int32) float64 {
	return float64(C.mix(C.double(a), C.longlong(b), C.float(c), C.int(d)))
}
