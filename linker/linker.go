//go:build linux

package linker

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

static void* jni_dlopen(const char* path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}
static char* jni_dlerror(void) {
	return dlerror();
}
// Clear dlerror, call dlsym, and report the error alongside the symbol.
// dlsym may legitimately return NULL for a found symbol, so the error
// channel is the only reliable miss signal.
static void* jni_dlsym_clear(void* h, const char* name, char** err) {
	dlerror();
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { if (err) *err = e; return 0; }
	if (err) *err = 0;
	return p;
}
static int jni_dlclose(void* h) {
	return dlclose(h);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/openjkit/jni-runtime/errors"
)

// Library is one loaded shared object.
type Library struct {
	path   string
	handle unsafe.Pointer
	onLoad uintptr
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string { return l.path }

// OnLoad returns the address of the library's JNI_OnLoad export, or zero
// if the library does not provide one. Calling it is the runtime's
// decision, not the linker's.
func (l *Library) OnLoad() uintptr { return l.onLoad }

// Symbol resolves name in this library only.
func (l *Library) Symbol(name string) (uintptr, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var cerr *C.char
	p := C.jni_dlsym_clear(l.handle, cname, &cerr)
	if cerr != nil {
		return 0, false
	}
	return uintptr(p), true
}

// Linker loads shared objects and resolves native symbols across them in
// load order. Duplicate loads of the same path return the original
// library. Safe for concurrent use.
type Linker struct {
	mu     sync.Mutex
	libs   []*Library
	byPath map[string]*Library
}

func New() *Linker {
	return &Linker{byPath: make(map[string]*Library)}
}

// Load opens the shared object at path. Loading a path twice is not an
// error; the first library is returned unchanged.
func (lk *Linker) Load(path string) (*Library, error) {
	lk.mu.Lock()
	defer lk.mu.Unlock()

	if lib, ok := lk.byPath[path]; ok {
		return lib, nil
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.jni_dlopen(cpath)
	if h == nil {
		detail := "dlopen failed"
		if msg := C.jni_dlerror(); msg != nil {
			detail = C.GoString(msg)
		}
		return nil, errors.Linkage("loading "+path, errors.InvalidInput(errors.PhaseLink, detail))
	}

	lib := &Library{path: path, handle: h}
	if addr, ok := lib.Symbol("JNI_OnLoad"); ok {
		lib.onLoad = addr
	}
	lk.libs = append(lk.libs, lib)
	lk.byPath[path] = lib

	Logger().Info("loaded native library",
		zap.String("path", path),
		zap.Bool("jni_onload", lib.onLoad != 0))
	return lib, nil
}

// Resolve searches every loaded library in load order for symbol.
func (lk *Linker) Resolve(symbol string) (uintptr, error) {
	lk.mu.Lock()
	libs := make([]*Library, len(lk.libs))
	copy(libs, lk.libs)
	lk.mu.Unlock()

	for _, lib := range libs {
		if addr, ok := lib.Symbol(symbol); ok {
			Logger().Debug("resolved symbol",
				zap.String("symbol", symbol),
				zap.String("library", lib.path))
			return addr, nil
		}
	}
	return 0, errors.SymbolNotFound(symbol)
}

// ResolveNative resolves the export for a native method, trying the
// long-form mangled name before the short form. Overloaded natives only
// exist under the long form, so it has to win when both are exported.
func (lk *Linker) ResolveNative(class, name, desc string) (uintptr, error) {
	long := LongSymbol(class, name, desc)
	if addr, err := lk.Resolve(long); err == nil {
		return addr, nil
	}
	short := ShortSymbol(class, name)
	addr, err := lk.Resolve(short)
	if err != nil {
		return 0, errors.New(errors.PhaseLink, errors.KindSymbolNotFound).
			Method(class, name).
			Detail("no export %s or %s in any loaded library", long, short).
			Build()
	}
	return addr, nil
}

// Libraries returns the loaded libraries in load order.
func (lk *Linker) Libraries() []*Library {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	libs := make([]*Library, len(lk.libs))
	copy(libs, lk.libs)
	return libs
}

// Close unloads every library in reverse load order.
func (lk *Linker) Close() {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	for i := len(lk.libs) - 1; i >= 0; i-- {
		C.jni_dlclose(lk.libs[i].handle)
	}
	lk.libs = nil
	lk.byPath = make(map[string]*Library)
}
