//go:build !linux

package linker

import (
	"github.com/openjkit/jni-runtime/errors"
)

// Library is one loaded shared object. Dynamic loading is only wired up
// on linux; elsewhere every operation reports unsupported.
type Library struct {
	path string
}

func (l *Library) Path() string    { return l.path }
func (l *Library) OnLoad() uintptr { return 0 }

func (l *Library) Symbol(name string) (uintptr, bool) { return 0, false }

type Linker struct{}

func New() *Linker { return &Linker{} }

func (lk *Linker) Load(path string) (*Library, error) {
	return nil, errors.Unsupported(errors.PhaseLink, "dynamic library loading requires linux")
}

func (lk *Linker) Resolve(symbol string) (uintptr, error) {
	return 0, errors.SymbolNotFound(symbol)
}

func (lk *Linker) ResolveNative(class, name, desc string) (uintptr, error) {
	return 0, errors.SymbolNotFound(ShortSymbol(class, name))
}

func (lk *Linker) Libraries() []*Library { return nil }

func (lk *Linker) Close() {}
