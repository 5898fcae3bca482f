package linker

import (
	"fmt"
	"strings"
)

// mangle implements the JNI symbol naming scheme. Characters that are
// legal in class names or descriptors but not in C identifiers are
// escaped before the pieces are joined:
//
//	/  ->  _
//	_  ->  _1
//	;  ->  _2
//	[  ->  _3
//
// and any other non-alphanumeric character becomes _0xxxx with the
// code point in lowercase hex.
func mangle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '/':
			b.WriteByte('_')
		case r == '_':
			b.WriteString("_1")
		case r == ';':
			b.WriteString("_2")
		case r == '[':
			b.WriteString("_3")
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_0%04x", r)
		}
	}
	return b.String()
}

// ShortSymbol returns the short-form JNI export name for a native method,
// e.g. Java_java_lang_Object_hashCode.
func ShortSymbol(class, name string) string {
	return "Java_" + mangle(class) + "_" + mangle(name)
}

// LongSymbol returns the long-form export name, which appends the
// mangled argument portion of the method descriptor. Overloaded natives
// are only reachable through this form.
func LongSymbol(class, name, desc string) string {
	args := desc
	if i := strings.IndexByte(desc, '('); i >= 0 {
		args = desc[i+1:]
	}
	if i := strings.IndexByte(args, ')'); i >= 0 {
		args = args[:i]
	}
	return ShortSymbol(class, name) + "__" + mangle(args)
}
