package descriptor

import (
	"strings"

	"github.com/openjkit/jni-runtime/errors"
	"github.com/openjkit/jni-runtime/native"
)

// Field is one parsed field descriptor, reduced to what the invocation
// path needs: the marshalling kind, the raw descriptor text, and whether
// the interpreter accounts the value as two slots.
type Field struct {
	Kind native.Kind
	Desc string
	Wide bool
}

// Method is a parsed method descriptor such as "(IJ[Ljava/lang/String;)V".
type Method struct {
	Raw    string
	Params []Field
	Return Field
}

// Arity returns the number of declared parameters.
func (m Method) Arity() int {
	return len(m.Params)
}

// Slots returns the interpreter operand-slot count of the parameter list,
// counting long and double as two.
func (m Method) Slots() int {
	n := 0
	for _, p := range m.Params {
		n++
		if p.Wide {
			n++
		}
	}
	return n
}

// ParseMethod parses a JVM method descriptor into ordered parameter
// fields and a return field. The return field of a void method has kind
// Void and descriptor "V".
func ParseMethod(raw string) (Method, error) {
	if len(raw) == 0 || raw[0] != '(' {
		return Method{}, errors.InvalidDescriptor(raw, "missing opening parenthesis")
	}

	m := Method{Raw: raw}
	i := 1
	for i < len(raw) && raw[i] != ')' {
		f, next, err := parseField(raw, i)
		if err != nil {
			return Method{}, err
		}
		m.Params = append(m.Params, f)
		i = next
	}
	if i >= len(raw) {
		return Method{}, errors.InvalidDescriptor(raw, "missing closing parenthesis")
	}
	i++ // ')'

	if i >= len(raw) {
		return Method{}, errors.InvalidDescriptor(raw, "missing return descriptor")
	}
	if raw[i] == 'V' {
		if i+1 != len(raw) {
			return Method{}, errors.InvalidDescriptor(raw, "trailing characters after return descriptor")
		}
		m.Return = Field{Kind: native.Void, Desc: "V"}
		return m, nil
	}
	ret, next, err := parseField(raw, i)
	if err != nil {
		return Method{}, err
	}
	if next != len(raw) {
		return Method{}, errors.InvalidDescriptor(raw, "trailing characters after return descriptor")
	}
	m.Return = ret
	return m, nil
}

// parseField consumes one field descriptor starting at i and returns the
// parsed field and the index just past it.
func parseField(raw string, i int) (Field, int, error) {
	start := i
	switch raw[i] {
	case 'B', 'C', 'S', 'Z', 'I':
		return Field{Kind: native.Int32, Desc: raw[i : i+1]}, i + 1, nil
	case 'J':
		return Field{Kind: native.Int64, Desc: "J", Wide: true}, i + 1, nil
	case 'F':
		return Field{Kind: native.Float32, Desc: "F"}, i + 1, nil
	case 'D':
		return Field{Kind: native.Float64, Desc: "D", Wide: true}, i + 1, nil
	case 'L':
		end := strings.IndexByte(raw[i:], ';')
		if end < 0 {
			return Field{}, 0, errors.InvalidDescriptor(raw, "unterminated object descriptor")
		}
		if end == 1 {
			return Field{}, 0, errors.InvalidDescriptor(raw, "empty object descriptor")
		}
		end += i + 1
		return Field{Kind: native.Pointer, Desc: raw[start:end]}, end, nil
	case '[':
		for i < len(raw) && raw[i] == '[' {
			i++
		}
		if i >= len(raw) || raw[i] == ')' {
			return Field{}, 0, errors.InvalidDescriptor(raw, "array descriptor without element type")
		}
		_, next, err := parseField(raw, i)
		if err != nil {
			return Field{}, 0, err
		}
		return Field{Kind: native.Pointer, Desc: raw[start:next]}, next, nil
	default:
		return Field{}, 0, errors.InvalidDescriptor(raw, "unknown field type")
	}
}
