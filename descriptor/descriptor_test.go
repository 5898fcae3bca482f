package descriptor

import (
	"testing"

	"github.com/openjkit/jni-runtime/native"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		raw    string
		params []Field
		ret    Field
		slots  int
	}{
		{
			raw:   "()V",
			ret:   Field{Kind: native.Void, Desc: "V"},
			slots: 0,
		},
		{
			raw:    "(II)I",
			params: []Field{{Kind: native.Int32, Desc: "I"}, {Kind: native.Int32, Desc: "I"}},
			ret:    Field{Kind: native.Int32, Desc: "I"},
			slots:  2,
		},
		{
			raw: "(IJ[Ljava/lang/String;)V",
			params: []Field{
				{Kind: native.Int32, Desc: "I"},
				{Kind: native.Int64, Desc: "J", Wide: true},
				{Kind: native.Pointer, Desc: "[Ljava/lang/String;"},
			},
			ret:   Field{Kind: native.Void, Desc: "V"},
			slots: 4,
		},
		{
			raw: "(DFBCSZ)D",
			params: []Field{
				{Kind: native.Float64, Desc: "D", Wide: true},
				{Kind: native.Float32, Desc: "F"},
				{Kind: native.Int32, Desc: "B"},
				{Kind: native.Int32, Desc: "C"},
				{Kind: native.Int32, Desc: "S"},
				{Kind: native.Int32, Desc: "Z"},
			},
			ret:   Field{Kind: native.Float64, Desc: "D", Wide: true},
			slots: 7,
		},
		{
			raw:    "([[I)[B",
			params: []Field{{Kind: native.Pointer, Desc: "[[I"}},
			ret:    Field{Kind: native.Pointer, Desc: "[B"},
			slots:  1,
		},
		{
			raw:    "(Ljava/lang/Object;)Ljava/lang/Class;",
			params: []Field{{Kind: native.Pointer, Desc: "Ljava/lang/Object;"}},
			ret:    Field{Kind: native.Pointer, Desc: "Ljava/lang/Class;"},
			slots:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, err := ParseMethod(tt.raw)
			if err != nil {
				t.Fatalf("ParseMethod(%q): %v", tt.raw, err)
			}
			if m.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", m.Raw, tt.raw)
			}
			if len(m.Params) != len(tt.params) {
				t.Fatalf("got %d params, want %d", len(m.Params), len(tt.params))
			}
			for i, p := range m.Params {
				if p != tt.params[i] {
					t.Errorf("param %d = %+v, want %+v", i, p, tt.params[i])
				}
			}
			if m.Return != tt.ret {
				t.Errorf("Return = %+v, want %+v", m.Return, tt.ret)
			}
			if m.Arity() != len(tt.params) {
				t.Errorf("Arity = %d, want %d", m.Arity(), len(tt.params))
			}
			if m.Slots() != tt.slots {
				t.Errorf("Slots = %d, want %d", m.Slots(), tt.slots)
			}
		})
	}
}

func TestParseMethod_Malformed(t *testing.T) {
	bad := []string{
		"",
		"II)I",
		"(II",
		"(II)",
		"(Q)V",
		"(Ljava/lang/String)V", // missing semicolon
		"(L;)V",
		"([)V",
		"([",
		"(I)VV",
		"(I)IJ",
		"(I)Vx",
	}
	for _, raw := range bad {
		if _, err := ParseMethod(raw); err == nil {
			t.Errorf("ParseMethod(%q) accepted malformed descriptor", raw)
		}
	}
}
