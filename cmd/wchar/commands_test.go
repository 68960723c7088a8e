package main

import (
	"bytes"
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestParseCodePoint(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		ok   bool
	}{
		{"U+20AC", 0x20AC, true},
		{"u+1f34c", 0x1F34C, true},
		{"41", 'A', true},
		{"U+", 0, false},
		{"12xyz", 0, false},
		{"", 0, false},
		{"FFFFFFFFFF", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCodePoint(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("parseCodePoint(%q) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseCodePoint(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	got := unescape(`a\xC3\xA9\xZZ\x4`)
	want := []byte{'a', 0xC3, 0xA9, '\\', 'x', 'Z', 'Z', '\\', 'x', '4'}
	if !bytes.Equal(got, want) {
		t.Errorf("unescape = % x, want % x", got, want)
	}
}

func TestEncodeString(t *testing.T) {
	buf, err := encodeString([]rune("h€"))
	if err != nil || string(buf) != "h€" {
		t.Fatalf("encodeString = %q, %v", buf, err)
	}
	if _, err := encodeString([]rune{'a', 0xD800}); err == nil {
		t.Error("expected error for surrogate")
	}
}

func TestConvertArg(t *testing.T) {
	if v, err := convertArg("U+00E9", wit.Char{}); err != nil || v != rune(0xE9) {
		t.Errorf("char U+ form = %v, %v", v, err)
	}
	if v, err := convertArg("é", wit.Char{}); err != nil || v != rune(0xE9) {
		t.Errorf("char literal = %v, %v", v, err)
	}
	if _, err := convertArg("ab", wit.Char{}); err == nil {
		t.Error("two characters should not convert to a char")
	}
	if v, err := convertArg("0x41", wit.U32{}); err != nil || v != uint32(0x41) {
		t.Errorf("u32 = %v, %v", v, err)
	}
	if v, err := convertArg("-7", wit.S32{}); err != nil || v != int32(-7) {
		t.Errorf("s32 = %v, %v", v, err)
	}
}

func TestCatalogue(t *testing.T) {
	tests := []struct {
		op   string
		args []any
		want string
		err  bool
	}{
		{"mbrtowc", []any{`A\xC3\xA9\xFF\xE2\x82`}, "U+0041 U+00E9 <invalid 1> <incomplete, 2 pending>", false},
		{"wcrtomb", []any{uint32(0x20AC)}, "e2 82 ac", false},
		{"wcrtomb", []any{uint32(0xD800)}, "", true},
		{"wcstol", []any{"  0x1f rest", int32(0)}, "31 (consumed 6)", false},
		{"iswctype", []any{'7', "xdigit"}, "true", false},
		{"iswctype", []any{'7', "nope"}, "", true},
		{"wcswidth", []any{"a世"}, "3", false},
	}
	byName := map[string]operation{}
	for _, op := range catalogue {
		byName[op.name] = op
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got, err := byName[tt.op].call(tt.args)
			if (err != nil) != tt.err {
				t.Fatalf("err = %v, want error %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	line := describe('A')
	for _, part := range []string{"U+0041", "width=1", "lower=U+0061", "alpha", "upper", "xdigit"} {
		if !strings.Contains(line, part) {
			t.Errorf("describe('A') = %q, missing %q", line, part)
		}
	}
}
