package shade

import (
	"errors"
	"testing"
)

func TestBlendMode_String(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want string
	}{
		{BlendRaw, "raw"},
		{BlendReplace, "replace"},
		{BlendMultiply, "multiply"},
		{BlendMode(99), "BlendMode(99)"},
		{BlendMode(-1), "BlendMode(-1)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("BlendMode(%d).String() = %q, want %q", int32(tt.mode), got, tt.want)
		}
	}
}

func TestBlendMode_Selectors(t *testing.T) {
	if BlendRaw != 0 || BlendReplace != 1 || BlendMultiply != 2 {
		t.Errorf("selectors = (%d, %d, %d), want (0, 1, 2)", BlendRaw, BlendReplace, BlendMultiply)
	}
}

func TestBlendMode_Resolve(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want BlendMode
	}{
		{BlendRaw, BlendRaw},
		{BlendReplace, BlendReplace},
		{BlendMultiply, BlendMultiply},
		{BlendMode(3), BlendRaw},
		{BlendMode(99), BlendRaw},
		{BlendMode(-7), BlendRaw},
	}
	for _, tt := range tests {
		if got := tt.mode.Resolve(); got != tt.want {
			t.Errorf("%v.Resolve() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestBlendMode_Next(t *testing.T) {
	m := BlendRaw
	want := []BlendMode{BlendReplace, BlendMultiply, BlendRaw, BlendReplace}
	for i, w := range want {
		m = m.Next()
		if m != w {
			t.Fatalf("step %d: Next() = %v, want %v", i, m, w)
		}
	}
	if got := BlendMode(42).Next(); got != BlendReplace {
		t.Errorf("BlendMode(42).Next() = %v, want replace", got)
	}
}

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in      string
		want    BlendMode
		wantErr bool
	}{
		{"raw", BlendRaw, false},
		{"Replace", BlendReplace, false},
		{" MULTIPLY ", BlendMultiply, false},
		{"lit", BlendMultiply, false},
		{"2", BlendMultiply, false},
		{"99", BlendMode(99), false},
		{"shiny", BlendRaw, true},
		{"", BlendRaw, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBlendMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBlendMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownBlendMode) {
				t.Errorf("error %v does not wrap ErrUnknownBlendMode", err)
			}
			if got != tt.want {
				t.Errorf("ParseBlendMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBlendMode_TextRoundTrip(t *testing.T) {
	for _, m := range []BlendMode{BlendRaw, BlendReplace, BlendMultiply, BlendMode(99)} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", m, err)
		}
		var got BlendMode
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if got != m {
			t.Errorf("round trip of %v = %v", m, got)
		}
	}
}
