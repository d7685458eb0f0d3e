package core

import "testing"

func TestFormatIntBases(t *testing.T) {
	cases := []struct {
		v      int64
		format NumberFormat
		want   string
	}{
		{90, FormatDecimal, "90"},
		{-90, FormatDecimal, "-90"},
		{255, FormatHexadecimal, "0xff"},
		{-255, FormatHexadecimal, "-0xff"},
		{5, FormatBinary, "101"},
		{8, FormatOctal, "10"},
	}
	for _, c := range cases {
		got := FormatInt(c.v, c.format)
		if got != c.want {
			t.Errorf("FormatInt(%d, %v) = %q, want %q", c.v, c.format, got, c.want)
		}
	}
}

func TestParseIntAcceptsHexAndSign(t *testing.T) {
	v, ok := ParseInt("0x1F")
	if !ok || v != 31 {
		t.Errorf("expected 31, got %d ok=%v", v, ok)
	}
	v, ok = ParseInt("-42")
	if !ok || v != -42 {
		t.Errorf("expected -42, got %d ok=%v", v, ok)
	}
	if _, ok := ParseInt("notanumber"); ok {
		t.Error("expected parse failure for non-numeric text")
	}
}

func TestFormatFloatTrimsTrailingZeros(t *testing.T) {
	if got := FormatFloat(1.5000); got != "1.5" {
		t.Errorf("expected trimmed %q, got %q", "1.5", got)
	}
	if got := FormatFloat(2.0); got != "2" {
		t.Errorf("expected the decimal point dropped for a whole number, got %q", got)
	}
}

func TestCVarAsIntConvertsAcrossTypes(t *testing.T) {
	r := NewCVarRegistry(false, false, nil)
	cv, _ := r.RegisterBool("flag", "", true, 0)
	v, ok := cv.AsInt()
	if !ok || v != 1 {
		t.Errorf("expected bool-to-int conversion to yield 1, got %d ok=%v", v, ok)
	}
}

func TestCVarAsStringRendersEnumName(t *testing.T) {
	r := NewCVarRegistry(false, false, nil)
	cv, _ := r.RegisterEnum("difficulty", "", 1, 0, []EnumConstant{{"easy", 0}, {"normal", 1}, {"hard", 2}})
	if got := cv.AsString(r.BoolStrings()); got != "normal" {
		t.Errorf("expected enum name %q, got %q", "normal", got)
	}
}
