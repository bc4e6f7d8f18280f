package chart

import (
	"encoding/json"
	"math"
	"testing"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want [4]float64
	}{
		{"base letter", "r", [4]float64{1, 0, 0, 1}},
		{"base green", "g", [4]float64{0, 0.5, 0, 1}},
		{"cycle", "C0", [4]float64{0x1f / 255.0, 0x77 / 255.0, 0xb4 / 255.0, 1}},
		{"tab palette", "tab:orange", [4]float64{1, 0x7f / 255.0, 0x0e / 255.0, 1}},
		{"css name", "red", [4]float64{1, 0, 0, 1}},
		{"css name mixed case", "DarkBlue", [4]float64{0, 0, 0x8b / 255.0, 1}},
		{"long hex", "#00ff00", [4]float64{0, 1, 0, 1}},
		{"short hex", "#f00", [4]float64{1, 0, 0, 1}},
		{"hex with alpha", "#0000ff80", [4]float64{0, 0, 1, 0x80 / 255.0}},
		{"gray level", "0.25", [4]float64{0.25, 0.25, 0.25, 1}},
		{"none", "none", [4]float64{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Named(tt.spec).RGBA()
			if err != nil {
				t.Fatalf("RGBA(%q) error: %v", tt.spec, err)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("RGBA(%q) = %v, want %v", tt.spec, got, tt.want)
				}
			}
		})
	}
}

func TestColorRGBAInvalid(t *testing.T) {
	for _, c := range []Color{
		Named("notacolor"),
		Named("#12345"),
		Named("1.5"),
		Named(""),
		RGBA(1.2, 0, 0, 1),
		RGBA(math.NaN(), 0, 0, 1),
	} {
		if _, err := c.RGBA(); !perrors.Is(err, perrors.ErrCodeInvalidColor) {
			t.Errorf("RGBA(%v) error = %v, want INVALID_COLOR", c, err)
		}
	}
}

func TestColorJSONKeepsForm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"red"`, `"red"`},
		{`"#1f77b4"`, `"#1f77b4"`},
		{`"0.5"`, `"0.5"`},
		{`[1,0,0,1]`, `[1,0,0,1]`},
		{`[0.5,0.5,0.5]`, `[0.5,0.5,0.5,1]`},
		{`null`, `null`},
	}
	for _, tt := range tests {
		var c Color
		if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		out, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(out) != tt.want {
			t.Errorf("round trip %s = %s, want %s", tt.in, out, tt.want)
		}
	}
}

func TestColorUnmarshalInvalid(t *testing.T) {
	for _, in := range []string{`[1,2]`, `["a","b","c"]`, `true`, `{}`} {
		var c Color
		if err := json.Unmarshal([]byte(in), &c); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestColorEquivalent(t *testing.T) {
	if !Named("red").Equivalent(RGBA(1, 0, 0, 1)) {
		t.Error("red should be equivalent to (1, 0, 0, 1)")
	}
	if !Named("C1").Equivalent(Named("tab:orange")) {
		t.Error("C1 should be equivalent to tab:orange")
	}
	if Named("red").Equivalent(Named("blue")) {
		t.Error("red should not be equivalent to blue")
	}
	if Named("bogus").Equivalent(Named("bogus")) {
		t.Error("unresolvable colors are never equivalent")
	}
}

func TestCycleColor(t *testing.T) {
	if CycleColor(0).String() != "#1f77b4" {
		t.Errorf("CycleColor(0) = %s", CycleColor(0))
	}
	if CycleColor(10) != CycleColor(0) {
		t.Error("cycle should wrap after ten colors")
	}
}

func TestParseLineStyle(t *testing.T) {
	tests := []struct {
		in   string
		want LineStyle
	}{
		{"-", Solid},
		{"solid", Solid},
		{"--", Dashed},
		{"dashed", Dashed},
		{"-.", DashDot},
		{"dotted", Dotted},
		{"None", NoLine},
		{"", NoLine},
	}
	for _, tt := range tests {
		got, err := ParseLineStyle(tt.in)
		if err != nil {
			t.Fatalf("ParseLineStyle(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLineStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLineStyle("~~"); !perrors.Is(err, perrors.ErrCodeInvalidLineStyle) {
		t.Errorf("ParseLineStyle(~~) error = %v", err)
	}
}

func TestAspectJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Aspect
	}{
		{`"auto"`, AspectAuto},
		{`"equal"`, AspectEqual},
		{`2.5`, Aspect{ratio: 2.5}},
	}
	for _, tt := range tests {
		var a Aspect
		if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if a != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, a, tt.want)
		}
		out, _ := json.Marshal(a)
		if string(out) != tt.in {
			t.Errorf("Marshal = %s, want %s", out, tt.in)
		}
	}
	var a Aspect
	if err := json.Unmarshal([]byte(`"square"`), &a); !perrors.Is(err, perrors.ErrCodeInvalidAspect) {
		t.Errorf("Unmarshal(square) error = %v", err)
	}
	if _, err := AspectRatio(-1); err == nil {
		t.Error("negative ratio should fail")
	}
}
