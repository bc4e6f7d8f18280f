package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// LineStyle is a line dash pattern in its short form.
type LineStyle string

// Supported line styles.
const (
	Solid   LineStyle = "-"
	Dashed  LineStyle = "--"
	DashDot LineStyle = "-."
	Dotted  LineStyle = ":"
	NoLine  LineStyle = "None"
)

var lineStyleAliases = map[string]LineStyle{
	"-":       Solid,
	"solid":   Solid,
	"--":      Dashed,
	"dashed":  Dashed,
	"-.":      DashDot,
	"dashdot": DashDot,
	":":       Dotted,
	"dotted":  Dotted,
	"none":    NoLine,
	"":        NoLine,
	" ":       NoLine,
}

// ParseLineStyle normalizes a short or long line style name.
func ParseLineStyle(s string) (LineStyle, error) {
	key := s
	if strings.TrimSpace(s) != "" {
		key = strings.ToLower(strings.TrimSpace(s))
	}
	if ls, ok := lineStyleAliases[key]; ok {
		return ls, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidLineStyle, "unknown line style %q", s)
}

// Visible reports whether a line drawn with this style has any stroke.
func (ls LineStyle) Visible() bool { return ls != NoLine }

// Aspect is a panel aspect-ratio policy: "auto", "equal" or a positive
// y/x scale ratio.
type Aspect struct {
	name  string
	ratio float64
}

// Aspect policies.
var (
	AspectAuto  = Aspect{name: "auto"}
	AspectEqual = Aspect{name: "equal"}
)

// AspectRatio returns a numeric aspect policy.
func AspectRatio(r float64) (Aspect, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return Aspect{}, perrors.New(perrors.ErrCodeInvalidAspect, "aspect ratio must be a positive finite number, got %g", r)
	}
	return Aspect{ratio: r}, nil
}

// ParseAspect parses "auto", "equal" or a number.
func ParseAspect(v any) (Aspect, error) {
	switch a := v.(type) {
	case Aspect:
		return a, nil
	case string:
		switch strings.ToLower(a) {
		case "auto":
			return AspectAuto, nil
		case "equal":
			return AspectEqual, nil
		}
		return Aspect{}, perrors.New(perrors.ErrCodeInvalidAspect, "unknown aspect %q", a)
	case float64:
		return AspectRatio(a)
	case int:
		return AspectRatio(float64(a))
	}
	return Aspect{}, perrors.New(perrors.ErrCodeInvalidAspect, "unsupported aspect value %v", v)
}

// IsZero reports whether no policy is set.
func (a Aspect) IsZero() bool { return a.name == "" && a.ratio == 0 }

// Ratio returns the numeric y/x ratio. "equal" is 1; "auto" has none.
func (a Aspect) Ratio() (float64, bool) {
	switch {
	case a.ratio > 0:
		return a.ratio, true
	case a.name == "equal":
		return 1, true
	}
	return 0, false
}

// String returns the name or the ratio. The zero Aspect prints as "auto".
func (a Aspect) String() string {
	if a.name != "" {
		return a.name
	}
	if a.ratio > 0 {
		return strconv.FormatFloat(a.ratio, 'g', -1, 64)
	}
	return "auto"
}

// MarshalJSON writes the policy name as a string or the ratio as a number.
func (a Aspect) MarshalJSON() ([]byte, error) {
	if a.ratio > 0 {
		return json.Marshal(a.ratio)
	}
	if a.name == "" {
		return json.Marshal("auto")
	}
	return json.Marshal(a.name)
}

// UnmarshalJSON accepts a string policy or a number.
func (a *Aspect) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = Aspect{}
		return nil
	}
	parsed, err := ParseAspect(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
