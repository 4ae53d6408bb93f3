package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed roll expression ready to be evaluated.
//
// Three forms are supported:
//   - dice:     "d20", "2d6", "1d20+9", "4d8-2"
//   - range:    "180-300" (uniform integer in [180, 300])
//   - constant: "25"
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice; 0 for range and constant forms
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative); the value of a constant
	Lo, Hi   int    // inclusive bounds of a range form
	isRange  bool
}

// IsRange reports whether e is a "lo-hi" uniform range.
func (e Expression) IsRange() bool { return e.isRange }

// Bounds returns the smallest and largest totals e can produce.
//
// Postcondition: lo <= hi.
func (e Expression) Bounds() (lo, hi int) {
	switch {
	case e.isRange:
		return e.Lo, e.Hi
	case e.Count == 0:
		return e.Modifier, e.Modifier
	default:
		return e.Count + e.Modifier, e.Count*e.Sides + e.Modifier
	}
}

// Parse parses a roll expression string into an Expression.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a usable Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return parseScalar(expr, s)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// parseScalar handles the range and constant forms.
func parseScalar(raw, s string) (Expression, error) {
	// A leading '-' belongs to a negative constant, not a range separator.
	if i := strings.Index(s[1:], "-"); i >= 0 {
		loStr, hiStr := s[:i+1], s[i+2:]
		lo, err := strconv.Atoi(loStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid range start in %q: %w", raw, err)
		}
		hi, err := strconv.Atoi(hiStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid range end in %q: %w", raw, err)
		}
		if lo > hi {
			return Expression{}, fmt.Errorf("dice: range start %d exceeds end %d in %q", lo, hi, raw)
		}
		return Expression{Raw: raw, Lo: lo, Hi: hi, isRange: true}, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}
	return Expression{Raw: raw, Modifier: n}, nil
}

// MustParse parses expr and panics on error. Useful for package-level tables.
//
// Precondition: expr must be a valid expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: lo <= result.Total() <= hi where lo, hi = expr.Bounds().
func Roll(expr Expression, src Source) RollResult {
	switch {
	case expr.isRange:
		return RollResult{Expression: expr.Raw, Dice: []int{Between(src, expr.Lo, expr.Hi)}}
	case expr.Count == 0:
		return RollResult{Expression: expr.Raw, Modifier: expr.Modifier}
	}
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}
