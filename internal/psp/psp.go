// Package psp decomposes dotted project structure codes such as
// "G.011803001.02.03" into their grouping keys.
package psp

import "strings"

// Unknown is the main project assigned to rows without an object code.
const Unknown = "Unbekannt"

// MainProjectLength is the prefix length that identifies a main project.
const MainProjectLength = 11

// MainProject returns the first MainProjectLength characters of code.
// Shorter codes are returned whole; a non-string or blank code yields Unknown.
func MainProject(code any) string {
	s, ok := asString(code)
	if !ok {
		return Unknown
	}
	r := []rune(s)
	if len(r) > MainProjectLength {
		r = r[:MainProjectLength]
	}
	return string(r)
}

// SegmentProject is the older derivation that joins the first two dot
// segments. It agrees with MainProject for well-formed codes and is only
// used to report codes where the two disagree.
func SegmentProject(code any) string {
	s, ok := asString(code)
	if !ok {
		return Unknown
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

// Consistent reports whether both derivations agree on code.
func Consistent(code string) bool {
	return MainProject(code) == SegmentProject(code)
}

// Area returns the third dot segment prefixed with ".", or "" when the
// code has fewer than three segments.
func Area(code string) string {
	parts := strings.Split(strings.TrimSpace(code), ".")
	if len(parts) < 3 || parts[2] == "" {
		return ""
	}
	return "." + parts[2]
}

func asString(code any) (string, bool) {
	var s string
	switch v := code.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return "", false
		}
		s = *v
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
