package layout

import (
	"strconv"
	"strings"
)

// This file defines length parsing and page presets. The layout engine works
// in PDF points; report authors may write lengths in pt, mm, cm or in, which
// are normalized to pt on the way in.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// pagePresets maps page size names to {width, height} in points.
var pagePresets = map[string][2]float64{
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
}

// ParseLength parses a length literal and returns its value in points.
// A bare number is taken as points. Returns 0 when the literal is not a length.
func ParseLength(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	unit := ""
	for _, suffix := range []string{"mm", "cm", "in", "pt"} {
		if strings.HasSuffix(v, suffix) {
			unit = suffix
			break
		}
	}
	num := trimUnit(v)
	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "mm":
		return val * MmToPt
	case "cm":
		return val * 10 * MmToPt
	case "in":
		return val * 72
	case "pt", "":
		return val
	default:
		return val
	}
}

func trimUnit(value string) string {
	for _, suffix := range []string{"pt", "mm", "cm", "in"} {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}

// isLengthLiteral reports whether the raw token parses as a numeric length.
// Used when scanning margin parameters so unrelated keywords (eg "portrait")
// stop the value list instead of being swallowed as zero.
func isLengthLiteral(value string) bool {
	_, err := strconv.ParseFloat(trimUnit(strings.TrimSpace(value)), 64)
	return err == nil
}
