// Package measure parses unit-suffixed measurement strings ("20mm",
// "14pt", "1in") into normalized physical lengths. Lengths are stored
// in EMU (English Metric Units, 914400 per inch), the unit OOXML uses
// for drawing extents; accessors convert to twips and points, the
// units used by page margins and font sizes respectively.
package measure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Length is a physical length in EMU.
type Length int64

// EMU conversion factors.
const (
	EMUPerInch  = 914400
	EMUPerPoint = 12700
	EMUPerMm    = 36000
	EMUPerCm    = 360000
	EMUPerTwip  = 635
)

// ErrBadMeasurement is returned when a measurement string cannot be parsed.
var ErrBadMeasurement = errors.New("invalid measurement")

// EMU returns the length in English Metric Units.
func (l Length) EMU() int64 { return int64(l) }

// Twips returns the length in twentieths of a point, the unit used by
// w:pgMar and paragraph spacing attributes.
func (l Length) Twips() int { return int(int64(l) / EMUPerTwip) }

// Points returns the length in typographic points.
func (l Length) Points() float64 { return float64(l) / EMUPerPoint }

// Millimeters returns the length in millimeters.
func (l Length) Millimeters() float64 { return float64(l) / EMUPerMm }

// FromPoints builds a Length from a point value.
func FromPoints(pt float64) Length { return Length(pt * EMUPerPoint) }

// FromMm builds a Length from a millimeter value.
func FromMm(mm float64) Length { return Length(mm * EMUPerMm) }

// Parse converts a measurement string into a Length. Recognized
// suffixes are mm, cm, pt, in and a trailing double quote for inches.
// A bare number is interpreted as points.
func Parse(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("%w: empty string", ErrBadMeasurement)
	}

	unit := EMUPerPoint * 1.0

	switch {
	case strings.HasSuffix(v, "mm"):
		v = v[:len(v)-2]
		unit = EMUPerMm
	case strings.HasSuffix(v, "cm"):
		v = v[:len(v)-2]
		unit = EMUPerCm
	case strings.HasSuffix(v, "pt"):
		v = v[:len(v)-2]
	case strings.HasSuffix(v, "in"):
		v = v[:len(v)-2]
		unit = EMUPerInch
	case strings.HasSuffix(v, `"`):
		v = v[:len(v)-1]
		unit = EMUPerInch
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadMeasurement, value)
	}

	return Length(n * unit), nil
}

// ParseFontSize converts a font size string into points. Recognized
// suffixes are pt, px (approximated at 0.75 pt per px) and mm. A bare
// number is interpreted as points.
func ParseFontSize(value string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return 0, fmt.Errorf("%w: empty string", ErrBadMeasurement)
	}

	factor := 1.0

	switch {
	case strings.HasSuffix(v, "pt"):
		v = v[:len(v)-2]
	case strings.HasSuffix(v, "px"):
		v = v[:len(v)-2]
		factor = 0.75
	case strings.HasSuffix(v, "mm"):
		v = v[:len(v)-2]
		factor = float64(EMUPerMm) / EMUPerPoint
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadMeasurement, value)
	}

	return n * factor, nil
}
