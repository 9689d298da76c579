package measure_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aver1ch/formatingDocx/internal/measure"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantEMU int64
	}{
		{"20mm", 20 * measure.EMUPerMm},
		{"2cm", 2 * measure.EMUPerCm},
		{"14pt", 14 * measure.EMUPerPoint},
		{"1in", measure.EMUPerInch},
		{`0.5"`, measure.EMUPerInch / 2},
		{"12", 12 * measure.EMUPerPoint},
		{" 10MM ", 10 * measure.EMUPerMm},
	}

	for _, tt := range tests {
		got, err := measure.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}

		if got.EMU() != tt.wantEMU {
			t.Errorf("Parse(%q) = %d EMU, want %d", tt.in, got.EMU(), tt.wantEMU)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Margins are written to the document in twips; the parsed value
	// must survive the conversion exactly for whole-millimeter inputs.
	l, err := measure.Parse("20mm")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// 20mm = 720000 EMU = 1133 twips (integer division floors).
	if got := l.Twips(); got != 1133 {
		t.Errorf("Twips() = %d, want 1133", got)
	}

	if got := l.Millimeters(); got != 20 {
		t.Errorf("Millimeters() = %v, want 20", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "abc", "12xy", "mm", "..pt"} {
		if _, err := measure.Parse(in); !errors.Is(err, measure.ErrBadMeasurement) {
			t.Errorf("Parse(%q): want ErrBadMeasurement, got %v", in, err)
		}
	}
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"14pt", 14},
		{"12", 12},
		{"16px", 12},
		{"10px", 7.5},
	}

	for _, tt := range tests {
		got, err := measure.ParseFontSize(tt.in)
		if err != nil {
			t.Errorf("ParseFontSize(%q): %v", tt.in, err)
			continue
		}

		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseFontSize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := measure.ParseFontSize("big"); !errors.Is(err, measure.ErrBadMeasurement) {
		t.Errorf("ParseFontSize(big): want ErrBadMeasurement, got %v", err)
	}
}
