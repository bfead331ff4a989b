package util

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{1.5, "V", "1.500 V"},
		{20e-12, "s", "20.000 ps"},
		{-0.01, "V", "-10.000 mV"},
		{4e-15, "F", "4.000 fF"},
		{1e-18, "s", "1.000e-18 s"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.unit); got != tt.want {
			t.Errorf("FormatValue(%g, %s) = %q, want %q", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		freq float64
		want string
	}{
		{1e9, "  1.000 GHz"},
		{2.5e6, "  2.500 MHz"},
		{1.59e5, "159.000 kHz"},
		{50, " 50.000 Hz "},
	}
	for _, tt := range tests {
		if got := FormatFrequency(tt.freq); got != tt.want {
			t.Errorf("FormatFrequency(%g) = %q, want %q", tt.freq, got, tt.want)
		}
	}
}
