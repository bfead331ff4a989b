// Package util holds the value formatters the flow driver prints result
// summaries with.
package util

import (
	"fmt"
	"math"
)

var siPrefixes = []struct {
	factor float64
	prefix string
}{
	{1, ""},
	{1e-3, "m"},
	{1e-6, "u"},
	{1e-9, "n"},
	{1e-12, "p"},
	{1e-15, "f"},
}

// FormatValue renders a value with an SI prefix and unit: 2e-11 s -> "20.000 ps".
func FormatValue(value float64, unit string) string {
	abs := math.Abs(value)
	for _, si := range siPrefixes {
		if abs >= si.factor {
			return fmt.Sprintf("%.3f %s%s", value/si.factor, si.prefix, unit)
		}
	}
	return fmt.Sprintf("%.3e %s", value, unit)
}

// FormatFrequency renders a frequency with a fixed width for table output.
func FormatFrequency(freq float64) string {
	switch {
	case freq >= 1e9:
		return fmt.Sprintf("%7.3f GHz", freq/1e9)
	case freq >= 1e6:
		return fmt.Sprintf("%7.3f MHz", freq/1e6)
	case freq >= 1e3:
		return fmt.Sprintf("%7.3f kHz", freq/1e3)
	default:
		return fmt.Sprintf("%7.3f Hz ", freq)
	}
}
