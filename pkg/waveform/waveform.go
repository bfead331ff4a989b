// Package waveform generates piecewise-linear stimulus files for transient
// testbenches.
package waveform

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Point is one time/amplitude sample of a PWL waveform.
type Point struct {
	Time float64
	Amp  float64
}

// Pulse describes a single differential pulse: delay, then a rise edge, a
// flat top of Width, and a fall edge. Fall defaults to Rise when zero.
type Pulse struct {
	Delay float64
	Width float64
	Rise  float64
	Fall  float64
	Amp   float64
}

// Points returns the five-point PWL sequence of the pulse. Amplitudes follow
// the pattern [-amp, -amp, +amp, +amp, -amp] and times are strictly
// increasing for positive edge/width parameters.
func (p Pulse) Points() []Point {
	fall := p.Fall
	if fall == 0 {
		fall = p.Rise
	}

	td, tr, tw := p.Delay, p.Rise, p.Width
	return []Point{
		{0, -p.Amp},
		{td, -p.Amp},
		{td + tr, p.Amp},
		{td + tr + tw, p.Amp},
		{td + tr + tw + fall, -p.Amp},
	}
}

// WriteFile writes the pulse as whitespace separated "time amplitude" lines,
// creating missing directories. Rewriting produces identical content.
func (p Pulse) WriteFile(fname string) error {
	return WriteFile(fname, p.Points())
}

// WriteFile writes PWL points as "time amplitude" lines with 4 significant
// digits, the format the simulator stimulus reader expects.
func WriteFile(fname string, points []Point) error {
	if dir := filepath.Dir(fname); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, pt := range points {
		fmt.Fprintf(w, "%.4g %.4g\n", pt.Time, pt.Amp)
	}
	return w.Flush()
}

// ReadFile reads a two-column PWL file back into points.
func ReadFile(fname string) ([]Point, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []Point
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid PWL line: %q", line)
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PWL time %q: %v", fields[0], err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PWL amplitude %q: %v", fields[1], err)
		}
		points = append(points, Point{t, y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// Value evaluates the PWL waveform at time t by linear interpolation,
// clamping to the first and last amplitudes outside the time span.
func Value(points []Point, t float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if t <= points[0].Time {
		return points[0].Amp
	}

	lastIdx := len(points) - 1
	if t >= points[lastIdx].Time {
		return points[lastIdx].Amp
	}

	for i := 1; i < len(points); i++ {
		if t <= points[i].Time {
			t1, t2 := points[i-1].Time, points[i].Time
			y1, y2 := points[i-1].Amp, points[i].Amp
			slope := (y2 - y1) / (t2 - t1)
			return y1 + slope*(t-t1)
		}
	}

	return points[lastIdx].Amp // Must not reach
}
