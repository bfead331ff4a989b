// Package render draws the comparison plots for the persisted simulation
// results: DC transfer and spline gain, AC magnitude/phase, and transient
// response. Plots are written as PNG files, one quantity per file.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"anaflow/pkg/postproc"
	"anaflow/pkg/result"
)

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func linePlot(title, xlabel, ylabel string, pts plotter.XYs, logX bool, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	if logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(plotter.NewGrid(), line)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// DCTransfer plots Vout vs Vin and the spline-derived small-signal gain.
// Samples are sorted by input voltage before fitting.
func DCTransfer(tbl *result.Table, dir, prefix string) error {
	vin, err := tbl.Float("vin")
	if err != nil {
		return err
	}
	vout, err := tbl.Float("vout")
	if err != nil {
		return err
	}

	idx := postproc.ArgSort(vin)
	vin = postproc.Reorder(vin, idx)
	vout = postproc.Reorder(vout, idx)

	s, err := postproc.FitSpline(vin, vout)
	if err != nil {
		return fmt.Errorf("fitting %s transfer curve: %v", prefix, err)
	}
	gain := postproc.Gain(s, vin)

	err = linePlot("Vout vs Vin", "Vin (V)", "Vout (V)",
		xys(vin, vout), false, filepath.Join(dir, prefix+"_vout_vin.png"))
	if err != nil {
		return err
	}
	return linePlot("Gain vs Vin", "Vin (V)", "Gain (V/V)",
		xys(vin, gain), false, filepath.Join(dir, prefix+"_gain_vin.png"))
}

// ACResponse plots magnitude in dB and phase in degrees over log frequency.
func ACResponse(tbl *result.Table, dir, prefix string) error {
	freq, err := tbl.Float("freq")
	if err != nil {
		return err
	}
	voutAC, err := tbl.Complex("vout_ac")
	if err != nil {
		return err
	}

	mag := postproc.MagnitudesDB(voutAC)
	phase := postproc.PhasesDeg(voutAC)

	err = linePlot("Magnitude vs Frequency", "Frequency (Hz)", "Magnitude (dB)",
		xys(freq, mag), true, filepath.Join(dir, prefix+"_mag_freq.png"))
	if err != nil {
		return err
	}
	return linePlot("Phase vs Frequency", "Frequency (Hz)", "Phase (Degrees)",
		xys(freq, phase), true, filepath.Join(dir, prefix+"_phase_freq.png"))
}

// Transient plots the output voltage over time.
func Transient(tbl *result.Table, dir, prefix string) error {
	tvec, err := tbl.Float("time")
	if err != nil {
		return err
	}
	voutTran, err := tbl.Float("vout_tran")
	if err != nil {
		return err
	}

	return linePlot("Vout vs Time", "Time (s)", "Vout (V)",
		xys(tvec, voutTran), false, filepath.Join(dir, prefix+"_vout_time.png"))
}

// RenderAll draws every plot a result table carries the vectors for,
// prefixing file names with the generated testbench cell name.
func RenderAll(results map[string]*result.Table, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tbl := results[name]
		prefix := fmt.Sprintf("%s_%s", tbl.Cell, tbl.Testbench)

		if tbl.Has("vin", "vout") {
			if err := DCTransfer(tbl, dir, prefix); err != nil {
				return err
			}
		}
		if tbl.Has("freq", "vout_ac") {
			if err := ACResponse(tbl, dir, prefix); err != nil {
				return err
			}
		}
		if tbl.Has("time", "vout_tran") {
			if err := Transient(tbl, dir, prefix); err != nil {
				return err
			}
		}
	}
	return nil
}
