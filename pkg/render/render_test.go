package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"anaflow/pkg/result"
)

func dcTable() *result.Table {
	// Deliberately unsorted vin to exercise the argsort path.
	n := 21
	vin := make([]float64, 0, n)
	for i := 0; i < n; i += 2 {
		vin = append(vin, 1.2*float64(i)/float64(n-1))
	}
	for i := 1; i < n; i += 2 {
		vin = append(vin, 1.2*float64(i)/float64(n-1))
	}
	vout := make([]float64, len(vin))
	for i, v := range vin {
		vout[i] = 0.6 - 0.5*math.Tanh(4*(v-0.6))
	}
	return &result.Table{
		Cell:      "amp_sf_gen",
		Testbench: "tb_dc",
		Vectors: map[string]result.Vector{
			"vin":  {Real: vin},
			"vout": {Real: vout},
		},
	}
}

func acTranTable() *result.Table {
	n := 31
	freq := make([]float64, n)
	vac := make([]complex128, n)
	tvec := make([]float64, n)
	vtran := make([]float64, n)
	for i := 0; i < n; i++ {
		f := math.Pow(10, 3+float64(i)/5)
		freq[i] = f
		vac[i] = complex(100, 0) / complex(1, f/1e6)
		tvec[i] = float64(i) * 10e-12
		vtran[i] = 0.6 - 0.01*float64(i)
	}
	return &result.Table{
		Cell:      "amp_sf_gen",
		Testbench: "tb_ac_tran",
		Vectors: map[string]result.Vector{
			"freq":      {Real: freq},
			"vout_ac":   result.FromComplex(vac),
			"time":      {Real: tvec},
			"vout_tran": {Real: vtran},
		},
	}
}

func TestRenderAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	results := map[string]*result.Table{
		"tb_dc":      dcTable(),
		"tb_ac_tran": acTranTable(),
	}

	if err := RenderAll(results, dir); err != nil {
		t.Fatalf("RenderAll() error: %v", err)
	}

	want := []string{
		"amp_sf_gen_tb_dc_vout_vin.png",
		"amp_sf_gen_tb_dc_gain_vin.png",
		"amp_sf_gen_tb_ac_tran_mag_freq.png",
		"amp_sf_gen_tb_ac_tran_phase_freq.png",
		"amp_sf_gen_tb_ac_tran_vout_time.png",
	}
	for _, name := range want {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("plot %s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("plot %s is empty", name)
		}
	}
}

func TestDCTransferRequiresVectors(t *testing.T) {
	tbl := &result.Table{Cell: "amp", Testbench: "tb_dc", Vectors: map[string]result.Vector{}}
	if err := DCTransfer(tbl, t.TempDir(), "amp_tb_dc"); err == nil {
		t.Error("DCTransfer() without vectors should fail")
	}
}
