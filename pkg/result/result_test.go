package result

import (
	"math"
	"path/filepath"
	"testing"
)

func demoTable() *Table {
	return &Table{
		Cell:      "amp_sf_gen",
		Testbench: "tb_ac_tran",
		Envs:      []string{"tt", "ff"},
		Vectors: map[string]Vector{
			"freq":      {Real: []float64{1e3, 1e4, 1e5}},
			"vout_ac":   FromComplex([]complex128{complex(100, 0), complex(70, -70), complex(1, -10)}),
			"time":      {Real: []float64{0, 1e-9, 2e-9}},
			"vout_tran": {Real: []float64{0.6, 0.59, 0.4}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tbl := demoTable()
	path := FilePath(filepath.Join(t.TempDir(), "demo_data"), tbl.Cell, tbl.Testbench)

	if filepath.Base(path) != "amp_sf_gen_tb_ac_tran.bson" {
		t.Errorf("FilePath base = %q", filepath.Base(path))
	}

	// Save creates the missing data directory.
	if err := Save(path, tbl); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got.Cell != tbl.Cell || got.Testbench != tbl.Testbench {
		t.Errorf("identity = %s/%s, want %s/%s", got.Cell, got.Testbench, tbl.Cell, tbl.Testbench)
	}
	if len(got.Envs) != 2 {
		t.Errorf("envs = %v", got.Envs)
	}
	if len(got.Vectors) != len(tbl.Vectors) {
		t.Fatalf("vectors = %d, want %d", len(got.Vectors), len(tbl.Vectors))
	}

	freq, err := got.Float("freq")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{1e3, 1e4, 1e5} {
		if freq[i] != want {
			t.Errorf("freq[%d] = %g, want %g", i, freq[i], want)
		}
	}

	ac, err := got.Complex("vout_ac")
	if err != nil {
		t.Fatal(err)
	}
	want := []complex128{complex(100, 0), complex(70, -70), complex(1, -10)}
	for i := range want {
		if ac[i] != want[i] {
			t.Errorf("vout_ac[%d] = %v, want %v", i, ac[i], want[i])
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.bson")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestVector(t *testing.T) {
	v := FromComplex([]complex128{complex(1, 2)})
	if !v.IsComplex() {
		t.Error("IsComplex() = false for complex vector")
	}
	if z := v.Complex()[0]; z != complex(1, 2) {
		t.Errorf("Complex() = %v", z)
	}

	r := Vector{Real: []float64{1, 2}}
	if r.IsComplex() {
		t.Error("IsComplex() = true for real vector")
	}
	if z := r.Complex()[1]; imag(z) != 0 || math.Abs(real(z)-2) > 0 {
		t.Errorf("Complex() = %v", z)
	}
}

func TestTableAccessors(t *testing.T) {
	tbl := demoTable()
	if !tbl.Has("freq", "vout_ac") {
		t.Error("Has(freq, vout_ac) = false")
	}
	if tbl.Has("freq", "vin") {
		t.Error("Has(vin) = true")
	}
	if _, err := tbl.Float("vin"); err == nil {
		t.Error("Float(vin) should fail")
	}
	if _, err := tbl.Complex("vin"); err == nil {
		t.Error("Complex(vin) should fail")
	}
}
