package specfile

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const demoSpec = `
view_name: av_extracted
sim_envs: [tt, ff, ss]

routing_grid:
  layers: [4, 5, 6]
  spaces: [0.06, 0.1, 0.1]
  widths: [0.06, 0.1, 0.1]
  bot_dir: x

amp_sf:
  impl_lib: demo_amps
  layout_package: layouts.amp
  layout_class: AmpSF
  layout_params:
    lch: 90n
    nf: 4
  sch_lib: demo_templates
  sch_cell: amp_sf
  gen_cell: amp_sf_gen
  data_dir: demo_data
  testbenches:
    tb_dc:
      tb_lib: demo_testbenches
      tb_cell: amp_tb_dc
      sch_params: {vdd: 1.2}
      tb_params: {vimax: 1.2}
    tb_ac_tran:
      tb_lib: demo_testbenches
      tb_cell: amp_tb_ac_tran
      sch_params:
        tran_fname: tb_pwl.txt
      tb_params: {cload: 10f}
`

func TestParse(t *testing.T) {
	specs, err := Parse([]byte(demoSpec))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if specs.ViewName != "av_extracted" {
		t.Errorf("ViewName = %q, want av_extracted", specs.ViewName)
	}
	if len(specs.SimEnvs) != 3 {
		t.Errorf("SimEnvs = %v, want 3 entries", specs.SimEnvs)
	}
	if got := len(specs.RoutingGrid.Layers); got != 3 {
		t.Errorf("routing grid layers = %d, want 3", got)
	}

	dsn, err := specs.Design("amp_sf")
	if err != nil {
		t.Fatalf("Design(amp_sf) error: %v", err)
	}
	if dsn.GenCell != "amp_sf_gen" {
		t.Errorf("GenCell = %q, want amp_sf_gen", dsn.GenCell)
	}
	if len(dsn.Testbenches) != 2 {
		t.Fatalf("testbenches = %d, want 2", len(dsn.Testbenches))
	}
	if got := dsn.TbCellName("tb_dc"); got != "amp_sf_gen_tb_dc" {
		t.Errorf("TbCellName = %q, want amp_sf_gen_tb_dc", got)
	}
	if _, err := specs.Design("amp_other"); err == nil {
		t.Error("Design(amp_other) should fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(demoSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "grid length mismatch",
			yaml: "routing_grid: {layers: [4, 5], spaces: [0.1], widths: [0.1, 0.1], bot_dir: x}",
		},
		{
			name: "bad bot_dir",
			yaml: "routing_grid: {layers: [4], spaces: [0.1], widths: [0.1], bot_dir: z}",
		},
		{
			name: "missing impl_lib",
			yaml: `
routing_grid: {layers: [4], spaces: [0.1], widths: [0.1], bot_dir: x}
amp:
  gen_cell: amp_gen
`,
		},
		{
			name: "testbench missing cell",
			yaml: `
routing_grid: {layers: [4], spaces: [0.1], widths: [0.1], bot_dir: x}
amp:
  impl_lib: lib
  gen_cell: amp_gen
  testbenches:
    tb_dc: {tb_lib: tbs}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse() should fail for %s", tt.name)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"20p", 20e-12},
		{"800ps", 800e-12},
		{"10m", 10e-3},
		{"1meg", 1e6},
		{"2.5K", 2500},
		{"-3.3", -3.3},
		{"1e-9", 1e-9},
		{"4f", 4e-15},
	}

	for _, tt := range tests {
		got, err := ParseValue(tt.in)
		if err != nil {
			t.Errorf("ParseValue(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-18*math.Abs(tt.want)+1e-30 {
			t.Errorf("ParseValue(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "1x", "--3"} {
		if _, err := ParseValue(bad); err == nil {
			t.Errorf("ParseValue(%q) should fail", bad)
		}
	}
}

func TestScalar(t *testing.T) {
	if v, err := Scalar(3); err != nil || v != 3 {
		t.Errorf("Scalar(3) = %v, %v", v, err)
	}
	if v, err := Scalar(1.5); err != nil || v != 1.5 {
		t.Errorf("Scalar(1.5) = %v, %v", v, err)
	}
	if v, err := Scalar("20p"); err != nil || v != 20e-12 {
		t.Errorf("Scalar(20p) = %v, %v", v, err)
	}
	if _, err := Scalar([]int{1}); err == nil {
		t.Error("Scalar(slice) should fail")
	}
}
