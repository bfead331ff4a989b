// Package specfile reads the YAML flow specification that drives layout,
// schematic and simulation generation for a design.
package specfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoutingGrid holds the routing grid description passed to the layout engine.
type RoutingGrid struct {
	Layers []int     `yaml:"layers" json:"layers"`
	Spaces []float64 `yaml:"spaces" json:"spaces"`
	Widths []float64 `yaml:"widths" json:"widths"`
	BotDir string    `yaml:"bot_dir" json:"bot_dir"`
}

// Testbench describes one testbench instance of a design.
type Testbench struct {
	TbLib     string         `yaml:"tb_lib"`
	TbCell    string         `yaml:"tb_cell"`
	SchParams map[string]any `yaml:"sch_params"`
	TbParams  map[string]any `yaml:"tb_params"`
}

// Design holds the per-design generation parameters.
type Design struct {
	ImplLib       string               `yaml:"impl_lib"`
	LayoutPackage string               `yaml:"layout_package"`
	LayoutClass   string               `yaml:"layout_class"`
	LayoutParams  map[string]any       `yaml:"layout_params"`
	SchLib        string               `yaml:"sch_lib"`
	SchCell       string               `yaml:"sch_cell"`
	GenCell       string               `yaml:"gen_cell"`
	DataDir       string               `yaml:"data_dir"`
	Testbenches   map[string]Testbench `yaml:"testbenches"`
}

// Specs is the top level flow specification. Any key that is not one of the
// fixed fields is a design block.
type Specs struct {
	ViewName    string             `yaml:"view_name"`
	SimEnvs     []string           `yaml:"sim_envs"`
	RoutingGrid RoutingGrid        `yaml:"routing_grid"`
	Designs     map[string]*Design `yaml:",inline"`
}

// Load reads and validates a flow specification file.
func Load(path string) (*Specs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a flow specification from YAML bytes.
func Parse(data []byte) (*Specs, error) {
	specs := &Specs{}
	if err := yaml.Unmarshal(data, specs); err != nil {
		return nil, fmt.Errorf("parsing spec: %v", err)
	}
	if err := specs.validate(); err != nil {
		return nil, err
	}
	return specs, nil
}

func (s *Specs) validate() error {
	g := s.RoutingGrid
	if len(g.Layers) == 0 {
		return fmt.Errorf("routing_grid has no layers")
	}
	if len(g.Spaces) != len(g.Layers) || len(g.Widths) != len(g.Layers) {
		return fmt.Errorf("routing_grid layers/spaces/widths length mismatch: %d/%d/%d",
			len(g.Layers), len(g.Spaces), len(g.Widths))
	}
	if g.BotDir != "x" && g.BotDir != "y" {
		return fmt.Errorf("routing_grid bot_dir must be \"x\" or \"y\", got %q", g.BotDir)
	}
	for name, dsn := range s.Designs {
		if dsn.ImplLib == "" {
			return fmt.Errorf("design %s: impl_lib missing", name)
		}
		if dsn.GenCell == "" {
			return fmt.Errorf("design %s: gen_cell missing", name)
		}
		for tbName, tb := range dsn.Testbenches {
			if tb.TbLib == "" || tb.TbCell == "" {
				return fmt.Errorf("design %s: testbench %s missing tb_lib/tb_cell", name, tbName)
			}
		}
	}
	return nil
}

// Design looks up a design block by name.
func (s *Specs) Design(name string) (*Design, error) {
	dsn, ok := s.Designs[name]
	if !ok {
		return nil, fmt.Errorf("design %s not in spec", name)
	}
	return dsn, nil
}

// TbCellName returns the generated cell name of a testbench instance.
func (d *Design) TbCellName(tbName string) string {
	return fmt.Sprintf("%s_%s", d.GenCell, tbName)
}
