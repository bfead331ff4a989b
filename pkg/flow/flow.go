// Package flow sequences the design-automation pipeline: layout generation,
// schematic generation with optional LVS, testbench simulation with result
// persistence, and result reload. Every stage is a blocking call into the
// EDA daemon; the first error stops the pipeline.
package flow

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"anaflow/pkg/eda"
	"anaflow/pkg/eda/protocol"
	"anaflow/pkg/result"
	"anaflow/pkg/specfile"
	"anaflow/pkg/waveform"
)

// Default stimulus pulse, used when the spec does not override it.
const (
	defaultPulseDelay = 100e-12
	defaultPulseWidth = 800e-12
	defaultPulseRise  = 20e-12
	defaultPulseAmp   = 10e-3
)

// Flow drives one design through the pipeline.
type Flow struct {
	Client   *eda.Client
	Specs    *specfile.Specs
	Archiver *result.Archiver // optional result mirror

	dsnName string
	dsn     *specfile.Design
}

// New binds a client and spec to a design name.
func New(client *eda.Client, specs *specfile.Specs, dsnName string) (*Flow, error) {
	dsn, err := specs.Design(dsnName)
	if err != nil {
		return nil, err
	}
	return &Flow{Client: client, Specs: specs, dsnName: dsnName, dsn: dsn}, nil
}

// tbNames returns the design's testbench names in stable order.
func (f *Flow) tbNames() []string {
	names := make([]string, 0, len(f.dsn.Testbenches))
	for name := range f.dsn.Testbenches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateLayout synthesizes the cell layout and returns the schematic
// parameters the layout derived.
func (f *Flow) GenerateLayout() (map[string]any, error) {
	dsn := f.dsn

	log.Printf("computing %s layout", dsn.GenCell)
	schParams, err := f.Client.GenerateLayout(protocol.LayoutRequest{
		ImplLib: dsn.ImplLib,
		Package: dsn.LayoutPackage,
		Class:   dsn.LayoutClass,
		GenCell: dsn.GenCell,
		Grid:    f.Specs.RoutingGrid,
		Params:  dsn.LayoutParams,
	})
	if err != nil {
		return nil, err
	}
	log.Println("layout done")
	return schParams, nil
}

// GenerateSchematics implements the top level schematic, optionally checks
// LVS, then implements every testbench schematic, generating PWL stimulus
// files where a testbench asks for one.
func (f *Flow) GenerateSchematics(schParams map[string]any, checkLVS bool) error {
	dsn := f.dsn

	log.Printf("computing %s schematics", dsn.GenCell)
	err := f.Client.ImplementSchematic(protocol.SchematicRequest{
		SchLib:  dsn.SchLib,
		SchCell: dsn.SchCell,
		ImplLib: dsn.ImplLib,
		TopCell: dsn.GenCell,
		Erase:   true,
		Params:  schParams,
	})
	if err != nil {
		return err
	}

	if checkLVS {
		log.Println("running lvs")
		if err := f.Client.RunLVS(dsn.ImplLib, dsn.GenCell); err != nil {
			return err
		}
		log.Println("lvs passed")
	}

	for _, name := range f.tbNames() {
		info := dsn.Testbenches[name]
		tbCell := dsn.TbCellName(name)

		params := make(map[string]any, len(info.SchParams)+2)
		for k, v := range info.SchParams {
			params[k] = v
		}
		params["dut_lib"] = dsn.ImplLib
		params["dut_cell"] = dsn.GenCell

		if raw, ok := params["tran_fname"]; ok {
			fname, ok := raw.(string)
			if !ok {
				return fmt.Errorf("testbench %s: tran_fname is not a string: %v", name, raw)
			}
			fname, err := filepath.Abs(fname)
			if err != nil {
				return err
			}
			pulse, err := stimulusPulse(info.SchParams)
			if err != nil {
				return fmt.Errorf("testbench %s: %v", name, err)
			}
			if err := pulse.WriteFile(fname); err != nil {
				return fmt.Errorf("testbench %s stimulus: %v", name, err)
			}
			params["tran_fname"] = fname
		}

		log.Printf("computing %s schematics", tbCell)
		err := f.Client.ImplementSchematic(protocol.SchematicRequest{
			SchLib:  info.TbLib,
			SchCell: info.TbCell,
			ImplLib: dsn.ImplLib,
			TopCell: tbCell,
			Erase:   true,
			Params:  params,
		})
		if err != nil {
			return err
		}
	}

	log.Println("schematic done")
	return nil
}

// stimulusPulse builds the PWL pulse from optional spec overrides.
func stimulusPulse(schParams map[string]any) (waveform.Pulse, error) {
	pulse := waveform.Pulse{
		Delay: defaultPulseDelay,
		Width: defaultPulseWidth,
		Rise:  defaultPulseRise,
		Amp:   defaultPulseAmp,
	}

	overrides := []struct {
		key string
		dst *float64
	}{
		{"pwl_td", &pulse.Delay},
		{"pwl_tw", &pulse.Width},
		{"pwl_tr", &pulse.Rise},
		{"pwl_tf", &pulse.Fall},
		{"pwl_amp", &pulse.Amp},
	}
	for _, o := range overrides {
		raw, ok := schParams[o.key]
		if !ok {
			continue
		}
		v, err := specfile.Scalar(raw)
		if err != nil {
			return pulse, fmt.Errorf("%s: %v", o.key, err)
		}
		*o.dst = v
	}
	return pulse, nil
}

// Simulate configures and runs every testbench, persisting each result table
// under the design's data directory.
func (f *Flow) Simulate() (map[string]*result.Table, error) {
	dsn := f.dsn

	results := make(map[string]*result.Table, len(dsn.Testbenches))
	for _, name := range f.tbNames() {
		info := dsn.Testbenches[name]
		tbCell := dsn.TbCellName(name)

		log.Printf("setting up %s", tbCell)
		tb := f.Client.ConfigureTestbench(dsn.ImplLib, tbCell)
		for key, raw := range info.TbParams {
			val, err := specfile.Scalar(raw)
			if err != nil {
				return nil, fmt.Errorf("testbench %s parameter %s: %v", name, key, err)
			}
			tb.SetParameter(key, val)
		}
		tb.SetSimulationView(dsn.ImplLib, dsn.GenCell, f.Specs.ViewName)
		tb.SetSimulationEnvironments(f.Specs.SimEnvs)
		if err := tb.Update(); err != nil {
			return nil, err
		}

		log.Printf("running %s simulation", tbCell)
		vectors, err := tb.Run()
		if err != nil {
			return nil, err
		}
		log.Println("simulation done, saving results")

		table := &result.Table{
			Cell:      dsn.GenCell,
			Testbench: name,
			Envs:      f.Specs.SimEnvs,
			Vectors:   vectors,
		}
		path := result.FilePath(dsn.DataDir, dsn.GenCell, name)
		if err := result.Save(path, table); err != nil {
			return nil, err
		}
		if f.Archiver != nil {
			f.Archiver.Put(table)
		}
		results[name] = table
	}

	log.Println("all simulation done")
	return results, nil
}

// LoadResults reloads the persisted result tables of every testbench.
func (f *Flow) LoadResults() (map[string]*result.Table, error) {
	dsn := f.dsn

	results := make(map[string]*result.Table, len(dsn.Testbenches))
	for _, name := range f.tbNames() {
		path := result.FilePath(dsn.DataDir, dsn.GenCell, name)
		log.Printf("loading simulation data for %s", dsn.TbCellName(name))
		table, err := result.Load(path)
		if err != nil {
			return nil, err
		}
		results[name] = table
	}
	return results, nil
}
