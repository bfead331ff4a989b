// Package protocol defines the JSON messages exchanged with the EDA daemon.
package protocol

import (
	"anaflow/pkg/result"
	"anaflow/pkg/specfile"
)

// LayoutRequest asks the layout engine to synthesize a cell from a template.
type LayoutRequest struct {
	ImplLib string               `json:"impl_lib"`
	Package string               `json:"layout_package"`
	Class   string               `json:"layout_class"`
	GenCell string               `json:"gen_cell"`
	Grid    specfile.RoutingGrid `json:"routing_grid"`
	Params  map[string]any       `json:"params"`
}

// LayoutResponse returns the schematic parameters derived from the finished
// layout.
type LayoutResponse struct {
	SchParams map[string]any `json:"sch_params"`
}

// SchematicRequest asks the schematic generator to elaborate a template cell
// and implement it under a new top cell name.
type SchematicRequest struct {
	SchLib  string         `json:"sch_lib"`
	SchCell string         `json:"sch_cell"`
	ImplLib string         `json:"impl_lib"`
	TopCell string         `json:"top_cell"`
	Erase   bool           `json:"erase"`
	Params  map[string]any `json:"params"`
}

// LVSRequest runs layout-versus-schematic on an implemented cell.
type LVSRequest struct {
	Lib  string `json:"lib"`
	Cell string `json:"cell"`
}

// LVSResponse carries the LVS verdict and the log file location.
type LVSResponse struct {
	Passed  bool   `json:"passed"`
	LogPath string `json:"log_path"`
}

// TestbenchConfig carries the full state of a testbench: parameter values,
// the simulation view of the DUT, and the process corners to simulate.
type TestbenchConfig struct {
	Lib      string             `json:"lib"`
	Cell     string             `json:"cell"`
	Params   map[string]float64 `json:"params"`
	ViewLib  string             `json:"view_lib"`
	ViewCell string             `json:"view_cell"`
	ViewName string             `json:"view_name"`
	Envs     []string           `json:"envs"`
}

// SimulateRequest runs a configured testbench. The call blocks until the
// simulation finishes.
type SimulateRequest struct {
	Lib  string `json:"lib"`
	Cell string `json:"cell"`
}

// SimulateResponse returns the simulation result vectors.
type SimulateResponse struct {
	Vectors map[string]result.Vector `json:"vectors"`
}

// ErrorResponse is the daemon's error envelope for non-200 statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
