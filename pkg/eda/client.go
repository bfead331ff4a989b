// Package eda is a thin client for the external EDA daemon that performs
// layout synthesis, schematic elaboration, LVS and circuit simulation. All
// engineering happens on the daemon side; this package only moves requests
// and results.
package eda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"anaflow/pkg/eda/protocol"
	"anaflow/pkg/result"
)

// LVSError reports a failed layout-versus-schematic run. The log file on the
// daemon host holds the mismatch details.
type LVSError struct {
	Cell    string
	LogPath string
}

func (e *LVSError) Error() string {
	return fmt.Sprintf("LVS failed for %s, check log file: %s", e.Cell, e.LogPath)
}

// Client talks JSON over HTTP to one EDA daemon.
type Client struct {
	base string
	http *http.Client
}

// Dial returns a client for the daemon at addr. Requests have no timeout:
// layout and simulation calls block for as long as the tool runs.
func Dial(addr string) *Client {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{},
	}
}

func (c *Client) post(path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "encoding %s request", path)
	}

	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ereply protocol.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&ereply); err == nil && ereply.Error != "" {
			return errors.Errorf("daemon %s: %s", path, ereply.Error)
		}
		return errors.Errorf("daemon %s: status %s", path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s response", path)
	}
	return nil
}

// GenerateLayout synthesizes a cell layout and returns the schematic
// parameters the layout derived.
func (c *Client) GenerateLayout(req protocol.LayoutRequest) (map[string]any, error) {
	var reply protocol.LayoutResponse
	if err := c.post("/layout", req, &reply); err != nil {
		return nil, err
	}
	return reply.SchParams, nil
}

// ImplementSchematic elaborates a schematic template and implements it under
// the requested top cell name.
func (c *Client) ImplementSchematic(req protocol.SchematicRequest) error {
	return c.post("/schematic", req, nil)
}

// RunLVS checks an implemented cell. A clean run returns nil; a mismatch
// returns *LVSError carrying the daemon's log path.
func (c *Client) RunLVS(lib, cell string) error {
	var reply protocol.LVSResponse
	if err := c.post("/lvs", protocol.LVSRequest{Lib: lib, Cell: cell}, &reply); err != nil {
		return err
	}
	if !reply.Passed {
		return &LVSError{Cell: cell, LogPath: reply.LogPath}
	}
	return nil
}

// Testbench is a handle on one daemon-side testbench configuration. Setters
// accumulate state locally; Update pushes it to the daemon.
type Testbench struct {
	client *Client
	cfg    protocol.TestbenchConfig
}

// ConfigureTestbench opens a testbench handle for an implemented testbench
// cell.
func (c *Client) ConfigureTestbench(lib, cell string) *Testbench {
	return &Testbench{
		client: c,
		cfg: protocol.TestbenchConfig{
			Lib:    lib,
			Cell:   cell,
			Params: make(map[string]float64),
		},
	}
}

// SetParameter sets one simulation parameter.
func (tb *Testbench) SetParameter(name string, value float64) {
	tb.cfg.Params[name] = value
}

// SetSimulationView selects which view of the DUT the simulator netlists.
func (tb *Testbench) SetSimulationView(lib, cell, view string) {
	tb.cfg.ViewLib = lib
	tb.cfg.ViewCell = cell
	tb.cfg.ViewName = view
}

// SetSimulationEnvironments selects the process corners to simulate.
func (tb *Testbench) SetSimulationEnvironments(envs []string) {
	tb.cfg.Envs = envs
}

// Update pushes the accumulated configuration to the daemon.
func (tb *Testbench) Update() error {
	return tb.client.post("/testbench/config", tb.cfg, nil)
}

// Run executes the testbench and blocks until the daemon finishes, then
// returns the result vectors.
func (tb *Testbench) Run() (map[string]result.Vector, error) {
	var reply protocol.SimulateResponse
	req := protocol.SimulateRequest{Lib: tb.cfg.Lib, Cell: tb.cfg.Cell}
	if err := tb.client.post("/testbench/run", req, &reply); err != nil {
		return nil, err
	}
	return reply.Vectors, nil
}
