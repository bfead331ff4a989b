// Package edatest is an in-process stand-in for the EDA daemon. It answers
// the flow's layout/schematic/LVS/simulation calls with canned behavior and
// synthesized amplifier data, so the client and the flow can run without the
// licensed toolchain.
package edatest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"

	"anaflow/pkg/eda/protocol"
	"anaflow/pkg/result"
	"anaflow/pkg/waveform"
)

// Amplifier model behind the synthesized results.
const (
	dcGain     = 100.0 // low frequency voltage gain
	outBias    = 0.6   // output operating point, V
	defaultFc  = 1e6   // pole frequency without a load cap, Hz
	defaultMax = 1.2   // vin sweep ceiling without a vimax parameter, V
)

// Server mocks the EDA daemon. The zero value passes LVS; set FailLVS to
// exercise the failure path.
type Server struct {
	FailLVS bool
	LVSLog  string

	mu        sync.Mutex
	schParams map[string]map[string]any
	tbConfigs map[string]protocol.TestbenchConfig
}

// NewServer returns a mock daemon with a clean database.
func NewServer() *Server {
	return &Server{
		LVSLog:    "lvs_run_dir/lvs.log",
		schParams: make(map[string]map[string]any),
		tbConfigs: make(map[string]protocol.TestbenchConfig),
	}
}

// Handler returns the daemon's HTTP interface.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.POST("/layout", s.layout)
	router.POST("/schematic", s.schematic)
	router.POST("/lvs", s.lvs)
	router.POST("/testbench/config", s.tbConfig)
	router.POST("/testbench/run", s.tbRun)
	return router
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(protocol.ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req protocol.LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad layout request: %v", err)
		return
	}
	if len(req.Grid.Layers) == 0 {
		writeError(w, http.StatusBadRequest, "layout %s: empty routing grid", req.GenCell)
		return
	}
	if req.Class == "" {
		writeError(w, http.StatusBadRequest, "layout %s: no template class", req.GenCell)
		return
	}

	// The real engine computes transistor geometry during layout; the mock
	// hands the layout parameters straight back as schematic parameters.
	sch := make(map[string]any, len(req.Params))
	for k, v := range req.Params {
		sch[k] = v
	}

	writeJSON(w, protocol.LayoutResponse{SchParams: sch})
}

func (s *Server) schematic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req protocol.SchematicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad schematic request: %v", err)
		return
	}
	if req.TopCell == "" {
		writeError(w, http.StatusBadRequest, "schematic %s/%s: no top cell", req.SchLib, req.SchCell)
		return
	}

	s.mu.Lock()
	s.schParams[req.TopCell] = req.Params
	s.mu.Unlock()

	writeJSON(w, struct{}{})
}

func (s *Server) lvs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req protocol.LVSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad lvs request: %v", err)
		return
	}
	writeJSON(w, protocol.LVSResponse{Passed: !s.FailLVS, LogPath: s.LVSLog})
}

func (s *Server) tbConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var cfg protocol.TestbenchConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad testbench config: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schParams[cfg.Cell]; !ok {
		writeError(w, http.StatusBadRequest, "testbench %s not implemented", cfg.Cell)
		return
	}
	s.tbConfigs[cfg.Cell] = cfg

	writeJSON(w, struct{}{})
}

func (s *Server) tbRun(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req protocol.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad simulate request: %v", err)
		return
	}

	s.mu.Lock()
	cfg, ok := s.tbConfigs[req.Cell]
	sch := s.schParams[req.Cell]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusBadRequest, "testbench %s not configured", req.Cell)
		return
	}
	if len(cfg.Envs) == 0 {
		writeError(w, http.StatusBadRequest, "testbench %s has no simulation environments", req.Cell)
		return
	}

	var vectors map[string]result.Vector
	if fname, ok := sch["tran_fname"].(string); ok {
		points, err := waveform.ReadFile(fname)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "testbench %s stimulus: %v", req.Cell, err)
			return
		}
		vectors = acTranData(cfg, points)
	} else {
		vectors = dcData(cfg)
	}

	writeJSON(w, protocol.SimulateResponse{Vectors: vectors})
}

// dcData sweeps the amplifier input and returns the transfer curve. Points
// come back interleaved, not in sweep order, the way a multi-corner run
// concatenates its sections.
func dcData(cfg protocol.TestbenchConfig) map[string]result.Vector {
	vimax := cfg.Params["vimax"]
	if vimax == 0 {
		vimax = defaultMax
	}

	const n = 41
	vin := make([]float64, 0, n)
	for i := 0; i < n; i += 2 {
		vin = append(vin, vimax*float64(i)/(n-1))
	}
	for i := 1; i < n; i += 2 {
		vin = append(vin, vimax*float64(i)/(n-1))
	}

	vout := make([]float64, len(vin))
	for i, v := range vin {
		vout[i] = outBias - 0.5*math.Tanh(4*(v-outBias))
	}

	return map[string]result.Vector{
		"vin":  {Real: vin},
		"vout": {Real: vout},
	}
}

// acTranData returns a one-pole AC response plus the transient response to
// the PWL stimulus.
func acTranData(cfg protocol.TestbenchConfig, stim []waveform.Point) map[string]result.Vector {
	fc := defaultFc
	if cl := cfg.Params["cload"]; cl > 0 {
		fc = 1 / (2 * math.Pi * 1e8 * cl)
	}

	// AC sweep, 10 points per decade from 1kHz to 1GHz.
	const perDecade = 10
	nFreq := 6*perDecade + 1
	freq := make([]float64, nFreq)
	voutAC := make([]complex128, nFreq)
	for i := range freq {
		f := math.Pow(10, 3+float64(i)/perDecade)
		freq[i] = f
		voutAC[i] = complex(dcGain, 0) / complex(1, f/fc)
	}

	// Transient: explicit one-pole step response to the inverted stimulus.
	tau := 1 / (2 * math.Pi * fc)
	const dt = 10e-12
	nTime := 201
	tvec := make([]float64, nTime)
	voutTran := make([]float64, nTime)
	y := 0.0
	for i := range tvec {
		t := float64(i) * dt
		tvec[i] = t
		voutTran[i] = outBias + y
		u := -dcGain * waveform.Value(stim, t)
		y += dt * (u - y) / tau
	}

	return map[string]result.Vector{
		"freq":      {Real: freq},
		"vout_ac":   result.FromComplex(voutAC),
		"time":      {Real: tvec},
		"vout_tran": {Real: voutTran},
	}
}
