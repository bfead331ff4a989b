// Package result holds simulation result tables and their persistence. Each
// testbench run produces one table of named numeric vectors, stored as a
// BSON document named after the generated testbench cell.
package result

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/mgo.v2/bson"
)

// Vector is one named result column. AC quantities carry an imaginary part.
type Vector struct {
	Real []float64 `bson:"real" json:"real"`
	Imag []float64 `bson:"imag,omitempty" json:"imag,omitempty"`
}

// FromComplex splits a complex vector into real/imag storage.
func FromComplex(vs []complex128) Vector {
	v := Vector{
		Real: make([]float64, len(vs)),
		Imag: make([]float64, len(vs)),
	}
	for i, z := range vs {
		v.Real[i] = real(z)
		v.Imag[i] = imag(z)
	}
	return v
}

// IsComplex reports whether the vector carries an imaginary part.
func (v Vector) IsComplex() bool { return len(v.Imag) > 0 }

// Complex reassembles the vector as complex samples.
func (v Vector) Complex() []complex128 {
	out := make([]complex128, len(v.Real))
	for i, re := range v.Real {
		im := 0.0
		if i < len(v.Imag) {
			im = v.Imag[i]
		}
		out[i] = complex(re, im)
	}
	return out
}

// Table is the result of one testbench simulation.
type Table struct {
	Cell      string            `bson:"cell" json:"cell"`
	Testbench string            `bson:"testbench" json:"testbench"`
	Envs      []string          `bson:"envs,omitempty" json:"envs,omitempty"`
	Vectors   map[string]Vector `bson:"vectors" json:"vectors"`
}

// Float returns a real-valued vector by name.
func (t *Table) Float(name string) ([]float64, error) {
	v, ok := t.Vectors[name]
	if !ok {
		return nil, fmt.Errorf("result %s/%s has no vector %q", t.Cell, t.Testbench, name)
	}
	return v.Real, nil
}

// Complex returns a complex-valued vector by name.
func (t *Table) Complex(name string) ([]complex128, error) {
	v, ok := t.Vectors[name]
	if !ok {
		return nil, fmt.Errorf("result %s/%s has no vector %q", t.Cell, t.Testbench, name)
	}
	return v.Complex(), nil
}

// Has reports whether every named vector is present.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := t.Vectors[n]; !ok {
			return false
		}
	}
	return true
}

// FilePath returns the persistence path of a testbench instance's results.
func FilePath(dataDir, genCell, tbName string) string {
	return filepath.Join(dataDir, fmt.Sprintf("%s_%s.bson", genCell, tbName))
}

// Save writes the table to path, creating missing directories.
func Save(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := bson.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding results %s/%s: %v", t.Cell, t.Testbench, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a table back from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	if err := bson.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decoding results %s: %v", path, err)
	}
	return t, nil
}
