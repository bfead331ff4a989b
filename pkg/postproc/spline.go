// Package postproc turns raw simulation vectors into the quantities the
// plots show: sorted transfer curves, spline small-signal gain, and AC
// magnitude/phase.
package postproc

import (
	"fmt"
	"sort"

	"github.com/edp1096/sparse"
)

// Spline is a natural cubic interpolating spline. m holds the second
// derivative at each knot.
type Spline struct {
	x []float64
	y []float64
	m []float64
}

// FitSpline fits a natural cubic spline through (x, y). x must be strictly
// increasing with at least two points.
func FitSpline(x, y []float64) (*Spline, error) {
	n := len(x)
	if n < 2 {
		return nil, fmt.Errorf("spline needs at least 2 points, got %d", n)
	}
	if len(y) != n {
		return nil, fmt.Errorf("x/y length mismatch: %d/%d", n, len(y))
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("x not strictly increasing at %d: %g <= %g", i, x[i], x[i-1])
		}
	}

	s := &Spline{
		x: append([]float64(nil), x...),
		y: append([]float64(nil), y...),
		m: make([]float64, n),
	}
	if n == 2 {
		return s, nil // Linear, second derivatives stay zero
	}

	mvec, err := solveMoments(x, y)
	if err != nil {
		return nil, err
	}
	s.m = mvec
	return s, nil
}

// solveMoments solves the tridiagonal moment system of the natural spline.
func solveMoments(x, y []float64) ([]float64, error) {
	n := len(x)

	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}
	mat, err := sparse.Create(int64(n), config)
	if err != nil {
		return nil, fmt.Errorf("creating spline matrix: %v", err)
	}

	rhs := make([]float64, n+1) // 1-based indexing

	// Natural boundary: zero curvature at both ends.
	mat.GetElement(1, 1).Real += 1
	mat.GetElement(int64(n), int64(n)).Real += 1

	for i := 2; i < n; i++ {
		j := i - 1 // 0-based knot
		h0 := x[j] - x[j-1]
		h1 := x[j+1] - x[j]

		mat.GetElement(int64(i), int64(i-1)).Real += h0 / 6
		mat.GetElement(int64(i), int64(i)).Real += (h0 + h1) / 3
		mat.GetElement(int64(i), int64(i+1)).Real += h1 / 6
		rhs[i] = (y[j+1]-y[j])/h1 - (y[j]-y[j-1])/h0
	}

	if err := mat.Factor(); err != nil {
		return nil, fmt.Errorf("spline matrix factorization failed: %v", err)
	}
	sol, err := mat.Solve(rhs)
	if err != nil {
		return nil, fmt.Errorf("spline matrix solve failed: %v", err)
	}

	m := make([]float64, n)
	for j := range m {
		m[j] = sol[j+1]
	}
	return m, nil
}

// segment returns the knot interval index for t, clamped to the end
// intervals so out-of-range evaluation extrapolates the end polynomials.
func (s *Spline) segment(t float64) int {
	i := sort.SearchFloat64s(s.x, t)
	if i > 0 {
		i--
	}
	if i > len(s.x)-2 {
		i = len(s.x) - 2
	}
	return i
}

// At evaluates the spline at t.
func (s *Spline) At(t float64) float64 {
	i := s.segment(t)
	h := s.x[i+1] - s.x[i]
	a := s.x[i+1] - t
	b := t - s.x[i]

	return s.m[i]*a*a*a/(6*h) + s.m[i+1]*b*b*b/(6*h) +
		(s.y[i]/h-s.m[i]*h/6)*a + (s.y[i+1]/h-s.m[i+1]*h/6)*b
}

// Deriv evaluates the analytic first derivative of the spline at t.
func (s *Spline) Deriv(t float64) float64 {
	i := s.segment(t)
	h := s.x[i+1] - s.x[i]
	a := s.x[i+1] - t
	b := t - s.x[i]

	return -s.m[i]*a*a/(2*h) + s.m[i+1]*b*b/(2*h) +
		(s.y[i+1]-s.y[i])/h - (s.m[i+1]-s.m[i])*h/6
}

// Gain evaluates the spline derivative at every sample point. For a Vout(Vin)
// transfer curve this is the small-signal gain.
func Gain(s *Spline, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, t := range xs {
		out[i] = s.Deriv(t)
	}
	return out
}
