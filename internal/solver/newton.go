package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoConvergence indicates the iteration budget ran out before the
	// residual and step fell below tolerance.
	ErrNoConvergence = errors.New("solver: root finder did not converge")

	// ErrBadFunction indicates the function returned NaN or Inf at the initial guess.
	ErrBadFunction = errors.New("solver: function not finite at initial guess")
)

type Func func(x float64) float64

// RootFinder solves fn(x) = 0 starting from x0.
type RootFinder interface {
	Solve(fn Func, x0 float64) (float64, error)
}

// Newton is a damped Newton-Raphson iteration with a central-difference
// derivative. A step that increases |fn| or lands on a non-finite value is
// halved until it does not. The iteration stops when the step is below XTol
// relative to x; the result is accepted only if |fn| <= Residual there.
type Newton struct {
	XTol     float64
	FTol     float64
	Residual float64
	MaxIter  int
	MaxHalf  int
}

func NewNewton() *Newton {
	return &Newton{
		XTol:     1.49012e-8,
		FTol:     1e-12,
		Residual: 1e-6,
		MaxIter:  100,
		MaxHalf:  40,
	}
}

func (n *Newton) Solve(fn Func, x0 float64) (float64, error) {
	x := x0
	g := fn(x)
	if !finite(g) {
		return math.NaN(), fmt.Errorf("%w: f(%g) = %g", ErrBadFunction, x0, g)
	}

	for iter := 0; iter < n.MaxIter; iter++ {
		if math.Abs(g) <= n.FTol {
			return x, nil
		}

		d := derivative(fn, x)
		if d == 0 || !finite(d) {
			return x, fmt.Errorf("%w: zero or undefined derivative at x=%g after %d iterations", ErrNoConvergence, x, iter)
		}

		step := g / d
		next := x - step
		gNext := fn(next)
		for k := 0; k < n.MaxHalf && (!finite(gNext) || math.Abs(gNext) > math.Abs(g)); k++ {
			step /= 2
			next = x - step
			gNext = fn(next)
		}
		if !finite(gNext) {
			return x, fmt.Errorf("%w: no finite step from x=%g", ErrNoConvergence, x)
		}

		x, g = next, gNext
		if math.Abs(step) <= n.XTol*(math.Abs(x)+n.XTol) {
			if math.Abs(g) > n.Residual {
				return x, fmt.Errorf("%w: stalled at x=%g with residual %g", ErrNoConvergence, x, g)
			}
			return x, nil
		}
	}

	return x, fmt.Errorf("%w: %d iterations, last x=%g residual=%g", ErrNoConvergence, n.MaxIter, x, g)
}

func derivative(fn Func, x float64) float64 {
	h := 1e-6 * math.Max(math.Abs(x), 1e-6)
	return (fn(x+h) - fn(x-h)) / (2 * h)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
