package flow

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/pipeflow/internal/solver"
)

const (
	// ColebrookSeed is the initial guess handed to the root finder.
	ColebrookSeed = 0.02

	// TransitionalSpread is the standard deviation of the transitional
	// sample as a fraction of its mean.
	TransitionalSpread = 0.2
)

type Evaluator struct {
	finder solver.RootFinder
	rng    *rand.Rand
	seed   int64
}

type Option func(*Evaluator)

func WithRootFinder(f solver.RootFinder) Option {
	return func(e *Evaluator) { e.finder = f }
}

func WithSeed(seed int64) Option {
	return func(e *Evaluator) {
		e.seed = seed
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand shares an existing random source. Seed reports 0 in that case.
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) {
		e.seed = 0
		e.rng = r
	}
}

// NewEvaluator returns an evaluator backed by a Newton root finder and a
// time-seeded random source unless options say otherwise.
func NewEvaluator(opts ...Option) *Evaluator {
	seed := time.Now().UnixNano()
	e := &Evaluator{
		finder: solver.NewNewton(),
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Seed() int64 { return e.seed }

// LaminarFactor returns 64/Re. Roughness plays no part.
func LaminarFactor(re float64) float64 {
	return 64 / re
}

// ColebrookResidual is 1/sqrt(f) + 2 log10(rr/3.7 + 2.51/(Re sqrt(f))) with
// |f| under the roots, so trial values of either sign stay defined.
func ColebrookResidual(f, re, rr float64) float64 {
	s := math.Sqrt(math.Abs(f))
	return 1/s + 2*math.Log10(rr/3.7+2.51/(re*s))
}

// Colebrook solves the Colebrook equation for f regardless of Re.
func (e *Evaluator) Colebrook(re, rr float64) (float64, error) {
	root, err := e.finder.Solve(func(f float64) float64 {
		return ColebrookResidual(f, re, rr)
	}, ColebrookSeed)
	if err != nil {
		return 0, fmt.Errorf("%w: re=%g rr=%g: %w", ErrNoConvergence, re, rr, err)
	}

	// The residual is even in f, so a negative root is the mirror of the
	// physical one.
	f := math.Abs(root)
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: re=%g rr=%g: degenerate root %g", ErrNoConvergence, re, rr, root)
	}
	return f, nil
}

// Evaluate returns the Darcy friction factor for the regime that re falls in.
// Transitional values are random draws; each call consumes the evaluator's
// random stream.
func (e *Evaluator) Evaluate(re, rr float64) (float64, error) {
	switch Classify(re) {
	case Laminar:
		return LaminarFactor(re), nil
	case Turbulent:
		return e.Colebrook(re, rr)
	}

	mean, err := e.TransitionalMean(re, rr)
	if err != nil {
		return 0, err
	}
	return mean + e.rng.NormFloat64()*TransitionalSpread*mean, nil
}

// TransitionalMean is the midpoint of the laminar and Colebrook predictions.
func (e *Evaluator) TransitionalMean(re, rr float64) (float64, error) {
	cb, err := e.Colebrook(re, rr)
	if err != nil {
		return 0, err
	}
	return (cb + LaminarFactor(re)) / 2, nil
}
