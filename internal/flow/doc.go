// Package flow evaluates Darcy friction factors for pipe flow and builds the
// data behind a Moody diagram.
//
// The regime is chosen by Reynolds number alone (see [Classify]):
//
//	Re <= 2000         laminar       f = 64/Re
//	2000 < Re < 4000   transitional  f ~ N(mean, 0.2 mean)
//	Re >= 4000         turbulent     Colebrook, solved numerically
//
// where mean is the average of the laminar and Colebrook predictions.
//
// An [Evaluator] owns the random source used by the transitional branch and
// the root finder used for Colebrook. Seed it with [WithSeed] for
// reproducible results. Evaluators are not safe for concurrent use.
//
// [Evaluator.OperatingPoint] converts US customary pipe data (inches,
// micro-inches, gallons per minute) into Re, f and head loss per foot of pipe.
package flow
