// Package solver provides the scalar root finder used by the friction-factor
// evaluation.
//
// Callers depend on the [RootFinder] interface; [Newton] is the default
// implementation. Failure to converge is reported as [ErrNoConvergence] and
// never replaced by a fallback value.
package solver
