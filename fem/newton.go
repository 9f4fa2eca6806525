// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/vec3"
)

// IterRecord is one entry of a solver's convergence history.
type IterRecord struct {
	Iter     int
	Residual float64
	Energy   float64
	Damping  float64
	MaxDof   float64
}

// SolveResult is the outcome of one Newton or Dynamic Relaxation call.
type SolveResult struct {
	U           []float64
	Converged   bool
	Iterations  int
	GradInf     float64
	Energy      float64
	Solver      string // "newton" | "dynamic_relaxation"
	History     []IterRecord
	State       *State
	Reason      string
}

const (
	lineSearchSlack = 1e-6 // energy-monotone acceptance slack for the line search
	tinyPivot       = 1e-12
)

// NewtonOptions configures the damped Newton driver.
type NewtonOptions struct {
	Tol          float64
	MaxIter      int
	StepCapM     float64 // 0 disables the trust region
	LambdaInit   float64
	LambdaFloor  float64
	LambdaDecay  float64
}

// DefaultNewtonOptions returns the documented defaults, raising the
// damping floor for sail problems: membrane tangents are much stiffer
// and more prone to oscillation near a wrinkling transition, so Newton
// needs a higher starting damping that decays slowly.
func DefaultNewtonOptions(tol float64, maxIter int, stepCapM float64, hasMembranes bool) NewtonOptions {
	o := NewtonOptions{Tol: tol, MaxIter: maxIter, StepCapM: stepCapM, LambdaInit: 1e-6, LambdaFloor: 1e-8, LambdaDecay: 1.0}
	if hasMembranes {
		o.LambdaFloor = 10.0
		o.LambdaDecay = 0.98
	}
	return o
}

// Newton runs the damped Newton driver from u0, returning the best
// displacement found and its convergence history.
func Newton(model *Model, u0 []float64, opt NewtonOptions) (*SolveResult, error) {
	u := append([]float64(nil), u0...)
	lambda := opt.LambdaInit
	var bestU []float64
	bestGradInf := math.MaxFloat64
	var bestState *State
	history := make([]IterRecord, 0, opt.MaxIter)
	accepted := 0

	for iter := 0; iter < opt.MaxIter; iter++ {
		st, err := Assemble(model, u, model.AppliedForces, false)
		if err != nil {
			return &SolveResult{U: u, Converged: false, Iterations: iter, Solver: "newton",
				History: history, State: st, Reason: "numerical_explosion"}, err
		}
		gInf := st.GradInf()
		history = append(history, IterRecord{Iter: iter, Residual: gInf, Energy: st.Energy, Damping: lambda, MaxDof: vec3.VecNormInf(u)})
		if gInf < bestGradInf {
			bestGradInf = gInf
			bestU = append([]float64(nil), u...)
			bestState = st
		}
		if gInf < opt.Tol {
			return &SolveResult{U: u, Converged: true, Iterations: iter, GradInf: gInf, Energy: st.Energy,
				Solver: "newton", History: history, State: st}, nil
		}

		neg := make([]float64, len(st.Gradient))
		for i, g := range st.Gradient {
			neg[i] = -g
		}

		var du []float64
		solved := false
		for tries := 0; tries < 9; tries++ {
			Klam := addDiag(st.Tangent, lambda)
			x, ok := vec3.LUSolve(Klam, neg, tinyPivot)
			if ok {
				du = x
				solved = true
				break
			}
			lambda *= 10
			if lambda > 1e8 {
				break
			}
		}
		if !solved {
			if bestU == nil {
				bestU = u
			}
			return &SolveResult{U: bestU, Converged: false, Iterations: iter, GradInf: bestGradInf,
				Solver: "newton", History: history, State: bestState, Reason: "singular_tangent"}, chk.Err("newton: singular tangent after damping escalation")
		}

		if opt.StepCapM > 0 {
			if m := vec3.VecNormInf(du); m > opt.StepCapM {
				scale := opt.StepCapM / m
				for i := range du {
					du[i] *= scale
				}
			}
		}

		ok, newU := lineSearch(model, u, du, st.Energy)
		if ok {
			u = newU
			accepted++
			floor := opt.LambdaFloor * math.Pow(opt.LambdaDecay, float64(accepted))
			lambda *= 0.5
			if lambda < floor {
				lambda = floor
			}
			continue
		}

		lambda *= 4
		alphaSD := cauchyStep(st)
		ok, newU = backtrack(model, u, st.Gradient, alphaSD, st.Energy, 18)
		if ok {
			u = newU
			accepted++
		}
	}

	if bestU == nil {
		bestU = u
	}
	return &SolveResult{U: bestU, Converged: false, Iterations: opt.MaxIter, GradInf: bestGradInf,
		Solver: "newton", History: history, State: bestState, Reason: "max_iterations"}, nil
}

// addDiag returns a fresh copy of K with lambda added to every diagonal
// entry (LUSolve clones its input anyway, but this keeps the damped
// matrix an explicit, inspectable value at each retry).
func addDiag(K vec3.Mat, lambda float64) vec3.Mat {
	n := len(K)
	out := vec3.NewMat(n, n)
	for i := 0; i < n; i++ {
		copy(out[i], K[i])
		out[i][i] += lambda
	}
	return out
}

// lineSearch halves alpha up to 10 times, accepting the first
// energy-monotone step.
func lineSearch(model *Model, u, du []float64, baseEnergy float64) (bool, []float64) {
	alpha := 1.0
	for i := 0; i < 10; i++ {
		trial := stepBy(u, du, alpha)
		st, err := Assemble(model, trial, model.AppliedForces, true)
		if err == nil && st.Energy <= baseEnergy+lineSearchSlack {
			return true, trial
		}
		alpha *= 0.5
	}
	return false, nil
}

// cauchyStep computes the steepest-descent (Cauchy) step length.
func cauchyStep(st *State) float64 {
	if st.Tangent == nil {
		return 1e-2 / math.Max(st.GradInf(), 1e-300)
	}
	Kg := make([]float64, len(st.Gradient))
	for i := range Kg {
		row := st.Tangent[i]
		s := 0.0
		for j, v := range row {
			s += v * st.Gradient[j]
		}
		Kg[i] = s
	}
	denom := vec3.VecDot(st.Gradient, Kg)
	num := vec3.VecDot(st.Gradient, st.Gradient)
	if denom > 0 {
		return num / denom
	}
	return 1e-2 / math.Max(st.GradInf(), 1e-300)
}

// backtrack tries a steepest-descent step u - alpha*g, halving alpha on
// failure.
func backtrack(model *Model, u, grad []float64, alpha, baseEnergy float64, maxTries int) (bool, []float64) {
	neg := make([]float64, len(grad))
	for i, g := range grad {
		neg[i] = -g
	}
	for i := 0; i < maxTries; i++ {
		trial := stepBy(u, neg, alpha)
		st, err := Assemble(model, trial, model.AppliedForces, true)
		if err == nil && st.Energy <= baseEnergy+lineSearchSlack {
			return true, trial
		}
		alpha *= 0.5
	}
	return false, nil
}

func stepBy(u, du []float64, alpha float64) []float64 {
	out := make([]float64, len(u))
	for i := range u {
		out[i] = u[i] + alpha*du[i]
	}
	return out
}
