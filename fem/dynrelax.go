// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/rigfem/vec3"
)

// DROptions configures the Dynamic Relaxation driver, the preferred
// solver whenever the model carries membranes since it only ever needs
// the gradient and never factorises the full tangent.
type DROptions struct {
	Tol              float64
	MaxIter          int
	Mass             float64 // uniform fictitious mass m_i, typically 10
	DtBase           float64
	MaxStepM         float64
	StabilityFactor  float64
	WarmupIters      int
	ViscousDamping   float64
	KineticBacktrack float64

	NaNShrink           float64
	NaNMaxRetries       int
	ResidualIncreaseTol float64
	ResidualIncreaseMax int
	ResidualSpikeFactor float64
}

// DefaultDROptions fills in the defaults not carried by the payload
// (residual-monitoring thresholds are internal tuning, not user-facing
// settings).
func DefaultDROptions(tol float64, maxIter int, mass, dtBase, maxStepM, stabilityFactor float64, warmupIters int, viscousDamping, kineticBacktrack float64) DROptions {
	return DROptions{
		Tol: tol, MaxIter: maxIter, Mass: mass, DtBase: dtBase, MaxStepM: maxStepM,
		StabilityFactor: stabilityFactor, WarmupIters: warmupIters,
		ViscousDamping: viscousDamping, KineticBacktrack: kineticBacktrack,
		NaNShrink: 0.5, NaNMaxRetries: 8,
		ResidualIncreaseTol: 0.0, ResidualIncreaseMax: 3, ResidualSpikeFactor: 3.0,
	}
}

// DRDiagnostics records termination bookkeeping: peak count, NaN count,
// force spikes, final health.
type DRDiagnostics struct {
	PeakCount       int
	NaNCount        int
	ForceSpikeCount int
	FinalHealth     float64
}

// DynamicRelaxation runs the explicit symplectic integrator with kinetic
// damping from u0.
func DynamicRelaxation(model *Model, u0 []float64, opt DROptions) (*SolveResult, *DRDiagnostics, error) {
	n := len(u0)
	u := append([]float64(nil), u0...)
	v := make([]float64, n)
	uPrev := append([]float64(nil), u...)

	dt := opt.DtBase
	firstStep := true
	history := make([]IterRecord, 0, opt.MaxIter)

	var bestU []float64
	bestGradInf := math.MaxFloat64
	var bestState *State

	diag := &DRDiagnostics{FinalHealth: 1.0}
	prevResidual := math.MaxFloat64
	prevMaxForce := 0.0
	healthRatio := 1.0
	residualStreak := 0
	healthStreak := 0
	nanRetries := 0

	for iter := 0; iter < opt.MaxIter; iter++ {
		st, err := Assemble(model, u, model.AppliedForces, true)
		finite := err == nil && checkFinite(st.Gradient) && !math.IsNaN(st.Energy) && !math.IsInf(st.Energy, 0)
		if !finite {
			diag.NaNCount++
			nanRetries++
			if nanRetries > opt.NaNMaxRetries {
				if bestU == nil {
					bestU = u
				}
				return &SolveResult{U: bestU, Converged: false, Iterations: iter, GradInf: bestGradInf,
					Solver: "dynamic_relaxation", History: history, State: bestState,
					Reason: "numerical_instability_nan"}, diag, nil
			}
			dt *= opt.NaNShrink
			u = append([]float64(nil), uPrev...)
			v = make([]float64, n)
			continue
		}
		nanRetries = 0

		gInf := st.GradInf()
		history = append(history, IterRecord{Iter: iter, Residual: gInf, Energy: st.Energy, Damping: dt, MaxDof: vec3.VecNormInf(u)})
		if gInf < bestGradInf {
			bestGradInf = gInf
			bestU = append([]float64(nil), u...)
			bestState = st
		}
		if gInf < opt.Tol {
			diag.FinalHealth = healthRatio
			return &SolveResult{U: u, Converged: true, Iterations: iter, GradInf: gInf, Energy: st.Energy,
				Solver: "dynamic_relaxation", History: history, State: st}, diag, nil
		}

		// step 1: adaptive dt stability cap from three criteria.
		// Global: bound the worst-case DOF step to MaxStepM using the
		// inf-norm residual.
		dtSafe := opt.StabilityFactor * math.Sqrt(opt.MaxStepM*opt.Mass/math.Max(gInf, 1e-12))

		// Per-DOF acceleration cap sqrt(2*MaxStepM*m/|g_i|). Since every
		// |g_i| <= gInf, this is never below the global bound above, so it
		// does not lower dtSafe.
		for i := range st.Gradient {
			gi := math.Abs(st.Gradient[i])
			if gi < 1e-12 {
				continue
			}
			dtDof := opt.StabilityFactor * math.Sqrt(2*opt.MaxStepM*opt.Mass/gi)
			if dtDof < dtSafe {
				dtSafe = dtDof
			}
		}

		// Displacement-implied stiffness: k_i = |g_i|/|u_i-u_i_prev|
		// estimates the local stiffness seen over the last accepted
		// step. Sail and cable elements stiffen sharply once taut, and
		// that onset shows up here well before the global residual
		// reflects it; m_i*omega_i^2 = k_i gives the matching critical
		// timestep.
		for i := range u {
			du := math.Abs(u[i] - uPrev[i])
			if du < 1e-10 {
				continue
			}
			k := math.Abs(st.Gradient[i]) / du
			if k < 1e-12 {
				continue
			}
			dtK := opt.StabilityFactor * math.Sqrt(opt.Mass/k)
			if dtK < dtSafe {
				dtSafe = dtK
			}
		}

		if firstStep {
			dt = math.Min(opt.DtBase, 0.5*dtSafe)
			firstStep = false
		} else if dt > dtSafe {
			dt = dtSafe
		}

		// step 2: symplectic Euler with viscous damping (heavier during warmup)
		visc := opt.ViscousDamping
		if iter < opt.WarmupIters {
			visc = math.Min(0.9, visc*2)
		}
		for i := range v {
			v[i] *= 1 - visc
			v[i] -= (st.Gradient[i] / opt.Mass) * dt
		}
		velCap := opt.MaxStepM / math.Max(dt, 1e-12)
		for i := range v {
			if math.Abs(v[i]) > velCap {
				v[i] = math.Copysign(velCap, v[i])
			}
		}

		newU := make([]float64, n)
		for i := range newU {
			du := v[i] * dt
			if math.Abs(du) > opt.MaxStepM {
				du = math.Copysign(opt.MaxStepM, du)
				v[i] = du / dt
			}
			newU[i] = u[i] + du
		}
		for i, x := range newU {
			if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) > 50 {
				newU[i] = u[i]
				v[i] = 0
			}
		}

		power := -vec3.VecDot(st.Gradient, v)
		prevU := u
		u = newU
		if power < 0 && iter > 5 {
			diag.PeakCount++
			for i := range u {
				u[i] = u[i] - opt.KineticBacktrack*(u[i]-prevU[i])
			}
			v = make([]float64, n)
			dt *= 0.5
		}
		uPrev = prevU

		// step 4: residual monitoring
		if gInf > prevResidual*(1+opt.ResidualIncreaseTol) {
			residualStreak++
		} else {
			residualStreak = 0
		}
		spike := prevResidual < math.MaxFloat64 && gInf > prevResidual*opt.ResidualSpikeFactor
		if residualStreak >= opt.ResidualIncreaseMax || spike {
			u = append([]float64(nil), uPrev...)
			v = make([]float64, n)
			dt *= 0.5
			residualStreak = 0
		}

		// step 5: force-spike and smoothed health checks
		if prevMaxForce > 0 && st.MaxElementForce/prevMaxForce >= 100 {
			dt *= 0.5
			diag.ForceSpikeCount++
		}
		prevMaxForce = st.MaxElementForce

		instHealth := 1.0
		if gInf > 1e-300 && prevResidual < math.MaxFloat64 {
			instHealth = math.Min(1.5, prevResidual/gInf)
		}
		healthRatio = 0.8*healthRatio + 0.2*instHealth
		switch {
		case healthRatio < 0.7:
			dt *= 0.25
			healthStreak++
		case healthRatio < 0.9 && iter >= opt.WarmupIters:
			dt *= 0.75
			healthStreak++
		default:
			healthStreak = 0
		}
		if healthStreak >= 3 {
			u = append([]float64(nil), uPrev...)
			v = make([]float64, n)
			dt *= 0.5
			healthStreak = 0
		}

		prevResidual = gInf
	}

	diag.FinalHealth = healthRatio
	if bestU == nil {
		bestU = u
	}
	return &SolveResult{U: bestU, Converged: false, Iterations: opt.MaxIter, GradInf: bestGradInf,
		Solver: "dynamic_relaxation", History: history, State: bestState, Reason: "max_iterations"}, diag, nil
}
