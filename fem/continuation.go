// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/rigfem/ele"
	"github.com/cpmech/rigfem/inp"
	"github.com/cpmech/rigfem/vec3"
)

// HistoryEntry is one continuation-step record.
type HistoryEntry struct {
	Phase              string
	Lambda             float64
	Converged          bool
	Iterations         int
	GradInf            float64
	Reason             string
	ConvergenceHistory []IterRecord
}

// StepState is the outcome of solveOneState: the built model/labels plus
// the absolute deformed positions, independent of any particular DOF map
// (so it survives the model being rebuilt at the next target).
type StepState struct {
	Model  *Model
	Labels *RigLabels
	Sails  *SailBuild
	Pos    []vec3.Vec3
	Result *SolveResult
}

// solveOneState builds a model at the target scales and solves it with a
// single solver call, or with segregated FSI when sails are present,
// loadScale is past the point the sail carries meaningful load, and
// useSegregatedFSI is on.
func solveOneState(p *inp.Payload, standingScale, halyardScale, loadScale float64, prevPos []vec3.Vec3, tol float64, maxIter int) (*StepState, error) {
	model, lbl := BuildRigModel(p, standingScale, halyardScale, loadScale)
	var sb *SailBuild
	if p.Sails != nil && p.Sails.Enabled {
		sb = AddSails(model, p, lbl, standingScale, halyardScale, loadScale)
	}
	model.BuildDofMap()

	hasMembranes := modelHasMembranes(model)

	u0 := initialU(model, prevPos)

	useFSI := sb != nil && p.SolverCfg.UseSegregatedFSI && loadScale > 0.05
	if useFSI {
		pos, res, err := segregatedFSI(model, model.Positions(u0), p, tol, maxIter, hasMembranes)
		return &StepState{Model: model, Labels: lbl, Sails: sb, Pos: pos, Result: res}, err
	}

	var res *SolveResult
	var err error
	if hasMembranes || p.SolverCfg.UseDynamicRelaxation {
		opt := DefaultDROptions(tol, p.SolverCfg.DRMaxIterations, 10.0, p.SolverCfg.DRTimeStep, p.SolverCfg.DRMaxStepM,
			p.SolverCfg.DRStabilityFactor, p.SolverCfg.DRWarmupIters, p.SolverCfg.DRViscousDamping, p.SolverCfg.DRKineticBacktrack)
		res, _, err = DynamicRelaxation(model, u0, opt)
	} else {
		opt := DefaultNewtonOptions(tol, maxIter, 0, false)
		res, err = Newton(model, u0, opt)
		if res != nil && res.Reason == "singular_tangent" {
			dopt := DefaultDROptions(tol, p.SolverCfg.DRMaxIterations, 10.0, p.SolverCfg.DRTimeStep, p.SolverCfg.DRMaxStepM,
				p.SolverCfg.DRStabilityFactor, p.SolverCfg.DRWarmupIters, p.SolverCfg.DRViscousDamping, p.SolverCfg.DRKineticBacktrack)
			res, _, err = DynamicRelaxation(model, u0, dopt)
		}
	}
	if res == nil {
		return nil, err
	}
	pos := model.Positions(res.U)
	return &StepState{Model: model, Labels: lbl, Sails: sb, Pos: pos, Result: res}, err
}

// modelHasMembranes reports whether the model carries any sail
// membranes, the trigger for preferring Dynamic Relaxation over Newton.
func modelHasMembranes(model *Model) bool {
	for _, e := range model.Elements {
		if _, ok := e.(*ele.Membrane); ok {
			return true
		}
	}
	return false
}

// initialU maps previous absolute positions onto a freshly built model's
// DOF map, defaulting to zero when there are no previous positions or
// their count differs from the model's node count (first step of the
// first phase).
func initialU(model *Model, prevPos []vec3.Vec3) []float64 {
	if prevPos == nil || len(prevPos) != len(model.Nodes) {
		return make([]float64, model.NDof)
	}
	return model.PosToU(prevPos)
}

// RunPhase executes one continuation phase: adaptive step halving toward
// a target lambda=1, a polish re-solve when a halved step converges
// trivially, and a final exact-target solve used as the handoff to the
// next phase.
func RunPhase(p *inp.Payload, name string, steps int, scaleAt func(lambda float64) (standing, halyard, load float64),
	prevPos []vec3.Vec3, tol float64, maxIter int) (*StepState, []HistoryEntry, error) {

	var history []HistoryEntry
	pos := prevPos
	lambda := 0.0
	step := 1.0 / float64(steps)
	everHalved := false

	for lambda < 1.0-1e-12 {
		target := lambda + step
		if target > 1 {
			target = 1
		}
		s, h, l := scaleAt(target)
		st, err := solveOneState(p, s, h, l, pos, tol, maxIter)
		if err != nil || st == nil {
			history = append(history, HistoryEntry{Phase: name, Lambda: target, Converged: false, Reason: "numerical_explosion"})
			return nil, history, err
		}
		if !checkFinite(flatten(st.Pos)) {
			history = append(history, HistoryEntry{Phase: name, Lambda: target, Converged: false, Reason: "numerical_instability_nan"})
			if step < 1.0/512 {
				return nil, history, nil
			}
			step /= 2
			everHalved = true
			continue
		}

		entry := HistoryEntry{Phase: name, Lambda: target, Converged: st.Result.Converged, Iterations: st.Result.Iterations,
			GradInf: st.Result.GradInf, Reason: st.Result.Reason, ConvergenceHistory: st.Result.History}

		if !st.Result.Converged {
			history = append(history, entry)
			if step < 1.0/512 {
				return nil, history, nil
			}
			step /= 2
			everHalved = true
			continue
		}

		if everHalved && st.Result.Iterations == 0 {
			polishOpt := DefaultNewtonOptions(tol/4, 600, 0, false)
			polished, perr := Newton(st.Model, st.Model.PosToU(pos), polishOpt)
			if perr == nil && polished.Converged && polished.GradInf < st.Result.GradInf {
				st.Pos = st.Model.Positions(polished.U)
				st.Result = polished
				entry.Iterations, entry.GradInf = polished.Iterations, polished.GradInf
			}
		}

		history = append(history, entry)
		pos = st.Pos
		lambda = target
		io.Pfcyan("  phase %s: lambda=%.4f converged=%v iters=%d gradInf=%.4g\n", name, lambda, entry.Converged, entry.Iterations, entry.GradInf)
	}

	s, h, l := scaleAt(1.0)
	final, err := solveOneState(p, s, h, l, pos, tol, maxIter)
	if err != nil || final == nil {
		return nil, history, err
	}
	history = append(history, HistoryEntry{Phase: name, Lambda: 1.0, Converged: final.Result.Converged,
		Iterations: final.Result.Iterations, GradInf: final.Result.GradInf, Reason: final.Result.Reason,
		ConvergenceHistory: final.Result.History})
	return final, history, nil
}

func flatten(pos []vec3.Vec3) []float64 {
	out := make([]float64, 0, 3*len(pos))
	for _, p := range pos {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// segregatedFSI alternates a sail-fixed rig solve (Newton) with a
// rig-fixed sail solve (Dynamic Relaxation) for fsiIterations rounds. A
// NaN result in either phase preserves the previous state.
func segregatedFSI(model *Model, posInit []vec3.Vec3, p *inp.Payload, tol float64, maxIter int, hasMembranes bool) ([]vec3.Vec3, *SolveResult, error) {
	origFixed := make([]bool, len(model.Nodes))
	for i, n := range model.Nodes {
		origFixed[i] = n.Fixed
	}
	restore := func() {
		for i := range model.Nodes {
			model.Nodes[i].Fixed = origFixed[i]
		}
	}
	setFixed := func(role string, onlyIfFree bool, val bool) {
		for i := range model.Nodes {
			if model.Nodes[i].Role != role {
				continue
			}
			if onlyIfFree && origFixed[i] {
				continue
			}
			model.Nodes[i].Fixed = val
		}
	}

	rounds := p.SolverCfg.FSIIterations
	if rounds < 1 {
		rounds = 1
	}

	pos := posInit
	var last *SolveResult

	for r := 0; r < rounds; r++ {
		// Phase A: fix sail-internal nodes, solve rig+interface with Newton
		restore()
		setFixed("sailInternal", false, true)
		model.BuildDofMap()
		uA := model.PosToU(pos)
		resA, errA := Newton(model, uA, DefaultNewtonOptions(tol, 300, 0, hasMembranes))
		if errA == nil && resA != nil && checkFinite(resA.U) {
			pos = model.Positions(resA.U)
			last = resA
		}

		// Phase B: fix originally-free rig nodes, solve sail with DR
		restore()
		setFixed("rig", true, true)
		model.BuildDofMap()
		uB := model.PosToU(pos)
		dopt := DefaultDROptions(tol, p.SolverCfg.DRMaxIterations, 10.0, p.SolverCfg.DRTimeStep, p.SolverCfg.DRMaxStepM,
			p.SolverCfg.DRStabilityFactor, p.SolverCfg.DRWarmupIters, p.SolverCfg.DRViscousDamping, p.SolverCfg.DRKineticBacktrack)
		resB, _, errB := DynamicRelaxation(model, uB, dopt)
		if errB == nil && resB != nil && checkFinite(resB.U) {
			pos = model.Positions(resB.U)
			last = resB
		}
	}

	restore()
	model.BuildDofMap()
	if last == nil {
		last = &SolveResult{Converged: false, Reason: "numerical_instability_nan"}
	}

	// Phase A/B each ran against a partial DOF map; re-assemble once more
	// against the fully restored map so reactions and axial forces in the
	// returned state are reported against the model's real supports.
	uFinal := model.PosToU(pos)
	if st, err := Assemble(model, uFinal, model.AppliedForces, false); err == nil {
		last.U = uFinal
		last.State = st
		last.GradInf = st.GradInf()
		last.Energy = st.Energy
	}
	return pos, last, nil
}
