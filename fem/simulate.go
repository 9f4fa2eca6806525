// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/rigfem/inp"
)

// Diagnostics is the result.diagnostics block.
type Diagnostics struct {
	SlackCables        []string               `json:"slackCables"`
	History            []HistoryEntry         `json:"history"`
	Constants          map[string]float64     `json:"constants"`
	ConvergenceHistory []IterRecord           `json:"convergenceHistory"`
}

// Result is the top-level result of a single simulate call.
type Result struct {
	Ok             bool        `json:"ok"`
	Converged      bool        `json:"converged"`
	Iterations     int         `json:"iterations"`
	IterationsLast int         `json:"iterationsLast"`
	Energy         float64     `json:"energy"`
	GradInf        float64     `json:"gradInf"`
	Solver         string      `json:"solver"`
	Reason         string      `json:"reason,omitempty"`
	Outputs        Outputs     `json:"outputs"`
	Diagnostics    Diagnostics `json:"diagnostics"`
	Inputs         *inp.Payload `json:"inputs"`
}

var rigConstants = map[string]float64{
	"mastEA": mastEA, "spreaderEA": spreaderEA, "shroudEA": shroudEA, "stayEA": stayEA,
	"membraneE": membraneE, "membraneThicknessM": membraneThickness,
}

// Simulate is the single entry point: validate, build the relaxed state,
// run the three continuation phases, and extract outputs.
func Simulate(p *inp.Payload) Result {
	p.SetDefault()
	if err := p.Validate(); err != nil {
		return Result{Ok: false, Converged: false, Reason: err.Error(), Inputs: p,
			Diagnostics: Diagnostics{Constants: rigConstants}}
	}

	relaxed := buildRelaxedState(p)

	var history []HistoryEntry

	standing, hStanding, err := RunPhase(p, "standing_pretension", p.SolverCfg.PretensionSteps,
		func(lambda float64) (float64, float64, float64) { return lambda, 0, 0 },
		relaxed.Pos, p.SolverCfg.ToleranceN, p.SolverCfg.MaxIterations)
	history = append(history, hStanding...)
	if err != nil || standing == nil {
		return failResult(p, "standing_pretension phase failed", history)
	}

	prebend, hPrebend, err := RunPhase(p, "jib_halyard", p.SolverCfg.PretensionSteps,
		func(lambda float64) (float64, float64, float64) { return 1, lambda, 0 },
		standing.Pos, p.SolverCfg.ToleranceN, p.SolverCfg.MaxIterations)
	history = append(history, hPrebend...)
	if err != nil || prebend == nil {
		return failResult(p, "jib_halyard phase failed", history)
	}

	loaded, hLoaded, err := RunPhase(p, "sailing_load", p.SolverCfg.LoadSteps,
		func(lambda float64) (float64, float64, float64) { return 1, 1, lambda },
		prebend.Pos, p.SolverCfg.ToleranceN, p.SolverCfg.MaxIterations)
	history = append(history, hLoaded...)
	if err != nil || loaded == nil {
		return failResult(p, "sailing_load phase failed", history)
	}

	outputs := BuildOutputs(relaxed, prebend, loaded)

	totalIters := 0
	for _, h := range history {
		totalIters += h.Iterations
	}

	res := Result{
		Ok:             loaded.Result.Converged || loaded.Result.GradInf < balanceThreshold,
		Converged:      loaded.Result.Converged,
		Iterations:     totalIters,
		IterationsLast: loaded.Result.Iterations,
		Energy:         loaded.Result.Energy,
		GradInf:        loaded.Result.GradInf,
		Solver:         loaded.Result.Solver,
		Reason:         loaded.Result.Reason,
		Outputs:        outputs,
		Inputs:         p,
	}
	res.Diagnostics = Diagnostics{
		SlackCables:        loaded.Result.State.SlackCables,
		History:            history,
		Constants:          rigConstants,
		ConvergenceHistory: loaded.Result.History,
	}
	return res
}

// buildRelaxedState is the initial undeformed state: the rig/sail
// geometry at zero continuation scale, with no solver call, so mast and
// sail positions are exactly the rest positions p0.
func buildRelaxedState(p *inp.Payload) *StepState {
	model, lbl := BuildRigModel(p, 0, 0, 0)
	var sb *SailBuild
	if p.Sails != nil && p.Sails.Enabled {
		sb = AddSails(model, p, lbl, 0, 0, 0)
	}
	model.BuildDofMap()
	pos := model.Positions(make([]float64, model.NDof))
	return &StepState{Model: model, Labels: lbl, Sails: sb, Pos: pos,
		Result: &SolveResult{U: make([]float64, model.NDof), Converged: true, Energy: 0, GradInf: 0, Solver: "relaxed"}}
}

func failResult(p *inp.Payload, reason string, history []HistoryEntry) Result {
	return Result{
		Ok: false, Converged: false, Reason: reason, Inputs: p,
		Diagnostics: Diagnostics{History: history, Constants: rigConstants},
	}
}
