// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/rigfem/vec3"

// Point is a JSON-friendly {x,y,z}, kept separate from vec3.Vec3 so the
// solver core stays free of output-format concerns.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toPoint(v vec3.Vec3) Point { return Point{v.X, v.Y, v.Z} }

func toPoints(vs []vec3.Vec3, ids []int) []Point {
	out := make([]Point, len(ids))
	for i, id := range ids {
		out[i] = toPoint(vs[id])
	}
	return out
}

// CableCurves carries the standing-rigging polylines reported in the
// output block.
type CableCurves struct {
	ShroudPort []Point `json:"shroud_port"`
	ShroudStbd []Point `json:"shroud_stbd"`
	StayJib    []Point `json:"stay_jib"`
}

// SailSnapshot is one sail-grid capture (main and/or jib).
type SailSnapshot struct {
	Main [][]Point `json:"main,omitempty"`
	Jib  [][]Point `json:"jib,omitempty"`
}

// SailOutputs holds the relaxed/prebend/loaded capture points for sail
// grids.
type SailOutputs struct {
	Relaxed *SailSnapshot `json:"relaxed,omitempty"`
	Prebend *SailSnapshot `json:"prebend,omitempty"`
	Loaded  *SailSnapshot `json:"loaded,omitempty"`
}

// Tensions reports the standing-rigging and stay loads.
type Tensions struct {
	ShroudPortN float64 `json:"shroudPortN"`
	ShroudStbdN float64 `json:"shroudStbdN"`
	ForestayN   float64 `json:"forestayN"`
	HalyardN    float64 `json:"halyardN"`
}

// Spreaders reports spreader axial forces and the commanded geometry
// check points.
type Spreaders struct {
	PortAxialN float64 `json:"portAxialN"`
	StbdAxialN float64 `json:"stbdAxialN"`
	TipPort    *Point  `json:"tipPort,omitempty"`
	TipStbd    *Point  `json:"tipStbd,omitempty"`
	Root       *Point  `json:"root,omitempty"`
}

// Equilibrium reports the global free-body balance.
//
// "Closed" sums external loads, all fixed-support reactions, and the
// force the deck-partner spring exerts on the rig, since the spring anchors the
// partners node to the boat like an additional support; it should sit
// near zero for any converged solve because internal element forces
// cancel pairwise. "Open" omits the spring term, showing the residual
// of the rig alone against its rigid supports — useful when the
// partners spring is the last thing still carrying load at a shallow
// convergence.
type Equilibrium struct {
	ExternalFx, ExternalFy, ExternalFz float64
	ReactionsRx, ReactionsRy, ReactionsRz float64
	PartnersRx, PartnersRy, PartnersRz float64
	MastStepRx, MastStepRy, MastStepRz float64
	SumFx, SumFy, SumFz float64
	Magnitude  float64
	IsBalanced bool
	OpenSumFx, OpenSumFy, OpenSumFz float64
	OpenMagnitude  float64
	OpenIsBalanced bool
}

// Outputs is the result.outputs payload.
type Outputs struct {
	MastCurveRelaxed []Point                `json:"mastCurveRelaxed"`
	MastCurvePrebend []Point                `json:"mastCurvePrebend"`
	MastCurveLoaded  []Point                `json:"mastCurveLoaded"`
	CableCurves      CableCurves            `json:"cableCurves"`
	Sails            *SailOutputs           `json:"sails,omitempty"`
	Tensions         Tensions               `json:"tensions"`
	Spreaders        Spreaders              `json:"spreaders"`
	Reactions        map[string][3]float64  `json:"reactions"`
	SpringsForces    map[string][3]float64  `json:"springsForces"`
	Equilibrium      Equilibrium            `json:"equilibrium"`
}

// balanceThreshold is the global-equilibrium acceptance bound.
const balanceThreshold = 10.0

// axialByPrefix averages the axial force of every element whose name
// starts with prefix, so output tension is insensitive to whether a
// standing-rigging member was built as one element or a cableSegments
// chain; a taut chain carries a uniform axial load at equilibrium, so
// averaging the segments reports that load without hard-coding a single
// segment's name.
func axialByPrefix(state *State, prefix string) float64 {
	sum, n := 0.0, 0
	for name, axial := range state.AxialForces {
		if hasPrefix(name, prefix) {
			sum += axial
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func vecSum3(values ...vec3.Vec3) vec3.Vec3 {
	out := vec3.Vec3{}
	for _, v := range values {
		out = vec3.Add(out, v)
	}
	return out
}

func sumReactions(reactions map[string]vec3.Vec3) vec3.Vec3 {
	out := vec3.Vec3{}
	for _, r := range reactions {
		out = vec3.Add(out, r)
	}
	return out
}

func sumApplied(applied map[int]vec3.Vec3) vec3.Vec3 {
	out := vec3.Vec3{}
	for _, f := range applied {
		out = vec3.Add(out, f)
	}
	return out
}

// buildEquilibrium computes the equilibrium block from an assembled
// state taken at the model's true (fully restored) DOF map.
func buildEquilibrium(model *Model, state *State) Equilibrium {
	external := sumApplied(model.AppliedForces)
	reactions := sumReactions(state.Reactions)
	partners := vec3.Scale(-1, state.SpringForce["deck_partner"]) // spring gradient -> force on the rig
	mastStep := state.Reactions["mast_step"]

	closed := vecSum3(external, reactions, partners)
	open := vecSum3(external, reactions)

	return Equilibrium{
		ExternalFx: external.X, ExternalFy: external.Y, ExternalFz: external.Z,
		ReactionsRx: reactions.X, ReactionsRy: reactions.Y, ReactionsRz: reactions.Z,
		PartnersRx: partners.X, PartnersRy: partners.Y, PartnersRz: partners.Z,
		MastStepRx: mastStep.X, MastStepRy: mastStep.Y, MastStepRz: mastStep.Z,
		SumFx: closed.X, SumFy: closed.Y, SumFz: closed.Z,
		Magnitude:  vec3.Norm(closed),
		IsBalanced: vec3.Norm(closed) < balanceThreshold,
		OpenSumFx:  open.X, OpenSumFy: open.Y, OpenSumFz: open.Z,
		OpenMagnitude:  vec3.Norm(open),
		OpenIsBalanced: vec3.Norm(open) < balanceThreshold,
	}
}

// sailSnapshot captures one sail build's grids at pos, one of the
// relaxed/prebend/loaded capture points.
func sailSnapshot(sb *SailBuild, pos []vec3.Vec3) *SailSnapshot {
	if sb == nil {
		return nil
	}
	snap := &SailSnapshot{}
	if sb.Main != nil {
		snap.Main = gridPoints(sb.Main, pos)
	}
	if sb.Jib != nil {
		snap.Jib = gridPoints(sb.Jib, pos)
	}
	return snap
}

func gridPoints(grid *SailGrid, pos []vec3.Vec3) [][]Point {
	out := make([][]Point, grid.Rows)
	for i := 0; i < grid.Rows; i++ {
		out[i] = make([]Point, grid.Cols)
		for j := 0; j < grid.Cols; j++ {
			out[i][j] = toPoint(pos[grid.Node[i][j]])
		}
	}
	return out
}

// BuildOutputs assembles the outputs block from the three capture states
// of a completed continuation run: relaxed (the undeformed rest model,
// at the start of standing_pretension), prebend (end of jib_halyard) and
// loaded (the final sailing_load solve).
func BuildOutputs(relaxed, prebend, loaded *StepState) Outputs {
	out := Outputs{
		MastCurveRelaxed: toPoints(relaxed.Pos, relaxed.Model.MastNodeIds),
		MastCurvePrebend: toPoints(prebend.Pos, prebend.Model.MastNodeIds),
		MastCurveLoaded:  toPoints(loaded.Pos, loaded.Model.MastNodeIds),
	}

	lbl := loaded.Labels
	out.CableCurves = CableCurves{
		ShroudPort: toPoints(loaded.Pos, lbl.ShroudPortChain),
		ShroudStbd: toPoints(loaded.Pos, lbl.ShroudStbdChain),
		StayJib:    toPoints(loaded.Pos, jibOrStayChain(loaded)),
	}

	if loaded.Sails != nil {
		out.Sails = &SailOutputs{
			Relaxed: sailSnapshot(relaxed.Sails, relaxed.Pos),
			Prebend: sailSnapshot(prebend.Sails, prebend.Pos),
			Loaded:  sailSnapshot(loaded.Sails, loaded.Pos),
		}
	}

	st := loaded.Result.State
	tensions := Tensions{
		ShroudPortN: axialByPrefix(st, "shroud_port"),
		ShroudStbdN: axialByPrefix(st, "shroud_stbd"),
	}
	if loaded.Sails != nil && loaded.Sails.Jib != nil {
		tensions.HalyardN = axialByPrefix(st, "stay_jib")
		tensions.ForestayN = axialByPrefix(st, "stay_top_cable")
	} else {
		tensions.ForestayN = axialByPrefix(st, "forestay")
		tensions.HalyardN = tensions.ForestayN
	}
	out.Tensions = tensions

	out.Spreaders = Spreaders{
		PortAxialN: st.AxialForces["spreader_port"],
		StbdAxialN: st.AxialForces["spreader_stbd"],
	}
	if p, ok := loaded.Model.NodeByLabel["spreader_tip_port"]; ok {
		pt := toPoint(loaded.Pos[p])
		out.Spreaders.TipPort = &pt
	}
	if p, ok := loaded.Model.NodeByLabel["spreader_tip_stbd"]; ok {
		pt := toPoint(loaded.Pos[p])
		out.Spreaders.TipStbd = &pt
	}
	rootId := loaded.Model.MastNodeIds[lbl.SpreaderIdx]
	rootPt := toPoint(loaded.Pos[rootId])
	out.Spreaders.Root = &rootPt

	out.Reactions = map[string][3]float64{}
	for label, r := range st.Reactions {
		out.Reactions[label] = r.Array()
	}
	out.SpringsForces = map[string][3]float64{}
	for name, f := range st.SpringForce {
		out.SpringsForces[name] = f.Array()
	}

	out.Equilibrium = buildEquilibrium(loaded.Model, st)
	return out
}

// jibOrStayChain returns the full headstay polyline: hounds..head..bow
// when the jib replaced the forestay, or the plain forestay chain
// otherwise.
func jibOrStayChain(s *StepState) []int {
	if s.Sails != nil && s.Sails.Jib != nil && len(s.Sails.StayTopIds) > 0 {
		chain := append([]int(nil), s.Sails.StayTopIds...)
		return append(chain, s.Sails.JibLuffIds[1:]...)
	}
	return s.Labels.StayChain
}
