// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/ele"
	"github.com/cpmech/rigfem/vec3"
)

// explosionLimit is the numeric guard: any element force beyond this
// magnitude aborts the solve as a numerical explosion.
const explosionLimit = 1e12

// State is the assembled energy/gradient/tangent plus the meta bookkeeping
// needed for result extraction and diagnostics.
type State struct {
	Energy   float64
	Gradient []float64
	Tangent  vec3.Mat // nil when skipK

	Positions   []vec3.Vec3
	AxialForces map[string]float64
	SlackCables []string
	Reactions   map[string]vec3.Vec3
	SpringForce map[string]vec3.Vec3
	MembraneForce map[int]vec3.Vec3 // keyed by node id

	MaxElementForce float64 // largest |local gradient component| this assembly

	Exploded        bool
	ExplodedElement string
}

// Assemble builds the energy/gradient/(tangent) for displacement u
// against model, with the given constant applied nodal forces (e.g. a
// wind-on-mast dead load; follower pressure is carried by its own
// elements instead, since it is configuration-dependent). Element
// contributions are accumulated in a fixed order — by element kind then
// insertion index, i.e. the order model.Elements was built in — so
// floating point results are reproducible for a given model.
func Assemble(model *Model, u []float64, applied map[int]vec3.Vec3, skipK bool) (*State, error) {
	pos := model.Positions(u)

	st := &State{
		Gradient:      make([]float64, model.NDof),
		Positions:     pos,
		AxialForces:   map[string]float64{},
		Reactions:     map[string]vec3.Vec3{},
		SpringForce:   map[string]vec3.Vec3{},
		MembraneForce: map[int]vec3.Vec3{},
	}
	if !skipK {
		st.Tangent = vec3.NewMat(model.NDof, model.NDof)
	}

	for _, e := range model.Elements {
		ev := e.Eval(pos, !skipK)

		if !checkFinite(ev.Grad) || maxAbs(ev.Grad) > explosionLimit {
			st.Exploded = true
			st.ExplodedElement = e.Name()
			return st, chk.Err("numerical explosion in element %q: |force| exceeds %.0e or is non-finite", e.Name(), explosionLimit)
		}
		if m := maxAbs(ev.Grad); m > st.MaxElementForce {
			st.MaxElementForce = m
		}

		st.Energy += ev.Energy
		if !math.IsNaN(ev.Axial) {
			st.AxialForces[e.Name()] = ev.Axial
		}
		if ev.Slack {
			st.SlackCables = append(st.SlackCables, e.Name())
		}

		dofs := model.elementDofMap(e)
		nodes := e.Nodes()
		for k, nid := range nodes {
			gx, gy, gz := ev.Grad[3*k], ev.Grad[3*k+1], ev.Grad[3*k+2]
			if dofs[3*k] < 0 {
				// fixed node: accumulate reaction
				label := model.Nodes[nid].Label
				r := st.Reactions[label]
				r.X += gx
				r.Y += gy
				r.Z += gz
				st.Reactions[label] = r
				continue
			}
			st.Gradient[dofs[3*k]] += gx
			st.Gradient[dofs[3*k]+1] += gy
			st.Gradient[dofs[3*k]+2] += gz
		}

		if !skipK && ev.K != nil {
			vec3.AddBlock(st.Tangent, dofs, ev.K)
		}

		switch el := e.(type) {
		case *ele.Spring:
			st.SpringForce[e.Name()] = el.Force(pos)
		case *ele.FollowerPressure:
			f := el.NodalForce(pos)
			for _, nid := range nodes {
				acc := st.MembraneForce[nid]
				acc = vec3.Add(acc, f)
				st.MembraneForce[nid] = acc
			}
		}
	}

	// subtract external (dead load) work: Σ F_applied · u
	nodeIds := make([]int, 0, len(applied))
	for nid := range applied {
		nodeIds = append(nodeIds, nid)
	}
	sort.Ints(nodeIds)
	for _, nid := range nodeIds {
		F := applied[nid]
		b := model.DofBase(nid)
		if b < 0 {
			label := model.Nodes[nid].Label
			r := st.Reactions[label]
			// dead loads on a fixed node are carried directly by the support
			r.X -= F.X
			r.Y -= F.Y
			r.Z -= F.Z
			st.Reactions[label] = r
			continue
		}
		ux, uy, uz := u[b], u[b+1], u[b+2]
		st.Energy -= F.X*ux + F.Y*uy + F.Z*uz
		st.Gradient[b] -= F.X
		st.Gradient[b+1] -= F.Y
		st.Gradient[b+2] -= F.Z
	}

	return st, nil
}

func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// GradInf returns the infinity norm of the free-DOF gradient, the
// convergence measure used by both solver drivers.
func (s *State) GradInf() float64 { return vec3.VecNormInf(s.Gradient) }

// String renders a short diagnostic line for logging (io.Pf style).
func (s *State) String() string {
	return fmt.Sprintf("energy=%.6g gradInf=%.6g ndof=%d", s.Energy, s.GradInf(), len(s.Gradient))
}
