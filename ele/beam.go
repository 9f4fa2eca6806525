// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/rigfem/vec3"

// BeamHinge is the discrete-curvature mast bending kernel: a triplet
// (a,b,c) of consecutive mast nodes spaced ds apart, bending only in X
// and Y — Z is axial and handled by the overlapping Bar
// elements, not here. The discrete curvature stencil is [1,-2,1]; energy
// is the standard finite-difference bending energy
//   U = 0.5*EI/ds^3 * ((xa-2xb+xc)^2 + (ya-2yb+yc)^2)
// which is the ds->0 limit of ∫ EI*curvature²/2 over one ds segment. This
// is unrelated in form to gofem's Euler-Bernoulli ele/solid/beam.go
// (rotational DOFs, consistent shape functions): the mast here carries no
// rotational DOF, so the stencil approach is the grounded choice for a
// finite-difference bending penalty between translational nodes.
type BeamHinge struct {
	name       string
	a, b, c    int
	ds         float64
	ei         float64 // EI evaluated at this segment's z
}

// NewBeamHinge builds a bending hinge over nodes a,b,c spaced ds apart
// with bending stiffness ei = EI(z_b).
func NewBeamHinge(name string, a, b, c int, ds, ei float64) *BeamHinge {
	return &BeamHinge{name: name, a: a, b: b, c: c, ds: ds, ei: ei}
}

func (h *BeamHinge) Name() string { return h.name }
func (h *BeamHinge) Nodes() []int { return []int{h.a, h.b, h.c} }

func (h *BeamHinge) Eval(pos []vec3.Vec3, withK bool) Eval {
	kappaX := pos[h.a].X - 2*pos[h.b].X + pos[h.c].X
	kappaY := pos[h.a].Y - 2*pos[h.b].Y + pos[h.c].Y
	f := h.ei / (h.ds * h.ds * h.ds)

	ev := NewEval(3, withK)
	ev.Energy = 0.5 * f * (kappaX*kappaX + kappaY*kappaY)

	// gradient: stencil [1,-2,1] applied to X then Y; Z rows stay zero
	stencil := [3]float64{1, -2, 1}
	for node := 0; node < 3; node++ {
		ev.Grad[3*node+0] = f * kappaX * stencil[node]
		ev.Grad[3*node+1] = f * kappaY * stencil[node]
	}

	if withK {
		for p := 0; p < 3; p++ {
			for q := 0; q < 3; q++ {
				val := f * stencil[p] * stencil[q]
				ev.K[3*p+0][3*q+0] += val
				ev.K[3*p+1][3*q+1] += val
			}
		}
	}
	return ev
}
