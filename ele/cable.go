// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

// Cable is a tension-only, regularised two-node axial member. It
// replaces a "bail out if slack" branch with a C¹ regularisation: no
// element here ever switches behaviour discontinuously across ΔL=0.
type Cable struct {
	name string
	i, j int
	L0   float64
	mat  mdl.Cable
}

// NewCable builds a cable between global node ids i and j with rest
// length L0.
func NewCable(name string, i, j int, L0 float64, mat mdl.Cable) *Cable {
	return &Cable{name: name, i: i, j: j, L0: L0, mat: mat}
}

func (c *Cable) Name() string { return c.name }
func (c *Cable) Nodes() []int { return []int{c.i, c.j} }

// cableLaw evaluates the regularised constitutive law for a given
// elongation dL, returning the axial force N, its derivative dN/ddL, and
// the strain energy U.
func cableLaw(dL float64, mat mdl.Cable, L0 float64) (N, dNddL, U float64) {
	eps, delta := mat.Clamp()
	k := mat.EA / L0
	r := math.Sqrt(dL*dL + delta*delta)
	s := 0.5 * (1 + dL/r)
	keff := k * (eps + (1-eps)*s)
	N = keff * dL
	dNddL = keff + dL*k*(1-eps)*(0.5*delta*delta/(r*r*r))
	U = 0.25*k*(1+eps)*dL*dL + 0.25*k*(1-eps)*(dL*r-delta*delta*math.Asinh(dL/delta))
	return
}

// Eval computes energy/gradient/tangent for the current positions.
func (c *Cable) Eval(pos []vec3.Vec3, withK bool) Eval {
	d := vec3.Sub(pos[c.j], pos[c.i])
	L := vec3.Norm(d)
	n := vec3.Unit(d)
	dL := L - c.L0

	N, dNddL, U := cableLaw(dL, c.mat, c.L0)

	ev := NewEval(2, withK)
	ev.Energy = U
	ev.Axial = N
	ev.Slack = dL < 0

	g := [3]float64{N * n.X, N * n.Y, N * n.Z}
	ev.Grad[0], ev.Grad[1], ev.Grad[2] = -g[0], -g[1], -g[2]
	ev.Grad[3], ev.Grad[4], ev.Grad[5] = g[0], g[1], g[2]

	if withK {
		addTrussK(ev.K, n, dNddL, N, L)
	}
	return ev
}
