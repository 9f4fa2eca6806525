// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/rigfem/vec3"

// TensionForce is a constant axial force N between two nodes, potential
// V = N*|p_j - p_i|. Used for the forestay when it is kept as a fixed
// target force rather than converted to a cable.
type TensionForce struct {
	name string
	i, j int
	N    float64
}

// NewTensionForce builds a constant-force tension element i->j.
func NewTensionForce(name string, i, j int, N float64) *TensionForce {
	return &TensionForce{name: name, i: i, j: j, N: N}
}

func (t *TensionForce) Name() string { return t.name }
func (t *TensionForce) Nodes() []int { return []int{t.i, t.j} }

func (t *TensionForce) Eval(pos []vec3.Vec3, withK bool) Eval {
	d := vec3.Sub(pos[t.j], pos[t.i])
	L := vec3.Norm(d)
	n := vec3.Unit(d)

	ev := NewEval(2, withK)
	ev.Energy = t.N * L
	ev.Axial = t.N

	g := [3]float64{t.N * n.X, t.N * n.Y, t.N * n.Z}
	ev.Grad[0], ev.Grad[1], ev.Grad[2] = -g[0], -g[1], -g[2]
	ev.Grad[3], ev.Grad[4], ev.Grad[5] = g[0], g[1], g[2]

	if withK {
		// constant force: no material stiffness, only the geometric term
		addTrussK(ev.K, n, 0, t.N, L)
	}
	return ev
}
