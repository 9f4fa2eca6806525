// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

// Bar is a two-node axial member with energy 0.5*k*ΔL², k = EA/L0. Used
// for mast segments and spreaders. The local stiffness assembly follows
// the same c,s direction-cosine pattern as gofem's ele/solid/elastrod.go,
// generalised from 2D to 3D and rewritten as an energy/gradient/tangent
// triple instead of a fixed linear K.
type Bar struct {
	name   string
	i, j   int
	L0     float64
	mat    mdl.Bar
}

// NewBar builds a bar between global node ids i and j with rest length L0.
func NewBar(name string, i, j int, L0 float64, mat mdl.Bar) *Bar {
	return &Bar{name: name, i: i, j: j, L0: L0, mat: mat}
}

func (b *Bar) Name() string  { return b.name }
func (b *Bar) Nodes() []int  { return []int{b.i, b.j} }

// Eval computes energy/gradient/tangent for the current positions.
func (b *Bar) Eval(pos []vec3.Vec3, withK bool) Eval {
	d := vec3.Sub(pos[b.j], pos[b.i])
	L := vec3.Norm(d)
	n := vec3.Unit(d)
	dL := L - b.L0
	k := b.mat.EA / b.L0

	ev := NewEval(2, withK)
	ev.Energy = 0.5 * k * dL * dL
	ev.Axial = k * dL

	// dE/dp_i = -N*n, dE/dp_j = +N*n
	N := k * dL
	g := [3]float64{N * n.X, N * n.Y, N * n.Z}
	ev.Grad[0], ev.Grad[1], ev.Grad[2] = -g[0], -g[1], -g[2]
	ev.Grad[3], ev.Grad[4], ev.Grad[5] = g[0], g[1], g[2]

	if withK {
		// material term k*n⊗n plus geometric term N/L*(I-n⊗n), standard
		// truss tangent; see derivation grounded on the same closed-form
		// used for elastrod's constant-stiffness matrix, extended with
		// the geometric (P-Δ) term needed for large-rotation cables/bars.
		addTrussK(ev.K, n, k, N, L)
	}
	return ev
}

// addTrussK fills the 6x6 local tangent for a 2-node axial element with
// material stiffness k and current axial force N over current length L.
func addTrussK(K vec3.Mat, n vec3.Vec3, k, N, L float64) {
	nn := [3][3]float64{
		{n.X * n.X, n.X * n.Y, n.X * n.Z},
		{n.Y * n.X, n.Y * n.Y, n.Y * n.Z},
		{n.Z * n.X, n.Z * n.Y, n.Z * n.Z},
	}
	geo := 0.0
	if L > 1e-12 {
		geo = N / L
	}
	var blk [3][3]float64
	for a := 0; a < 3; a++ {
		for c := 0; c < 3; c++ {
			id := 0.0
			if a == c {
				id = 1
			}
			blk[a][c] = k*nn[a][c] + geo*(id-nn[a][c])
		}
	}
	// assemble into 6x6: [+blk -blk; -blk +blk]
	for a := 0; a < 3; a++ {
		for c := 0; c < 3; c++ {
			K[a][c] += blk[a][c]
			K[a][3+c] -= blk[a][c]
			K[3+a][c] -= blk[a][c]
			K[3+a][3+c] += blk[a][c]
		}
	}
}
