// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

// CablePath is a three-endpoint cable continuous over a midpoint, used
// for a shroud passing over a spreader tip. Effective length L = |k-i| +
// |j-k|; the same regularised cable law is applied to the total
// elongation ΔL = L - L0. Local node order is [i, k, j].
type CablePath struct {
	name    string
	i, k, j int
	L0      float64
	mat     mdl.Cable
}

// NewCablePath builds a cable-path i -> k -> j with total rest length L0.
func NewCablePath(name string, i, k, j int, L0 float64, mat mdl.Cable) *CablePath {
	return &CablePath{name: name, i: i, k: k, j: j, L0: L0, mat: mat}
}

func (c *CablePath) Name() string { return c.name }
func (c *CablePath) Nodes() []int { return []int{c.i, c.k, c.j} }

// Eval computes energy/gradient/tangent for the current positions.
func (c *CablePath) Eval(pos []vec3.Vec3, withK bool) Eval {
	d1 := vec3.Sub(pos[c.k], pos[c.i])
	d2 := vec3.Sub(pos[c.j], pos[c.k])
	L1 := vec3.Norm(d1)
	L2 := vec3.Norm(d2)
	n1 := vec3.Unit(d1)
	n2 := vec3.Unit(d2)
	L := L1 + L2
	dL := L - c.L0

	N, dNddL, U := cableLaw(dL, c.mat, c.L0)

	ev := NewEval(3, withK)
	ev.Energy = U
	ev.Axial = N
	ev.Slack = dL < 0

	// dL/di = -n1, dL/dk = n1-n2, dL/dj = n2; dE/dx = N * dL/dx
	v := [9]float64{
		-n1.X, -n1.Y, -n1.Z,
		n1.X - n2.X, n1.Y - n2.Y, n1.Z - n2.Z,
		n2.X, n2.Y, n2.Z,
	}
	for a := 0; a < 9; a++ {
		ev.Grad[a] = N * v[a]
	}

	if withK {
		// material term: dNddL * v outer v
		for a := 0; a < 9; a++ {
			for b := 0; b < 9; b++ {
				ev.K[a][b] += dNddL * v[a] * v[b]
			}
		}
		// geometric term: per-segment, taut only
		if dL >= 0 {
			addGeoBlock(ev.K, 0, 1, n1, N, L1)
			addGeoBlock(ev.K, 1, 2, n2, N, L2)
		}
	}
	return ev
}

// addGeoBlock adds the standard two-node geometric (P-Δ) stiffness
// N/L*(I-n⊗n) between local node slots a and b (each 3 contiguous rows).
func addGeoBlock(K vec3.Mat, a, b int, n vec3.Vec3, N, L float64) {
	if L < 1e-12 {
		return
	}
	geo := N / L
	nn := [3][3]float64{
		{n.X * n.X, n.X * n.Y, n.X * n.Z},
		{n.Y * n.X, n.Y * n.Y, n.Y * n.Z},
		{n.Z * n.X, n.Z * n.Y, n.Z * n.Z},
	}
	ra, rb := 3*a, 3*b
	for p := 0; p < 3; p++ {
		for q := 0; q < 3; q++ {
			id := 0.0
			if p == q {
				id = 1
			}
			val := geo * (id - nn[p][q])
			K[ra+p][ra+q] += val
			K[rb+p][rb+q] += val
			K[ra+p][rb+q] -= val
			K[rb+p][ra+q] -= val
		}
	}
}
