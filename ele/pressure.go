// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/rigfem/vec3"

// FollowerPressure distributes a uniform pressure p over a CST triangle
// along the CURRENT deformed normal, scaled by the current area. For a
// flat linear triangle the three consistent nodal shares are exactly
// equal (∫N_a dA = A/3 for every a), so the nodal force F = p/6 *
// areaVector(x0,x1,x2) is the same vector for all three nodes; its
// Jacobian — derived directly below rather than copied from a specific
// literature formula, since several inequivalent "pressure stiffness"
// forms circulate and only the exact derivative of this F keeps
// Newton's tangent consistent with the residual — still differs per
// source column, since the triangle's own rotation couples each node's
// motion back into every other node's force.
type FollowerPressure struct {
	name       string
	n0, n1, n2 int
	p          float64 // signed pressure magnitude
}

// NewFollowerPressure builds a follower pressure load over nodes n0,n1,n2
// with signed magnitude p.
func NewFollowerPressure(name string, n0, n1, n2 int, p float64) *FollowerPressure {
	return &FollowerPressure{name: name, n0: n0, n1: n1, n2: n2, p: p}
}

func (f *FollowerPressure) Name() string { return f.name }
func (f *FollowerPressure) Nodes() []int { return []int{f.n0, f.n1, f.n2} }

// skew returns the 3x3 skew-symmetric matrix of v, s.t. skew(v)*x = v×x.
func skew(v vec3.Vec3) [3][3]float64 {
	return [3][3]float64{
		{0, -v.Z, v.Y},
		{v.Z, 0, -v.X},
		{-v.Y, v.X, 0},
	}
}

func (f *FollowerPressure) Eval(pos []vec3.Vec3, withK bool) Eval {
	x0, x1, x2 := pos[f.n0], pos[f.n1], pos[f.n2]

	// area vector: 2*A*n = cross(x0,x1)+cross(x1,x2)+cross(x2,x0)
	areaVec := vec3.Add(vec3.Add(vec3.Cross(x0, x1), vec3.Cross(x1, x2)), vec3.Cross(x2, x0))
	F := vec3.Scale(f.p/6, areaVec) // equal consistent nodal force, all 3 nodes

	ev := NewEval(3, withK)
	centroid := vec3.Scale(1.0/3.0, vec3.Add(vec3.Add(x0, x1), x2))
	// approximate merit energy: a load of roughly-constant F does work F.u;
	// not an exact potential for a configuration-dependent (follower) load,
	// used only so the Newton line search has a monotone quantity to test.
	ev.Energy = -vec3.Dot(F, centroid)

	for a := 0; a < 3; a++ {
		ev.Grad[3*a+0] = -F.X
		ev.Grad[3*a+1] = -F.Y
		ev.Grad[3*a+2] = -F.Z
	}

	if withK {
		xs := [3]vec3.Vec3{x0, x1, x2}
		for b := 0; b < 3; b++ {
			prev := xs[(b+2)%3]
			next := xs[(b+1)%3]
			sk := skew(vec3.Sub(prev, next))
			var block [3][3]float64
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					block[r][c] = -f.p / 6 * sk[r][c]
				}
			}
			for a := 0; a < 3; a++ {
				for r := 0; r < 3; r++ {
					for c := 0; c < 3; c++ {
						ev.K[3*a+r][3*b+c] += block[r][c]
					}
				}
			}
		}
	}
	return ev
}

// NodalForce returns the signed pressure force currently applied to each
// node of this triangle (used by result extraction for equilibrium
// bookkeeping).
func (f *FollowerPressure) NodalForce(pos []vec3.Vec3) vec3.Vec3 {
	x0, x1, x2 := pos[f.n0], pos[f.n1], pos[f.n2]
	areaVec := vec3.Add(vec3.Add(vec3.Cross(x0, x1), vec3.Cross(x1, x2)), vec3.Cross(x2, x0))
	return vec3.Scale(f.p/6, areaVec)
}
