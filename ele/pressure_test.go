// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/vec3"
)

func Test_pressure01(tst *testing.T) {

	chk.PrintTitle("pressure01. uniform pressure over a right triangle in the xy-plane")

	// right triangle with legs 1 and 1 in the xy-plane, area 0.5, normal +z
	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	p := 100.0
	f := NewFollowerPressure("main_sail_p12", 0, 1, 2, p)

	nf := f.NodalForce(pos)
	// total force on the triangle should be p*area in +z: each node carries
	// a third, so 3*NodalForce == p*area*normal
	chk.Scalar(tst, "3*NodalForce.z == p*A", 1e-9, 3*nf.Z, p*0.5)
	chk.Scalar(tst, "NodalForce.x == 0 (flat in z, no in-plane components)", 1e-12, nf.X, 0)
	chk.Scalar(tst, "NodalForce.y == 0", 1e-12, nf.Y, 0)
}

func Test_pressure02(tst *testing.T) {

	chk.PrintTitle("pressure02. all three nodes receive an equal consistent share")

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 1},
	}
	f := NewFollowerPressure("jib_p03", 0, 1, 2, 50)
	ev := f.Eval(pos, false)

	// equal consistent nodal shares: gradient triplets are identical for
	// a flat linear triangle (CST property: integral of N_a dA = A/3)
	for k := 0; k < 3; k++ {
		chk.Scalar(tst, "grad node0 == grad node1 component", 1e-9, ev.Grad[k], ev.Grad[3+k])
		chk.Scalar(tst, "grad node0 == grad node2 component", 1e-9, ev.Grad[k], ev.Grad[6+k])
	}
}

func Test_pressure03(tst *testing.T) {

	chk.PrintTitle("pressure03. sign flip of p reverses the nodal force direction")

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	fPos := NewFollowerPressure("a", 0, 1, 2, 30)
	fNeg := NewFollowerPressure("b", 0, 1, 2, -30)

	nfPos := fPos.NodalForce(pos)
	nfNeg := fNeg.NodalForce(pos)
	chk.Scalar(tst, "force reverses with p", 1e-12, nfNeg.Z, -nfPos.Z)
}
