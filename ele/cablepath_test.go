// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

func Test_cablepath01(tst *testing.T) {

	chk.PrintTitle("cablepath01. effective length is the sum of both legs")

	mat := mdl.Cable{EA: 1000, CompressionEps: 0.02, SmoothDelta: 1e-4}
	// i at origin, k (spreader tip) offset in y, j further along x: a bent path
	c := NewCablePath("shroud_port", 0, 1, 2, 3.0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	ev := c.Eval(pos, true)

	L1 := vec3.Norm(vec3.Sub(pos[1], pos[0]))
	L2 := vec3.Norm(vec3.Sub(pos[2], pos[1]))
	dL := L1 + L2 - 3.0
	N, _, U := cableLaw(dL, mat, 3.0)

	chk.Scalar(tst, "axial", 1e-12, ev.Axial, N)
	chk.Scalar(tst, "energy", 1e-12, ev.Energy, U)
}

func Test_cablepath02(tst *testing.T) {

	chk.PrintTitle("cablepath02. gradient at the midpoint balances the two unit directions")

	mat := mdl.Cable{EA: 1000, CompressionEps: 0.02, SmoothDelta: 1e-4}
	c := NewCablePath("shroud_stbd", 0, 1, 2, 2.0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0.5, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	ev := c.Eval(pos, false)

	// sum of gradient contributions over all three nodes must vanish
	// (internal force is self-equilibrated, no net translation)
	sumX := ev.Grad[0] + ev.Grad[3] + ev.Grad[6]
	sumY := ev.Grad[1] + ev.Grad[4] + ev.Grad[7]
	chk.Scalar(tst, "grad sum.x == 0", 1e-9, sumX, 0)
	chk.Scalar(tst, "grad sum.y == 0", 1e-9, sumY, 0)
}
