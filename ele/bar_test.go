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

func Test_bar01(tst *testing.T) {

	chk.PrintTitle("bar01. axial energy, force and gradient of a stretched bar")

	L0 := 1.0
	mat := mdl.Bar{EA: 100}
	b := NewBar("mast_seg", 0, 1, L0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1.1, Y: 0, Z: 0},
	}

	ev := b.Eval(pos, true)

	k := mat.EA / L0
	dL := 0.1
	N := k * dL

	chk.Scalar(tst, "axial", 1e-12, ev.Axial, N)
	chk.Scalar(tst, "energy", 1e-12, ev.Energy, 0.5*k*dL*dL)

	// gradient points along +x at node j, -x at node i
	chk.Scalar(tst, "grad i.x", 1e-12, ev.Grad[0], -N)
	chk.Scalar(tst, "grad j.x", 1e-12, ev.Grad[3], N)
	chk.Scalar(tst, "grad i.y", 1e-12, ev.Grad[1], 0)
	chk.Scalar(tst, "grad i.z", 1e-12, ev.Grad[2], 0)

	// tangent block: material term k*n(x)n plus geometric term N/L*(I-n(x)n);
	// along the bar axis the geometric term vanishes (n.n=1) so K[0][0] == k
	chk.Scalar(tst, "K[0][0] == k (axial, no geometric contribution along axis)", 1e-9, ev.K[0][0], k)

	// transverse stiffness is purely geometric: N/L
	L := 1.1
	chk.Scalar(tst, "K[1][1] == N/L (geometric stiffening, transverse)", 1e-9, ev.K[1][1], N/L)
}

func Test_bar02(tst *testing.T) {

	chk.PrintTitle("bar02. zero stretch gives zero force and zero energy")

	mat := mdl.Bar{EA: 200}
	b := NewBar("strut", 0, 1, 2.0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	ev := b.Eval(pos, false)

	chk.Scalar(tst, "axial at rest length", 1e-12, ev.Axial, 0)
	chk.Scalar(tst, "energy at rest length", 1e-12, ev.Energy, 0)
}

func Test_bar03(tst *testing.T) {

	chk.PrintTitle("bar03. compression produces a negative axial force")

	mat := mdl.Bar{EA: 50}
	b := NewBar("spreader", 0, 1, 1.0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0.9, Y: 0, Z: 0},
	}
	ev := b.Eval(pos, false)

	if ev.Axial >= 0 {
		tst.Fatalf("expected compressive (negative) axial force, got %g", ev.Axial)
	}
	chk.Scalar(tst, "axial under compression", 1e-12, ev.Axial, 50*(-0.1))
}
