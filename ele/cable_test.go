// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

func Test_cable01(tst *testing.T) {

	chk.PrintTitle("cable01. regularised law is continuous and smooth across dL=0")

	mat := mdl.Cable{EA: 1000, CompressionEps: 0.02, SmoothDelta: 1e-4}
	L0 := 2.0

	// sample dN/ddL (the tangent slope) immediately either side of dL=0 and
	// compare against a central finite difference of N(dL); a genuine
	// discontinuity in N or a kink in dN/ddL would blow this check up
	h := 1e-7
	for _, dL := range []float64{-0.05, -1e-5, 0, 1e-5, 0.05} {
		Nm, _, _ := cableLaw(dL-h, mat, L0)
		Np, _, _ := cableLaw(dL+h, mat, L0)
		_, dNddL, _ := cableLaw(dL, mat, L0)
		fd := (Np - Nm) / (2 * h)
		chk.Scalar(tst, "dN/ddL matches central difference", 1e-3, dNddL, fd)
	}

	// N itself must be continuous across dL=0 (no "slack" branch jump)
	Nminus, _, _ := cableLaw(-1e-9, mat, L0)
	Nplus, _, _ := cableLaw(1e-9, mat, L0)
	chk.Scalar(tst, "N continuous across dL=0", 1e-6, Nminus, Nplus)
}

func Test_cable02(tst *testing.T) {

	chk.PrintTitle("cable02. taut cable behaves like a stiff spring, far from dL=0")

	mat := mdl.Cable{EA: 1000, CompressionEps: 0.02, SmoothDelta: 1e-4}
	L0 := 2.0
	dL := 0.2 // well clear of the regularisation zone

	N, _, _ := cableLaw(dL, mat, L0)
	k := mat.EA / L0
	chk.Scalar(tst, "taut cable force ~ k*dL", 1e-3*k*dL, N, k*dL)
}

func Test_cable03(tst *testing.T) {

	chk.PrintTitle("cable03. Eval reports Slack=true when stretched below rest length")

	mat := mdl.Cable{EA: 1000, CompressionEps: 0.02, SmoothDelta: 1e-4}
	c := NewCable("shroud_stbd", 0, 1, 2.0, mat)

	pos := []vec3.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1.9, Y: 0, Z: 0},
	}
	ev := c.Eval(pos, false)
	if !ev.Slack {
		tst.Fatal("expected Slack=true for a cable shorter than its rest length")
	}
	if math.IsNaN(ev.Axial) {
		tst.Fatal("slack cable must still report a (small, regularised) axial force")
	}
}
