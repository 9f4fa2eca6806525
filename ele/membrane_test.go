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

func flatRefTriangle() (vec3.Vec3, vec3.Vec3, vec3.Vec3) {
	return vec3.Vec3{X: 0, Y: 0, Z: 0}, vec3.Vec3{X: 1, Y: 0, Z: 0}, vec3.Vec3{X: 0, Y: 1, Z: 0}
}

func Test_membrane01(tst *testing.T) {

	chk.PrintTitle("membrane01. F=I at the reference configuration: zero strain energy, prestress-only stress")

	r0, r1, r2 := flatRefTriangle()
	mat := mdl.Membrane{E: 1e7, Nu: 0.3, Thickness: 0.001, Prestress: 500, WrinklingEps: 0.05}
	m := NewMembrane("main_p00", 0, 1, 2, r0, r1, r2, mat)

	ev := m.Eval([]vec3.Vec3{r0, r1, r2}, false)

	chk.Scalar(tst, "energy at F=I", 1e-9, ev.Energy, 0)
	chk.Scalar(tst, "axial == prestress at F=I (equibiaxial, no strain)", 1e-6, ev.Axial, mat.Prestress)
	if m.State() != Taut {
		tst.Fatalf("expected Taut at rest with positive prestress, got %v", m.State())
	}
}

func Test_membrane02(tst *testing.T) {

	chk.PrintTitle("membrane02. in-plane rigid rotation leaves strain energy at zero")

	r0, r1, r2 := flatRefTriangle()
	mat := mdl.Membrane{E: 1e7, Nu: 0.3, Thickness: 0.001, Prestress: 500, WrinklingEps: 0.05}
	m := NewMembrane("main_p01", 0, 1, 2, r0, r1, r2, mat)

	theta := 0.7 // radians, arbitrary in-plane rotation about the reference normal (+z)
	rot := func(p vec3.Vec3) vec3.Vec3 {
		return vec3.Vec3{
			X: p.X*math.Cos(theta) - p.Y*math.Sin(theta),
			Y: p.X*math.Sin(theta) + p.Y*math.Cos(theta),
			Z: p.Z,
		}
	}
	pos := []vec3.Vec3{rot(r0), rot(r1), rot(r2)}

	ev := m.Eval(pos, false)
	chk.Scalar(tst, "energy invariant under rigid rotation", 1e-8, ev.Energy, 0)
	chk.Scalar(tst, "axial invariant under rigid rotation", 1e-6, ev.Axial, mat.Prestress)
}

func Test_membrane03(tst *testing.T) {

	chk.PrintTitle("membrane03. wrinkling regularisation scales down the compressive principal stress")

	r0, r1, r2 := flatRefTriangle()
	mat := mdl.Membrane{E: 1e6, Nu: 0, Thickness: 0.001, Prestress: 0, WrinklingEps: 0.02}
	m := NewMembrane("jib_p05", 0, 1, 2, r0, r1, r2, mat)

	// Dm == identity for this reference triangle, so Ds == F directly;
	// stretch along e1, strongly compress along e2
	a, b := 0.1, -0.5
	pos := []vec3.Vec3{
		r0,
		{X: 1 + a, Y: 0, Z: 0},
		{X: 0, Y: 1 + b, Z: 0},
	}
	ev := m.Eval(pos, false)

	E11 := 0.5 * ((1+a)*(1+a) - 1)
	E22 := 0.5 * ((1+b)*(1+b) - 1)
	S11 := mat.E * E11
	S22 := mat.E * E22
	if !(S11 > 0 && S22 < 0) {
		tst.Fatalf("test setup expected a taut/compressive mix, got S11=%g S22=%g", S11, S22)
	}
	wantAxial := 0.5 * (S11 + mat.WrinklingEps*S22)
	chk.Scalar(tst, "axial reflects eps-scaled compressive principal stress", 1e-6, ev.Axial, wantAxial)

	if m.State() != Wrinkled {
		tst.Fatalf("expected Wrinkled state for one positive/one negative principal stress, got %v", m.State())
	}
}

func Test_principal2x2_01(tst *testing.T) {

	chk.PrintTitle("principal2x2_01. closed-form eigendecomposition reconstructs the original matrix")

	s11, s22, s12 := 300.0, -100.0, 50.0
	s1, s2, v1, v2 := principal2x2(s11, s22, s12)

	if s1 < s2 {
		tst.Fatalf("expected s1 >= s2, got s1=%g s2=%g", s1, s2)
	}

	// reconstruct S = s1 v1(x)v1 + s2 v2(x)v2 and compare to the original
	r11 := s1*v1[0]*v1[0] + s2*v2[0]*v2[0]
	r22 := s1*v1[1]*v1[1] + s2*v2[1]*v2[1]
	r12 := s1*v1[0]*v1[1] + s2*v2[0]*v2[1]
	chk.Scalar(tst, "reconstructed S11", 1e-9, r11, s11)
	chk.Scalar(tst, "reconstructed S22", 1e-9, r22, s22)
	chk.Scalar(tst, "reconstructed S12", 1e-9, r12, s12)

	// eigenvectors must be orthonormal
	chk.Scalar(tst, "v1 unit norm", 1e-12, v1[0]*v1[0]+v1[1]*v1[1], 1)
	chk.Scalar(tst, "v1.v2 == 0", 1e-12, v1[0]*v2[0]+v1[1]*v2[1], 0)
}
