// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

// WrinkleState classifies a membrane's stress state.
type WrinkleState int

const (
	Taut WrinkleState = iota
	Wrinkled
	SlackMembrane
)

// Membrane is a CST (constant-strain triangle) element with a Tension
// Field wrinkling regularisation. Unlike gofem's rate-form
// mdl/solid plasticity models (history-dependent, time-integrated), this
// constitutive law is a pure function of the current and reference
// triangle geometry — there is no internal state to carry between calls.
type Membrane struct {
	name       string
	n0, n1, n2 int
	ref0, ref1, ref2 vec3.Vec3 // reference (undeformed) positions
	mat        mdl.Membrane

	// cached reference-configuration quantities
	e1, e2, nrm vec3.Vec3 // local in-plane frame
	Dm          [2][2]float64
	DmInv       [2][2]float64
	detDm       float64
	area0       float64
	degenerate  bool

	lastState WrinkleState // diagnostics from most recent Eval
}

// NewMembrane builds a CST triangle over global nodes n0,n1,n2 with their
// reference positions and material.
func NewMembrane(name string, n0, n1, n2 int, ref0, ref1, ref2 vec3.Vec3, mat mdl.Membrane) *Membrane {
	m := &Membrane{name: name, n0: n0, n1: n1, n2: n2, ref0: ref0, ref1: ref1, ref2: ref2, mat: mat}
	m.buildFrame()
	return m
}

func (m *Membrane) Name() string { return m.name }
func (m *Membrane) Nodes() []int { return []int{m.n0, m.n1, m.n2} }

// buildFrame constructs the local orthonormal frame (e1,e2,n) from the
// reference triangle and the reference 2x2 map D_m.
func (m *Membrane) buildFrame() {
	e1 := vec3.Unit(vec3.Sub(m.ref1, m.ref0))
	rawNormal := vec3.Cross(e1, vec3.Sub(m.ref2, m.ref0))
	nrm := vec3.Unit(rawNormal)
	e2 := vec3.Unit(vec3.Cross(nrm, e1))
	m.e1, m.e2, m.nrm = e1, e2, nrm

	P0 := project2D(m.ref0, m.ref0, e1, e2)
	P1 := project2D(m.ref1, m.ref0, e1, e2)
	P2 := project2D(m.ref2, m.ref0, e1, e2)
	m.Dm = [2][2]float64{
		{P1[0] - P0[0], P2[0] - P0[0]},
		{P1[1] - P0[1], P2[1] - P0[1]},
	}
	m.detDm = m.Dm[0][0]*m.Dm[1][1] - m.Dm[0][1]*m.Dm[1][0]
	m.area0 = 0.5 * math.Abs(m.detDm)
	if math.Abs(m.detDm) < 1e-12 {
		m.degenerate = true
		m.DmInv = [2][2]float64{{1, 0}, {0, 1}}
		return
	}
	inv := 1 / m.detDm
	m.DmInv = [2][2]float64{
		{m.Dm[1][1] * inv, -m.Dm[0][1] * inv},
		{-m.Dm[1][0] * inv, m.Dm[0][0] * inv},
	}
}

// project2D projects point p into the local 2D frame anchored at origin o.
func project2D(p, o, e1, e2 vec3.Vec3) [2]float64 {
	d := vec3.Sub(p, o)
	return [2]float64{vec3.Dot(d, e1), vec3.Dot(d, e2)}
}

// principal2x2 returns the eigenvalues (sorted s1>=s2) and eigenvectors of
// the symmetric 2x2 matrix [[s11,s12],[s12,s22]] in closed form.
func principal2x2(s11, s22, s12 float64) (s1, s2 float64, v1, v2 [2]float64) {
	tr := s11 + s22
	diff := s11 - s22
	rad := math.Sqrt(diff*diff/4 + s12*s12)
	s1 = tr/2 + rad
	s2 = tr/2 - rad
	if math.Abs(s12) < 1e-14 && math.Abs(diff) < 1e-14 {
		return s1, s2, [2]float64{1, 0}, [2]float64{0, 1}
	}
	// eigenvector for s1: (s11-s1)*x + s12*y = 0
	if math.Abs(s12) > 1e-14 {
		v1 = [2]float64{s12, s1 - s11}
	} else if s11 >= s22 {
		v1 = [2]float64{1, 0}
	} else {
		v1 = [2]float64{0, 1}
	}
	n := math.Hypot(v1[0], v1[1])
	v1 = [2]float64{v1[0] / n, v1[1] / n}
	v2 = [2]float64{-v1[1], v1[0]}
	return
}

// Eval computes energy/gradient/tangent for the current nodal positions,
// applying the Tension Field wrinkling regularisation.
func (m *Membrane) Eval(pos []vec3.Vec3, withK bool) Eval {
	ev := NewEval(3, withK)
	ev.Axial = math.NaN()

	if m.degenerate {
		m.lastState = SlackMembrane
		return ev // zero-force guard: a degenerate reference triangle carries no stiffness
	}

	p0, p1, p2 := pos[m.n0], pos[m.n1], pos[m.n2]
	p0loc := project2D(p0, m.ref0, m.e1, m.e2)
	p1loc := project2D(p1, m.ref0, m.e1, m.e2)
	p2loc := project2D(p2, m.ref0, m.e1, m.e2)
	Ds := [2][2]float64{
		{p1loc[0] - p0loc[0], p2loc[0] - p0loc[0]},
		{p1loc[1] - p0loc[1], p2loc[1] - p0loc[1]},
	}

	// F = Ds * DmInv
	var F [2][2]float64
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			F[r][c] = Ds[r][0]*m.DmInv[0][c] + Ds[r][1]*m.DmInv[1][c]
		}
	}

	// Green-Lagrange strain, Voigt [E11,E22,2E12]
	E11 := 0.5 * (F[0][0]*F[0][0] + F[1][0]*F[1][0] - 1)
	E22 := 0.5 * (F[0][1]*F[0][1] + F[1][1]*F[1][1] - 1)
	E12 := 0.5 * (F[0][0]*F[0][1] + F[1][0]*F[1][1])
	Evoigt := [3]float64{E11, E22, 2 * E12}

	C := m.mat.PlaneStressC()
	var Slin [3]float64
	for r := 0; r < 3; r++ {
		Slin[r] = C[r][0]*Evoigt[0] + C[r][1]*Evoigt[1] + C[r][2]*Evoigt[2]
	}
	S11 := Slin[0] + m.mat.Prestress
	S22 := Slin[1] + m.mat.Prestress
	S12 := Slin[2]

	// wrinkling: principal decomposition
	eps := m.mat.WrinklingEps
	s1, s2, v1, v2 := principal2x2(S11, S22, S12)
	factor1, factor2 := 1.0, 1.0
	switch {
	case s2 >= 0:
		m.lastState = Taut
	case s1 > 0 && s2 < 0:
		m.lastState = Wrinkled
		factor2 = eps
		s2 *= eps
	default:
		m.lastState = SlackMembrane
		factor1, factor2 = eps, eps
		s1 *= eps
		s2 *= eps
	}
	// reconstruct S = s1 v1⊗v1 + s2 v2⊗v2
	S11 = s1*v1[0]*v1[0] + s2*v2[0]*v2[0]
	S22 = s1*v1[1]*v1[1] + s2*v2[1]*v2[1]
	S12 = s1*v1[0]*v1[1] + s2*v2[0]*v2[1]
	wrinkleFactor := 0.5 * (factor1 + factor2)
	// geometric stress: tensile principal parts only
	g1, g2 := math.Max(s1, 0), math.Max(s2, 0)
	Sg11 := g1*v1[0]*v1[0] + g2*v2[0]*v2[0]
	Sg22 := g1*v1[1]*v1[1] + g2*v2[1]*v2[1]
	Sg12 := g1*v1[0]*v1[1] + g2*v2[0]*v2[1]

	t := m.mat.Thickness
	tA := t * m.area0
	ev.Energy = 0.5 * (Evoigt[0]*S11 + Evoigt[1]*S22 + Evoigt[2]*S12) * tA
	ev.Axial = 0.5 * (s1 + s2) // reported as an average membrane stress, for diagnostics

	// shape-function gradients in reference coords, rows = nodes
	rows := [3][2]float64{{-1, -1}, {1, 0}, {0, 1}}
	var gradN [3][2]float64
	for a := 0; a < 3; a++ {
		gradN[a][0] = m.DmInv[0][0]*rows[a][0] + m.DmInv[1][0]*rows[a][1]
		gradN[a][1] = m.DmInv[0][1]*rows[a][0] + m.DmInv[1][1]*rows[a][1]
	}

	// internal force per node: f_a = t*area0 * (F*S) . gradN_a  (local 2D)
	// P = F*S (S as symmetric 2x2 matrix)
	P := [2][2]float64{
		{F[0][0]*S11 + F[0][1]*S12, F[0][0]*S12 + F[0][1]*S22},
		{F[1][0]*S11 + F[1][1]*S12, F[1][0]*S12 + F[1][1]*S22},
	}
	var gLocal [3][2]float64
	for a := 0; a < 3; a++ {
		gLocal[a][0] = tA * (P[0][0]*gradN[a][0] + P[0][1]*gradN[a][1])
		gLocal[a][1] = tA * (P[1][0]*gradN[a][0] + P[1][1]*gradN[a][1])
		// rotate local 2D force to global 3D via (e1,e2)
		f3 := vec3.Add(vec3.Scale(gLocal[a][0], m.e1), vec3.Scale(gLocal[a][1], m.e2))
		ev.Grad[3*a+0] = f3.X
		ev.Grad[3*a+1] = f3.Y
		ev.Grad[3*a+2] = f3.Z
	}

	if withK {
		m.addTangent(ev.K, F, gradN, Sg11, Sg22, Sg12, C, wrinkleFactor, tA)
	}
	return ev
}

// addTangent fills the 9x9 local tangent: a material block (rotated to
// 3D, scaled by the wrinkling factor) plus the geometric stress-
// stiffening block built from the S passed in, which Eval assembles from
// the tensile principal stresses only, so a compressive principal stress
// adds no geometric stiffness.
func (m *Membrane) addTangent(K vec3.Mat, F [2][2]float64, gradN [3][2]float64, S11, S22, S12 float64, C [3][3]float64, wrinkleFactor, tA float64) {
	F1 := [2]float64{F[0][0], F[1][0]} // first column of F
	F2 := [2]float64{F[0][1], F[1][1]} // second column of F

	// local 2D material stiffness via B (3x6): row E11,E22,2E12 per node's (dux,duy)
	var B [3][6]float64
	for a := 0; a < 3; a++ {
		gi, gj := gradN[a][0], gradN[a][1]
		// dE11
		B[0][2*a+0] = gi * F1[0]
		B[0][2*a+1] = gi * F1[1]
		// dE22
		B[1][2*a+0] = gj * F2[0]
		B[1][2*a+1] = gj * F2[1]
		// d(2E12)
		B[2][2*a+0] = gj*F1[0] + gi*F2[0]
		B[2][2*a+1] = gj*F1[1] + gi*F2[1]
	}
	// CB = C*B (3x6)
	var CB [3][6]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 6; c++ {
			CB[r][c] = C[r][0]*B[0][c] + C[r][1]*B[1][c] + C[r][2]*B[2][c]
		}
	}
	var Kmat2D [6][6]float64
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			Kmat2D[r][c] = wrinkleFactor * tA * (B[0][r]*CB[0][c] + B[1][r]*CB[1][c] + B[2][r]*CB[2][c])
		}
	}

	// rotate 2D (6x6) to 3D (9x9) via per-node blocks [e1|e2]
	e1, e2 := m.e1, m.e2
	rot := func(p, q int) {
		// contributes Kmat2D[2p..2p+1][2q..2q+1] rotated into K[3p..][3q..]
		m00, m01 := Kmat2D[2*p+0][2*q+0], Kmat2D[2*p+0][2*q+1]
		m10, m11 := Kmat2D[2*p+1][2*q+0], Kmat2D[2*p+1][2*q+1]
		add := func(axI, axJ vec3.Vec3, val float64) {
			K[3*p+0][3*q+0] += val * axI.X * axJ.X
			K[3*p+0][3*q+1] += val * axI.X * axJ.Y
			K[3*p+0][3*q+2] += val * axI.X * axJ.Z
			K[3*p+1][3*q+0] += val * axI.Y * axJ.X
			K[3*p+1][3*q+1] += val * axI.Y * axJ.Y
			K[3*p+1][3*q+2] += val * axI.Y * axJ.Z
			K[3*p+2][3*q+0] += val * axI.Z * axJ.X
			K[3*p+2][3*q+1] += val * axI.Z * axJ.Y
			K[3*p+2][3*q+2] += val * axI.Z * axJ.Z
		}
		add(e1, e1, m00)
		add(e1, e2, m01)
		add(e2, e1, m10)
		add(e2, e2, m11)
	}
	for p := 0; p < 3; p++ {
		for q := 0; q < 3; q++ {
			rot(p, q)
		}
	}

	// geometric stiffness S_ij * gradNa_i * gradNb_j * I3, with S holding
	// only the non-negative principal stresses.
	Sm := [2][2]float64{{S11, S12}, {S12, S22}}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			var val float64
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					val += Sm[i][j] * gradN[a][i] * gradN[b][j]
				}
			}
			val *= tA
			K[3*a+0][3*b+0] += val
			K[3*a+1][3*b+1] += val
			K[3*a+2][3*b+2] += val
		}
	}
}

// State returns the wrinkling classification from the most recent Eval
// call (diagnostics only).
func (m *Membrane) State() WrinkleState { return m.lastState }
