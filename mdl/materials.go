// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdl holds the material parameter structs used by the element
// kernels in package ele. These are plain value structs (no internal
// plastic state, no rate-form time integration) — every constitutive law
// in this rig model is closed-form per continuation step, unlike gofem's
// mdl/solid.Model/State/Driver machinery for history-dependent plasticity,
// which this spec has no use for (the rig carries no yielding material).
package mdl

import "math"

// Bar is a linear axial member: energy 0.5*k*ΔL^2, k=EA/L0.
type Bar struct {
	EA float64 // axial stiffness
}

// Cable is a tension-only, regularised axial member.
type Cable struct {
	EA             float64
	CompressionEps float64 // ε, clamped to [0,1] at use
	SmoothDelta    float64 // δ, floored at 1e-9 at use
}

// Clamp returns ε clamped to [0,1] and δ floored to a safe minimum.
func (c Cable) Clamp() (eps, delta float64) {
	eps = c.CompressionEps
	if eps < 0 {
		eps = 0
	}
	if eps > 1 {
		eps = 1
	}
	delta = c.SmoothDelta
	if delta < 1e-9 {
		delta = 1e-9
	}
	return
}

// Beam is the per-segment bending stiffness EI(z), used by the
// discrete-curvature beam hinge.
type Beam struct {
	EIBase, EITop, TaperStartZM, MastLengthM float64
}

// EIAt evaluates a linear taper from EIBase to EITop starting at
// TaperStartZM.
func (b Beam) EIAt(z float64) float64 {
	if z <= b.TaperStartZM || b.MastLengthM <= b.TaperStartZM {
		return b.EIBase
	}
	t := (z - b.TaperStartZM) / (b.MastLengthM - b.TaperStartZM)
	if t > 1 {
		t = 1
	}
	return b.EIBase + t*(b.EITop-b.EIBase)
}

// Spring holds diagonal to-ground or relative spring stiffnesses.
type Spring struct {
	Kx, Ky, Kz float64
}

// Membrane is the CST material: isotropic plane-stress with a fixed
// numerical prestress and a wrinkling regularisation factor.
type Membrane struct {
	E             float64
	Nu            float64
	Thickness     float64
	Prestress     float64
	WrinklingEps  float64
}

// PlaneStressC returns the 3x3 plane-stress constitutive matrix in Voigt
// order [E11,E22,2E12], C = E/(1-ν²)·[[1,ν,0],[ν,1,0],[0,0,(1-ν)/2]].
func (m Membrane) PlaneStressC() [3][3]float64 {
	f := m.E / (1 - m.Nu*m.Nu)
	return [3][3]float64{
		{f * 1, f * m.Nu, 0},
		{f * m.Nu, f * 1, 0},
		{0, 0, f * (1 - m.Nu) / 2},
	}
}

// ExpectedPrestress computes the prestress stabiliser sigma0 = maxPressure *
// rExpected / (2*t) * fraction.
func ExpectedPrestress(maxPressurePa, rExpectedM, thicknessM, fraction float64) float64 {
	if thicknessM <= 0 {
		return 0
	}
	return maxPressurePa * rExpectedM / (2 * thicknessM) * fraction
}

// ClampPositive returns max(v, 0).
func ClampPositive(v float64) float64 {
	return math.Max(v, 0)
}
