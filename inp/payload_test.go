// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func baselinePayload() Payload {
	return Payload{
		Geometry: Geometry{MastLengthM: 12, PartnersZM: 0.5, SpreaderZM: 6, HoundsZM: 10, ChainplateXM: 1.2, ChainplateYM: 0.2, BowYM: 0.1},
		Controls: Controls{SpreaderLengthM: 0.6, JibHalyardTensionN: 800, PartnersKx: 1e6, PartnersKy: 1e6},
		Load:     Load{Mode: "none", QLateralNm: 0},
	}
}

func Test_setdefault01(tst *testing.T) {

	chk.PrintTitle("setdefault01. zero-valued optional fields are filled with documented defaults")

	p := baselinePayload()
	p.SetDefault()

	chk.Scalar(tst, "mastSegments default", 1e-12, float64(p.SolverCfg.MastSegments), 24)
	chk.Scalar(tst, "cableSegments default", 1e-12, float64(p.SolverCfg.CableSegments), 1)
	chk.Scalar(tst, "pretensionSteps default", 1e-12, float64(p.SolverCfg.PretensionSteps), 6)
	chk.Scalar(tst, "loadSteps default", 1e-12, float64(p.SolverCfg.LoadSteps), 10)
	chk.Scalar(tst, "toleranceN default", 1e-12, p.SolverCfg.ToleranceN, 1e-3)
	chk.Scalar(tst, "fsiIterations default", 1e-12, float64(p.SolverCfg.FSIIterations), 3)
	if p.Load.QProfile != "uniform" {
		tst.Fatalf("expected default qProfile=uniform, got %q", p.Load.QProfile)
	}
	// shroudAttachZM defaults to houndsZM when left at zero
	chk.Scalar(tst, "shroudAttachZM defaults to houndsZM", 1e-12, p.Geometry.ShroudAttachZM, p.Geometry.HoundsZM)
}

func Test_setdefault02(tst *testing.T) {

	chk.PrintTitle("setdefault02. explicitly set fields are not overwritten")

	p := baselinePayload()
	p.SolverCfg.LoadSteps = 40
	p.Geometry.ShroudAttachZM = 7.5
	p.SetDefault()

	chk.Scalar(tst, "loadSteps preserved", 1e-12, float64(p.SolverCfg.LoadSteps), 40)
	chk.Scalar(tst, "shroudAttachZM preserved", 1e-12, p.Geometry.ShroudAttachZM, 7.5)
}

func Test_validate01(tst *testing.T) {

	chk.PrintTitle("validate01. a fully defaulted baseline payload validates cleanly")

	p := baselinePayload()
	p.SetDefault()
	if err := p.Validate(); err != nil {
		tst.Fatalf("expected a valid payload, got error: %v", err)
	}
}

func Test_validate02(tst *testing.T) {

	chk.PrintTitle("validate02. a non-finite required field is rejected")

	p := baselinePayload()
	p.Geometry.MastLengthM = math.NaN()
	p.SetDefault()
	if err := p.Validate(); err == nil {
		tst.Fatal("expected an error for a NaN required field")
	}
}

func Test_validate03(tst *testing.T) {

	chk.PrintTitle("validate03. an unrecognised load mode is rejected")

	p := baselinePayload()
	p.Load.Mode = "sideways"
	p.SetDefault()
	if err := p.Validate(); err == nil {
		tst.Fatal("expected an error for an invalid load.mode enum")
	}
}

func Test_validate04(tst *testing.T) {

	chk.PrintTitle("validate04. an out-of-range jib sheetSideSign is rejected when sails are enabled")

	p := baselinePayload()
	p.Sails = &Sails{Enabled: true, WindSign: 1, Jib: JibSail{Enabled: true, SheetSideSign: 2, LuffLengthM: 3, FootLengthM: 1}}
	p.SetDefault()
	if err := p.Validate(); err == nil {
		tst.Fatal("expected an error for sheetSideSign outside {-1,0,1}")
	}
}
