// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input data for a rig equilibrium simulation,
// read from a user-supplied payload. It mirrors the JSON-tagged,
// SetDefault convention of gofem's inp.Data and inp.SolverData; there is
// no PostProcess step, and derived quantities such as the segment length
// are computed by the model builders in package fem.
package inp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Geometry holds the undeformed rig geometry, all lengths in metres.
type Geometry struct {
	MastLengthM    float64 `json:"mastLengthM"`
	PartnersZM     float64 `json:"partnersZM"`
	SpreaderZM     float64 `json:"spreaderZM"`
	HoundsZM       float64 `json:"houndsZM"`
	ShroudAttachZM float64 `json:"shroudAttachZM"` // optional; 0 => use HoundsZM
	ChainplateXM   float64 `json:"chainplateXM"`
	ChainplateYM   float64 `json:"chainplateYM"`
	BowYM          float64 `json:"bowYM"`
}

// Controls holds the trim controls.
type Controls struct {
	SpreaderLengthM    float64 `json:"spreaderLengthM"`
	SpreaderSweepAftM  float64 `json:"spreaderSweepAftM"`
	ShroudBaseDeltaM   float64 `json:"shroudBaseDeltaM"` // optional
	ShroudDeltaL0PortM float64 `json:"shroudDeltaL0PortM"`
	ShroudDeltaL0StbdM float64 `json:"shroudDeltaL0StbdM"`
	JibHalyardTensionN float64 `json:"jibHalyardTensionN"`
	PartnersKx         float64 `json:"partnersKx"`
	PartnersKy         float64 `json:"partnersKy"`
	PartnersOffsetXM   float64 `json:"partnersOffsetXM"`
	PartnersOffsetYM   float64 `json:"partnersOffsetYM"`
	LockStayLength     bool    `json:"lockStayLength"`
}

// Load describes the wind-on-mast distributed load.
type Load struct {
	Mode       string  `json:"mode"` // "none" | "upwind" | "downwind"
	QLateralNm float64 `json:"qLateralNpm"`
	QProfile   string  `json:"qProfile"` // "uniform" | "triangular"
}

// Solver holds solver settings.
type Solver struct {
	MastSegments     int     `json:"mastSegments"`
	CableSegments    int     `json:"cableSegments"`
	PretensionSteps  int     `json:"pretensionSteps"`
	LoadSteps        int     `json:"loadSteps"`
	MaxIterations    int     `json:"maxIterations"`
	ToleranceN       float64 `json:"toleranceN"`
	CableCompression float64 `json:"cableCompressionEps"`

	UseDynamicRelaxation bool    `json:"useDynamicRelaxation"`
	DRTimeStep           float64 `json:"drTimeStep"`
	DRMaxStepM           float64 `json:"drMaxStepM"`
	DRStabilityFactor    float64 `json:"drStabilityFactor"`
	DRWarmupIters        int     `json:"drWarmupIters"`
	DRMaxIterations      int     `json:"drMaxIterations"`
	DRViscousDamping     float64 `json:"drViscousDamping"`
	DRKineticBacktrack   float64 `json:"drKineticBacktrack"`

	MembranePrestress           float64 `json:"membranePrestress"`
	MembranePretensionFraction  float64 `json:"membranePretensionFraction"`
	MembraneCurvatureRadius     float64 `json:"membraneCurvatureRadius"`
	MembraneWrinklingEps        float64 `json:"membraneWrinklingEps"`
	MembraneMaxStrain           float64 `json:"membraneMaxStrain"`
	UseSegregatedFSI            bool    `json:"useSegregatedFSI"`
	FSIIterations               int     `json:"fsiIterations"`
}

// Stiffness holds the mast bending stiffness profile.
type Stiffness struct {
	MastEIBase   float64 `json:"mastEIBase"`
	MastEITop    float64 `json:"mastEITop"`
	TaperStartZM float64 `json:"taperStartZM"`
}

// SailMesh is the row/column discretisation of a sail grid.
type SailMesh struct {
	LuffSegments  int `json:"luffSegments"`
	ChordSegments int `json:"chordSegments"`
}

// MainSail holds mainsail-specific parameters.
type MainSail struct {
	Enabled          bool      `json:"enabled"`
	DraftDepth       float64   `json:"draftDepth"`
	DraftPos         float64   `json:"draftPos"`
	ShapeSections    int       `json:"shapeSections"`
	DraftDepthRows   []float64 `json:"draftDepthSections"`
	DraftPosRows     []float64 `json:"draftPosSections"`
	TackZM           float64   `json:"tackZM"`
	LuffLengthM      float64   `json:"luffLengthM"`
	FootLengthM      float64   `json:"footLengthM"`
	CunninghamMm     float64   `json:"cunninghamMm"`
	BoomAngleDeg     float64   `json:"boomAngleDeg"`
	BoomTiltDeg      float64   `json:"boomTiltDeg"`
	OuthaulMm        float64   `json:"outhaulMm"`
	SheetLeadYM      float64   `json:"sheetLeadYM"`
	Mesh             SailMesh  `json:"mesh"`
}

// JibSail holds jib-specific parameters.
type JibSail struct {
	Enabled        bool      `json:"enabled"`
	DraftDepth     float64   `json:"draftDepth"`
	DraftPos       float64   `json:"draftPos"`
	ShapeSections  int       `json:"shapeSections"`
	DraftDepthRows []float64 `json:"draftDepthSections"`
	DraftPosRows   []float64 `json:"draftPosSections"`
	LuffLengthM    float64   `json:"luffLengthM"`
	FootLengthM    float64   `json:"footLengthM"`
	ClewDisplaceMm float64   `json:"clewDisplaceMm"`
	SheetSideSign  int       `json:"sheetSideSign"` // -1, 0, +1
	SheetLeadXMm   float64   `json:"sheetLeadXMm"`
	SheetLeadYMm   float64   `json:"sheetLeadYMm"`
	Mesh           SailMesh  `json:"mesh"`
	StayTopSegments int      `json:"stayTopSegments"`
}

// Sails holds the optional sail rig.
type Sails struct {
	Enabled       bool     `json:"enabled"`
	WindPressurePa float64 `json:"windPressurePa"`
	WindSign      int      `json:"windSign"` // +1 or -1
	Main          MainSail `json:"main"`
	Jib           JibSail  `json:"jib"`
}

// Payload is the single entry point's input.
type Payload struct {
	Geometry  Geometry   `json:"geometry"`
	Controls  Controls   `json:"controls"`
	Load      Load       `json:"load"`
	SolverCfg Solver     `json:"solver"`
	Stiff     Stiffness  `json:"stiffness"`
	Sails     *Sails     `json:"sails"`
}

// SetDefault fills zero-valued optional fields with the documented
// defaults, following the convention of inp.SolverData.SetDefault.
func (p *Payload) SetDefault() {
	if p.Geometry.ShroudAttachZM == 0 {
		p.Geometry.ShroudAttachZM = p.Geometry.HoundsZM
	}
	if p.SolverCfg.MastSegments == 0 {
		p.SolverCfg.MastSegments = 24
	}
	if p.SolverCfg.CableSegments == 0 {
		p.SolverCfg.CableSegments = 1
	}
	if p.SolverCfg.PretensionSteps == 0 {
		p.SolverCfg.PretensionSteps = 6
	}
	if p.SolverCfg.LoadSteps == 0 {
		p.SolverCfg.LoadSteps = 10
	}
	if p.SolverCfg.MaxIterations == 0 {
		p.SolverCfg.MaxIterations = 300
	}
	if p.SolverCfg.ToleranceN == 0 {
		p.SolverCfg.ToleranceN = 1e-3
	}
	if p.SolverCfg.DRTimeStep == 0 {
		p.SolverCfg.DRTimeStep = 1e-3
	}
	if p.SolverCfg.DRMaxStepM == 0 {
		p.SolverCfg.DRMaxStepM = 0.05
	}
	if p.SolverCfg.DRStabilityFactor == 0 {
		p.SolverCfg.DRStabilityFactor = 0.25
	}
	if p.SolverCfg.DRWarmupIters == 0 {
		p.SolverCfg.DRWarmupIters = 50
	}
	if p.SolverCfg.DRMaxIterations == 0 {
		p.SolverCfg.DRMaxIterations = 20000
	}
	if p.SolverCfg.DRViscousDamping == 0 {
		p.SolverCfg.DRViscousDamping = 0.05
	}
	if p.SolverCfg.DRKineticBacktrack == 0 {
		p.SolverCfg.DRKineticBacktrack = 0.5
	}
	if p.SolverCfg.MembranePretensionFraction == 0 {
		p.SolverCfg.MembranePretensionFraction = 0.1
	}
	if p.SolverCfg.MembraneCurvatureRadius == 0 {
		p.SolverCfg.MembraneCurvatureRadius = 1.5
	}
	if p.SolverCfg.MembraneWrinklingEps == 0 {
		p.SolverCfg.MembraneWrinklingEps = 1e-3
	}
	if p.SolverCfg.MembraneMaxStrain == 0 {
		p.SolverCfg.MembraneMaxStrain = 0.2
	}
	if p.SolverCfg.FSIIterations == 0 {
		p.SolverCfg.FSIIterations = 3
	}
	if p.Load.QProfile == "" {
		p.Load.QProfile = "uniform"
	}
	if p.Load.Mode == "" {
		p.Load.Mode = "none"
	}
}

// Validate checks the payload before any model is built. Required
// scalars must be finite; enums must be in the documented set; optional
// sail sub-fields, when present, must be finite.
func (p *Payload) Validate() error {
	req := map[string]float64{
		"geometry.mastLengthM":   p.Geometry.MastLengthM,
		"geometry.partnersZM":    p.Geometry.PartnersZM,
		"geometry.spreaderZM":    p.Geometry.SpreaderZM,
		"geometry.houndsZM":      p.Geometry.HoundsZM,
		"geometry.chainplateXM":  p.Geometry.ChainplateXM,
		"geometry.chainplateYM":  p.Geometry.ChainplateYM,
		"geometry.bowYM":         p.Geometry.BowYM,
		"controls.spreaderLengthM": p.Controls.SpreaderLengthM,
		"controls.jibHalyardTensionN": p.Controls.JibHalyardTensionN,
		"controls.partnersKx":    p.Controls.PartnersKx,
		"controls.partnersKy":    p.Controls.PartnersKy,
		"load.qLateralNpm":       p.Load.QLateralNm,
	}
	for name, v := range req {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chk.Err("invalid payload: field %q must be a finite number, got %v", name, v)
		}
	}
	if p.SolverCfg.MastSegments < 1 {
		return chk.Err("invalid payload: solver.mastSegments must be >= 1")
	}
	if p.SolverCfg.CableSegments < 1 {
		return chk.Err("invalid payload: solver.cableSegments must be >= 1")
	}
	switch p.Load.Mode {
	case "none", "upwind", "downwind":
	default:
		return chk.Err("invalid payload: load.mode %q not in {none,upwind,downwind}", p.Load.Mode)
	}
	switch p.Load.QProfile {
	case "uniform", "triangular":
	default:
		return chk.Err("invalid payload: load.qProfile %q not in {uniform,triangular}", p.Load.QProfile)
	}
	if p.Sails != nil && p.Sails.Enabled {
		optional := map[string]float64{
			"sails.windPressurePa": p.Sails.WindPressurePa,
		}
		if p.Sails.Main.Enabled {
			optional["sails.main.draftDepth"] = p.Sails.Main.DraftDepth
			optional["sails.main.draftPos"] = p.Sails.Main.DraftPos
			optional["sails.main.luffLengthM"] = p.Sails.Main.LuffLengthM
			optional["sails.main.footLengthM"] = p.Sails.Main.FootLengthM
		}
		if p.Sails.Jib.Enabled {
			optional["sails.jib.draftDepth"] = p.Sails.Jib.DraftDepth
			optional["sails.jib.draftPos"] = p.Sails.Jib.DraftPos
			optional["sails.jib.luffLengthM"] = p.Sails.Jib.LuffLengthM
			optional["sails.jib.footLengthM"] = p.Sails.Jib.FootLengthM
		}
		for name, v := range optional {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return chk.Err("invalid payload: field %q must be a finite number, got %v", name, v)
			}
		}
		if p.Sails.WindSign != 1 && p.Sails.WindSign != -1 {
			return chk.Err("invalid payload: sails.windSign must be +1 or -1, got %d", p.Sails.WindSign)
		}
		if p.Sails.Jib.SheetSideSign < -1 || p.Sails.Jib.SheetSideSign > 1 {
			return chk.Err("invalid payload: sails.jib.sheetSideSign must be in {-1,0,1}")
		}
	}
	return nil
}
