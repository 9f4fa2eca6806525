// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rigfem/inp"
)

// minimalSailPayload returns the smallest jib+main fixture that still
// exercises the full sail path: stay replacement, sail-grid membranes,
// follower pressure and the segregated FSI alternation.
func minimalSailPayload() *inp.Payload {
	p := baselineRigPayload()
	p.Sails = &inp.Sails{
		Enabled:        true,
		WindPressurePa: 200,
		WindSign:       1,
		Main: inp.MainSail{
			Enabled:     true,
			TackZM:      0.6,
			LuffLengthM: 8,
			FootLengthM: 2,
			Mesh:        inp.SailMesh{LuffSegments: 2, ChordSegments: 2},
		},
		Jib: inp.JibSail{
			Enabled:       true,
			LuffLengthM:   9,
			FootLengthM:   1.5,
			SheetSideSign: 1,
			Mesh:          inp.SailMesh{LuffSegments: 2, ChordSegments: 2},
		},
	}
	p.SolverCfg.UseSegregatedFSI = true
	p.SetDefault()
	return p
}

func Test_addsails01(tst *testing.T) {

	chk.PrintTitle("addsails01. AddSails builds a main and jib grid and replaces the forestay")

	p := minimalSailPayload()
	m, lbl := BuildRigModel(p, 1, 1, 0)
	sb := AddSails(m, p, lbl, 1, 1, 0)

	if sb == nil {
		tst.Fatal("expected a non-nil sail build")
	}
	if sb.Main == nil {
		tst.Fatal("expected a mainsail grid")
	}
	if sb.Jib == nil {
		tst.Fatal("expected a jib grid")
	}
	wantRows := p.Sails.Jib.Mesh.LuffSegments + 1
	wantCols := p.Sails.Jib.Mesh.ChordSegments + 1
	if sb.Jib.Rows != wantRows || sb.Jib.Cols != wantCols {
		tst.Fatalf("jib grid shape = %dx%d, want %dx%d", sb.Jib.Rows, sb.Jib.Cols, wantRows, wantCols)
	}
	if len(sb.JibLuffIds) != wantRows {
		tst.Fatalf("expected %d luff ids, got %d", wantRows, len(sb.JibLuffIds))
	}
	for _, e := range m.Elements {
		if e.Name() == "forestay" {
			tst.Fatal("expected the jib to remove the forestay element once it replaces it")
		}
	}
}

func Test_simulate_withsails01(tst *testing.T) {

	chk.PrintTitle("simulate_withsails01. a minimal main+jib rig solves end to end through segregated FSI")

	p := minimalSailPayload()
	res := Simulate(p)

	if !res.Ok {
		tst.Fatalf("expected Ok, got reason=%q", res.Reason)
	}
	if res.Outputs.Sails == nil {
		tst.Fatal("expected sail snapshots in the outputs")
	}
	if res.Outputs.Sails.Loaded == nil || res.Outputs.Sails.Loaded.Main == nil || res.Outputs.Sails.Loaded.Jib == nil {
		tst.Fatal("expected both main and jib grids in the loaded sail snapshot")
	}
	if res.Outputs.Tensions.ForestayN <= 0 {
		tst.Fatalf("expected a positive jib stay-top tension, got %g", res.Outputs.Tensions.ForestayN)
	}
}
