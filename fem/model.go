// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"

	"github.com/cpmech/rigfem/ele"
	"github.com/cpmech/rigfem/inp"
	"github.com/cpmech/rigfem/mdl"
	"github.com/cpmech/rigfem/vec3"
)

// Rig-scale stiffnesses left unspecified by the payload. mastEA is the
// one concrete figure the design carries over verbatim, intentionally
// reduced by more than an order of magnitude from a real mast's EA to
// keep P-Delta behaviour numerically tractable; the others are
// representative rig-scale placeholders kept in the same conditioning
// band.
const (
	mastEA     = 5.0e5 // N
	spreaderEA = 3.0e6 // N
	shroudEA   = 2.0e6 // N
	stayEA     = 2.0e6 // N

	cableSmoothDelta = 1e-4 // delta floor shared by standing rigging cables
	stayTensionFloor = 50.0 // N, minimum tension floor
)

// RigLabels collects the node labels sails.go needs back out of the
// built model, since AddNode only records labels for nodes that carry
// one.
type RigLabels struct {
	MastStep                string
	PartnersIdx, SpreaderIdx int
	HoundsIdx, ShroudAttach  int
	TipPort, TipStbd         string
	ChainplatePort, ChainplateStbd string
	Bow                      string
	StayHeadIdx              int // mast node id the forestay starts from

	ShroudPortChain, ShroudStbdChain []int // attach..tip..chainplate, in order
	StayChain                        []int // hounds..bow, before any jib replacement
}

// snapIndex rounds z/ds to the nearest integer, clamped to [1,nSeg].
func snapIndex(z, ds float64, nSeg int) int {
	idx := int(math.Round(z / ds))
	if idx < 1 {
		idx = 1
	}
	if idx > nSeg {
		idx = nSeg
	}
	return idx
}

// BuildRigModel assembles the rig-only model (mast, spreaders, standing
// rigging, forestay, deck-partner spring, wind load) at the given
// continuation scales. Sails, when enabled, are layered on top by
// AddSails in sails.go.
func BuildRigModel(p *inp.Payload, standingScale, halyardScale, loadScale float64) (*Model, *RigLabels) {
	m := NewModel()
	lbl := &RigLabels{}

	L := p.Geometry.MastLengthM
	nSeg := p.SolverCfg.MastSegments
	ds := L / float64(nSeg)

	// step 1: mast nodes z = k*ds, k=0..nSeg; node 0 pinned.
	mastIds := make([]int, nSeg+1)
	for k := 0; k <= nSeg; k++ {
		z := float64(k) * ds
		label := ""
		fixed := false
		if k == 0 {
			label = "mast_step"
			fixed = true
			lbl.MastStep = label
		}
		mastIds[k] = m.AddNode(label, vec3.Vec3{X: 0, Y: 0, Z: z}, fixed)
	}
	m.MastNodeIds = mastIds

	spreaderIdx := snapIndex(p.Geometry.SpreaderZM, ds, nSeg)
	partnersIdx := snapIndex(p.Geometry.PartnersZM, ds, nSeg)
	houndsIdx := snapIndex(p.Geometry.HoundsZM, ds, nSeg)
	shroudAttachIdx := snapIndex(p.Geometry.ShroudAttachZM, ds, nSeg)
	lbl.SpreaderIdx, lbl.PartnersIdx, lbl.HoundsIdx, lbl.ShroudAttach = spreaderIdx, partnersIdx, houndsIdx, shroudAttachIdx
	lbl.StayHeadIdx = houndsIdx

	// step 2: spreader tips at (±x_out, -sweep, z_root)
	sweep := p.Controls.SpreaderSweepAftM
	Lspr := p.Controls.SpreaderLengthM
	xOut := math.Sqrt(math.Max(0, Lspr*Lspr-sweep*sweep))
	zRoot := float64(spreaderIdx) * ds
	tipPortId := m.AddNode("spreader_tip_port", vec3.Vec3{X: -xOut, Y: -sweep, Z: zRoot}, false)
	tipStbdId := m.AddNode("spreader_tip_stbd", vec3.Vec3{X: xOut, Y: -sweep, Z: zRoot}, false)
	lbl.TipPort, lbl.TipStbd = "spreader_tip_port", "spreader_tip_stbd"

	// step 3: fixed chainplates and bow
	cpPortId := m.AddNode("chainplate_port", vec3.Vec3{X: -p.Geometry.ChainplateXM, Y: p.Geometry.ChainplateYM, Z: 0}, true)
	cpStbdId := m.AddNode("chainplate_stbd", vec3.Vec3{X: p.Geometry.ChainplateXM, Y: p.Geometry.ChainplateYM, Z: 0}, true)
	bowId := m.AddNode("bow", vec3.Vec3{X: 0, Y: p.Geometry.BowYM, Z: 0}, true)
	lbl.ChainplatePort, lbl.ChainplateStbd, lbl.Bow = "chainplate_port", "chainplate_stbd", "bow"

	// step 4: mast bars and spreader bars
	for k := 0; k < nSeg; k++ {
		m.AddElement(ele.NewBar(fmt.Sprintf("mast_%d", k), mastIds[k], mastIds[k+1], ds, mdl.Bar{EA: mastEA}))
	}
	rootId := mastIds[spreaderIdx]
	m.AddElement(ele.NewBar("spreader_port", rootId, tipPortId, Lspr, mdl.Bar{EA: spreaderEA}))
	m.AddElement(ele.NewBar("spreader_stbd", rootId, tipStbdId, Lspr, mdl.Bar{EA: spreaderEA}))

	// step 5: shrouds as cable-paths over the spreader tips
	attachId := mastIds[shroudAttachIdx]
	attachPos := m.Nodes[attachId].P0
	lbl.ShroudPortChain = buildShroud(m, "shroud_port", attachId, tipPortId, cpPortId, attachPos,
		vec3.Vec3{X: -xOut, Y: -sweep, Z: zRoot}, vec3.Vec3{X: -p.Geometry.ChainplateXM, Y: p.Geometry.ChainplateYM, Z: 0},
		p.Controls.ShroudBaseDeltaM, p.Controls.ShroudDeltaL0PortM, standingScale, p.SolverCfg.CableSegments, p.SolverCfg.CableCompression)
	lbl.ShroudStbdChain = buildShroud(m, "shroud_stbd", attachId, tipStbdId, cpStbdId, attachPos,
		vec3.Vec3{X: xOut, Y: -sweep, Z: zRoot}, vec3.Vec3{X: p.Geometry.ChainplateXM, Y: p.Geometry.ChainplateYM, Z: 0},
		p.Controls.ShroudBaseDeltaM, p.Controls.ShroudDeltaL0StbdM, standingScale, p.SolverCfg.CableSegments, p.SolverCfg.CableCompression)

	// step 6: forestay
	houndsId := mastIds[houndsIdx]
	houndsPos := m.Nodes[houndsId].P0
	bowPos := m.Nodes[bowId].P0
	Lstay := vec3.Norm(vec3.Sub(bowPos, houndsPos))
	stayMat := mdl.Cable{EA: stayEA, CompressionEps: p.SolverCfg.CableCompression, SmoothDelta: cableSmoothDelta}
	Ntarget := p.Controls.JibHalyardTensionN * halyardScale
	if Ntarget > 0 && Ntarget < stayTensionFloor {
		Ntarget = stayTensionFloor
	}
	if p.Controls.LockStayLength {
		L0 := Lstay / (1 + Ntarget/stayMat.EA)
		m.AddElement(ele.NewCable("forestay", houndsId, bowId, L0, stayMat))
	} else {
		m.AddElement(ele.NewTensionForce("forestay", houndsId, bowId, Ntarget))
	}
	lbl.StayChain = []int{houndsId, bowId}

	// step 7: deck-partner to-ground spring with a smooth pretension ramp;
	// zero offset at zero tension keeps the ramp well-defined there
	partnersId := mastIds[partnersIdx]
	active := math.Min(1, halyardScale*Ntarget/500.0)
	target := vec3.Vec3{X: p.Controls.PartnersOffsetXM * active, Y: p.Controls.PartnersOffsetYM * active, Z: 0}
	m.AddElement(ele.NewToGroundSpring("deck_partner", partnersId, m.Nodes[partnersId].P0, target,
		p.Controls.PartnersKx, p.Controls.PartnersKy, 0))

	// step 8: distributed wind load on the mast
	applied := windLoad(m, mastIds, ds, L, p.Load, loadScale)
	m.AppliedForces = applied

	// step 9: bending triplets over the whole mast
	beamMat := mdl.Beam{EIBase: p.Stiff.MastEIBase, EITop: p.Stiff.MastEITop, TaperStartZM: p.Stiff.TaperStartZM, MastLengthM: L}
	for k := 1; k < nSeg; k++ {
		z := float64(k) * ds
		ei := beamMat.EIAt(z)
		m.AddElement(ele.NewBeamHinge(fmt.Sprintf("mast_bend_%d", k), mastIds[k-1], mastIds[k], mastIds[k+1], ds, ei))
	}

	return m, lbl
}

// buildShroud adds a shroud from attach through the spreader tip to the
// chainplate: a single CablePath when cableSegments==1, else split into
// ceil(n/2) upper segments and floor(n/2) lower segments with rest
// length apportioned by the undeformed split lengths.
func buildShroud(m *Model, name string, attachId, tipId, cpId int, attachPos, tipPos, cpPos vec3.Vec3,
	baseDelta, sideDelta, standingScale float64, cableSegments int, compressionEps float64) []int {

	Li := vec3.Norm(vec3.Sub(tipPos, attachPos))
	Lj := vec3.Norm(vec3.Sub(cpPos, tipPos))
	Lpath := Li + Lj
	L0total := Lpath - (baseDelta+sideDelta)*standingScale
	mat := mdl.Cable{EA: shroudEA, CompressionEps: compressionEps, SmoothDelta: cableSmoothDelta}

	if cableSegments <= 1 {
		m.AddElement(ele.NewCablePath(name, attachId, tipId, cpId, L0total, mat))
		return []int{attachId, tipId, cpId}
	}

	nUp := (cableSegments + 1) / 2
	nLo := cableSegments / 2
	L0i := L0total * Li / Lpath
	L0j := L0total * Lj / Lpath

	up := chainNodes(m, name+"_up", attachId, attachPos, tipId, tipPos, nUp, L0i/float64(nUp), mat)
	lo := chainNodes(m, name+"_lo", tipId, tipPos, cpId, cpPos, nLo, L0j/float64(nLo), mat)
	return append(up, lo[1:]...)
}

// chainNodes interpolates nSeg-1 interior nodes linearly (in the rest
// configuration) between two existing nodes, links them with plain Cable
// segments of equal rest length segL0 each, and returns the full ordered
// chain including both endpoints.
func chainNodes(m *Model, prefix string, fromId int, fromPos vec3.Vec3, toId int, toPos vec3.Vec3, nSeg int, segL0 float64, mat mdl.Cable) []int {
	chain := []int{fromId}
	prev := fromId
	for s := 1; s < nSeg; s++ {
		t := float64(s) / float64(nSeg)
		p := vec3.Add(fromPos, vec3.Scale(t, vec3.Sub(toPos, fromPos)))
		nid := m.AddNode("", p, false)
		m.AddElement(ele.NewCable(fmt.Sprintf("%s_%d", prefix, s), prev, nid, segL0, mat))
		chain = append(chain, nid)
		prev = nid
	}
	m.AddElement(ele.NewCable(fmt.Sprintf("%s_%d", prefix, nSeg), prev, toId, segL0, mat))
	chain = append(chain, toId)
	return chain
}

// windLoad distributes the wind-on-mast load and returns it as a
// per-node applied-force map for Assemble.
func windLoad(m *Model, mastIds []int, ds, Lmast float64, load inp.Load, loadScale float64) map[int]vec3.Vec3 {
	applied := map[int]vec3.Vec3{}
	if load.Mode == "none" || loadScale == 0 {
		return applied
	}
	sign := 1.0
	coeff := 1.0
	if load.Mode == "downwind" {
		sign = -1.0
		coeff = 0.3
	}
	for _, nid := range mastIds {
		if m.Nodes[nid].Fixed {
			continue
		}
		z := m.Nodes[nid].P0.Z
		q := load.QLateralNm
		if load.QProfile == "triangular" {
			q *= z / Lmast
		}
		fx := -sign * loadScale * coeff * q * ds
		applied[nid] = vec3.Vec3{X: fx}
	}
	return applied
}
