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

const (
	membraneE         = 2.5e9  // Pa
	membraneThickness = 0.25e-3 // m
	jibHeadParam      = 0.95   // interior parameter of hounds->bow used for the jib head
	jibTensionFloor   = 50.0   // N, same floor rationale as the rig forestay
)

// SailGrid is a row/column mesh of node ids: row 0 is the foot, the last
// row is the head; column 0 is the luff.
type SailGrid struct {
	Rows, Cols int
	Node       [][]int
}

// SailBuild records what AddSails built, for result extraction.
type SailBuild struct {
	Main        *SailGrid
	Jib         *SailGrid
	JibHeadId   int
	JibLuffIds  []int // head..bow chain, in order
	StayTopIds  []int // hounds..head chain, in order
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

// sectionValue picks a per-row value from an optional shape-sections
// array, falling back to the scalar constant when the array is empty;
// draft depth and position are both allowed to vary by row this way.
func sectionValue(constant float64, rows []float64, rowIdx, nRows int) float64 {
	if len(rows) == 0 {
		return constant
	}
	i := rowIdx * (len(rows) - 1) / maxInt(1, nRows-1)
	return rows[i]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// camberOffset evaluates the NACA-style camber fraction at chordwise
// station sigma in [0,1], for draft depth m and draft position p.
func camberOffset(sigma, m, p float64) float64 {
	if p <= 0 || p >= 1 {
		p = 0.4
	}
	if sigma <= p {
		return m / (p * p) * (2*p*sigma - sigma*sigma)
	}
	q := 1 - p
	return m / (q * q) * ((1 - 2*p) + 2*p*sigma - sigma*sigma)
}

// AddSails extends a rig-only model with the mainsail and/or jib: boom,
// luff columns, the jib's replacement of the forestay by a segmented
// luff, the sail grids with NACA camber, CST membranes and follower
// pressure. Must be called before model.BuildDofMap.
func AddSails(m *Model, p *inp.Payload, lbl *RigLabels, standingScale, halyardScale, loadScale float64) *SailBuild {
	if p.Sails == nil || !p.Sails.Enabled {
		return nil
	}
	sb := &SailBuild{}

	coeff := 1.0
	if p.Load.Mode == "downwind" {
		coeff = 0.3
	}
	effP := loadScale * p.Sails.WindPressurePa * coeff
	signedP := float64(p.Sails.WindSign) * effP

	if p.Sails.Jib.Enabled {
		sb.Jib, sb.JibHeadId, sb.JibLuffIds, sb.StayTopIds = addJib(m, p, lbl, halyardScale, signedP)
	}
	if p.Sails.Main.Enabled {
		sb.Main = addMainsail(m, p, lbl, signedP)
	}
	return sb
}

// addJib replaces the rig's forestay with a segmented luff carrying the
// jib, then builds the jib's sail grid and its clew Dirichlet condition.
func addJib(m *Model, p *inp.Payload, lbl *RigLabels, halyardScale, signedP float64) (*SailGrid, int, []int, []int) {
	jib := p.Sails.Jib

	houndsId := m.MastNodeIds[lbl.HoundsIdx]
	houndsPos := m.Nodes[houndsId].P0
	bowId := m.NodeByLabel[lbl.Bow]
	bowPos := m.Nodes[bowId].P0

	m.RemoveElement("forestay")

	headPos := vec3.Add(houndsPos, vec3.Scale(jibHeadParam, vec3.Sub(bowPos, houndsPos)))
	headId := m.AddNode("jib_head", headPos, false)
	m.SetRole(headId, "interface")

	Ntarget := p.Controls.JibHalyardTensionN * halyardScale
	if Ntarget > 0 && Ntarget < jibTensionFloor {
		Ntarget = jibTensionFloor
	}
	stayMat := mdl.Cable{EA: stayEA, CompressionEps: 0.01, SmoothDelta: 1e-4}
	ratio := 1.0 / (1.0 + Ntarget/stayMat.EA)

	// stay-top segments: hounds -> head
	topCount := jib.StayTopSegments
	if topCount < 1 {
		topCount = 1
	}
	topLen := vec3.Norm(vec3.Sub(headPos, houndsPos)) * ratio / float64(topCount)
	stayTopIds := chainCable(m, "stay_top", houndsId, houndsPos, headId, headPos, topCount, topLen, stayMat)

	// luff segments: head -> bow(tack)
	luffCount := jib.Mesh.LuffSegments
	if luffCount < 1 {
		luffCount = 1
	}
	luffLen := vec3.Norm(vec3.Sub(bowPos, headPos)) * ratio / float64(luffCount)
	luffIds := make([]int, luffCount+1)
	luffIds[0] = headId
	prev := headId
	prevPos := headPos
	for s := 1; s <= luffCount; s++ {
		t := float64(s) / float64(luffCount)
		pos := vec3.Add(headPos, vec3.Scale(t, vec3.Sub(bowPos, headPos)))
		var nid int
		if s == luffCount {
			nid = bowId
			pos = bowPos
		} else {
			nid = m.AddNode(fmt.Sprintf("jib_luff_%d", s), pos, false)
			m.SetRole(nid, "interface")
		}
		m.AddElement(ele.NewCable(fmt.Sprintf("stay_jib_%d", s), prev, nid, luffLen, stayMat))
		luffIds[s] = nid
		prev, prevPos = nid, pos
	}
	_ = prevPos

	// sail grid: rows follow the luff column, columns run foot->leech
	rows := luffCount + 1
	cols := jib.Mesh.ChordSegments + 1
	grid := &SailGrid{Rows: rows, Cols: cols, Node: make([][]int, rows)}

	sheetSign := float64(jib.SheetSideSign)
	chordDir := vec3.Unit(vec3.Vec3{X: sheetSign, Y: 0.3, Z: 0})
	normalDir := vec3.Unit(vec3.Cross(vec3.Vec3{Z: 1}, chordDir))

	for i := 0; i < rows; i++ {
		grid.Node[i] = make([]int, cols)
		luffPos := m.Nodes[luffIds[rows-1-i]].P0 // row 0 = foot (near bow), row rows-1 = head
		chordLen := jib.FootLengthM * (1 - float64(i)/float64(rows-1))
		mRow := sectionValue(jib.DraftDepth, jib.DraftDepthRows, i, rows)
		pRow := sectionValue(jib.DraftPos, jib.DraftPosRows, i, rows)
		for j := 0; j < cols; j++ {
			if j == 0 {
				grid.Node[i][j] = luffIds[rows-1-i]
				continue
			}
			sigma := float64(j) / float64(cols-1)
			camber := camberOffset(sigma, mRow, pRow)
			pos := vec3.Add(luffPos, vec3.Scale(sigma*chordLen, chordDir))
			pos = vec3.Add(pos, vec3.Scale(camber*chordLen, normalDir))
			label := ""
			if i == 0 && j == cols-1 {
				label = "jib_clew"
			}
			nid := m.AddNode(label, pos, false)
			m.SetRole(nid, "sailInternal")
			grid.Node[i][j] = nid
		}
	}

	// jib clew Dirichlet: displace the clew along the sheet-lead vector, then pin
	clewId := grid.Node[0][cols-1]
	lead := vec3.Vec3{X: jib.SheetLeadXMm / 1000, Y: jib.SheetLeadYMm / 1000, Z: 0}
	dispM := jib.ClewDisplaceMm / 1000
	clewPos := vec3.Add(m.Nodes[clewId].P0, vec3.Scale(dispM, vec3.Unit(lead)))
	m.FixNode(clewId, clewPos)

	addMembraneGrid(m, "jib", grid, p.SolverCfg, signedP)
	return grid, headId, luffIds, stayTopIds
}

// addMainsail builds the boom, picks the luff column from existing mast
// nodes, and builds the mainsail grid.
func addMainsail(m *Model, p *inp.Payload, lbl *RigLabels, signedP float64) *SailGrid {
	main := p.Sails.Main
	nSeg := p.SolverCfg.MastSegments
	L := p.Geometry.MastLengthM
	ds := L / float64(nSeg)

	tackIdx := snapIndex(main.TackZM, ds, nSeg)
	headZ := main.TackZM + main.LuffLengthM
	headIdx := snapIndex(headZ, ds, nSeg)
	if headIdx <= tackIdx {
		headIdx = tackIdx + 1
	}
	if headIdx > nSeg {
		headIdx = nSeg
	}

	rows := main.Mesh.LuffSegments + 1
	luffIds := make([]int, rows)
	for i := 0; i < rows; i++ {
		t := float64(i) / float64(rows-1)
		zTarget := float64(tackIdx)*ds + t*(float64(headIdx-tackIdx)*ds)
		luffIds[i] = nearestMastNode(m, zTarget, ds)
	}

	// boom: a rotated/tilted plane from the tack, chordSegments+1 nodes,
	// fixed (Dirichlet), linked by short bars, bent along with a hinge.
	tackPos := m.Nodes[luffIds[0]].P0
	angle := deg2rad(main.BoomAngleDeg)
	tilt := deg2rad(main.BoomTiltDeg)
	dir := vec3.Vec3{
		X: math.Sin(angle) * math.Cos(tilt),
		Y: -math.Cos(angle) * math.Cos(tilt),
		Z: math.Sin(tilt),
	}
	cols := main.Mesh.ChordSegments + 1
	boomIds := make([]int, cols)
	segLen := main.FootLengthM / float64(cols-1)
	outhaul := main.OuthaulMm / 1000
	for j := 0; j < cols; j++ {
		extra := 0.0
		if j == cols-1 {
			extra = outhaul
		}
		pos := vec3.Add(tackPos, vec3.Scale(float64(j)*segLen+extra, dir))
		boomIds[j] = m.AddNode(fmt.Sprintf("boom_%d", j), pos, true)
	}
	for j := 0; j < cols-1; j++ {
		L0 := vec3.Norm(vec3.Sub(m.Nodes[boomIds[j+1]].P0, m.Nodes[boomIds[j]].P0))
		m.AddElement(ele.NewBar(fmt.Sprintf("boom_bar_%d", j), boomIds[j], boomIds[j+1], L0, mdl.Bar{EA: boomBarEA}))
	}
	for j := 1; j < cols-1; j++ {
		m.AddElement(ele.NewBeamHinge(fmt.Sprintf("boom_bend_%d", j), boomIds[j-1], boomIds[j], boomIds[j+1], segLen, boomEI))

	}

	grid := &SailGrid{Rows: rows, Cols: cols, Node: make([][]int, rows)}
	cunningham := main.CunninghamMm / 1000
	chordDir := vec3.Unit(dir)
	normalDir := vec3.Unit(vec3.Cross(vec3.Vec3{Z: 1}, chordDir))
	for i := 0; i < rows; i++ {
		grid.Node[i] = make([]int, cols)
		if i == 0 {
			copy(grid.Node[i], boomIds)
			continue
		}
		luffPos := m.Nodes[luffIds[i]].P0
		if i == rows-1 {
			// cunningham shortens the effective luff near the head only
			luffPos = vec3.Add(luffPos, vec3.Scale(-cunningham, vec3.Vec3{Z: 1}))
		}
		chordLen := main.FootLengthM * (1 - float64(i)/float64(rows-1))
		mRow := sectionValue(main.DraftDepth, main.DraftDepthRows, i, rows)
		pRow := sectionValue(main.DraftPos, main.DraftPosRows, i, rows)
		for j := 0; j < cols; j++ {
			if j == 0 {
				grid.Node[i][j] = luffIds[i]
				continue
			}
			sigma := float64(j) / float64(cols-1)
			camber := camberOffset(sigma, mRow, pRow)
			pos := vec3.Add(luffPos, vec3.Scale(sigma*chordLen, chordDir))
			pos = vec3.Add(pos, vec3.Scale(camber*chordLen, normalDir))
			nid := m.AddNode("", pos, false)
			m.SetRole(nid, "sailInternal")
			grid.Node[i][j] = nid
		}
	}

	addMembraneGrid(m, "main", grid, p.SolverCfg, signedP)
	return grid
}

const (
	boomBarEA = 1.0e2  // N, kept soft: the boom is a geometry carrier, not a structural member here
	boomEI    = 5000.0 // N.m^2
)

// nearestMastNode returns the mast node id whose z is closest to zTarget.
func nearestMastNode(m *Model, zTarget, ds float64) int {
	idx := int(math.Round(zTarget / ds))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.MastNodeIds) {
		idx = len(m.MastNodeIds) - 1
	}
	return m.MastNodeIds[idx]
}

// chainCable links from->to through count-1 interior nodes with equal
// rest length segL0 each, used for the jib's stay-top segments. Returns
// the full ordered chain including both endpoints.
func chainCable(m *Model, prefix string, fromId int, fromPos vec3.Vec3, toId int, toPos vec3.Vec3, count int, segL0 float64, mat mdl.Cable) []int {
	chain := []int{fromId}
	prev := fromId
	for s := 1; s < count; s++ {
		t := float64(s) / float64(count)
		pos := vec3.Add(fromPos, vec3.Scale(t, vec3.Sub(toPos, fromPos)))
		nid := m.AddNode(fmt.Sprintf("%s_%d", prefix, s), pos, false)
		m.SetRole(nid, "interface")
		m.AddElement(ele.NewCable(fmt.Sprintf("%s_cable_%d", prefix, s), prev, nid, segL0, mat))
		chain = append(chain, nid)
		prev = nid
	}
	m.AddElement(ele.NewCable(fmt.Sprintf("%s_cable_%d", prefix, count), prev, toId, segL0, mat))
	chain = append(chain, toId)
	return chain
}

// addMembraneGrid splits every grid cell into two CST triangles along the
// (row,col)-(row+1,col+1) diagonal and attaches a follower pressure load
// over each.
func addMembraneGrid(m *Model, prefix string, grid *SailGrid, solver inp.Solver, signedP float64) {
	prestress := solver.MembranePrestress
	if prestress == 0 {
		prestress = mdl.ExpectedPrestress(math.Abs(signedP), solver.MembraneCurvatureRadius, membraneThickness, solver.MembranePretensionFraction)
	}
	mat := mdl.Membrane{E: membraneE, Nu: 0.3, Thickness: membraneThickness, Prestress: prestress, WrinklingEps: solver.MembraneWrinklingEps}

	for i := 0; i < grid.Rows-1; i++ {
		for j := 0; j < grid.Cols-1; j++ {
			n00 := grid.Node[i][j]
			n10 := grid.Node[i][j+1]
			n01 := grid.Node[i+1][j]
			n11 := grid.Node[i+1][j+1]

			t1name := fmt.Sprintf("%s_tri_%d_%d_a", prefix, i, j)
			t2name := fmt.Sprintf("%s_tri_%d_%d_b", prefix, i, j)
			m.AddElement(ele.NewMembrane(t1name, n00, n10, n11, m.Nodes[n00].P0, m.Nodes[n10].P0, m.Nodes[n11].P0, mat))
			m.AddElement(ele.NewMembrane(t2name, n00, n11, n01, m.Nodes[n00].P0, m.Nodes[n11].P0, m.Nodes[n01].P0, mat))

			if signedP != 0 {
				m.AddElement(ele.NewFollowerPressure(fmt.Sprintf("%s_p_%d_%d_a", prefix, i, j), n00, n10, n11, signedP))
				m.AddElement(ele.NewFollowerPressure(fmt.Sprintf("%s_p_%d_%d_b", prefix, i, j), n00, n11, n01, signedP))
			}
		}
	}
}
