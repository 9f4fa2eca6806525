// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem builds the rig/sail model, assembles energy, gradient and
// tangent, drives the Newton and Dynamic Relaxation solvers, runs the
// load continuation with segregated FSI, and extracts results. It plays
// the role of gofem's fem package — domain bookkeeping plus solver
// orchestration — but for a single-shot nonlinear equilibrium problem
// instead of a multi-field, multi-stage time-stepping FEM domain: each
// continuation step builds a fresh Model, with no persistent
// internal-variable state carried across steps.
package fem

import (
	"math"

	"github.com/cpmech/rigfem/ele"
	"github.com/cpmech/rigfem/vec3"
)

// Node carries identity, rest position and the free/fixed flag. Role
// classifies the node for segregated FSI: "rig" (mast, spreader,
// shroud, chainplates, mast step), "sailInternal" (interior membrane
// node excluding the luff column) or "interface" (jib luff, jib head,
// stay-top nodes). Every node defaults to "rig"; the sail builder
// reassigns the ones it creates.
type Node struct {
	Id    int
	Label string
	P0    vec3.Vec3
	Fixed bool
	Role  string
}

// Model is the fully built rig (+ optional sail) model: nodes, elements
// and bookkeeping needed to assemble and solve one equilibrium state. A
// continuation step that wants a different λ builds a fresh Model via the
// builder in model.go; a built Model is still modified in place where
// needed (AddSails removes the forestay element, segregatedFSI toggles
// node Fixed flags and rebuilds the DOF map).
type Model struct {
	Nodes    []Node
	Elements []ele.Element

	// dof map: base index for each free node, -1 if fixed
	dofBase []int
	NDof    int

	// bookkeeping for result extraction and diagnostics
	NodeByLabel map[string]int
	MastNodeIds []int // ordered bottom->top

	// AppliedForces holds the constant (non-follower) dead loads, keyed
	// by node id; consumed by Assemble.
	AppliedForces map[int]vec3.Vec3
}

// NewModel allocates an empty model.
func NewModel() *Model {
	return &Model{NodeByLabel: map[string]int{}}
}

// AddNode appends a node and returns its id.
func (m *Model) AddNode(label string, p0 vec3.Vec3, fixed bool) int {
	id := len(m.Nodes)
	m.Nodes = append(m.Nodes, Node{Id: id, Label: label, P0: p0, Fixed: fixed, Role: "rig"})
	if label != "" {
		m.NodeByLabel[label] = id
	}
	return id
}

// SetRole reassigns a node's FSI classification.
func (m *Model) SetRole(id int, role string) { m.Nodes[id].Role = role }

// NodesWithRole returns every node id carrying the given role.
func (m *Model) NodesWithRole(role string) []int {
	var ids []int
	for _, n := range m.Nodes {
		if n.Role == role {
			ids = append(ids, n.Id)
		}
	}
	return ids
}

// PosToU builds a free-DOF displacement vector u = pos - p0 against the
// model's current DOF map, used when a phase switches which nodes are
// free (segregated FSI) and displacement must be re-derived from
// absolute positions rather than carried index-for-index.
func (m *Model) PosToU(pos []vec3.Vec3) []float64 {
	u := make([]float64, m.NDof)
	for i, n := range m.Nodes {
		b := m.dofBase[i]
		if b < 0 {
			continue
		}
		d := vec3.Sub(pos[i], n.P0)
		u[b], u[b+1], u[b+2] = d.X, d.Y, d.Z
	}
	return u
}

// AddElement appends an element to the model.
func (m *Model) AddElement(e ele.Element) {
	m.Elements = append(m.Elements, e)
}

// FixNode pins an existing node at p, used by the jib clew Dirichlet
// condition, which displaces then pins a node that was created free.
// Must be called before BuildDofMap.
func (m *Model) FixNode(id int, p vec3.Vec3) {
	m.Nodes[id].Fixed = true
	m.Nodes[id].P0 = p
}

// RemoveElement drops the first element with the given name, used when
// the sail builder replaces the rig's forestay with a segmented jib
// luff.
func (m *Model) RemoveElement(name string) {
	for i, e := range m.Elements {
		if e.Name() == name {
			m.Elements = append(m.Elements[:i], m.Elements[i+1:]...)
			return
		}
	}
}

// BuildDofMap assigns 3 consecutive DOFs to each free node, in node-id
// order, so indices stay contiguous and stable. Must be called once
// after all nodes are added and before any assembly.
func (m *Model) BuildDofMap() {
	m.dofBase = make([]int, len(m.Nodes))
	next := 0
	for i, n := range m.Nodes {
		if n.Fixed {
			m.dofBase[i] = -1
			continue
		}
		m.dofBase[i] = next
		next += 3
	}
	m.NDof = next
}

// DofBase returns the base DOF index of node id, or -1 if fixed.
func (m *Model) DofBase(id int) int { return m.dofBase[id] }

// Positions returns absolute nodal positions p = p0 + u (fixed nodes use
// p0).
func (m *Model) Positions(u []float64) []vec3.Vec3 {
	pos := make([]vec3.Vec3, len(m.Nodes))
	for i, n := range m.Nodes {
		if n.Fixed || m.dofBase[i] < 0 {
			pos[i] = n.P0
			continue
		}
		b := m.dofBase[i]
		pos[i] = vec3.Add(n.P0, vec3.Vec3{X: u[b], Y: u[b+1], Z: u[b+2]})
	}
	return pos
}

// elementDofMap returns, for one element, the global DOF index (or -1 for
// a fixed node) of each of its local 3-dof slots, flattened.
func (m *Model) elementDofMap(e ele.Element) []int {
	nodes := e.Nodes()
	dofs := make([]int, 3*len(nodes))
	for k, nid := range nodes {
		b := m.dofBase[nid]
		for d := 0; d < 3; d++ {
			if b < 0 {
				dofs[3*k+d] = -1
			} else {
				dofs[3*k+d] = b + d
			}
		}
	}
	return dofs
}

// checkFinite reports whether every entry of v is finite.
func checkFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
