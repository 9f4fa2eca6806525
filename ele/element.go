// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ele implements the per-element energy/gradient/tangent kernels
// of the rig and sail model (bar, cable, cable-path, beam hinge, spring,
// CST membrane with wrinkling, follower pressure). Each element is
// stateless between calls:
// Eval recomputes everything from the current absolute nodal positions,
// unlike gofem's ele.Element which threads history (internal variables,
// star variables) through an implicit time-stepping FEM domain — this rig
// model has no material history, only a continuation parameter, so that
// machinery (InterpStarVars, Encode/Decode, BackupIvs/RestoreIvs) has
// nothing to attach to here.
package ele

import (
	"math"

	"github.com/cpmech/rigfem/vec3"
)

// Eval is the local contribution computed by one element at the current
// configuration. Global assembly calls this once per element per
// iteration.
type Eval struct {
	Energy float64   // local strain/potential energy
	Grad   []float64 // local gradient, length 3*len(Nodes())
	K      vec3.Mat  // local tangent (3n x 3n); nil when withK is false
	Axial  float64   // reported axial force/tension; math.NaN() if n/a
	Slack  bool      // true when a cable/cable-path is in compression
}

// Element is implemented by every kernel in this package.
type Element interface {
	Name() string   // element name, used as the meta/diagnostics key
	Nodes() []int   // global node ids this element touches, in local order
	Eval(pos []vec3.Vec3, withK bool) Eval
}

// NewEval allocates an Eval with a local gradient (and, if withK, tangent)
// sized for n nodes.
func NewEval(n int, withK bool) Eval {
	e := Eval{Grad: make([]float64, 3*n)}
	if withK {
		e.K = vec3.NewMat(3*n, 3*n)
	}
	e.Axial = math.NaN()
	return e
}
