// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec3

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Mat is a dense row-major matrix, the same [][]float64 shape gofem's
// element kernels build with la.MatAlloc (see ele/solid/elastrod.go).
type Mat = [][]float64

// NewMat allocates an nrow x ncol matrix of zeros.
func NewMat(nrow, ncol int) Mat { return la.MatAlloc(nrow, ncol) }

// AddBlock adds a small element block src (ne x ne) into the global dense
// matrix dst at the rows/cols given by map. Used by the assembler to
// scatter element tangents; out-of-range indices (fixed DOFs) are skipped.
func AddBlock(dst Mat, emap []int, src Mat) {
	for i, I := range emap {
		if I < 0 {
			continue
		}
		for j, J := range emap {
			if J < 0 {
				continue
			}
			dst[I][J] += src[i][j]
		}
	}
}

// AddVec adds a small element vector src into the global flat vector dst
// at the rows given by emap; out-of-range indices are skipped.
func AddVec(dst []float64, emap []int, src []float64) {
	for i, I := range emap {
		if I < 0 {
			continue
		}
		dst[I] += src[i]
	}
}

// LUSolve solves A.x = b via Gaussian elimination with partial pivoting,
// returning a copy of x. A is cloned before elimination, so the caller's
// tangent matrix is left intact; b is not modified either. Returns
// ok=false if a singular pivot (below tiny) was found, in
// which case x holds whatever was computed up to the failure and must not
// be used. This is the dense linear solve the Newton driver calls for
// (K + lambda*I)*du = -g; gofem's own global solves are delegated to
// optional umfpack/mumps bindings (inp/sim.go's LinSolData) which are
// unsuited to an in-process, dependency-light core of this size — see
// DESIGN.md.
func LUSolve(A Mat, b []float64, tiny float64) (x []float64, ok bool) {
	n := len(b)
	x = make([]float64, n)
	copy(x, b)

	// work on a clone so callers keep their tangent matrix intact
	M := la.MatClone(A)

	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}

	for k := 0; k < n; k++ {
		// partial pivot: largest magnitude in column k, rows >= k
		p := k
		best := math.Abs(M[k][k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(M[i][k]); v > best {
				best = v
				p = i
			}
		}
		if best < tiny {
			return x, false
		}
		if p != k {
			M[k], M[p] = M[p], M[k]
			x[k], x[p] = x[p], x[k]
		}
		for i := k + 1; i < n; i++ {
			f := M[i][k] / M[k][k]
			if f == 0 {
				continue
			}
			M[i][k] = 0
			for j := k + 1; j < n; j++ {
				M[i][j] -= f * M[k][j]
			}
			x[i] -= f * x[k]
		}
	}

	// back substitution
	for i := n - 1; i >= 0; i-- {
		s := x[i]
		for j := i + 1; j < n; j++ {
			s -= M[i][j] * x[j]
		}
		if M[i][i] == 0 {
			chk.Panic("LUSolve: zero pivot survived elimination at row %d", i)
		}
		x[i] = s / M[i][i]
	}
	return x, true
}
