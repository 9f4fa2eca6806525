// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec3

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_lusolve01(tst *testing.T) {

	chk.PrintTitle("lusolve01. 3x3 solve against a known answer")

	A := Mat{
		{2, 1, 1},
		{1, 3, 2},
		{1, 0, 0},
	}
	b := []float64{4, 5, 6}

	x, ok := LUSolve(A, b, 1e-12)
	if !ok {
		tst.Fatal("LUSolve reported singular for a well-conditioned matrix")
	}

	// verify A.x == b rather than hard-coding x, to stay independent of
	// elimination order
	res := make([]float64, 3)
	for i := 0; i < 3; i++ {
		s := 0.0
		for j := 0; j < 3; j++ {
			s += A[i][j] * x[j]
		}
		res[i] = s
	}
	chk.Vector(tst, "A.x", 1e-9, res, b)

	// A must be untouched (LUSolve clones before eliminating)
	chk.Scalar(tst, "A[0][0] untouched", 1e-15, A[0][0], 2)
	chk.Scalar(tst, "A[1][2] untouched", 1e-15, A[1][2], 2)
}

func Test_lusolve02(tst *testing.T) {

	chk.PrintTitle("lusolve02. singular matrix is reported, not panicked")

	A := Mat{
		{1, 2},
		{2, 4},
	}
	b := []float64{1, 2}
	_, ok := LUSolve(A, b, 1e-9)
	if ok {
		tst.Fatal("LUSolve should have reported a singular pivot")
	}
}

func Test_addblock01(tst *testing.T) {

	chk.PrintTitle("addblock01. scatter a local block, skipping fixed dofs")

	dst := NewMat(4, 4)
	// emap[1] = -1 marks a fixed dof; its row/col must not be touched
	AddBlock(dst, []int{0, -1, 2}, Mat{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	chk.Scalar(tst, "dst[0][0]", 1e-15, dst[0][0], 1)
	chk.Scalar(tst, "dst[0][2]", 1e-15, dst[0][2], 3)
	chk.Scalar(tst, "dst[2][0]", 1e-15, dst[2][0], 7)
	chk.Scalar(tst, "dst[2][2]", 1e-15, dst[2][2], 9)
	for i := 0; i < 4; i++ {
		chk.Scalar(tst, "dst row untouched by fixed col", 1e-15, dst[i][1], 0)
	}
}
