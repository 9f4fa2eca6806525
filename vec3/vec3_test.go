// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec3

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_vec3_ops01(tst *testing.T) {

	chk.PrintTitle("vec3_ops01. basic vector algebra")

	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -1, Z: 0.5}

	sum := Add(a, b)
	chk.Scalar(tst, "sum.X", 1e-15, sum.X, 5)
	chk.Scalar(tst, "sum.Y", 1e-15, sum.Y, 1)
	chk.Scalar(tst, "sum.Z", 1e-15, sum.Z, 3.5)

	diff := Sub(a, b)
	chk.Scalar(tst, "diff.X", 1e-15, diff.X, -3)

	s := Scale(2, a)
	chk.Scalar(tst, "scale.Z", 1e-15, s.Z, 6)

	chk.Scalar(tst, "dot", 1e-15, Dot(a, b), 1*4+2*-1+3*0.5)

	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	z := Cross(x, y)
	chk.Scalar(tst, "cross.Z", 1e-15, z.Z, 1)

	chk.Scalar(tst, "norm", 1e-15, Norm(Vec3{X: 3, Y: 4}), 5)

	u := Unit(Vec3{X: 0, Y: 0, Z: 0})
	chk.Scalar(tst, "unit of zero vector", 1e-15, Norm(u), 0)
}

func Test_vec3_flat01(tst *testing.T) {

	chk.PrintTitle("vec3_flat01. flat-vector helpers")

	v := []float64{-3, 1, 2, -7, 0.5}
	chk.Scalar(tst, "VecNormInf", 1e-15, VecNormInf(v), 7)

	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	chk.Scalar(tst, "VecDot", 1e-15, VecDot(a, b), 32)

	p := FromSlice([]float64{1, 2, 3})
	arr := p.Array()
	chk.Scalar(tst, "Array()[1]", 1e-15, arr[1], 2)
}
