// Copyright 2016 The Rigfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/rigfem/vec3"

// Spring is either a to-ground spring on one free node, penalising its
// displacement from an optional prescribed target, or a relative spring
// between two nodes penalising (u_a - u_b). Both forms share a diagonal
// stiffness (kx,ky,kz).
type Spring struct {
	name     string
	a, b     int // b == -1 for a to-ground spring
	p0a, p0b vec3.Vec3
	target   vec3.Vec3 // only used when b == -1
	kx, ky, kz float64
}

// NewToGroundSpring builds a to-ground spring at node a with rest
// position p0a and prescribed displacement target.
func NewToGroundSpring(name string, a int, p0a, target vec3.Vec3, kx, ky, kz float64) *Spring {
	return &Spring{name: name, a: a, b: -1, p0a: p0a, target: target, kx: kx, ky: ky, kz: kz}
}

// NewRelativeSpring builds a spring between nodes a and b penalising
// their relative displacement.
func NewRelativeSpring(name string, a, b int, p0a, p0b vec3.Vec3, kx, ky, kz float64) *Spring {
	return &Spring{name: name, a: a, b: b, p0a: p0a, p0b: p0b, kx: kx, ky: ky, kz: kz}
}

func (s *Spring) Name() string { return s.name }

func (s *Spring) Nodes() []int {
	if s.b < 0 {
		return []int{s.a}
	}
	return []int{s.a, s.b}
}

func (s *Spring) Eval(pos []vec3.Vec3, withK bool) Eval {
	var du vec3.Vec3
	n := 1
	if s.b < 0 {
		ua := vec3.Sub(pos[s.a], s.p0a)
		du = vec3.Sub(ua, s.target)
	} else {
		n = 2
		ua := vec3.Sub(pos[s.a], s.p0a)
		ub := vec3.Sub(pos[s.b], s.p0b)
		du = vec3.Sub(ua, ub)
	}

	ev := NewEval(n, withK)
	ev.Energy = 0.5 * (s.kx*du.X*du.X + s.ky*du.Y*du.Y + s.kz*du.Z*du.Z)

	fx, fy, fz := s.kx*du.X, s.ky*du.Y, s.kz*du.Z
	ev.Grad[0], ev.Grad[1], ev.Grad[2] = fx, fy, fz
	if s.b >= 0 {
		ev.Grad[3], ev.Grad[4], ev.Grad[5] = -fx, -fy, -fz
	}

	if withK {
		ev.K[0][0], ev.K[1][1], ev.K[2][2] = s.kx, s.ky, s.kz
		if s.b >= 0 {
			ev.K[3][3], ev.K[4][4], ev.K[5][5] = s.kx, s.ky, s.kz
			ev.K[0][3], ev.K[1][4], ev.K[2][5] = -s.kx, -s.ky, -s.kz
			ev.K[3][0], ev.K[4][1], ev.K[5][2] = -s.kx, -s.ky, -s.kz
		}
	}
	return ev
}

// Force returns the spring force vector fx,fy,fz = k*(current du), used
// by result extraction for the springsForces output.
func (s *Spring) Force(pos []vec3.Vec3) vec3.Vec3 {
	ev := s.Eval(pos, false)
	return vec3.Vec3{X: ev.Grad[0], Y: ev.Grad[1], Z: ev.Grad[2]}
}
