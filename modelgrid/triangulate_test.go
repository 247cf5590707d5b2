/*
Copyright © 2026 the PDRFit authors.
This file is part of PDRFit.

PDRFit is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PDRFit is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PDRFit.  If not, see <http://www.gnu.org/licenses/>.
*/

package modelgrid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ctessum/geom"
)

const testTolerance = 1e-9

// Simplices are indexed directly in the r-tree.
var _ geom.Geom = &simplex{}

// scatterPoints is an irregular point set with no co-circular or
// collinear surprises.
func scatterPoints() []geom.Point {
	return []geom.Point{
		{X: 0, Y: 0},
		{X: 2, Y: 0.1},
		{X: 4, Y: -0.2},
		{X: 0.3, Y: 1.7},
		{X: 2.2, Y: 2.1},
		{X: 3.8, Y: 1.9},
		{X: 1.1, Y: 3.6},
		{X: 3.1, Y: 3.9},
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	var degenerate *DegenerateGridError
	tests := []struct {
		name   string
		points []geom.Point
	}{
		{
			name:   "too few",
			points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
		},
		{
			name:   "duplicate",
			points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}},
		},
		{
			name:   "collinear",
			points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}},
		},
	}
	for _, test := range tests {
		_, err := Triangulate(test.points)
		if err == nil {
			t.Errorf("%s: expected error", test.name)
		} else if !errors.As(err, &degenerate) {
			t.Errorf("%s: error %v is not a DegenerateGridError", test.name, err)
		}
	}
}

func TestTriangulateCoversHull(t *testing.T) {
	tri, err := Triangulate(scatterPoints())
	if err != nil {
		t.Fatal(err)
	}
	// A triangulation of a point set with h hull vertices has
	// 2n - 2 - h triangles.
	if n := tri.NumSimplices(); n < 6 {
		t.Errorf("only %d triangles", n)
	}
	// Every input point must be a vertex of some triangle.
	used := make(map[int]bool)
	for i := 0; i < tri.NumSimplices(); i++ {
		for _, v := range tri.Simplex(i) {
			used[v] = true
		}
	}
	if len(used) != tri.Len() {
		t.Errorf("%d of %d points appear in the mesh", len(used), tri.Len())
	}
}

func TestWeightsReconstructQuery(t *testing.T) {
	tri, err := Triangulate(scatterPoints())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	found := 0
	for i := 0; i < 200; i++ {
		p := geom.Point{X: rng.Float64() * 4, Y: rng.Float64()*4 - 0.2}
		s := tri.Locate(p)
		if s < 0 {
			continue
		}
		found++
		w := tri.Weights(s, p)
		sum := w[0] + w[1] + w[2]
		if math.Abs(sum-1) > testTolerance {
			t.Errorf("point %v: weights %v sum to %g", p, w, sum)
		}
		for _, wi := range w {
			if wi < -testTolerance || wi > 1+testTolerance {
				t.Errorf("point %v: weight %g outside [0, 1]", p, wi)
			}
		}
		v := tri.Simplex(s)
		var x, y float64
		for k := 0; k < 3; k++ {
			x += w[k] * scatterPoints()[v[k]].X
			y += w[k] * scatterPoints()[v[k]].Y
		}
		if math.Abs(x-p.X) > testTolerance || math.Abs(y-p.Y) > testTolerance {
			t.Errorf("point %v reconstructed as (%g, %g)", p, x, y)
		}
	}
	if found == 0 {
		t.Fatal("no query points landed inside the hull")
	}
}

func TestLocateOutsideHull(t *testing.T) {
	tri, err := Triangulate(scatterPoints())
	if err != nil {
		t.Fatal(err)
	}
	outside := []geom.Point{
		{X: -5, Y: -5},
		{X: 10, Y: 2},
		{X: 2, Y: 100},
	}
	for _, p := range outside {
		if s := tri.Locate(p); s >= 0 {
			t.Errorf("point %v located in triangle %d; should be outside the hull", p, s)
		}
	}
}

func TestLocateAtVertices(t *testing.T) {
	points := scatterPoints()
	tri, err := Triangulate(points)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range points {
		s := tri.Locate(p)
		if s < 0 {
			t.Fatalf("vertex %d not located", i)
		}
		w := tri.Weights(s, p)
		v := tri.Simplex(s)
		var wp float64
		for k := 0; k < 3; k++ {
			if v[k] == i {
				wp = w[k]
			}
		}
		if math.Abs(wp-1) > testTolerance {
			t.Errorf("vertex %d: weight on itself is %g", i, wp)
		}
	}
}

func TestNearest(t *testing.T) {
	points := scatterPoints()
	tri, err := Triangulate(points)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range points {
		got, dist := tri.Nearest(p)
		if got != i || dist != 0 {
			t.Errorf("Nearest(%v) = %d (dist %g); want %d (dist 0)", p, got, dist, i)
		}
	}
	got, _ := tri.Nearest(geom.Point{X: -10, Y: -10})
	if got != 0 {
		t.Errorf("Nearest far southwest = sample %d; want 0", got)
	}
}

func TestTriangulateDeterministic(t *testing.T) {
	a, err := Triangulate(scatterPoints())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Triangulate(scatterPoints())
	if err != nil {
		t.Fatal(err)
	}
	if a.NumSimplices() != b.NumSimplices() {
		t.Fatalf("builds produced %d and %d triangles", a.NumSimplices(), b.NumSimplices())
	}
	for i := 0; i < a.NumSimplices(); i++ {
		if a.Simplex(i) != b.Simplex(i) {
			t.Errorf("triangle %d: %v != %v", i, a.Simplex(i), b.Simplex(i))
		}
	}
	p := geom.Point{X: 2.01, Y: 1.5}
	sa, sb := a.Locate(p), b.Locate(p)
	if sa != sb {
		t.Fatalf("Locate differs between builds: %d != %d", sa, sb)
	}
	wa, wb := a.Weights(sa, p), b.Weights(sb, p)
	if wa != wb {
		t.Errorf("Weights differ between builds: %v != %v", wa, wb)
	}
}

// Four corners of a square are exactly co-circular; the strict
// in-circumcircle test must still produce a valid two-triangle mesh.
func TestTriangulateCocircular(t *testing.T) {
	points := []geom.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
	tri, err := Triangulate(points)
	if err != nil {
		t.Fatal(err)
	}
	if tri.NumSimplices() != 2 {
		t.Fatalf("square triangulated into %d triangles; want 2", tri.NumSimplices())
	}
	p := geom.Point{X: 0.25, Y: 0.25}
	s := tri.Locate(p)
	if s < 0 {
		t.Fatal("interior point not located")
	}
	w := tri.Weights(s, p)
	if sum := w[0] + w[1] + w[2]; math.Abs(sum-1) > testTolerance {
		t.Errorf("weights %v sum to %g", w, sum)
	}
}

// Nearly collinear sample sets have circumcircles far larger than the
// sample extent. The mesh must still cover the whole hull, however thin
// the strip: three triangles, no interior holes.
func TestTriangulateThinStrip(t *testing.T) {
	for _, eps := range []float64{0.01, 1e-6} {
		points := []geom.Point{
			{X: 0, Y: 0},
			{X: 1, Y: eps},
			{X: 2, Y: 0},
			{X: 3, Y: eps},
			{X: 4, Y: 0},
		}
		tri, err := Triangulate(points)
		if err != nil {
			t.Fatalf("eps = %g: %v", eps, err)
		}
		if got := tri.NumSimplices(); got != 3 {
			t.Fatalf("eps = %g: %d triangles; want 3", eps, got)
		}
		used := make(map[int]bool)
		var area float64
		for i := 0; i < tri.NumSimplices(); i++ {
			v := tri.Simplex(i)
			for _, k := range v {
				used[k] = true
			}
			area += math.Abs(orient(points[v[0]], points[v[1]], points[v[2]])) / 2
		}
		if len(used) != len(points) {
			t.Errorf("eps = %g: %d of %d points appear in the mesh", eps, len(used), len(points))
		}
		// The hull is a strip of area 3*eps; the triangles must tile
		// it exactly.
		if different(area, 3*eps, testTolerance) {
			t.Errorf("eps = %g: mesh area %g; want %g", eps, area, 3*eps)
		}

		p := geom.Point{X: 2, Y: eps / 4}
		s := tri.Locate(p)
		if s < 0 {
			t.Fatalf("eps = %g: interior point %v not located", eps, p)
		}
		w := tri.Weights(s, p)
		v := tri.Simplex(s)
		var x, y float64
		for k := 0; k < 3; k++ {
			if w[k] < -testTolerance || w[k] > 1+testTolerance {
				t.Errorf("eps = %g: weight %g outside [0, 1]", eps, w[k])
			}
			x += w[k] * points[v[k]].X
			y += w[k] * points[v[k]].Y
		}
		if math.Abs(x-p.X) > testTolerance || math.Abs(y-p.Y) > eps*testTolerance {
			t.Errorf("eps = %g: point %v reconstructed as (%g, %g)", eps, p, x, y)
		}
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
