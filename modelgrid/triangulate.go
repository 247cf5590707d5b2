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

// Package modelgrid performs interpolation among precomputed model
// samples that are scattered irregularly in a 2-dimensional parameter
// space. It builds a Delaunay triangulation over the sample locations
// and expresses query points as barycentric combinations of the
// vertices of their enclosing triangle.
package modelgrid

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// DegenerateGridError is returned when a parameter grid cannot be
// triangulated: fewer than three samples, duplicated sample locations,
// or all samples on a single line.
type DegenerateGridError struct {
	Reason string
}

func (e *DegenerateGridError) Error() string {
	return fmt.Sprintf("modelgrid: cannot triangulate parameter grid: %s", e.Reason)
}

// A Triangulation is a Delaunay triangulation over a fixed set of
// 2-dimensional sample locations. It is immutable once built and may be
// shared among any number of concurrent queries.
type Triangulation struct {
	points    []geom.Point
	simplices []*simplex
	tree      *rtree.Rtree
	nn        *kdtree.Tree
}

// A simplex is one triangle of the mesh. Vertices are sample indices
// into the point set, in counterclockwise order. The embedded Polygon
// holds the same three vertices and makes the simplex a geom.Geom for
// r-tree indexing.
type simplex struct {
	geom.Polygon
	id int
	v  [3]int
	p  [3]geom.Point
}

// locTol is the barycentric slack allowed when deciding whether a point
// lies within a triangle, so that points on shared edges are claimed
// rather than falling between neighbors.
const locTol = 1e-12

// Triangulate builds a Delaunay triangulation of points using
// Bowyer-Watson incremental insertion. Insertion follows input order
// and the in-circumcircle test is strict, so co-circular sample sets
// resolve to the same mesh on every build: results are deterministic
// given the same input order.
func Triangulate(points []geom.Point) (*Triangulation, error) {
	if len(points) < 3 {
		return nil, &DegenerateGridError{Reason: fmt.Sprintf("need at least 3 samples, have %d", len(points))}
	}
	seen := make(map[geom.Point]int, len(points))
	for i, p := range points {
		if j, ok := seen[p]; ok {
			return nil, &DegenerateGridError{Reason: fmt.Sprintf("samples %d and %d are both at (%g, %g)", j, i, p.X, p.Y)}
		}
		seen[p] = i
	}

	n := len(points)
	verts := make([]geom.Point, n, n+3)
	copy(verts, points)

	// Three enclosing vertices get indices n, n+1 and n+2 and are
	// stripped at the end. Conflict tests treat them as lying
	// arbitrarily far out along their offset directions (see
	// invalidated), so the concrete offsets only anchor edge
	// orientations.
	b := geom.NewBoundsPoint(points[0])
	for _, p := range points[1:] {
		b.Extend(geom.NewBoundsPoint(p))
	}
	d := math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	if d == 0 {
		d = 1
	}
	cx := (b.Min.X + b.Max.X) / 2
	cy := (b.Min.Y + b.Max.Y) / 2
	off := [3]geom.Point{
		{X: -20 * d, Y: -d},
		{X: 20 * d, Y: -d},
		{X: 0, Y: 20 * d},
	}
	for _, o := range off {
		verts = append(verts, geom.Point{X: cx + o.X, Y: cy + o.Y})
	}

	tris := []workTri{newWorkTri(verts, n, n+1, n+2)}
	var bad []int
	var cavity [][2]int
	for i := 0; i < n; i++ {
		p := verts[i]

		bad = bad[:0]
		for t := range tris {
			if !tris[t].dead && invalidated(verts, n, off, tris[t], p) {
				bad = append(bad, t)
			}
		}

		// The cavity boundary: edges of invalidated triangles not
		// shared with another invalidated triangle.
		cavity = cavity[:0]
		for _, t := range bad {
			for _, e := range tris[t].edges() {
				shared := false
				for _, u := range bad {
					if u != t && tris[u].hasEdge(e) {
						shared = true
						break
					}
				}
				if !shared {
					cavity = append(cavity, e)
				}
			}
		}
		for _, t := range bad {
			tris[t].dead = true
		}
		for _, e := range cavity {
			tris = append(tris, newWorkTri(verts, e[0], e[1], i))
		}
	}

	tr := &Triangulation{points: points}
	for _, t := range tris {
		if t.dead || t.a >= n || t.b >= n || t.c >= n {
			continue
		}
		s := &simplex{
			Polygon: geom.Polygon{{verts[t.a], verts[t.b], verts[t.c]}},
			id:      len(tr.simplices),
			v:       [3]int{t.a, t.b, t.c},
			p:       [3]geom.Point{verts[t.a], verts[t.b], verts[t.c]},
		}
		tr.simplices = append(tr.simplices, s)
	}
	if len(tr.simplices) == 0 {
		return nil, &DegenerateGridError{Reason: "all samples are collinear"}
	}

	tr.tree = rtree.NewTree(25, 50)
	for _, s := range tr.simplices {
		tr.tree.Insert(s)
	}
	tr.nn = newNearestIndex(points)
	return tr, nil
}

// Len returns the number of sample points in the triangulation.
func (t *Triangulation) Len() int { return len(t.points) }

// NumSimplices returns the number of triangles in the mesh.
func (t *Triangulation) NumSimplices() int { return len(t.simplices) }

// Simplex returns the vertex indices of triangle i.
func (t *Triangulation) Simplex(i int) [3]int { return t.simplices[i].v }

// A workTri is a triangle of the in-progress mesh, with vertices in
// counterclockwise order.
type workTri struct {
	a, b, c int
	dead    bool
}

func newWorkTri(verts []geom.Point, a, b, c int) workTri {
	o := orient(verts[a], verts[b], verts[c])
	if o == 0 {
		panic(fmt.Sprintf("modelgrid: degenerate triangle (%d %d %d)", a, b, c))
	}
	if o < 0 {
		b, c = c, b
	}
	return workTri{a: a, b: b, c: c}
}

func (t workTri) edges() [3][2]int {
	return [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}}
}

func (t workTri) hasEdge(e [2]int) bool {
	for _, f := range t.edges() {
		if (f[0] == e[0] && f[1] == e[1]) || (f[0] == e[1] && f[1] == e[0]) {
			return true
		}
	}
	return false
}

// invalidated reports whether inserting p must remove triangle t. For
// triangles whose vertices are all samples this is the strict
// in-circumcircle test. The enclosing vertices (indices >= n) count as
// infinitely far out along their offsets in off, outside every circle
// the samples can form; the circumcircle of a triangle touching them
// degenerates to a half-plane and the test to an orientation sign.
// With one enclosing vertex the half-plane is bounded by the line
// through the two sample vertices; with two it passes through the lone
// sample vertex, normal to the center of the circle through the origin
// and the two offsets.
func invalidated(verts []geom.Point, n int, off [3]geom.Point, t workTri, p geom.Point) bool {
	enclosing := 0
	for _, v := range [3]int{t.a, t.b, t.c} {
		if v >= n {
			enclosing++
		}
	}
	switch enclosing {
	case 0:
		return t.circumContains(verts, p)
	case 1:
		// Rotate so the enclosing vertex comes last; rotation keeps
		// the sample pair in counterclockwise order, with the
		// enclosing vertex on its positive side.
		var ra, rb int
		switch {
		case t.c >= n:
			ra, rb = t.a, t.b
		case t.b >= n:
			ra, rb = t.c, t.a
		default:
			ra, rb = t.b, t.c
		}
		a, b := verts[ra], verts[rb]
		o := orient(a, b, p)
		if o != 0 {
			return o > 0
		}
		// On the boundary line, only points strictly between the two
		// sample vertices are inside the limiting circle.
		return (p.X-a.X)*(b.X-a.X)+(p.Y-a.Y)*(b.Y-a.Y) > 0 &&
			(p.X-b.X)*(a.X-b.X)+(p.Y-b.Y)*(a.Y-b.Y) > 0
	case 2:
		var s geom.Point
		gi, gj := -1, -1
		for _, v := range [3]int{t.a, t.b, t.c} {
			switch {
			case v < n:
				s = verts[v]
			case gi < 0:
				gi = v - n
			default:
				gj = v - n
			}
		}
		c := diskCenter(off[gi], off[gj])
		return (p.X-s.X)*c.X+(p.Y-s.Y)*c.Y > 0
	default:
		// The initial enclosing triangle contains every sample.
		return true
	}
}

// diskCenter returns the center of the circle through the origin and
// the points u and v.
func diskCenter(u, v geom.Point) geom.Point {
	det := 2 * (u.X*v.Y - u.Y*v.X)
	nu := u.X*u.X + u.Y*u.Y
	nv := v.X*v.X + v.Y*v.Y
	return geom.Point{
		X: (v.Y*nu - u.Y*nv) / det,
		Y: (u.X*nv - v.X*nu) / det,
	}
}

// circumContains reports whether p lies strictly inside the
// circumcircle of t. Points exactly on the circle do not count, which
// fixes the diagonal chosen for co-circular point sets to the one built
// first.
func (t workTri) circumContains(verts []geom.Point, p geom.Point) bool {
	a, b, c := verts[t.a], verts[t.b], verts[t.c]
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// orient returns twice the signed area of triangle abc: positive for
// counterclockwise winding, zero for collinear points.
func orient(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}
