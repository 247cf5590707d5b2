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
	"sort"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Locate returns the index of the triangle containing p, or -1 if p is
// outside the convex hull of the samples. Candidate triangles come from
// an r-tree search over triangle bounding boxes, so location cost does
// not grow with the total triangle count. When p lies on an edge or
// vertex shared by several triangles, the lowest-numbered triangle
// wins; triangle numbering is deterministic, so so is the tie-break.
func (t *Triangulation) Locate(p geom.Point) int {
	hits := t.tree.SearchIntersect(p.Bounds())
	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.(*simplex).id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		w := t.Weights(id, p)
		if w[0] >= -locTol && w[1] >= -locTol && w[2] >= -locTol {
			return id
		}
	}
	return -1
}

// Nearest returns the index of the sample closest to p and the squared
// distance between the two, which is zero exactly when p coincides with
// a sample.
func (t *Triangulation) Nearest(p geom.Point) (int, float64) {
	got, dist := t.nn.Nearest(samplePoint{Point: p, idx: -1})
	return got.(samplePoint).idx, dist
}

// samplePoint is a sample location carrying its table index through the
// k-d tree.
type samplePoint struct {
	geom.Point
	idx int
}

func (p samplePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(samplePoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("illegal dimension")
	}
}

func (p samplePoint) Dims() int { return 2 }

func (p samplePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(samplePoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

type samplePoints []samplePoint

func (p samplePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p samplePoints) Len() int                      { return len(p) }
func (p samplePoints) Pivot(d kdtree.Dim) int {
	return samplePlane{samplePoints: p, Dim: d}.Pivot()
}
func (p samplePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// samplePlane sorts samplePoints along a single dimension.
type samplePlane struct {
	kdtree.Dim
	samplePoints
}

func (p samplePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.samplePoints[i].X < p.samplePoints[j].X
	case 1:
		return p.samplePoints[i].Y < p.samplePoints[j].Y
	default:
		panic("illegal dimension")
	}
}
func (p samplePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	p.samplePoints = p.samplePoints[start:end]
	return p
}
func (p samplePlane) Swap(i, j int) {
	p.samplePoints[i], p.samplePoints[j] = p.samplePoints[j], p.samplePoints[i]
}

// newNearestIndex builds a k-d tree over the samples. The tree gets its
// own copy of the points because construction reorders them.
func newNearestIndex(points []geom.Point) *kdtree.Tree {
	pts := make(samplePoints, len(points))
	for i, p := range points {
		pts[i] = samplePoint{Point: p, idx: i}
	}
	return kdtree.New(pts, false)
}
