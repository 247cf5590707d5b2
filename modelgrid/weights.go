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
	"fmt"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// Weights returns the barycentric coordinates of p with respect to
// triangle i: three weights, one per vertex, that sum to one and whose
// weighted combination of the vertex locations reconstructs p. All
// three weights are nonnegative exactly when p is inside the triangle
// (up to boundary tolerance); outside, some weight goes negative.
func (t *Triangulation) Weights(i int, p geom.Point) [3]float64 {
	s := t.simplices[i]
	p0, p1, p2 := s.p[0], s.p[1], s.p[2]
	a := mat.NewDense(2, 2, []float64{
		p0.X - p2.X, p1.X - p2.X,
		p0.Y - p2.Y, p1.Y - p2.Y,
	})
	rhs := mat.NewVecDense(2, []float64{p.X - p2.X, p.Y - p2.Y})
	var w mat.VecDense
	if err := w.SolveVec(a, rhs); err != nil {
		// Triangles are non-degenerate by construction.
		panic(fmt.Sprintf("modelgrid: singular simplex %d: %v", i, err))
	}
	w0, w1 := w.AtVec(0), w.AtVec(1)
	return [3]float64{w0, w1, 1 - w0 - w1}
}
