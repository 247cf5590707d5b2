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
	"sync"

	"github.com/ctessum/geom"
)

// Interpolation selects how query points are mapped onto samples.
type Interpolation string

const (
	// InterpDelaunay interpolates linearly within the Delaunay triangle
	// enclosing the query point. Points outside the convex hull of the
	// samples fall back to the nearest sample with weight one.
	InterpDelaunay Interpolation = "dt"
	// InterpNearest assigns every query point to its nearest sample
	// with weight one.
	InterpNearest Interpolation = "nn"
)

// A ModelSample is one precomputed model: its location in parameter
// space. Outcome values associated with the sample are stored by the
// caller, indexed by the sample's position in its table.
type ModelSample struct {
	Params []float64
}

// A ModelTable is an ordered collection of samples sharing one
// parameter schema. Sample order is significant: it defines the indices
// returned by ModelWeights.
type ModelTable struct {
	ParamNames []string
	Samples    []ModelSample
}

// Append adds a sample to the table, checking that its parameter vector
// matches the table schema.
func (t *ModelTable) Append(s ModelSample) error {
	if len(s.Params) != len(t.ParamNames) {
		return fmt.Errorf("modelgrid: sample %d has %d parameters, table schema has %d",
			len(t.Samples), len(s.Params), len(t.ParamNames))
	}
	t.Samples = append(t.Samples, s)
	return nil
}

// Len returns the number of samples in the table.
func (t *ModelTable) Len() int { return len(t.Samples) }

// ParameterMismatchError is returned when the parameter names given to
// a query do not match the table schema.
type ParameterMismatchError struct {
	Want, Got []string
}

func (e *ParameterMismatchError) Error() string {
	return fmt.Sprintf("modelgrid: query parameters %v do not match table schema %v", e.Got, e.Want)
}

// A ModelLibrary answers interpolation queries against a ModelTable.
// The triangulation behind the queries is built on first use and then
// reused; the build is published atomically, so concurrent callers
// never observe a partially built mesh.
type ModelLibrary struct {
	table *ModelTable

	triOnce sync.Once
	tri     *Triangulation
	triErr  error
}

// NewModelLibrary wraps table for querying. The table must hold
// 2-dimensional parameter vectors; triangulation over higher-
// dimensional parameter spaces is not supported.
func NewModelLibrary(table *ModelTable) (*ModelLibrary, error) {
	if len(table.ParamNames) != 2 {
		return nil, fmt.Errorf("modelgrid: need a 2-parameter table, have %d parameters %v",
			len(table.ParamNames), table.ParamNames)
	}
	return &ModelLibrary{table: table}, nil
}

// Table returns the wrapped table.
func (l *ModelLibrary) Table() *ModelTable { return l.table }

// Triangulation returns the lazily built triangulation over the table's
// sample locations.
func (l *ModelLibrary) Triangulation() (*Triangulation, error) {
	l.triOnce.Do(func() {
		pts := make([]geom.Point, l.table.Len())
		for i, s := range l.table.Samples {
			pts[i] = geom.Point{X: s.Params[0], Y: s.Params[1]}
		}
		l.tri, l.triErr = Triangulate(pts)
	})
	return l.tri, l.triErr
}

// ModelWeights returns, for each query point, the indices of the table
// samples that bracket it and the interpolation weight of each. Weights
// for one query point always sum to one. parNames states which
// parameter each point coordinate refers to and must match the table
// schema in order and name, or a *ParameterMismatchError is returned.
//
// Under InterpDelaunay a query point coinciding exactly with a sample
// returns that single sample with weight one, so interpolation is exact
// at the sample locations; a point outside the convex hull of the
// samples likewise collapses to its nearest sample.
func (l *ModelLibrary) ModelWeights(points []geom.Point, parNames []string, itype Interpolation) ([][]int, [][]float64, error) {
	if !sameNames(parNames, l.table.ParamNames) {
		return nil, nil, &ParameterMismatchError{Want: l.table.ParamNames, Got: parNames}
	}
	if itype != InterpDelaunay && itype != InterpNearest {
		return nil, nil, fmt.Errorf("modelgrid: unknown interpolation type %q", itype)
	}
	tri, err := l.Triangulation()
	if err != nil {
		return nil, nil, err
	}

	inds := make([][]int, len(points))
	weights := make([][]float64, len(points))
	for i, p := range points {
		nearest, dist := tri.Nearest(p)
		if itype == InterpNearest || dist == 0 {
			inds[i] = []int{nearest}
			weights[i] = []float64{1}
			continue
		}
		s := tri.Locate(p)
		if s < 0 {
			// Outside the convex hull.
			inds[i] = []int{nearest}
			weights[i] = []float64{1}
			continue
		}
		w := tri.Weights(s, p)
		v := tri.Simplex(s)
		inds[i] = []int{v[0], v[1], v[2]}
		weights[i] = []float64{w[0], w[1], w[2]}
	}
	return inds, weights, nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
