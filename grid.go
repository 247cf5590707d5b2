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

package pdrfit

import (
	"fmt"

	"github.com/PellegrinoConte/pdrfit/modelgrid"
	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// pdrParams names the two grid parameters: log10 gas volume density
// [cm-3] and log10 radiation field intensity [Habings].
var pdrParams = []string{"n", "Go"}

// A PDRGrid holds a library of precomputed PDR models and produces
// emission-line intensities at arbitrary (n, Go) by interpolating among
// them. Intensities are stored as a [n_samples, n_lines] array in the
// same row order as the library's sample table.
type PDRGrid struct {
	LineNames  []string
	Wavelength []float64 // [μm]

	intensity *sparse.DenseArray
	lib       *modelgrid.ModelLibrary
}

// NewPDRGrid assembles a grid from a sample table and the matching
// intensity array. The table must use the (n, Go) parameter schema and
// the intensity array must have one row per sample and one column per
// line name.
func NewPDRGrid(table *modelgrid.ModelTable, lineNames []string, wavelength []float64, intensity *sparse.DenseArray) (*PDRGrid, error) {
	if !sameStrings(table.ParamNames, pdrParams) {
		return nil, fmt.Errorf("pdrfit: table parameters %v; want %v", table.ParamNames, pdrParams)
	}
	if len(lineNames) != len(wavelength) {
		return nil, fmt.Errorf("pdrfit: %d line names but %d wavelengths", len(lineNames), len(wavelength))
	}
	if len(intensity.Shape) != 2 || intensity.Shape[0] != table.Len() || intensity.Shape[1] != len(lineNames) {
		return nil, fmt.Errorf("pdrfit: intensity shape %v; want [%d %d]",
			intensity.Shape, table.Len(), len(lineNames))
	}
	lib, err := modelgrid.NewModelLibrary(table)
	if err != nil {
		return nil, err
	}
	return &PDRGrid{
		LineNames:  lineNames,
		Wavelength: wavelength,
		intensity:  intensity,
		lib:        lib,
	}, nil
}

// NLines returns the number of emission lines the grid predicts.
func (g *PDRGrid) NLines() int { return len(g.LineNames) }

// NSamples returns the number of precomputed models in the grid.
func (g *PDRGrid) NSamples() int { return g.lib.Table().Len() }

// Lines interpolates the stored line intensities to the given (n, Go)
// query points. n and Go must have equal length; the result has shape
// [len(n), NLines()] and is in the same dimensionless units as the
// model tables. A query at a stored sample location reproduces that
// sample's intensities exactly.
func (g *PDRGrid) Lines(n, gO []float64, itype modelgrid.Interpolation) (*sparse.DenseArray, error) {
	if len(n) != len(gO) {
		return nil, &ShapeMismatchError{Op: "Lines", Lens: map[string]int{"n": len(n), "Go": len(gO)}}
	}
	points := make([]geom.Point, len(n))
	for i := range n {
		points[i] = geom.Point{X: n[i], Y: gO[i]}
	}
	inds, weights, err := g.lib.ModelWeights(points, pdrParams, itype)
	if err != nil {
		return nil, err
	}

	nl := g.NLines()
	out := sparse.ZerosDense(len(n), nl)
	for i := range points {
		row := out.Elements[i*nl : (i+1)*nl]
		if len(inds[i]) == 1 && weights[i][0] == 1 {
			copy(row, g.intensity.Elements[inds[i][0]*nl:(inds[i][0]+1)*nl])
			continue
		}
		for k, ind := range inds[i] {
			floats.AddScaled(row, weights[i][k], g.intensity.Elements[ind*nl:(ind+1)*nl])
		}
	}
	return out, nil
}

func sameStrings(a, b []string) bool {
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
