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

// Package pdrfit predicts photon-dominated-region emission-line
// intensities and far-infrared luminosity for given physical parameters
// by interpolating a precomputed model grid, and scores the predictions
// against observed intensities under independent Gaussian errors.
package pdrfit

import (
	"fmt"
	"math"
	"sort"

	"github.com/PellegrinoConte/pdrfit/modelgrid"
	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "0.1.0"

// GtoI converts a radiation field in Habings to a far-infrared flux in
// W m-2 sr-1: 1 Habing = 1.6e-6 W m-2, spread over 2π steradians.
const GtoI = 1.6e-6 / (2 * math.Pi)

// ShapeMismatchError is returned when parameter arrays that must share
// a shape do not.
type ShapeMismatchError struct {
	Op   string
	Lens map[string]int
}

func (e *ShapeMismatchError) Error() string {
	names := make([]string, 0, len(e.Lens))
	for name := range e.Lens {
		names = append(names, name)
	}
	sort.Strings(names)
	s := fmt.Sprintf("pdrfit: %s: mismatched input lengths:", e.Op)
	for _, name := range names {
		s += fmt.Sprintf(" len(%s)=%d", name, e.Lens[name])
	}
	return s
}

// Theta holds the physical parameters of a set of model instances:
// log10 density [cm-3], log10 radiation field [Habings] and beam
// filling factor, one entry per instance.
type Theta struct {
	N, Go, Fill []float64
}

// A Prediction holds the observables produced by Model for a batch of
// model instances: line intensities [erg s-1 cm-2 sr-1, shape
// n_instances × n_lines], far-infrared flux [W m-2 sr-1] and the
// stellar radiation field [Habings].
type Prediction struct {
	Lines *sparse.DenseArray
	FIR   []float64
	Gstar []float64
}

// A PDRModel turns physical parameters into observables and scores them
// against observations. The zero value interpolates with Delaunay
// triangulation.
type PDRModel struct {
	Interp modelgrid.Interpolation
}

func (m *PDRModel) itype() modelgrid.Interpolation {
	if m.Interp == "" {
		return modelgrid.InterpDelaunay
	}
	return m.Interp
}

// Model produces observable quantities for each model instance. n, gO
// and fill must have equal length. Gstar is 10**Go scaled by sqrt(2)
// for line-of-sight geometry; FIR is 10**Go times the filling factor in
// flux units; line intensities are the grid predictions scaled by the
// filling factor, converted to per-steradian and from erg to W.
func (m *PDRModel) Model(n, gO, fill []float64, grid *PDRGrid) (*Prediction, error) {
	if len(gO) != len(n) || len(fill) != len(n) {
		return nil, &ShapeMismatchError{Op: "Model",
			Lens: map[string]int{"n": len(n), "Go": len(gO), "fill": len(fill)}}
	}
	lines, err := grid.Lines(n, gO, m.itype())
	if err != nil {
		return nil, err
	}

	pred := &Prediction{
		Lines: lines,
		FIR:   make([]float64, len(n)),
		Gstar: make([]float64, len(n)),
	}
	nl := grid.NLines()
	for i := range n {
		g := math.Pow(10, gO[i])
		pred.Gstar[i] = g * math.Sqrt2
		pred.FIR[i] = g * fill[i] * GtoI
		scale := fill[i] / (2 * math.Pi) * 1e-3
		row := lines.Elements[i*nl : (i+1)*nl]
		for j := range row {
			row[j] *= scale
		}
	}
	return pred, nil
}

// LnProb computes the log-likelihood of each model instance in theta
// given obs, along with the predicted observables. Each observable
// contributes -0.5*((predicted-observed)/uncertainty)^2 assuming
// independent Gaussian errors; lines whose observation mask is false
// contribute exactly zero.
func (m *PDRModel) LnProb(theta Theta, obs *Observation, grid *PDRGrid) ([]float64, *Prediction, error) {
	if err := obs.Check(grid.NLines()); err != nil {
		return nil, nil, err
	}
	pred, err := m.Model(theta.N, theta.Go, theta.Fill, grid)
	if err != nil {
		return nil, nil, err
	}

	nl := grid.NLines()
	lnp := make([]float64, len(theta.N))
	for i := range lnp {
		row := pred.Lines.Elements[i*nl : (i+1)*nl]
		var s float64
		for j, on := range obs.LineMask {
			if !on {
				continue
			}
			r := (row[j] - obs.LineIntensity[j]) / obs.LineUnc[j]
			s += -0.5 * r * r
		}
		r := (pred.FIR[i] - obs.FIR) / obs.FIRUnc
		s += -0.5 * r * r
		r = (pred.Gstar[i] - obs.Gstar) / obs.GstarUnc
		s += -0.5 * r * r
		lnp[i] = s
	}
	return lnp, pred, nil
}
