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
	"math"
)

// An Observation holds measured quantities for one source: line
// intensities with uncertainties and a mask selecting which lines enter
// the likelihood, plus far-infrared flux and the stellar radiation
// field with their uncertainties. Line entries follow the grid's line
// order.
type Observation struct {
	LineIntensity []float64 // [erg s-1 cm-2 sr-1]
	LineUnc       []float64
	LineMask      []bool

	FIR    float64 // [W m-2 sr-1]
	FIRUnc float64

	Gstar    float64 // [Habings]
	GstarUnc float64
}

// MissingObservationFieldError is returned when an observation lacks a
// field the likelihood needs.
type MissingObservationFieldError struct {
	Field string
}

func (e *MissingObservationFieldError) Error() string {
	return fmt.Sprintf("pdrfit: observation is missing field %s", e.Field)
}

// Check validates that the observation carries every field the
// likelihood needs, for a grid with nLines emission lines. Absent
// slices and NaN scalars count as missing; slices of the wrong length
// are a shape error.
func (o *Observation) Check(nLines int) error {
	switch {
	case o.LineIntensity == nil:
		return &MissingObservationFieldError{Field: "line_intensity"}
	case o.LineUnc == nil:
		return &MissingObservationFieldError{Field: "line_unc"}
	case o.LineMask == nil:
		return &MissingObservationFieldError{Field: "line_mask"}
	case math.IsNaN(o.FIR):
		return &MissingObservationFieldError{Field: "FIR"}
	case math.IsNaN(o.FIRUnc):
		return &MissingObservationFieldError{Field: "FIR_unc"}
	case math.IsNaN(o.Gstar):
		return &MissingObservationFieldError{Field: "Gstar"}
	case math.IsNaN(o.GstarUnc):
		return &MissingObservationFieldError{Field: "Gstar_unc"}
	}
	if len(o.LineIntensity) != nLines || len(o.LineUnc) != nLines || len(o.LineMask) != nLines {
		return &ShapeMismatchError{Op: "Observation", Lens: map[string]int{
			"line_intensity": len(o.LineIntensity),
			"line_unc":       len(o.LineUnc),
			"line_mask":      len(o.LineMask),
			"grid lines":     nLines,
		}}
	}
	return nil
}
