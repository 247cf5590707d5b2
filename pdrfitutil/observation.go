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

package pdrfitutil

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/PellegrinoConte/pdrfit"
)

// observationFile mirrors the observation TOML format. Scalars are
// pointers so that absent keys can be told apart from zeros.
type observationFile struct {
	LineIntensity []float64 `toml:"line_intensity"`
	LineUnc       []float64 `toml:"line_unc"`
	LineMask      []bool    `toml:"line_mask"`
	FIR           *float64  `toml:"FIR"`
	FIRUnc        *float64  `toml:"FIR_unc"`
	Gstar         *float64  `toml:"Gstar"`
	GstarUnc      *float64  `toml:"Gstar_unc"`
}

// ReadObservation reads an observation from the TOML file at path.
// Missing keys are carried through as absent fields and reported by
// Observation.Check when the likelihood is evaluated.
func ReadObservation(path string) (*pdrfit.Observation, error) {
	var f observationFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("pdrfit: reading observation file: %w", err)
	}
	return &pdrfit.Observation{
		LineIntensity: f.LineIntensity,
		LineUnc:       f.LineUnc,
		LineMask:      f.LineMask,
		FIR:           orNaN(f.FIR),
		FIRUnc:        orNaN(f.FIRUnc),
		Gstar:         orNaN(f.Gstar),
		GstarUnc:      orNaN(f.GstarUnc),
	}, nil
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
