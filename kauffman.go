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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/PellegrinoConte/pdrfit/modelgrid"
	"github.com/ctessum/sparse"
)

// MalformedRowError is returned when a model table row cannot be
// parsed.
type MalformedRowError struct {
	Path string
	Line int // 1-based
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("pdrfit: %s: line %d: %v", e.Path, e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// ReadModelTable reads a whitespace-delimited model table from path and
// returns the requested zero-based columns, one slice per entry of
// cols. Anything after a "#" on a line is a comment. Header lines are
// detected rather than counted: leading lines with fewer fields than
// the highest requested column needs are skipped. Once data rows begin,
// any row too short to supply the requested columns fails with a
// *MalformedRowError naming the line.
func ReadModelTable(path string, cols []int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdrfit: opening model table: %w", err)
	}
	defer f.Close()

	need := 0
	for _, c := range cols {
		if c+1 > need {
			need = c + 1
		}
	}

	out := make([][]float64, len(cols))
	scanner := bufio.NewScanner(f)
	line := 0
	started := false
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < need {
			if !started {
				continue // header
			}
			return nil, &MalformedRowError{Path: path, Line: line,
				Err: fmt.Errorf("%d columns, need %d", len(fields), need)}
		}
		started = true
		for i, c := range cols {
			v, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, &MalformedRowError{Path: path, Line: line, Err: err}
			}
			out[i] = append(out[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pdrfit: reading model table %s: %w", path, err)
	}
	if !started {
		return nil, fmt.Errorf("pdrfit: model table %s has no data rows", path)
	}
	return out, nil
}

// LoadKauffman loads the Kaufman (2001) PDR model tables into a PDRGrid.
// cpPath holds the [CII]158μm predictions (columns: n index, log n, Go
// index, log Go, intensity) and oiPath the [OI]63μm and [OI]145μm
// predictions (same layout with two intensity columns). The two files
// must sample the same (n, Go) points in the same order.
func LoadKauffman(cpPath, oiPath string) (*PDRGrid, error) {
	lineNames := []string{"CII158", "OI63", "OI145"}
	wavelength := []float64{158, 63, 145}

	cp, err := ReadModelTable(cpPath, []int{1, 3, 4})
	if err != nil {
		return nil, err
	}
	oi, err := ReadModelTable(oiPath, []int{1, 3, 4, 5})
	if err != nil {
		return nil, err
	}
	n, gO, cii := cp[0], cp[1], cp[2]
	if len(oi[0]) != len(n) {
		return nil, fmt.Errorf("pdrfit: %s has %d samples but %s has %d",
			cpPath, len(n), oiPath, len(oi[0]))
	}
	for i := range n {
		if oi[0][i] != n[i] || oi[1][i] != gO[i] {
			return nil, fmt.Errorf("pdrfit: sample %d: %s is at (%g, %g) but %s is at (%g, %g)",
				i, cpPath, n[i], gO[i], oiPath, oi[0][i], oi[1][i])
		}
	}

	table := &modelgrid.ModelTable{ParamNames: []string{"n", "Go"}}
	intensity := sparse.ZerosDense(len(n), len(lineNames))
	for i := range n {
		if err := table.Append(modelgrid.ModelSample{Params: []float64{n[i], gO[i]}}); err != nil {
			return nil, err
		}
		intensity.Set(cii[i], i, 0)
		intensity.Set(oi[2][i], i, 1)
		intensity.Set(oi[3][i], i, 2)
	}
	return NewPDRGrid(table, lineNames, wavelength, intensity)
}
