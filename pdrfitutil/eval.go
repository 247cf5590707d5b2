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
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/PellegrinoConte/pdrfit"
	"github.com/PellegrinoConte/pdrfit/modelgrid"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Eval loads the model grid and observation named in cfg, evaluates the
// likelihood of each configured (N, Go, Fill) model instance, and
// writes one row per instance to w.
func Eval(cfg *viper.Viper, w io.Writer) error {
	grid, err := pdrfit.LoadKauffman(cfg.GetString("CPFile"), cfg.GetString("OIFile"))
	if err != nil {
		return err
	}
	log.Printf("loaded %d PDR models predicting %d lines", grid.NSamples(), grid.NLines())

	obs, err := ReadObservation(cfg.GetString("Observation"))
	if err != nil {
		return err
	}

	theta := pdrfit.Theta{}
	if theta.N, err = floatList(cfg, "N"); err != nil {
		return err
	}
	if theta.Go, err = floatList(cfg, "Go"); err != nil {
		return err
	}
	if theta.Fill, err = floatList(cfg, "Fill"); err != nil {
		return err
	}
	if len(theta.N) == 0 {
		return fmt.Errorf("pdrfit: no model instances requested; set N, Go, and Fill")
	}

	m := &pdrfit.PDRModel{Interp: modelgrid.Interpolation(cfg.GetString("Interpolation"))}
	lnp, pred, err := m.LnProb(theta, obs, grid)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "n\tGo\tfill\tlnprob\tFIR\tGstar")
	for _, name := range grid.LineNames {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprintln(tw)
	nl := grid.NLines()
	for i := range lnp {
		fmt.Fprintf(tw, "%g\t%g\t%g\t%g\t%g\t%g", theta.N[i], theta.Go[i], theta.Fill[i],
			lnp[i], pred.FIR[i], pred.Gstar[i])
		for j := 0; j < nl; j++ {
			fmt.Fprintf(tw, "\t%g", pred.Lines.Get(i, j))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// floatList reads a list of numbers from cfg. Values may come from a
// config-file array, a repeated command-line flag, or a comma-separated
// string.
func floatList(cfg *viper.Viper, key string) ([]float64, error) {
	switch v := cfg.Get(key).(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case string:
		if v == "" || v == "[]" {
			return nil, nil
		}
		var out []float64
		for _, s := range strings.Split(strings.Trim(v, "[]"), ",") {
			f, err := cast.ToFloat64E(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("pdrfit: option %s: %v", key, err)
			}
			out = append(out, f)
		}
		return out, nil
	default:
		vs, err := cast.ToSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("pdrfit: option %s: %v", key, err)
		}
		out := make([]float64, len(vs))
		for i, e := range vs {
			if out[i], err = cast.ToFloat64E(e); err != nil {
				return nil, fmt.Errorf("pdrfit: option %s: %v", key, err)
			}
		}
		return out, nil
	}
}
