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

// Package pdrfitutil holds the configuration and command-line interface
// for the pdrfit program.
package pdrfitutil

import (
	"fmt"

	"github.com/PellegrinoConte/pdrfit"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()

	// options are the configuration options available to pdrfit.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CPFile",
			usage: `
              CPFile is the path to the model table holding the [CII]158μm
              predictions on the (log n, log Go) parameter grid.`,
			defaultVal: "data/CPwMeudonHol.txt",
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "OIFile",
			usage: `
              OIFile is the path to the model table holding the [OI]63μm and
              [OI]145μm predictions on the same parameter grid as CPFile.`,
			defaultVal: "data/OPwMeudonHol.txt",
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "Observation",
			usage: `
              Observation is the path to a TOML file holding the observed line
              intensities, uncertainties, line mask, FIR and Gstar values.`,
			defaultVal: "observation.toml",
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "Interpolation",
			usage: `
              Interpolation selects how model predictions are interpolated to
              the requested parameter values: "dt" for linear interpolation on
              a Delaunay triangulation of the model grid, or "nn" for
              nearest-sample lookup.`,
			shorthand:  "i",
			defaultVal: "dt",
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "N",
			usage: `
              N lists the log10 gas densities [cm-3] of the model instances to
              evaluate. N, Go, and Fill must have the same length.`,
			defaultVal: []float64{},
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "Go",
			usage: `
              Go lists the log10 radiation field intensities [Habings] of the
              model instances to evaluate.`,
			defaultVal: []float64{},
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
		{
			name: "Fill",
			usage: `
              Fill lists the beam filling factors of the model instances to
              evaluate.`,
			defaultVal: []float64{},
			flagsets:   []*pflag.FlagSet{evalCmd.Flags()},
		},
	}

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []float64:
				if option.shorthand == "" {
					set.Float64Slice(option.name, option.defaultVal.([]float64), option.usage)
				} else {
					set.Float64SliceP(option.name, option.shorthand, option.defaultVal.([]float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(evalCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("pdrfit: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "pdrfit",
	Short: "Predict and score PDR emission-line intensities.",
	Long: `pdrfit interpolates precomputed photon-dominated-region model grids
to predict emission-line intensities and far-infrared luminosity for
given physical parameters, and evaluates the likelihood of those
predictions against observed intensities.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag) or by using command-line
arguments.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of pdrfit.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("pdrfit v%s\n", pdrfit.Version)
	},
	DisableAutoGenTag: true,
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate model likelihoods.",
	Long: `eval loads the model tables, reads the observation file, and prints
the log-likelihood and predicted observables for each requested
(N, Go, Fill) model instance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Eval(Cfg, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
