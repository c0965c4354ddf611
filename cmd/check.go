/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meshkit/meshdoctor/checks"
	"github.com/meshkit/meshdoctor/meshio"
)

// CheckProfile selects checks and their options from a YAML deck, like:
//
//	collocated-points:
//	  report: true
//	  options:
//	    tolerance: 1.e-8
//	small-volumes:
//	  report: true
//	  options:
//	    min_volume: 1.e-12
type CheckProfile map[string]struct {
	Report  bool           `json:"report"`
	Options map[string]any `json:"options"`
}

func (cp *CheckProfile) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run integrity checks against a mesh file",
	Long: `Run integrity checks against a mesh file and print a summary for each.
Checks run in registry order; failures abort the run.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			meshFile, profileFile string
			err                   error
		)
		if meshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			panic(err)
		}
		if profileFile, err = cmd.Flags().GetString("checkProfile"); err != nil {
			panic(err)
		}
		list, _ := cmd.Flags().GetString("checks")
		if len(meshFile) == 0 {
			fmt.Println("error: must supply a mesh file (-F, --meshFile) in legacy VTK (.vtk) format")
			os.Exit(1)
		}

		reg := checks.NewRegistry(logger)
		names := reg.Names()
		opts := map[string]map[string]any{}
		if len(profileFile) != 0 {
			names, opts = processProfile(reg, profileFile)
		}
		if len(list) != 0 {
			names = splitChecks(list)
		}

		m, err := meshio.ReadMesh(meshFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		logger.Info("mesh loaded",
			zap.String("file", meshFile),
			zap.Int("points", len(m.Points)),
			zap.Int("cells", len(m.Cells)))

		results, err := reg.RunChecks(m, names, opts)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		failed := false
		for _, name := range names {
			res := results[name]
			def, _ := reg.Lookup(name)
			fmt.Printf("%-24s %s\n", name+":", def.Display(res))
			if !res.Clean() {
				failed = true
			}
		}
		if failed {
			os.Exit(2)
		}
	},
}

// processProfile reads a YAML check deck, keeping registry order for the
// checks it enables.
func processProfile(reg *checks.Registry, path string) ([]string, map[string]map[string]any) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	cp := CheckProfile{}
	if err = cp.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	var names []string
	opts := map[string]map[string]any{}
	for _, name := range reg.Names() {
		entry, ok := cp[name]
		if !ok || !entry.Report {
			continue
		}
		names = append(names, name)
		if len(entry.Options) != 0 {
			opts[name] = entry.Options
		}
	}
	return names, opts
}

func splitChecks(list string) (names []string) {
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in legacy VTK (.vtk) format")
	checkCmd.Flags().StringP("checkProfile", "I", "", "YAML file selecting checks and options, like:\n\tcollocated-points:\n\t  report: true\n\t  options:\n\t    tolerance: 1.e-8")
	checkCmd.Flags().StringP("checks", "c", "", "comma separated list of checks to run (default: all)")
}
