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

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meshkit/meshdoctor/fix"
	"github.com/meshkit/meshdoctor/mesh"
	"github.com/meshkit/meshdoctor/meshio"
)

// OrderingDeck maps cell type names to node permutations, like:
//
//	tetrahedron: [0, 2, 1, 3]
//	wedge: [3, 4, 5, 0, 1, 2]
type OrderingDeck map[string][]int

func (od *OrderingDeck) Parse(data []byte) error {
	return yaml.Unmarshal(data, od)
}

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply repairs to a mesh and write the result",
	Long: `Apply node reordering and global ID repairs to a mesh file and write
the repaired mesh to a new file. The input file is never modified.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			meshFile, outFile, orderingFile string
			err                             error
		)
		if meshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			panic(err)
		}
		if outFile, err = cmd.Flags().GetString("outFile"); err != nil {
			panic(err)
		}
		orderingFile, _ = cmd.Flags().GetString("ordering")
		binaryOut, _ := cmd.Flags().GetBool("binary")
		cellIDs, _ := cmd.Flags().GetBool("cellIds")
		pointIDs, _ := cmd.Flags().GetBool("pointIds")

		willExit := false
		if len(meshFile) == 0 {
			fmt.Println("error: must supply a mesh file (-F, --meshFile) in legacy VTK (.vtk) format")
			willExit = true
		}
		if len(outFile) == 0 {
			fmt.Println("error: must supply an output file (-o, --outFile)")
			willExit = true
		}
		if willExit {
			os.Exit(1)
		}

		m, err := meshio.ReadMesh(meshFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}

		if len(orderingFile) != 0 {
			perms := processOrdering(orderingFile)
			fixed, unchanged, err := fix.ApplyOrdering(m, perms)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			if len(unchanged) != 0 {
				logger.Warn("cell types present but not reordered",
					zap.Stringers("types", unchanged))
			}
			m = fixed
		}
		if cellIDs || pointIDs {
			fix.AssignGlobalIDs(m, cellIDs, pointIDs, logger)
		}

		if err = meshio.WriteMesh(m, meshio.WriteSpec{Path: outFile, Binary: binaryOut}); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		logger.Info("repaired mesh written", zap.String("file", outFile))
	},
}

var cellTypeNames = map[string]mesh.CellType{
	"tetrahedron": mesh.Tet,
	"hexahedron":  mesh.Hex,
	"wedge":       mesh.Prism,
	"pyramid":     mesh.Pyramid,
	"polyhedron":  mesh.Polyhedron,
}

func processOrdering(path string) map[mesh.CellType][]int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	od := OrderingDeck{}
	if err = od.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	perms := make(map[mesh.CellType][]int, len(od))
	for name, perm := range od {
		ct, ok := cellTypeNames[name]
		if !ok {
			fmt.Printf("error: unknown cell type %q in ordering file\n", name)
			os.Exit(1)
		}
		perms[ct] = perm
	}
	return perms
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in legacy VTK (.vtk) format")
	fixCmd.Flags().StringP("outFile", "o", "", "destination for the repaired mesh; refuses to overwrite")
	fixCmd.Flags().StringP("ordering", "O", "", "YAML file mapping cell type names to node permutations, like:\n\ttetrahedron: [0, 2, 1, 3]")
	fixCmd.Flags().Bool("binary", false, "write the output mesh in binary encoding")
	fixCmd.Flags().Bool("cellIds", false, "assign a dense GlobalCellIds array")
	fixCmd.Flags().Bool("pointIds", false, "assign a dense GlobalPointIds array")
}
