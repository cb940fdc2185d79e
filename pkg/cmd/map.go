// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"sort"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/synth"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

var (
	mapArchPath    string
	mapKind        string
	mapArity       uint
	mapJSON        bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Realize an abstract interface against an architecture description.",
	Long:  "map synthesizes the requested interface (LUT, MUX or carry, at the given arity) against an architecture description, binding every input port to a freshly declared free variable, and prints the resulting netlist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := arch.LoadFile(mapArchPath)
		if err != nil {
			return err
		}

		id, err := parseInterfaceFlag(mapKind, mapArity)
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{"interface": id.String(), "arch": mapArchPath}).Info("realizing interface")

		alloc := ir.NewAllocator()
		s := synth.New(d, alloc)

		portMap, err := freeVariablePortMap(id)
		if err != nil {
			return err
		}

		out, err := s.Realize(id, portMap)
		if err != nil {
			return err
		}

		return printOutputs(cmd, out, alloc)
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapArchPath, "arch", "", "path to an architecture description YAML file")
	mapCmd.Flags().StringVar(&mapKind, "kind", "LUT", "interface family: LUT, MUX or carry")
	mapCmd.Flags().UintVar(&mapArity, "width", 2, "interface arity (num_inputs for LUT/MUX, bit width for carry)")
	mapCmd.Flags().BoolVar(&mapJSON, "json", false, "emit the realized netlist as JSON instead of lisp notation")
	_ = mapCmd.MarkFlagRequired("arch")

	rootCmd.AddCommand(mapCmd)
}

func parseInterfaceFlag(kind string, arity uint) (iface.ID, error) {
	switch kind {
	case "LUT":
		return iface.LUT(arity), nil
	case "MUX":
		return iface.MUX(arity), nil
	case "carry":
		return iface.Carry(arity), nil
	default:
		return iface.ID{}, fmt.Errorf("map: unknown interface kind %q (expected LUT, MUX or carry)", kind)
	}
}

// freeVariablePortMap binds every input port of id's canonical signature to
// a freshly declared free variable named after the port, so the realized
// netlist's only unbound symbols are holes and these ports.
func freeVariablePortMap(id iface.ID) (wiring.Scope, error) {
	def, err := iface.Lookup(id)
	if err != nil {
		return nil, err
	}

	scope := make(wiring.Scope)
	for _, p := range def.Ports {
		if p.Direction == ir.Input {
			scope[p.Name] = ir.Var(p.Name, p.Width)
		}
	}

	return scope, nil
}

func printOutputs(cmd *cobra.Command, out synth.Outputs, alloc *ir.Allocator) error {
	names := make([]string, 0, len(out))
	for name := range out {
		names = append(names, name)
	}

	sort.Strings(names)

	if mapJSON {
		doc := struct {
			Outputs map[string]string `json:"outputs"`
			Holes   int                `json:"holes"`
		}{Outputs: make(map[string]string, len(out)), Holes: alloc.Len()}

		for _, name := range names {
			doc.Outputs[name] = out[name].String()
		}

		enc, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(enc))

		return nil
	}

	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, out[name])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "; %d symbolic hole(s) allocated\n", alloc.Len())

	return nil
}
