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

package arch

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uwsampl/churchroad/pkg/iface"
	"github.com/uwsampl/churchroad/pkg/ir"
	"github.com/uwsampl/churchroad/pkg/wiring"
)

// IllFormedError reports a structural defect in a parsed architecture
// description — a missing required key, an implementation with other than
// one module, or a port with an unrecognised direction (spec.md §7:
// "Ill-formed architecture description ... fatal at load time").
type IllFormedError struct {
	Context string
	Reason  string
}

func (e *IllFormedError) Error() string {
	return fmt.Sprintf("arch: ill-formed architecture description (%s): %s", e.Context, e.Reason)
}

// rawDescription mirrors the on-disk YAML schema of spec.md §4.5 before
// any validation or wiring-DSL parsing has happened.
type rawDescription struct {
	Implementations []rawImplementation `yaml:"implementations"`
}

type rawImplementation struct {
	Interface    *rawInterface       `yaml:"interface"`
	Modules      []rawModule         `yaml:"modules"`
	InternalData map[string]uint     `yaml:"internal_data"`
	Outputs      map[string]string   `yaml:"outputs"`
}

type rawInterface struct {
	Name       string         `yaml:"name"`
	Parameters map[string]uint `yaml:"parameters"`
}

type rawModule struct {
	ModuleName           string      `yaml:"module_name"`
	Ports                []rawPort   `yaml:"ports"`
	Parameters           []rawParam  `yaml:"parameters"`
	Filepath             string      `yaml:"filepath"`
	RacketImportFilepath string      `yaml:"racket_import_filepath"`
}

type rawPort struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`
	Direction string `yaml:"direction"`
	Bitwidth  uint   `yaml:"bitwidth"`
}

type rawParam struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// LoadFile reads and normalizes an architecture description from disk.
func LoadFile(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, fmt.Errorf("arch: opening %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads and normalizes an architecture description from r.
func Load(r io.Reader) (Description, error) {
	var raw rawDescription

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Description{}, fmt.Errorf("arch: parsing YAML: %w", err)
	}

	impls := make([]Implementation, 0, len(raw.Implementations))

	for i, ri := range raw.Implementations {
		impl, err := normalizeImplementation(i, ri)
		if err != nil {
			return Description{}, err
		}

		impls = append(impls, impl)
	}

	return Description{Implementations: impls}, nil
}

func normalizeImplementation(index int, ri rawImplementation) (Implementation, error) {
	ctx := fmt.Sprintf("implementations[%d]", index)

	if ri.Interface == nil {
		return Implementation{}, &IllFormedError{ctx, "missing \"interface\" key"}
	}

	if len(ri.Modules) == 0 {
		return Implementation{}, &IllFormedError{ctx, "missing \"modules\" key"}
	}

	if len(ri.Modules) != 1 {
		return Implementation{}, &IllFormedError{ctx, fmt.Sprintf("expected exactly one module, found %d", len(ri.Modules))}
	}

	if ri.Outputs == nil {
		return Implementation{}, &IllFormedError{ctx, "missing \"outputs\" key"}
	}

	id := iface.ID{Kind: iface.Kind(ri.Interface.Name), Params: ri.Interface.Parameters}

	mod, err := normalizeModule(ctx, ri.Modules[0])
	if err != nil {
		return Implementation{}, err
	}

	outputs := make(map[string]wiring.Node, len(ri.Outputs))

	for name, text := range ri.Outputs {
		n, err := wiring.Parse(text)
		if err != nil {
			return Implementation{}, fmt.Errorf("arch: %s: output %q: %w", ctx, name, err)
		}

		outputs[name] = n
	}

	internal := make(map[string]uint, len(ri.InternalData))
	for k, v := range ri.InternalData {
		internal[k] = v
	}

	return Implementation{
		ID:               id,
		Module:           mod,
		InternalData:     internal,
		OutputProjection: outputs,
	}, nil
}

func normalizeModule(ctx string, rm rawModule) (ModuleTemplate, error) {
	ports := make([]PortTemplate, 0, len(rm.Ports))

	for _, rp := range rm.Ports {
		dir, err := parseDirection(rp.Direction)
		if err != nil {
			return ModuleTemplate{}, &IllFormedError{ctx, fmt.Sprintf("port %q: %v", rp.Name, err)}
		}

		n, err := wiring.Parse(rp.Value)
		if err != nil {
			return ModuleTemplate{}, fmt.Errorf("arch: %s: port %q: %w", ctx, rp.Name, err)
		}

		ports = append(ports, PortTemplate{
			Name:      rp.Name,
			Value:     n,
			Direction: dir,
			Width:     rp.Bitwidth,
		})
	}

	params := make([]ParamTemplate, 0, len(rm.Parameters))

	for _, rp := range rm.Parameters {
		n, err := wiring.Parse(rp.Value)
		if err != nil {
			return ModuleTemplate{}, fmt.Errorf("arch: %s: parameter %q: %w", ctx, rp.Name, err)
		}

		params = append(params, ParamTemplate{Name: rp.Name, Value: n})
	}

	return ModuleTemplate{
		ModuleName:           rm.ModuleName,
		Ports:                ports,
		Params:               params,
		Filepath:             rm.Filepath,
		RacketImportFilepath: rm.RacketImportFilepath,
	}, nil
}

func parseDirection(s string) (ir.Direction, error) {
	switch s {
	case "input":
		return ir.Input, nil
	case "output":
		return ir.Output, nil
	default:
		return 0, fmt.Errorf("unknown port direction %q (expected \"input\" or \"output\")", s)
	}
}
