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

package solve

import (
	"fmt"
	"math/big"

	"github.com/uwsampl/churchroad/pkg/ir"
)

// PrimitiveSemantics is the ir.ModuleSemantics table for the concrete
// hardware primitives named by the three shipped architecture
// descriptions (ecp5, ultrascale, sofa). It gives pkg/solve's brute-force
// interpreter something to dispatch module instances to, per spec.md
// §6's "spec == interpret(sketch)" query.
func PrimitiveSemantics(moduleName string, inputs, params map[string]*big.Int) (map[string]*big.Int, error) {
	switch moduleName {
	case "LUT2":
		return lutSemantics(inputs, []string{"I0", "I1"}, params["INIT"], "O")
	case "LUT4":
		return lutSemantics(inputs, []string{"A", "B", "C", "D"}, params["INIT"], "Z")
	case "LUT6":
		return lutSemantics(inputs, []string{"I0", "I1", "I2", "I3", "I4", "I5"}, params["INIT"], "O")
	case "frac_lut4":
		return lutSemantics(inputs, []string{"in0", "in1", "in2", "in3"}, params["lut_mask"], "out")
	case "CCU2C":
		return ccu2cSemantics(inputs, params)
	case "CARRY8":
		return carry8Semantics(inputs)
	default:
		return nil, fmt.Errorf("solve: no semantics known for module %q", moduleName)
	}
}

// lutSemantics implements a generic n-input truth-table lookup: the
// output bit is init's bit at the index formed by the input bits,
// least-significant input first (spec.md §4's generic LUT behavior,
// shared by every LUT{k} primitive in the pack regardless of vendor).
func lutSemantics(inputs map[string]*big.Int, inputNames []string, init *big.Int, outputName string) (map[string]*big.Int, error) {
	if init == nil {
		return nil, fmt.Errorf("solve: missing INIT parameter")
	}

	index := 0

	for i, name := range inputNames {
		v, ok := inputs[name]
		if !ok {
			return nil, fmt.Errorf("solve: missing LUT input %q", name)
		}

		if v.Bit(0) == 1 {
			index |= 1 << uint(i)
		}
	}

	bit := init.Bit(index)

	return map[string]*big.Int{outputName: big.NewInt(int64(bit))}, nil
}

// ccu2cSemantics models Lattice ECP5's CCU2C: two chained 3-input
// truth-table sum bits (INIT0 over A0,B0,CIN and INIT1 over A1,B1,CO0)
// plus a fixed majority-function carry-propagate chain, exactly the two
// 1-bit full-adder slices a CCU2C tile is documented to realize.
func ccu2cSemantics(inputs, params map[string]*big.Int) (map[string]*big.Int, error) {
	cin := inputs["CIN"]
	a0 := inputs["A0"]
	b0 := inputs["B0"]
	a1 := inputs["A1"]
	b1 := inputs["B1"]
	init0 := params["INIT0"]
	init1 := params["INIT1"]

	if cin == nil || a0 == nil || b0 == nil || a1 == nil || b1 == nil || init0 == nil || init1 == nil {
		return nil, fmt.Errorf("solve: CCU2C missing an input or parameter")
	}

	s0 := lut3Bit(init0, a0, b0, cin)
	co0 := majority(a0, b0, cin)
	s1 := lut3Bit(init1, a1, b1, co0)
	cout := majority(a1, b1, co0)

	return map[string]*big.Int{
		"S0":   big.NewInt(int64(s0)),
		"S1":   big.NewInt(int64(s1)),
		"COUT": big.NewInt(int64(cout)),
	}, nil
}

func lut3Bit(init, x, y, z *big.Int) uint {
	index := 0
	if x.Bit(0) == 1 {
		index |= 1
	}

	if y.Bit(0) == 1 {
		index |= 2
	}

	if z.Bit(0) == 1 {
		index |= 4
	}

	return init.Bit(index)
}

func majority(x, y, z *big.Int) uint {
	count := x.Bit(0) + y.Bit(0) + z.Bit(0)
	if count >= 2 {
		return 1
	}

	return 0
}

// carry8Semantics models Xilinx UltraScale+'s CARRY8: a fixed-function
// (no INIT) 8-bit ripple carry, O[i] = DI[i] xor S[i] xor CI_i and
// CO_i = majority(DI[i], S[i], CI_i), with CI_0 taken from the chain's
// external carry-in.
func carry8Semantics(inputs map[string]*big.Int) (map[string]*big.Int, error) {
	ci := inputs["CI"]
	di := inputs["DI"]
	s := inputs["S"]

	if ci == nil || di == nil || s == nil {
		return nil, fmt.Errorf("solve: CARRY8 missing an input")
	}

	o := new(big.Int)
	co := new(big.Int)

	curCI := ci.Bit(0)

	for i := uint(0); i < 8; i++ {
		diBit := di.Bit(int(i))
		sBit := s.Bit(int(i))

		oBit := diBit ^ sBit ^ curCI
		if oBit == 1 {
			o.SetBit(o, int(i), 1)
		}

		coBit := majority(big.NewInt(int64(diBit)), big.NewInt(int64(sBit)), big.NewInt(int64(curCI)))
		if coBit == 1 {
			co.SetBit(co, int(i), 1)
		}

		curCI = coBit
	}

	return map[string]*big.Int{"O": o, "CO": co}, nil
}

var _ ir.ModuleSemantics = PrimitiveSemantics
