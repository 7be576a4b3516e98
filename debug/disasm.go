/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package debug

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// SymbolResolver maps an address to a symbol name and its base address,
// or returns an empty name for unknown addresses.
type SymbolResolver func(addr uint64) (name string, base uint64)

// Disassemble decodes code as x86-64 and returns one formatted line per
// instruction, starting at the given program counter. Decoding stops at
// the first undecodable byte sequence.
func Disassemble(code []byte, pc uint64, resolve SymbolResolver) ([]string, error) {
	var ret []string

	for off := 0; off < len(code); {
		ins, err := x86asm.Decode(code[off:], 64)
		if err != nil {
			return ret, fmt.Errorf("debug: cannot decode instruction at %#x: %w", pc+uint64(off), err)
		}
		dis := x86asm.GNUSyntax(ins, pc+uint64(off), x86asm.SymLookup(resolve))
		ret = append(ret, fmt.Sprintf("%#x %s", pc+uint64(off), dis))
		off += ins.Len
	}
	return ret, nil
}
