/*
 * Copyright 2021 ByteDance Inc.
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

package abi

import (
    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/swaroop-sridhar/llilc/internal/gcinfo`
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// Registers the engine reserves for the special leading arguments on
// x86-64: the virtual dispatch indirection cell and the hidden stub
// parameter. The backend places them before any normal argument.
var (
    IndirectionCellReg = x86_64.R11
    SecretParamReg     = x86_64.R10
)

// AMD64 is the classification policy for x86-64.
type AMD64 struct{}

// ClassifyArgument decides how one logical argument is passed:
// narrow integers widen with their source signedness, small non-GC
// aggregates coerce to an integer of the same size, everything else
// aggregate goes indirect, and word-sized scalars pass directly.
func (self AMD64) ClassifyArgument(arg ABIType, dl ir.DataLayout) ArgInfo {
    return self.classify(arg, dl)
}

// ClassifyResult applies the same rules to the result. An indirect
// result turns the logical return type into a pointer-typed parameter.
func (self AMD64) ClassifyResult(ret ABIType, dl ir.DataLayout) ArgInfo {
    if ret.T.IsVoid() {
        return mkArg(KindDirect, ir.VoidT)
    }
    return self.classify(ret, dl)
}

func (self AMD64) classify(v ABIType, dl ir.DataLayout) ArgInfo {
    t := v.T

    /* narrow integers widen to the 32-bit word */
    if t.IsInteger() && t.Bits < 32 {
        if v.Signed {
            return mkArg(KindSignExtend, t)
        } else {
            return mkArg(KindZeroExtend, t)
        }
    }

    /* aggregates either coerce to a word or pass by address; a GC
     * aggregate must keep its identity so the collector can see the
     * embedded references on the stack */
    if t.IsAggregate() {
        if n := dl.TypeSize(t); isPow2Word(n) && !gcinfo.IsGcAggregate(t) {
            return mkArg(KindDirect, ir.IntN(n * 8))
        } else {
            return mkArg(KindIndirect, t)
        }
    }

    return mkArg(KindDirect, t)
}

func isPow2Word(n uint32) bool {
    return n == 1 || n == 2 || n == 4 || n == 8
}
