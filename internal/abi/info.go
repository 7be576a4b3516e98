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
    `fmt`

    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// ABIType pairs a machine type with the source-level signedness the
// machine type alone cannot express.
type ABIType struct {
    T      *ir.Type
    Signed bool
}

func MkABI(t *ir.Type, signed bool) ABIType {
    return ABIType { T: t, Signed: signed }
}

type ArgKind uint8

const (
    // KindDirect passes the value as-is in a register or stack slot.
    KindDirect ArgKind = iota

    // KindZeroExtend / KindSignExtend pass a narrow integer widened to
    // the target's word, by the source type's signedness.
    KindZeroExtend
    KindSignExtend

    // KindIndirect passes the address of a caller-owned copy.
    KindIndirect
)

func (self ArgKind) String() string {
    switch self {
        case KindDirect     : return "direct"
        case KindZeroExtend : return "zext"
        case KindSignExtend : return "sext"
        case KindIndirect   : return "indirect"
        default             : panic("abi: invalid argument kind")
    }
}

// ArgInfo is the machine-level classification of one argument or result.
// Index is the argument's position in the final machine argument list,
// assigned when the call or function is lowered; -1 until then.
type ArgInfo struct {
    Kind  ArgKind
    Type  *ir.Type
    Index int32
}

func mkArg(kind ArgKind, vt *ir.Type) ArgInfo {
    return ArgInfo { Kind: kind, Type: vt, Index: -1 }
}

// Attr is the IR parameter attribute matching the extension kind.
func (self *ArgInfo) Attr() ir.Attr {
    switch self.Kind {
        case KindZeroExtend : return ir.AttrZExt
        case KindSignExtend : return ir.AttrSExt
        default             : return ir.AttrNone
    }
}

func (self ArgInfo) String() string {
    return fmt.Sprintf("{%s %s @%d}", self.Kind, self.Type, self.Index)
}

// Info is the target-specific classification policy.
type Info interface {
    ClassifyResult(ret ABIType, dl ir.DataLayout) ArgInfo
    ClassifyArgument(arg ABIType, dl ir.DataLayout) ArgInfo
}
