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
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// CallSig is a logical call or method signature as the reader sees it:
// ordered argument types with source signedness, a result type, and the
// declared calling convention.
type CallSig struct {
    Conv           CallConv
    HasThis        bool
    HasSecretParam bool
    Ret            ABIType
    Args           []ABIType
}

// Signature is a resolved signature: per-argument machine classification
// plus the derived properties the call lowering engine consumes. It is
// computed once per distinct signature and reused for every call site
// that shares it.
type Signature struct {
    Conv           CallConv
    Managed        bool
    HasThis        bool
    HasSecretParam bool
    Ret            ArgInfo
    Args           []ArgInfo

    // FuncRet is the machine-level return type of the lowered function:
    // the classified result type, except for indirect results where the
    // logical return type becomes a pointer parameter and the machine
    // return is that pointer.
    FuncRet *ir.Type

    // LogicalRet is the result type as declared, before classification.
    LogicalRet *ir.Type
}

// HasIndirectResult reports whether the result passes through a
// caller-allocated buffer.
func (self *Signature) HasIndirectResult() bool {
    return self.Ret.Kind == KindIndirect
}

// ResolveSignature classifies sig for the given target policy.
func ResolveSignature(sig *CallSig, info Info, dl ir.DataLayout) *Signature {
    conv := sig.Conv.Normalize()

    ret := &Signature {
        Conv           : conv,
        Managed        : conv.IsManaged(),
        HasThis        : sig.HasThis,
        HasSecretParam : sig.HasSecretParam,
        Ret            : info.ClassifyResult(sig.Ret, dl),
        Args           : make([]ArgInfo, len(sig.Args)),
        LogicalRet     : sig.Ret.T,
    }

    for i, arg := range sig.Args {
        ret.Args[i] = info.ClassifyArgument(arg, dl)
    }

    /* an indirect result is returned through a pointer the collector
     * must treat as a managed reference */
    if ret.HasIndirectResult() {
        ret.FuncRet = ir.ManagedPtr(ret.Ret.Type)
    } else {
        ret.FuncRet = ret.Ret.Type
    }
    return ret
}
