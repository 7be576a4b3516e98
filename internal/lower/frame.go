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

// Package lower assembles machine-level calls from resolved signatures:
// special leading arguments, indirect-result buffers, value coercion,
// and the GC-cooperative transition protocol for unmanaged calls.
package lower

import (
    `github.com/swaroop-sridhar/llilc/internal/abi`
    `github.com/swaroop-sridhar/llilc/internal/ee`
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// Frame is the per-function lowering state. One Frame serves all call
// sites of a single function under compilation.
type Frame struct {
    B  *ir.Builder
    DL ir.DataLayout
    EE *ee.Info

    // MethodSig is the enclosing method's resolved signature; it decides
    // whether a secret parameter or an indirect-result pointer exists to
    // forward on tail calls.
    MethodSig *abi.Signature

    // SecretParam / IndirectResult are the enclosing method's hidden
    // parameter values, nil when the signature has none.
    SecretParam    *ir.Value
    IndirectResult *ir.Value

    // Thread is the TLS slot holding the current thread object.
    Thread *ir.Value

    callFrame *ir.Value
}

func NewFrame(b *ir.Builder, dl ir.DataLayout, info *ee.Info, sig *abi.Signature, thread *ir.Value) *Frame {
    return &Frame {
        B         : b,
        DL        : dl,
        EE        : info,
        MethodSig : sig,
        Thread    : thread,
    }
}

// callFrameSlot materializes the function's interop call frame on first
// use. One frame per function is reused by every unmanaged call site.
func (self *Frame) callFrameSlot() *ir.Value {
    if self.callFrame == nil {
        self.callFrame = self.B.Temp(ir.ArrayOf(ir.Int8T, self.EE.CallFrame.Size))
    }
    return self.callFrame
}
