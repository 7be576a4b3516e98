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

package lower

import (
    `github.com/swaroop-sridhar/llilc/internal/abi`
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// DefineFunction declares the machine-level parameter list of the
// enclosing method on the builder, mirroring the argument layout
// EmitCall produces at call sites. It records each argument's final
// position in the signature, binds the hidden indirect-result and
// secret parameters into the frame, and returns the logical parameter
// values in declaration order.
func (self *Frame) DefineFunction() []*ir.Value {
    b := self.B
    fn := b.F
    sig := self.MethodSig

    if sig == nil {
        panic("lower: defining a function without a resolved signature")
    }

    fn.Managed = true
    fn.Ret = sig.FuncRet
    fn.RetAttr = ir.AttrNone

    if sig.HasSecretParam {
        fn.Conv = ir.ConvSecretParam
    } else {
        fn.Conv = ir.ConvC
    }

    if !sig.HasIndirectResult() {
        fn.RetAttr = sig.Ret.Attr()
    }

    /* the result pointer follows the receiver, ahead of every other
     * logical argument, exactly as call sites place it */
    resultIndex := -1
    if sig.HasIndirectResult() {
        resultIndex = b2i(sig.HasThis)
    }

    i := 0
    logical := make([]*ir.Value, len(sig.Args))

    for j := range sig.Args {
        if i == resultIndex {
            self.IndirectResult = b.Param(ir.ManagedPtr(sig.Ret.Type), ir.AttrNone)
            i++
        }

        info := &sig.Args[j]
        info.Index = int32(i)

        if info.Kind == abi.KindIndirect {
            logical[j] = b.Param(ir.ManagedPtr(info.Type), ir.AttrNone)
        } else {
            logical[j] = b.Param(info.Type, info.Attr())
        }
        i++
    }

    /* the result pointer can also trail the whole list, when the
     * signature has a receiver and nothing else */
    if resultIndex >= 0 && self.IndirectResult == nil {
        self.IndirectResult = b.Param(ir.ManagedPtr(sig.Ret.Type), ir.AttrNone)
    }

    /* the secret parameter is register-pinned by the convention, but it
     * still needs a value the body can forward */
    if sig.HasSecretParam {
        self.SecretParam = b.Param(ir.UnmanagedPtr(ir.Int8T), ir.AttrNone)
    }
    return logical
}
