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

// EmitCall assembles the machine-level call for one call site.
//
// The already-evaluated logical arguments arrive in args; cell is the
// indirection cell for virtual/interface dispatch, nil otherwise; tail
// marks a tail call that must forward the caller's hidden parameters.
// It returns the call's logical result value and the call instruction.
func (self *Frame) EmitCall(sig *abi.Signature, target *ir.Value, args []*ir.Value, cell *ir.Value, tail bool) (*ir.Value, *ir.Instr) {
    b := self.B

    hasIndirectResult := sig.HasIndirectResult()
    hasCell := cell != nil
    unmanaged := !sig.Managed
    callerSecret := self.MethodSig != nil && self.MethodSig.HasSecretParam
    jmpSecret := tail && callerSecret

    /* a call carries at most one of the three special treatments */
    if b2i(hasCell) + b2i(unmanaged) + b2i(jmpSecret) > 1 {
        panic("lower: conflicting special arguments on one call")
    }

    /* special arguments ride immediately ahead of the normal ones; the
     * backend pins them to their dedicated registers */
    numSpecial := 0
    if hasCell || jmpSecret {
        numSpecial = 1
    }

    numArgs := len(args) + numSpecial + b2i(hasIndirectResult)
    argv := make([]*ir.Value, numArgs)
    argt := make([]*ir.Type, numArgs)
    attr := make([]ir.Attr, numArgs)

    if hasCell {
        argv[0], argt[0] = cell, cell.Type
    } else if jmpSecret {
        if self.SecretParam == nil {
            panic("lower: tail call forwarding a missing secret parameter")
        }
        argv[0], argt[0] = self.SecretParam, self.SecretParam.Type
    }

    /* the indirect result pointer sits after the specials and the
     * receiver, before every other logical argument */
    resultIndex := -1
    retAttr := ir.AttrNone
    var resultNode *ir.Value

    if hasIndirectResult {
        resultIndex = numSpecial + b2i(sig.HasThis)
        rt := sig.Ret.Type
        if tail {
            /* a tail call writes through the pointer our own caller
             * gave us, not through a local copy */
            if self.IndirectResult == nil {
                panic("lower: tail call forwarding a missing indirect result")
            }
            argt[resultIndex] = ir.ManagedPtr(rt)
            argv[resultIndex] = self.IndirectResult
        } else {
            argt[resultIndex] = ir.UnmanagedPtr(rt)
            argv[resultIndex] = b.Temp(rt)
        }
        resultNode = argv[resultIndex]
    } else {
        retAttr = sig.Ret.Attr()
    }

    /* place the logical arguments around the reserved positions */
    i := numSpecial
    for j, arg := range args {
        if resultIndex >= 0 && i == resultIndex {
            i++
        }

        if info := &sig.Args[j]; info.Kind == abi.KindIndirect {
            argv[i], argt[i] = self.indirectArg(arg, tail)
        } else {
            argt[i] = info.Type
            argv[i] = self.Coerce(info.Type, arg)
            attr[i] = info.Attr()
        }
        i++
    }

    /* the convention tag follows from the special argument */
    var conv ir.Conv
    if hasCell {
        conv = ir.ConvVirtualStub
    } else if jmpSecret {
        conv = ir.ConvSecretParam
    } else {
        conv = sig.Conv.Conv()
    }

    /* raw targets arrive as integers of pointer width */
    if target.Type.IsInteger() {
        target = b.IntToPtr(target, ir.UnmanagedPtr(ir.Int8T))
    }

    fn := &ir.CallExpr {
        Target   : target,
        Conv     : conv,
        Ret      : sig.FuncRet,
        Args     : argv,
        ArgTypes : argt,
        ArgAttrs : attr,
        RetAttr  : retAttr,
        Tail     : tail,
    }

    /* unmanaged calls go through the transition protocol */
    var raw *ir.Value
    var call *ir.Instr
    if unmanaged {
        raw, call = self.emitUnmanagedCall(fn)
    } else {
        raw, call = b.Call(fn)
    }

    /* result readback */
    if resultNode == nil {
        if lt := sig.LogicalRet; !lt.IsVoid() {
            resultNode = self.Coerce(lt, raw)
        }
    } else if resultNode.Kind != ir.V_aggaddr {
        resultNode = b.Load(sig.Ret.Type, resultNode)
    }
    return resultNode, call
}

// indirectArg prepares one by-address argument: tail calls forward the
// caller's pointer, everything else passes the address of a fresh copy
// the callee is free to clobber.
func (self *Frame) indirectArg(arg *ir.Value, tail bool) (*ir.Value, *ir.Type) {
    b := self.B

    if tail {
        return arg, arg.Type
    }

    if arg.Kind == ir.V_aggaddr {
        st := arg.Aggregate()
        tmp := b.Temp(st)
        b.Copy(tmp, arg, st)
        return tmp, arg.Type
    }

    tmp := b.Temp(arg.Type)
    b.Store(arg, tmp)
    return tmp, ir.UnmanagedPtr(arg.Type)
}

func b2i(v bool) int {
    if v {
        return 1
    } else {
        return 0
    }
}
