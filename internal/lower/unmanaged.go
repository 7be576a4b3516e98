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
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// emitUnmanagedCall wraps a native call in the GC-cooperative transition
// protocol. The collector may suspend the thread at any safepoint once
// the transition begins, so the frame link, the raw call and the frame
// unlink are emitted as one contiguous run with no safepoint between
// them; the transition marker itself is the only safepoint the collector
// observes, and it forces callee-saved pointer registers to spill.
//
// The transition arguments, in order:
//   0) address of the frame's return address field
//   1) address of the thread's GC mode field
//   2) address of the process-wide trap flag
//   3) address of the stop-for-GC helper
func (self *Frame) emitUnmanagedCall(fn *ir.CallExpr) (*ir.Value, *ir.Instr) {
    b := self.B
    info := self.EE

    i8ptr := ir.UnmanagedPtr(ir.Int8T)
    frame := self.callFrameSlot()

    /* a stub-dispatched caller advertises its real target through the
     * frame's call target field */
    if self.MethodSig != nil && self.MethodSig.HasSecretParam {
        if self.SecretParam == nil {
            panic("lower: method signature promises a secret parameter")
        }
        slot := b.FieldAddr(frame, int64(info.CallFrame.OffsetOfCallTarget), self.SecretParam.Type)
        b.Store(self.SecretParam, slot)
    }

    /* link the interop frame onto the thread's frame chain */
    frameVptr := b.FieldAddr(frame, int64(info.CallFrame.OffsetOfFrameVptr), ir.Int8T)
    threadBase := b.Load(i8ptr, self.Thread)
    threadFrame := b.FieldAddr(threadBase, int64(info.OffsetOfThreadFrame), i8ptr)
    b.Store(frameVptr, threadFrame)

    /* transition argument addresses */
    retAddr := b.FieldAddr(frame, int64(info.CallFrame.OffsetOfReturnAddress), i8ptr)
    gcState := b.FieldAddr(threadBase, int64(info.OffsetOfGCState), ir.Int8T)
    trap := self.threadTrapAddr()
    pause := b.IntToPtr(b.IntConst(ir.Int64T, int64(info.GCPauseHelperAddr)), i8ptr)

    fn.TransitionArgs = []*ir.Value { retAddr, gcState, trap, pause }
    fn.DeoptArgs = nil
    ret, call := b.TransitionCall(fn)

    /* deactivate and unlink the frame */
    b.Store(b.NullPtr(i8ptr), retAddr)
    frameLink := b.Load(i8ptr, b.FieldAddr(frame, int64(info.CallFrame.OffsetOfFrameLink), i8ptr))
    b.Store(frameLink, threadFrame)

    return ret, call
}

// threadTrapAddr resolves the "GC requested" trap flag, chasing one
// level of indirection when the engine only exports a handle to it.
func (self *Frame) threadTrapAddr() *ir.Value {
    b := self.B
    info := self.EE

    i32ptr := ir.UnmanagedPtr(ir.Int32T)
    raw := b.IntConst(ir.Int64T, int64(info.ThreadTrapAddr))

    if !info.ThreadTrapIndirect {
        return b.IntToPtr(raw, i32ptr)
    }
    return b.Load(i32ptr, b.IntToPtr(raw, ir.UnmanagedPtr(i32ptr)))
}
