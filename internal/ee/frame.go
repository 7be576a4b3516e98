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

package ee

// InlinedCallFrameInfo gives the field offsets of the interop call frame
// a thread links onto its frame chain around every unmanaged call.
type InlinedCallFrameInfo struct {
    Size                  uint32
    OffsetOfFrameVptr     uint32
    OffsetOfFrameLink     uint32
    OffsetOfCallTarget    uint32
    OffsetOfReturnAddress uint32
}

// Info is the slice of engine state the lowering engine needs: thread
// field offsets and the two process-wide addresses consulted during a
// managed/unmanaged transition.
type Info struct {
    CallFrame           InlinedCallFrameInfo
    OffsetOfThreadFrame uint32
    OffsetOfGCState     uint32

    // ThreadTrapAddr is the address of the engine's "GC requested" trap
    // flag. When ThreadTrapIndirect is set the address is one further
    // level of indirection away.
    ThreadTrapAddr     uint64
    ThreadTrapIndirect bool

    // GCPauseHelperAddr is the entry point of the engine's stop-for-GC
    // helper routine.
    GCPauseHelperAddr uint64
}
