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

// Package ee declares the contracts this backend has with the execution
// engine: the GC table encoder primitive and the interop frame layout.
// The engine owns both; this package only names them.
package ee

import (
    `github.com/chenzhuoyu/iasm/x86_64`
)

type (
    SlotID = uint32
)

type SlotFlags uint8

const (
    SlotBase SlotFlags = 1 << iota
    SlotInterior
    SlotPinned
    SlotUntracked
)

type SlotState uint8

const (
    SlotLive SlotState = iota
    SlotDead
)

// Encoder is the engine's GC table encoder. The call order is part of
// the contract:
//
//   SetCodeLength, SetStackBaseRegister, [SetScratchAreaSize],
//   StackSlotID xN, SetSlotState xM, FinalizeSlotIDs,
//   [DefineCallSites], Build, Emit
//
// Callers must not reorder it.
type Encoder interface {
    SetCodeLength(n uint32)
    SetStackBaseRegister(r x86_64.Register64)
    SetScratchAreaSize(n uint32)
    StackSlotID(off int32, fl SlotFlags) SlotID
    SetSlotState(ip uint32, slot SlotID, st SlotState)
    FinalizeSlotIDs()
    DefineCallSites(offs []uint32, sizes []uint8)
    Build()
    Emit() []byte
}
