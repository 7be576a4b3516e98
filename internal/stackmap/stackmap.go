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

// Package stackmap reads and writes the backend's raw safepoint table:
// a versioned little-endian binary section with one record per call site,
// each listing the locations that hold live values at that point.
package stackmap

import (
    `fmt`
)

const (
    // Version is the only stream version this package accepts.
    Version = 1
)

// DwarfStackPointer is the DWARF register number of RSP on x86-64, the
// base register every stack-relative location is reported against.
const DwarfStackPointer = 7

type LocationKind uint8

const (
    Register LocationKind = iota + 1
    Direct
    Indirect
    Constant
    ConstantIndex
)

func (self LocationKind) String() string {
    switch self {
        case Register      : return "Register"
        case Direct        : return "Direct"
        case Indirect      : return "Indirect"
        case Constant      : return "Constant"
        case ConstantIndex : return "ConstantIndex"
        default            : return fmt.Sprintf("LocationKind(%d)", uint8(self))
    }
}

// Location is one live-value location within a record. For Direct and
// Indirect kinds the payload is (DwarfReg, Offset); for Constant it is
// the small constant itself; for ConstantIndex an index into the
// stream's large-constant pool.
type Location struct {
    Kind     LocationKind
    DwarfReg uint16
    Offset   int32
}

// LiveOut describes a register holding a live value across the call.
type LiveOut struct {
    DwarfReg uint16
    Size     uint8
}

// Record is one safepoint: the instruction offset relative to function
// entry and the locations live there.
type Record struct {
    ID        uint64
    Offset    uint32
    Locations []Location
    LiveOuts  []LiveOut
}

// FuncDesc is one function section header.
type FuncDesc struct {
    Addr      uint64
    StackSize uint64
}

type Table struct {
    Funcs   []FuncDesc
    Consts  []uint64
    Records []Record
}

// FormatError reports a malformed stream. The stream is produced by the
// upstream backend, so a format error indicates a pipeline bug rather
// than a user mistake.
type FormatError struct {
    Pos    int
    Reason string
}

func (self FormatError) Error() string {
    return fmt.Sprintf("stackmap: malformed stream at offset %d: %s", self.Pos, self.Reason)
}
