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

package ir

import (
    `fmt`
)

// DataLayout gives sizes, alignments and field offsets for a target.
// Only the pointer width varies between supported targets.
type DataLayout struct {
    PtrSize uint32
}

// StructLayout describes a sized struct: the byte offset of every field
// and the total store size including tail padding.
type StructLayout struct {
    Size    uint32
    Offsets []uint32
}

func align(off uint32, a uint32) uint32 {
    return (off + a - 1) &^ (a - 1)
}

func (self DataLayout) TypeAlign(t *Type) uint32 {
    switch t.Kind {
        case K_void            : return 1
        case K_int, K_float    : return t.Bits / 8
        case K_ptr             : return self.PtrSize
        case K_array, K_vector : return self.TypeAlign(t.Elem)
        case K_struct: {
            a := uint32(1)
            for _, f := range t.Fields {
                if fa := self.TypeAlign(f); fa > a {
                    a = fa
                }
            }
            return a
        }
        default: {
            panic("ir: invalid type kind")
        }
    }
}

// TypeSize is the store size of t in bytes, including padding.
func (self DataLayout) TypeSize(t *Type) uint32 {
    switch t.Kind {
        case K_void            : return 0
        case K_int, K_float    : return t.Bits / 8
        case K_ptr             : return self.PtrSize
        case K_array, K_vector : return t.Count * align(self.TypeSize(t.Elem), self.TypeAlign(t.Elem))
        case K_struct          : return self.StructLayout(t).Size
        default                : panic("ir: invalid type kind")
    }
}

func (self DataLayout) StructLayout(t *Type) *StructLayout {
    if t.Kind != K_struct {
        panic(fmt.Sprintf("ir: not a struct type: %s", t))
    }

    /* lay out every field at its natural alignment */
    off := uint32(0)
    ret := &StructLayout { Offsets: make([]uint32, len(t.Fields)) }

    for i, f := range t.Fields {
        off = align(off, self.TypeAlign(f))
        ret.Offsets[i] = off
        off += self.TypeSize(f)
    }

    /* round the store size up to the struct alignment */
    ret.Size = align(off, self.TypeAlign(t))
    return ret
}

// FieldContainingOffset finds the index of the field that covers the
// given byte offset. The offset must be within the struct's store size.
func (self *StructLayout) FieldContainingOffset(off uint32) int {
    if len(self.Offsets) == 0 || off >= self.Size {
        panic(fmt.Sprintf("ir: offset %d out of struct bounds", off))
    }

    /* last field whose offset does not exceed the target */
    idx := 0
    for i, fo := range self.Offsets {
        if fo > off {
            break
        }
        idx = i
    }
    return idx
}
