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

package gcinfo

import (
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// IsGcPointer reports whether t is a reference the collector must track:
// a pointer in the managed address space.
func IsGcPointer(t *ir.Type) bool {
    return t.IsPointer() && t.Space == ir.ManagedAddressSpace
}

// IsGcAggregate reports whether t is an aggregate containing at least
// one reference. Vectors and arrays qualify through their element type,
// structs through any field, recursively.
func IsGcAggregate(t *ir.Type) bool {
    switch t.Kind {
        case ir.K_vector, ir.K_array: {
            return IsGcPointer(t.Elem)
        }

        case ir.K_struct: {
            for _, f := range t.Fields {
                if IsGcType(f) {
                    return true
                }
            }
            return false
        }

        default: {
            return false
        }
    }
}

func IsGcType(t *ir.Type) bool {
    return IsGcPointer(t) || IsGcAggregate(t)
}

func IsUnmanagedPointer(t *ir.Type) bool {
    return t.IsPointer() && !IsGcPointer(t)
}

// GcPointers walks a sized struct in pointer-width strides and returns
// the byte offsets, relative to the struct start, at which a reference
// begins. Nested structs are descended until a non-struct field is
// reached at the stride's offset.
func GcPointers(st *ir.Type, dl ir.DataLayout) []uint32 {
    var ptrs []uint32

    size := dl.TypeSize(st)
    layout := dl.StructLayout(st)

    for off := uint32(0); off < size; off += dl.PtrSize {
        outerOff := off
        outerLayout := layout
        outerIdx := outerLayout.FieldContainingOffset(outerOff)
        fty := st.Fields[outerIdx]

        /* descend into nested structs, translating the stride offset
         * into each inner struct's local coordinates */
        for fty.IsStruct() {
            innerBase := outerLayout.Offsets[outerIdx]
            innerOff := outerOff - innerBase
            innerLayout := dl.StructLayout(fty)
            innerIdx := innerLayout.FieldContainingOffset(innerOff)

            outerLayout = innerLayout
            outerOff = innerOff
            outerIdx = innerIdx
            fty = fty.Fields[innerIdx]
        }

        if IsGcPointer(fty) {
            ptrs = append(ptrs, off)
        }
    }
    return ptrs
}
