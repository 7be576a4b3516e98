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
    `strings`
)

// Address spaces distinguish pointers the collector must report from
// pointers it must ignore.
const (
    UnmanagedAddressSpace = 0
    ManagedAddressSpace   = 1
)

type Kind uint8

const (
    K_void Kind = iota
    K_int
    K_float
    K_ptr
    K_struct
    K_array
    K_vector
)

// Type is a machine-level value type. Scalars are shared singletons,
// composites are built with the *Of constructors.
type Type struct {
    Kind   Kind
    Bits   uint32
    Space  uint32
    Elem   *Type
    Count  uint32
    Fields []*Type
}

var (
    VoidT    = &Type { Kind: K_void }
    Int8T    = &Type { Kind: K_int, Bits: 8 }
    Int16T   = &Type { Kind: K_int, Bits: 16 }
    Int32T   = &Type { Kind: K_int, Bits: 32 }
    Int64T   = &Type { Kind: K_int, Bits: 64 }
    Float32T = &Type { Kind: K_float, Bits: 32 }
    Float64T = &Type { Kind: K_float, Bits: 64 }
)

func IntN(bits uint32) *Type {
    switch bits {
        case 8  : return Int8T
        case 16 : return Int16T
        case 32 : return Int32T
        case 64 : return Int64T
        default : panic(fmt.Sprintf("ir: invalid integer width: %d", bits))
    }
}

func PointerIn(elem *Type, space uint32) *Type {
    return &Type { Kind: K_ptr, Space: space, Elem: elem }
}

// ManagedPtr creates a pointer the collector tracks as a root.
func ManagedPtr(elem *Type) *Type {
    return PointerIn(elem, ManagedAddressSpace)
}

// UnmanagedPtr creates a pointer outside the collector's view.
func UnmanagedPtr(elem *Type) *Type {
    return PointerIn(elem, UnmanagedAddressSpace)
}

func StructOf(fields ...*Type) *Type {
    return &Type { Kind: K_struct, Fields: fields }
}

func ArrayOf(elem *Type, n uint32) *Type {
    return &Type { Kind: K_array, Elem: elem, Count: n }
}

func VectorOf(elem *Type, n uint32) *Type {
    return &Type { Kind: K_vector, Elem: elem, Count: n }
}

func (self *Type) IsVoid() bool {
    return self.Kind == K_void
}

func (self *Type) IsInteger() bool {
    return self.Kind == K_int
}

func (self *Type) IsPointer() bool {
    return self.Kind == K_ptr
}

func (self *Type) IsStruct() bool {
    return self.Kind == K_struct
}

func (self *Type) IsAggregate() bool {
    return self.Kind == K_struct || self.Kind == K_array || self.Kind == K_vector
}

// Equals compares two types structurally.
func (self *Type) Equals(other *Type) bool {
    if self == other {
        return true
    }

    /* kinds and scalar attributes must agree */
    if self.Kind != other.Kind || self.Bits != other.Bits {
        return false
    }

    /* compare by kind */
    switch self.Kind {
        case K_void, K_int, K_float: {
            return true
        }

        case K_ptr: {
            return self.Space == other.Space && self.Elem.Equals(other.Elem)
        }

        case K_array, K_vector: {
            return self.Count == other.Count && self.Elem.Equals(other.Elem)
        }

        case K_struct: {
            if len(self.Fields) != len(other.Fields) {
                return false
            }
            for i, f := range self.Fields {
                if !f.Equals(other.Fields[i]) {
                    return false
                }
            }
            return true
        }

        default: {
            panic("ir: invalid type kind")
        }
    }
}

func (self *Type) String() string {
    switch self.Kind {
        case K_void  : return "void"
        case K_int   : return fmt.Sprintf("i%d", self.Bits)
        case K_float : return fmt.Sprintf("f%d", self.Bits)
        case K_array : return fmt.Sprintf("[%d x %s]", self.Count, self.Elem)
        case K_vector: return fmt.Sprintf("<%d x %s>", self.Count, self.Elem)
        case K_struct: return self.formatStruct()
        case K_ptr: {
            if self.Space == ManagedAddressSpace {
                return self.Elem.String() + " addrspace(1)*"
            } else {
                return self.Elem.String() + "*"
            }
        }
        default: {
            panic("ir: invalid type kind")
        }
    }
}

func (self *Type) formatStruct() string {
    nb := len(self.Fields)
    mm := make([]string, nb)

    /* convert each field */
    for i := 0; i < nb; i++ {
        mm[i] = self.Fields[i].String()
    }

    /* join them together */
    return fmt.Sprintf("{%s}", strings.Join(mm, ", "))
}
