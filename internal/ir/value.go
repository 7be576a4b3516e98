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

type ValueKind uint8

const (
    // V_scalar values carry their payload directly.
    V_scalar ValueKind = iota

    // V_aggaddr values are the address of an in-memory aggregate, typed
    // as a pointer to the aggregate type. The discriminant replaces any
    // out-of-band "this pointer is really a struct" bookkeeping.
    V_aggaddr
)

type Value struct {
    Id      uint32
    Kind    ValueKind
    Type    *Type
    Const   bool
    Iv      int64
    Name    string
}

// Aggregate returns the aggregate type behind a V_aggaddr value.
func (self *Value) Aggregate() *Type {
    if self.Kind != V_aggaddr || !self.Type.IsPointer() {
        panic("ir: not an aggregate address: " + self.String())
    } else {
        return self.Type.Elem
    }
}

func (self *Value) String() string {
    if self.Const {
        return fmt.Sprintf("$%d", self.Iv)
    } else if self.Name != "" {
        return "%" + self.Name
    } else if self.Kind == V_aggaddr {
        return fmt.Sprintf("%%a%d", self.Id)
    } else {
        return fmt.Sprintf("%%v%d", self.Id)
    }
}

// Attr is a parameter or return attribute controlling integer widening.
type Attr uint8

const (
    AttrNone Attr = iota
    AttrZExt
    AttrSExt
)

func (self Attr) String() string {
    switch self {
        case AttrNone : return ""
        case AttrZExt : return "zext"
        case AttrSExt : return "sext"
        default       : panic("ir: invalid attribute")
    }
}

// Conv is the machine calling convention tag attached to calls and
// function definitions.
type Conv uint8

const (
    // ConvC is the default convention. Managed calls and normalized
    // native calls both lower to it on 64-bit targets.
    ConvC Conv = iota

    // ConvVirtualStub marks calls dispatched through an indirection
    // cell; the cell rides in a fixed register ahead of the arguments.
    ConvVirtualStub

    // ConvSecretParam marks functions that receive, and tail calls that
    // forward, the runtime's hidden stub parameter.
    ConvSecretParam
)

func (self Conv) String() string {
    switch self {
        case ConvC           : return "ccc"
        case ConvVirtualStub : return "clr_virtualstub"
        case ConvSecretParam : return "clr_secretparam"
        default              : panic("ir: invalid calling convention")
    }
}
