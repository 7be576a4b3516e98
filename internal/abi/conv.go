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

// Package abi classifies logical call signatures into machine-level
// argument passing for a target calling convention.
package abi

import (
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// CallConv is the logical calling convention carried on a signature.
// Default is the runtime's own managed convention; the rest are native
// conventions for calls crossing the managed/unmanaged boundary.
type CallConv uint8

const (
    Default CallConv = iota
    C
    StdCall
    ThisCall
    FastCall
)

func (self CallConv) String() string {
    switch self {
        case Default  : return "default"
        case C        : return "C"
        case StdCall  : return "stdcall"
        case ThisCall : return "thiscall"
        case FastCall : return "fastcall"
        default       : panic("abi: invalid calling convention")
    }
}

// Normalize folds conventions that only differ on 32-bit targets into
// plain C. Correct for x86-64 only.
func (self CallConv) Normalize() CallConv {
    switch self {
        case StdCall, ThisCall, FastCall : return C
        default                          : return self
    }
}

// IsManaged reports whether the convention is the runtime's managed one.
func (self CallConv) IsManaged() bool {
    return self == Default
}

// Conv maps the normalized convention onto the IR call tag. Both the
// managed convention and normalized native ones lower to C; dispatch
// stubs and secret parameters are layered on separately by the call
// lowering engine.
func (self CallConv) Conv() ir.Conv {
    return ir.ConvC
}
