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

type OpCode uint8

const (
    OP_temp  OpCode = iota  // alloc T              -> R
    OP_addr                 // &X                   -> R
    OP_load                 // *(*T)(X)             -> R
    OP_store                // X -> *(Y)
    OP_cast                 // (*T)(X)              -> R
    OP_i2p                  // ptr(X)               -> R
    OP_field                // (*T)(X + Iv)         -> R
    OP_copy                 // *(*T)(X) -> *(*T)(Y)
    OP_call                 // call Fn              -> R
    OP_transition           // transition call Fn   -> R
)

// CallExpr is the payload of OP_call and OP_transition instructions.
// Transition calls carry the safepoint transition arguments the collector
// uses to suspend the thread while it runs unmanaged code.
type CallExpr struct {
    Target         *Value
    Conv           Conv
    Ret            *Type
    Args           []*Value
    ArgTypes       []*Type
    ArgAttrs       []Attr
    RetAttr        Attr
    Tail           bool
    TransitionArgs []*Value
    DeoptArgs      []*Value
}

type Instr struct {
    Op OpCode
    T  *Type
    X  *Value
    Y  *Value
    Iv int64
    Fn *CallExpr
    R  *Value
}

func (self *Instr) String() string {
    switch self.Op {
        case OP_temp       : return fmt.Sprintf("%s = alloc %s", self.R, self.T)
        case OP_addr       : return fmt.Sprintf("%s = addr %s", self.R, self.X)
        case OP_load       : return fmt.Sprintf("%s = load %s, %s", self.R, self.T, self.X)
        case OP_store      : return fmt.Sprintf("store %s, %s", self.X, self.Y)
        case OP_cast       : return fmt.Sprintf("%s = cast %s to %s", self.R, self.X, self.T)
        case OP_i2p        : return fmt.Sprintf("%s = inttoptr %s to %s", self.R, self.X, self.T)
        case OP_field      : return fmt.Sprintf("%s = field %s + %d as %s", self.R, self.X, self.Iv, self.T)
        case OP_copy       : return fmt.Sprintf("copy %s, %s, %s", self.Y, self.X, self.T)
        case OP_call       : return self.formatCall("call")
        case OP_transition : return self.formatCall("transition_call")
        default            : panic("ir: invalid opcode")
    }
}

func (self *Instr) formatCall(verb string) string {
    nb := len(self.Fn.Args)
    mm := make([]string, nb)

    /* convert each argument */
    for i := 0; i < nb; i++ {
        mm[i] = self.Fn.Args[i].String()
    }

    /* optional result binding */
    if self.R == nil {
        return fmt.Sprintf("%s %s %s(%s)", verb, self.Fn.Conv, self.Fn.Target, strings.Join(mm, ", "))
    } else {
        return fmt.Sprintf("%s = %s %s %s(%s)", self.R, verb, self.Fn.Conv, self.Fn.Target, strings.Join(mm, ", "))
    }
}

// Func is a function under construction: its signature as lowered to the
// machine level, and the instruction sequence of its body.
type Func struct {
    Name       string
    Conv       Conv
    Ret        *Type
    Params     []*Value
    ParamAttrs []Attr
    RetAttr    Attr
    Managed    bool
    Ins        []*Instr
}

type Builder struct {
    F  *Func
    nv uint32
}

func CreateBuilder(name string) *Builder {
    return &Builder {
        F: &Func { Name: name },
    }
}

func (self *Builder) mkval(kind ValueKind, vt *Type) *Value {
    self.nv++
    return &Value { Id: self.nv, Kind: kind, Type: vt }
}

func (self *Builder) push(p *Instr) *Instr {
    self.F.Ins = append(self.F.Ins, p)
    return p
}

// Param appends a positional parameter of the given type.
func (self *Builder) Param(vt *Type, attr Attr) *Value {
    kind := V_scalar
    if vt.IsPointer() && vt.Elem.IsAggregate() {
        kind = V_aggaddr
    }
    v := self.mkval(kind, vt)
    v.Name = fmt.Sprintf("param%d", len(self.F.Params))
    self.F.Params = append(self.F.Params, v)
    self.F.ParamAttrs = append(self.F.ParamAttrs, attr)
    return v
}

func (self *Builder) IntConst(vt *Type, iv int64) *Value {
    v := self.mkval(V_scalar, vt)
    v.Const, v.Iv = true, iv
    return v
}

func (self *Builder) NullPtr(vt *Type) *Value {
    if !vt.IsPointer() {
        panic("ir: null constant of non-pointer type")
    }
    v := self.mkval(V_scalar, vt)
    v.Const = true
    return v
}

// Temp allocates a stack temporary and yields its address. Aggregate
// temporaries come back tagged as aggregate addresses.
func (self *Builder) Temp(vt *Type) *Value {
    kind := V_scalar
    if vt.IsAggregate() {
        kind = V_aggaddr
    }
    r := self.mkval(kind, UnmanagedPtr(vt))
    self.push(&Instr { Op: OP_temp, T: vt, R: r })
    return r
}

// AddrOf spills a scalar value to memory and yields the slot address.
func (self *Builder) AddrOf(v *Value) *Value {
    r := self.mkval(V_scalar, UnmanagedPtr(v.Type))
    self.push(&Instr { Op: OP_addr, X: v, R: r })
    return r
}

func (self *Builder) Load(vt *Type, p *Value) *Value {
    r := self.mkval(V_scalar, vt)
    self.push(&Instr { Op: OP_load, T: vt, X: p, R: r })
    return r
}

func (self *Builder) Store(v *Value, p *Value) {
    self.push(&Instr { Op: OP_store, X: v, Y: p })
}

// Cast reinterprets a pointer as pointing to vt, preserving the
// address space of the original pointer.
func (self *Builder) Cast(p *Value, vt *Type) *Value {
    if !p.Type.IsPointer() {
        panic("ir: pointer cast of non-pointer: " + p.String())
    }

    kind := V_scalar
    if vt.IsAggregate() {
        kind = V_aggaddr
    }

    r := self.mkval(kind, PointerIn(vt, p.Type.Space))
    self.push(&Instr { Op: OP_cast, T: vt, X: p, R: r })
    return r
}

func (self *Builder) IntToPtr(v *Value, vt *Type) *Value {
    if !vt.IsPointer() {
        panic("ir: inttoptr to non-pointer type")
    }
    r := self.mkval(V_scalar, vt)
    self.push(&Instr { Op: OP_i2p, T: vt, X: v, R: r })
    return r
}

// FieldAddr computes base + off and types the result as a pointer to ft.
func (self *Builder) FieldAddr(base *Value, off int64, ft *Type) *Value {
    if !base.Type.IsPointer() {
        panic("ir: field address of non-pointer: " + base.String())
    }
    r := self.mkval(V_scalar, PointerIn(ft, base.Type.Space))
    self.push(&Instr { Op: OP_field, T: ft, X: base, Iv: off, R: r })
    return r
}

// Copy copies an aggregate of type vt from src to dst.
func (self *Builder) Copy(dst *Value, src *Value, vt *Type) {
    self.push(&Instr { Op: OP_copy, T: vt, X: src, Y: dst })
}

func (self *Builder) Call(fn *CallExpr) (*Value, *Instr) {
    return self.call(OP_call, fn)
}

// TransitionCall emits a call bracketed by a managed/unmanaged transition
// marker. The collector treats it as a safepoint that spills callee-saved
// pointer registers.
func (self *Builder) TransitionCall(fn *CallExpr) (*Value, *Instr) {
    if len(fn.TransitionArgs) == 0 {
        panic("ir: transition call without transition arguments")
    }
    return self.call(OP_transition, fn)
}

func (self *Builder) call(op OpCode, fn *CallExpr) (*Value, *Instr) {
    var r *Value

    /* bind a result value unless the call returns void */
    if !fn.Ret.IsVoid() {
        kind := V_scalar
        if fn.Ret.IsPointer() && fn.Ret.Elem.IsAggregate() {
            kind = V_aggaddr
        }
        r = self.mkval(kind, fn.Ret)
    }

    p := self.push(&Instr { Op: op, Fn: fn, R: r })
    return r, p
}

func (self *Func) String() string {
    nb := len(self.Ins)
    ss := make([]string, 0, nb + 2)
    ss = append(ss, fmt.Sprintf("func %s %s(...) %s {", self.Conv, self.Name, self.Ret))

    /* print every instruction */
    for _, p := range self.Ins {
        ss = append(ss, "    " + p.String())
    }

    /* join them together */
    ss = append(ss, "}")
    return strings.Join(ss, "\n")
}
