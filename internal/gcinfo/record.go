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

// Package gcinfo translates the backend's raw safepoint table and frame
// annotations into the execution engine's GC table encoding.
package gcinfo

import (
    `fmt`

    `github.com/swaroop-sridhar/llilc/internal/ir`
    `github.com/swaroop-sridhar/llilc/internal/opts`
)

// InvalidOffset marks a slot whose stack offset the frame walker has not
// resolved yet. Every declared slot must be resolved exactly once before
// the emitter runs.
const InvalidOffset = int32(-1)

// Local is the backend's handle for one stack object.
type Local uint32

// SpecialSlot is a reserved engine slot: stack-guard cookie, security
// object or generics context. A function has at most one of each.
type SpecialSlot struct {
    Local  Local
    Offset int32
}

// AggregateSlot is a stack-resident aggregate with embedded references,
// reported untracked per reference field.
type AggregateSlot struct {
    Type   *ir.Type
    Offset int32
}

// FuncRecord annotates one compiled function with the pointer-holding
// stack slots the engine must know about.
type FuncRecord struct {
    Name             string
    CodeLength       uint32
    UsesFramePointer bool
    Pinned           map[Local]int32
    Aggregates       map[Local]*AggregateSlot
    GsCookie         *SpecialSlot
    SecurityObject   *SpecialSlot
    GenericsContext  *SpecialSlot
}

func newFuncRecord(name string) *FuncRecord {
    return &FuncRecord {
        Name       : name,
        Pinned     : make(map[Local]int32),
        Aggregates : make(map[Local]*AggregateSlot),
    }
}

// RecordPinnedSlot declares a pinned reference slot. The offset stays
// unresolved until the frame walker sees the final frame layout.
func (self *FuncRecord) RecordPinnedSlot(l Local) {
    if _, ok := self.Pinned[l]; ok {
        panic(fmt.Sprintf("gcinfo: duplicate pinned slot %d in %s", l, self.Name))
    } else {
        self.Pinned[l] = InvalidOffset
    }
}

// RecordGcAggregate declares an aggregate-typed slot with embedded
// references.
func (self *FuncRecord) RecordGcAggregate(l Local, vt *ir.Type) {
    if _, ok := self.Aggregates[l]; ok {
        panic(fmt.Sprintf("gcinfo: duplicate aggregate slot %d in %s", l, self.Name))
    } else {
        self.Aggregates[l] = &AggregateSlot { Type: vt, Offset: InvalidOffset }
    }
}

func (self *FuncRecord) RecordGsCookie(l Local) {
    if self.GsCookie != nil {
        panic("gcinfo: duplicate stack-guard cookie in " + self.Name)
    } else {
        self.GsCookie = &SpecialSlot { Local: l, Offset: InvalidOffset }
    }
}

func (self *FuncRecord) RecordSecurityObject(l Local) {
    if self.SecurityObject != nil {
        panic("gcinfo: duplicate security object in " + self.Name)
    } else {
        self.SecurityObject = &SpecialSlot { Local: l, Offset: InvalidOffset }
    }
}

func (self *FuncRecord) RecordGenericsContext(l Local) {
    if self.GenericsContext != nil {
        panic("gcinfo: duplicate generics context in " + self.Name)
    } else {
        self.GenericsContext = &SpecialSlot { Local: l, Offset: InvalidOffset }
    }
}

// EscapingLocals lists the locals whose address escapes to the engine
// and must therefore never be promoted off the stack.
func (self *FuncRecord) EscapingLocals() []Local {
    var ret []Local
    if self.GsCookie != nil {
        ret = append(ret, self.GsCookie.Local)
    }
    if self.SecurityObject != nil {
        ret = append(ret, self.SecurityObject.Local)
    }
    if self.GenericsContext != nil {
        ret = append(ret, self.GenericsContext.Local)
    }
    for l := range self.Pinned {
        ret = append(ret, l)
    }
    for l := range self.Aggregates {
        ret = append(ret, l)
    }
    return ret
}

// Context carries one compilation's GC bookkeeping. Every phase takes it
// explicitly; nothing here is shared across concurrent compilations.
type Context struct {
    Opts  opts.Options
    DL    ir.DataLayout
    funcs map[string]*FuncRecord
}

func NewContext(o opts.Options, dl ir.DataLayout) *Context {
    return &Context {
        Opts  : o,
        DL    : dl,
        funcs : make(map[string]*FuncRecord),
    }
}

// NewFunc creates the record for a GC-aware function.
func (self *Context) NewFunc(name string) *FuncRecord {
    if _, ok := self.funcs[name]; ok {
        panic("gcinfo: duplicate function record: " + name)
    }
    rec := newFuncRecord(name)
    self.funcs[name] = rec
    return rec
}

// Func finds an existing record, or nil.
func (self *Context) Func(name string) *FuncRecord {
    return self.funcs[name]
}
