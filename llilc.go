/*
 * Copyright 2022 CloudWeGo Authors
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

// Package llilc encodes GC tables for a managed execution engine from
// the code generator's raw safepoint stream, and resolves managed call
// signatures down to machine-level argument layouts.
package llilc

import (
	"github.com/swaroop-sridhar/llilc/internal/ee"
	"github.com/swaroop-sridhar/llilc/internal/gcinfo"
	"github.com/swaroop-sridhar/llilc/internal/ir"
	"github.com/swaroop-sridhar/llilc/internal/opts"
)

// CompileContext ties the options, the target data layout and the
// per-function GC bookkeeping of one compilation together. Contexts are
// independent; concurrent compilations each get their own.
type CompileContext struct {
	Opts opts.Options
	DL   ir.DataLayout
	GC   *gcinfo.Context
}

func NewCompileContext(dl ir.DataLayout, options ...Option) *CompileContext {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return &CompileContext{
		Opts: o,
		DL:   dl,
		GC:   gcinfo.NewContext(o, dl),
	}
}

// NewFunc creates the GC record for one function under compilation. The
// backend fills it with slot declarations as it discovers them.
func (self *CompileContext) NewFunc(name string) *gcinfo.FuncRecord {
	return self.GC.NewFunc(name)
}

// EmitGCTable resolves the function's declared slots against its final
// frame layout, then encodes the GC table from the raw safepoint stream
// produced for that one function.
//
// offsetCorrection is added to every record offset before safepoint
// registration; pass the function's offset from the start of the
// emitted code section, or 0.
//
// Any error aborts the function's table. No partial table is emitted.
func (self *CompileContext) EmitGCTable(enc ee.Encoder, name string, fl *gcinfo.FrameLayout, stream []byte, offsetCorrection uint32) ([]byte, error) {
	rec := self.GC.Func(name)
	if rec == nil {
		return nil, gcinfo.InvariantError{Fn: name, Reason: "no GC record for function"}
	}
	if err := self.GC.WalkFrame(rec, fl); err != nil {
		return nil, err
	}
	return gcinfo.NewEmitter(self.GC, enc, offsetCorrection).Emit(rec, stream)
}
