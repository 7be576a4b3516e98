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

package llilc

import (
	"testing"

	"github.com/chenzhuoyu/iasm/x86_64"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"github.com/swaroop-sridhar/llilc/internal/ee"
	"github.com/swaroop-sridhar/llilc/internal/gcinfo"
	"github.com/swaroop-sridhar/llilc/internal/ir"
	"github.com/swaroop-sridhar/llilc/internal/stackmap"
)

type tableEncoder struct {
	slots  []int32
	states int
	done   bool
}

func (self *tableEncoder) SetCodeLength(n uint32)                   {}
func (self *tableEncoder) SetStackBaseRegister(r x86_64.Register64) {}
func (self *tableEncoder) SetScratchAreaSize(n uint32)              {}
func (self *tableEncoder) FinalizeSlotIDs()                         {}
func (self *tableEncoder) DefineCallSites(o []uint32, s []uint8)    {}
func (self *tableEncoder) Build()                                   { self.done = true }
func (self *tableEncoder) Emit() []byte                             { return []byte{1} }

func (self *tableEncoder) StackSlotID(off int32, fl ee.SlotFlags) ee.SlotID {
	id := ee.SlotID(len(self.slots))
	self.slots = append(self.slots, off)
	return id
}

func (self *tableEncoder) SetSlotState(ip uint32, slot ee.SlotID, st ee.SlotState) {
	self.states++
}

func TestCompileContext_EmitGCTable(t *testing.T) {
	cc := NewCompileContext(ir.DataLayout{PtrSize: 8}, WithCallSiteSize(2))
	require.Equal(t, uint8(2), cc.Opts.CallSiteSize)

	rec := cc.NewFunc("demo")
	rec.CodeLength = 64
	rec.RecordPinnedSlot(0)
	rec.RecordGcAggregate(1, ir.StructOf(ir.ManagedPtr(ir.Int8T), ir.Int64T))

	var b stackmap.Builder
	b.AddFunc(0x1000, 16)
	b.AddRecord(0, 10, []stackmap.Location{stackmap.DirectLoc(8)})
	b.AddRecord(1, 20, nil)

	fl := &gcinfo.FrameLayout{
		StackSize: 16,
		Objects: []gcinfo.FrameObject{
			{Local: 0, Offset: 0},
			{Local: 1, Offset: 8},
		},
	}

	enc := &tableEncoder{}
	buf, err := cc.EmitGCTable(enc, "demo", fl, b.Build(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, buf)
	require.True(t, enc.done)
	spew.Dump(enc.slots)

	/* pinned, tracked, aggregate field */
	require.Equal(t, []int32{24, 8, 32}, enc.slots)
	require.Equal(t, 2, enc.states)
}

func TestCompileContext_UnknownFunc(t *testing.T) {
	cc := NewCompileContext(ir.DataLayout{PtrSize: 8})
	_, err := cc.EmitGCTable(&tableEncoder{}, "missing", &gcinfo.FrameLayout{}, nil, 0)
	require.Error(t, err)
	require.IsType(t, InvariantError{}, err)
}

func TestCompileContext_Isolation(t *testing.T) {
	a := NewCompileContext(ir.DataLayout{PtrSize: 8})
	b := NewCompileContext(ir.DataLayout{PtrSize: 8})

	a.NewFunc("same")
	require.NotPanics(t, func() { b.NewFunc("same") })
}

func TestOptions_Validation(t *testing.T) {
	require.Panics(t, func() { WithCallSiteSize(0) })
	require.Panics(t, func() { WithCallSiteSize(16) })

	cc := NewCompileContext(ir.DataLayout{PtrSize: 8},
		WithTraceGC(false),
		WithScratchAreaSize(64),
		WithPartialInterruption(true))
	require.Equal(t, int32(64), cc.Opts.ScratchAreaSize)
	require.True(t, cc.Opts.PartialInterrupt)
}
