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
    `fmt`
    `sort`
    `sync/atomic`

    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/oleiade/lane`
    `github.com/swaroop-sridhar/llilc/internal/ee`
    `github.com/swaroop-sridhar/llilc/internal/stackmap`
)

const (
    _InitLiveBits = 25
)

// Counters for the debug package. Observational only.
var (
    TableCount int64
    SlotCount  int64
)

// Emitter drives the engine's encoder through its required sequence to
// produce one function's GC table. Phases run strictly in order:
//
//   Header -> Pinned -> Liveness -> Aggregates -> Finalize -> Emit
//
// Slot identifiers fall into three classes, [0,P) pinned untracked,
// [P,P+T) tracked, [P+T,P+T+A) aggregate-field untracked; the phase
// order is what makes the classes come out contiguous.
type Emitter struct {
    ctx  *Context
    enc  ee.Encoder
    cor  uint32
    slot *SlotTable
    pend *lane.Queue
    site []uint32
    size []uint8
}

// NewEmitter creates an emitter for one function's encoding pass. The
// correction is the byte distance from the engine's code block start to
// the function entry that the stream's offsets are relative to.
func NewEmitter(ctx *Context, enc ee.Encoder, offsetCorrection uint32) *Emitter {
    return &Emitter {
        ctx  : ctx,
        enc  : enc,
        cor  : offsetCorrection,
        slot : newSlotTable(),
        pend : lane.NewQueue(),
    }
}

// Emit encodes and serializes the GC table for rec. The stream is the
// raw safepoint section for this function; it may be empty for functions
// without safepoints.
func (self *Emitter) Emit(rec *FuncRecord, stream []byte) ([]byte, error) {
    self.encodeHeader(rec)

    /* aggregate allocations must wait until the liveness scan is done,
     * queue them up front */
    for _, l := range sortedAggregates(rec) {
        self.pend.Enqueue(rec.Aggregates[l])
    }

    /* pinned slots must take the lowest identifiers */
    if err := self.encodePinned(rec); err != nil {
        return nil, err
    }
    if err := self.encodeLiveness(rec, stream); err != nil {
        return nil, err
    }
    if err := self.encodeAggregates(rec); err != nil {
        return nil, err
    }

    /* identifier numbering is compacted only after every class is
     * fully allocated */
    self.enc.FinalizeSlotIDs()
    if self.ctx.Opts.PartialInterrupt {
        self.enc.DefineCallSites(self.site, self.size)
    }

    /* serialize the accumulated table */
    self.enc.Build()
    atomic.AddInt64(&TableCount, 1)
    atomic.AddInt64(&SlotCount, int64(self.slot.size()))
    return self.enc.Emit(), nil
}

func (self *Emitter) encodeHeader(rec *FuncRecord) {
    self.trace("GcTable for Function: %s\n", rec.Name)
    self.trace("  Size: %d\n", rec.CodeLength)
    self.enc.SetCodeLength(rec.CodeLength)

    /* slot offsets are reported against RSP unless the function keeps
     * a dedicated frame base register */
    if rec.UsesFramePointer {
        self.enc.SetStackBaseRegister(x86_64.RBP)
        self.trace("  StackBaseRegister: FP\n")
    } else {
        self.trace("  StackBaseRegister: SP\n")
    }

    if n := self.ctx.Opts.ScratchAreaSize; n >= 0 {
        self.enc.SetScratchAreaSize(uint32(n))
        self.trace("  Scratch Area Size: %d\n", n)
    }
}

func (self *Emitter) encodePinned(rec *FuncRecord) error {
    const flags = ee.SlotBase | ee.SlotPinned | ee.SlotUntracked
    self.trace("  Pinned Slots:\n")

    for _, l := range sortedPinned(rec) {
        off := rec.Pinned[l]
        if off == InvalidOffset {
            return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("pinned slot %d never resolved", l) }
        }
        if _, ok := self.slot.find(off); ok {
            return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("pinned slot sp+%d already allocated", off) }
        }

        id := self.enc.StackSlotID(off, flags)
        if !self.slot.insert(off, id) {
            return InvariantError { Fn: rec.Name, Reason: "slot identifiers dis-contiguous" }
        }
        self.trace("    [%d]: sp+%d\n", id, off)
    }
    return nil
}

func (self *Emitter) encodeLiveness(rec *FuncRecord, stream []byte) error {
    if len(stream) == 0 {
        return nil
    }

    /* decode the raw safepoint section */
    tab, err := stackmap.Parse(stream)
    if err != nil {
        return err
    }

    /* the stream must describe exactly this one function */
    if len(tab.Funcs) != 1 {
        return UnsupportedError { Fn: rec.Name, Feature: fmt.Sprintf("safepoint stream with %d function sections", len(tab.Funcs)) }
    }

    /* process safepoints in ascending instruction order */
    recs := append([]stackmap.Record(nil), tab.Records...)
    sort.SliceStable(recs, func(i int, j int) bool {
        return recs[i].Offset < recs[j].Offset
    })

    /* pinned identifiers occupy [0, P); they never participate in
     * liveness and their low bits in the live sets simply stay unused */
    numPinned := self.slot.size()
    callSize := uint32(self.ctx.Opts.CallSiteSize)

    /* the stream reports all live locations per safepoint, the engine
     * wants births and deaths; diff consecutive live sets */
    bits := uint32(_InitLiveBits)
    oldLive := NewBitVector(bits)
    newLive := NewBitVector(bits)

    self.trace("  #Safepoints: %d\n", len(recs))

    for ri, r := range recs {
        /* the stream's offset is past the end of the call instruction
         * and relative to function entry; the engine wants the call's
         * first byte relative to the code block start */
        ip := r.Offset + self.cor - callSize

        if self.ctx.Opts.PartialInterrupt {
            self.site = append(self.site, ip)
            self.size = append(self.size, uint8(callSize))
        }

        self.trace("    %d: @%d", ri, ip)

        for _, loc := range r.Locations {
            switch loc.Kind {
                case stackmap.Constant, stackmap.ConstantIndex: {
                    continue
                }

                case stackmap.Register: {
                    /* this backend spills live references to the stack
                     * at every safepoint; a register here means the
                     * spill pass was skipped */
                    return UnsupportedError { Fn: rec.Name, Feature: "GC reference live in a register" }
                }

                case stackmap.Direct: {
                    if loc.DwarfReg != stackmap.DwarfStackPointer {
                        return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("live slot based on register %d, expect SP", loc.DwarfReg) }
                    }

                    /* first occurrence allocates the slot identifier */
                    id, ok := self.slot.find(loc.Offset)
                    if !ok {
                        id = self.enc.StackSlotID(loc.Offset, ee.SlotInterior)
                        if !self.slot.insert(loc.Offset, id) {
                            return InvariantError { Fn: rec.Name, Reason: "slot identifiers dis-contiguous" }
                        }

                        /* grow the live sets if the population now
                         * exceeds them */
                        if n := self.slot.size(); n > bits {
                            bits += bits
                            if bits <= oldLive.Cap() {
                                return InvariantError { Fn: rec.Name, Reason: "live set overflow, too many live pointers" }
                            }
                            oldLive.Resize(bits)
                            newLive.Resize(bits)
                        }
                        self.trace("\n    [%d]: sp+%d", id, loc.Offset)
                    }

                    /* pinned slots stay untracked */
                    if id >= numPinned {
                        newLive.Set(id)
                    }
                }

                default: {
                    return UnsupportedError { Fn: rec.Name, Feature: fmt.Sprintf("location kind %s in safepoint record", loc.Kind) }
                }
            }
        }

        /* report only the slots whose liveness flipped */
        for id := uint32(0); id < self.slot.size(); id++ {
            if !oldLive.Test(id) && newLive.Test(id) {
                self.enc.SetSlotState(ip, id, ee.SlotLive)
                self.trace("  +%d", id)
            } else if oldLive.Test(id) && !newLive.Test(id) {
                self.enc.SetSlotState(ip, id, ee.SlotDead)
                self.trace("  -%d", id)
            }
            if newLive.Test(id) {
                oldLive.Set(id)
            } else {
                oldLive.Clear(id)
            }
            newLive.Clear(id)
        }
        self.trace("\n")
    }
    return nil
}

func (self *Emitter) encodeAggregates(rec *FuncRecord) error {
    const flags = ee.SlotBase | ee.SlotUntracked
    self.trace("  Untracked Slots:\n")

    for !self.pend.Empty() {
        agg := self.pend.Dequeue().(*AggregateSlot)

        /* declared type must actually be a reference-bearing struct */
        if !agg.Type.IsStruct() || !IsGcAggregate(agg.Type) {
            return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("aggregate slot of non-aggregate type %s", agg.Type) }
        }
        if agg.Offset == InvalidOffset {
            return InvariantError { Fn: rec.Name, Reason: "aggregate slot never resolved" }
        }

        /* one untracked slot per embedded reference */
        for _, ptrOff := range GcPointers(agg.Type, self.ctx.DL) {
            off := agg.Offset + int32(ptrOff)
            if _, ok := self.slot.find(off); ok {
                return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("untracked slot sp+%d already allocated", off) }
            }

            id := self.enc.StackSlotID(off, flags)
            if !self.slot.insert(off, id) {
                return InvariantError { Fn: rec.Name, Reason: "slot identifiers dis-contiguous" }
            }
            self.trace("    [%d]: sp+%d\n", id, off)
        }
    }
    return nil
}

func sortedPinned(rec *FuncRecord) []Local {
    ls := make([]Local, 0, len(rec.Pinned))
    for l := range rec.Pinned {
        ls = append(ls, l)
    }
    sort.Slice(ls, func(i int, j int) bool { return ls[i] < ls[j] })
    return ls
}

func sortedAggregates(rec *FuncRecord) []Local {
    ls := make([]Local, 0, len(rec.Aggregates))
    for l := range rec.Aggregates {
        ls = append(ls, l)
    }
    sort.Slice(ls, func(i int, j int) bool { return ls[i] < ls[j] })
    return ls
}
