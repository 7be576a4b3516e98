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

package stackmap

import (
    `encoding/binary`

    `github.com/bytedance/gopkg/lang/dirtmake`
)

// Builder serializes a Table into the version-1 stream format. The
// upstream backend writes its section with this; tests use it to
// synthesize inputs.
type Builder struct {
    tab Table
}

func (self *Builder) AddFunc(addr uint64, stackSize uint64) *Builder {
    self.tab.Funcs = append(self.tab.Funcs, FuncDesc { Addr: addr, StackSize: stackSize })
    return self
}

func (self *Builder) AddConst(v uint64) *Builder {
    self.tab.Consts = append(self.tab.Consts, v)
    return self
}

func (self *Builder) AddRecord(id uint64, off uint32, locs []Location) *Builder {
    self.tab.Records = append(self.tab.Records, Record { ID: id, Offset: off, Locations: locs })
    return self
}

// DirectLoc is shorthand for a stack-relative live location.
func DirectLoc(off int32) Location {
    return Location { Kind: Direct, DwarfReg: DwarfStackPointer, Offset: off }
}

func (self *Builder) size() int {
    n := 4 + 12 + len(self.tab.Funcs) * 16 + len(self.tab.Consts) * 8
    for _, r := range self.tab.Records {
        rn := 16 + len(r.Locations) * 8 + 4 + len(r.LiveOuts) * 4
        n += (rn + 7) &^ 7
    }
    return n
}

func (self *Builder) Build() []byte {
    w := writer { buf: dirtmake.Bytes(0, self.size()) }

    /* header and section counts */
    w.u8(Version)
    w.u8(0)
    w.u16(0)
    w.u32(uint32(len(self.tab.Funcs)))
    w.u32(uint32(len(self.tab.Consts)))
    w.u32(uint32(len(self.tab.Records)))

    /* function sections */
    for _, f := range self.tab.Funcs {
        w.u64(f.Addr)
        w.u64(f.StackSize)
    }

    /* large constant pool */
    for _, c := range self.tab.Consts {
        w.u64(c)
    }

    /* safepoint records */
    for _, r := range self.tab.Records {
        w.u64(r.ID)
        w.u32(r.Offset)
        w.u16(0)
        w.u16(uint16(len(r.Locations)))
        for _, v := range r.Locations {
            w.u8(uint8(v.Kind))
            w.u8(0)
            w.u16(v.DwarfReg)
            w.u32(uint32(v.Offset))
        }
        w.u16(0)
        w.u16(uint16(len(r.LiveOuts)))
        for _, v := range r.LiveOuts {
            w.u16(v.DwarfReg)
            w.u8(0)
            w.u8(v.Size)
        }
        w.pad8()
    }
    return w.buf
}

type writer struct {
    buf []byte
}

func (self *writer) u8(v uint8) {
    self.buf = append(self.buf, v)
}

func (self *writer) u16(v uint16) {
    var b [2]byte
    binary.LittleEndian.PutUint16(b[:], v)
    self.buf = append(self.buf, b[:]...)
}

func (self *writer) u32(v uint32) {
    var b [4]byte
    binary.LittleEndian.PutUint32(b[:], v)
    self.buf = append(self.buf, b[:]...)
}

func (self *writer) u64(v uint64) {
    var b [8]byte
    binary.LittleEndian.PutUint64(b[:], v)
    self.buf = append(self.buf, b[:]...)
}

func (self *writer) pad8() {
    for len(self.buf) % 8 != 0 {
        self.buf = append(self.buf, 0)
    }
}
