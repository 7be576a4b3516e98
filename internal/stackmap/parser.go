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
    `fmt`
)

type parser struct {
    buf []byte
    pos int
}

func (self *parser) fail(reason string) error {
    return FormatError { Pos: self.pos, Reason: reason }
}

func (self *parser) need(n int) error {
    if self.pos + n > len(self.buf) {
        return self.fail(fmt.Sprintf("need %d more bytes, have %d", n, len(self.buf) - self.pos))
    } else {
        return nil
    }
}

func (self *parser) u8() uint8 {
    v := self.buf[self.pos]
    self.pos += 1
    return v
}

func (self *parser) u16() uint16 {
    v := binary.LittleEndian.Uint16(self.buf[self.pos:])
    self.pos += 2
    return v
}

func (self *parser) u32() uint32 {
    v := binary.LittleEndian.Uint32(self.buf[self.pos:])
    self.pos += 4
    return v
}

func (self *parser) u64() uint64 {
    v := binary.LittleEndian.Uint64(self.buf[self.pos:])
    self.pos += 8
    return v
}

func (self *parser) pad8() {
    if self.pos % 8 != 0 {
        self.pos += 8 - self.pos % 8
    }
}

// Parse decodes a version-1 stream. Every length field is bounds-checked
// before use; a truncated or mis-versioned stream yields a FormatError.
func Parse(buf []byte) (*Table, error) {
    p := parser { buf: buf }

    /* header: version byte plus reserved bytes */
    if err := p.need(4); err != nil {
        return nil, err
    }
    if v := p.u8(); v != Version {
        return nil, p.fail(fmt.Sprintf("unsupported version %d", v))
    }
    p.u8()
    p.u16()

    /* section counts */
    if err := p.need(12); err != nil {
        return nil, err
    }
    nfn := p.u32()
    ncs := p.u32()
    nrec := p.u32()

    /* function sections */
    if err := p.need(int(nfn) * 16); err != nil {
        return nil, err
    }
    tab := &Table { Funcs: make([]FuncDesc, nfn) }
    for i := range tab.Funcs {
        tab.Funcs[i].Addr = p.u64()
        tab.Funcs[i].StackSize = p.u64()
    }

    /* large constant pool */
    if err := p.need(int(ncs) * 8); err != nil {
        return nil, err
    }
    tab.Consts = make([]uint64, ncs)
    for i := range tab.Consts {
        tab.Consts[i] = p.u64()
    }

    /* safepoint records */
    tab.Records = make([]Record, nrec)
    for i := range tab.Records {
        if err := p.record(&tab.Records[i]); err != nil {
            return nil, err
        }
    }

    /* refuse trailing garbage */
    if p.pos != len(buf) {
        return nil, p.fail(fmt.Sprintf("%d bytes of trailing data", len(buf) - p.pos))
    }
    return tab, nil
}

func (self *parser) record(r *Record) error {
    if err := self.need(16); err != nil {
        return err
    }

    /* record header */
    r.ID = self.u64()
    r.Offset = self.u32()
    self.u16()
    nloc := self.u16()

    /* locations: kind, reserved, dwarf register, offset */
    if err := self.need(int(nloc) * 8); err != nil {
        return err
    }
    r.Locations = make([]Location, nloc)
    for i := range r.Locations {
        kind := LocationKind(self.u8())
        self.u8()
        reg := self.u16()
        off := int32(self.u32())
        if kind < Register || kind > ConstantIndex {
            return self.fail(fmt.Sprintf("invalid location kind %d", kind))
        }
        r.Locations[i] = Location { Kind: kind, DwarfReg: reg, Offset: off }
    }

    /* live-out section */
    if err := self.need(4); err != nil {
        return err
    }
    self.u16()
    nout := self.u16()

    if err := self.need(int(nout) * 4); err != nil {
        return err
    }
    r.LiveOuts = make([]LiveOut, nout)
    for i := range r.LiveOuts {
        reg := self.u16()
        self.u8()
        size := self.u8()
        r.LiveOuts[i] = LiveOut { DwarfReg: reg, Size: size }
    }

    /* records are 8-byte aligned */
    self.pad8()
    return self.need(0)
}
