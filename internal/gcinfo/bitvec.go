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

// BitVector is a growable bit set, one bit per tracked slot. Growth
// preserves every existing bit.
type BitVector struct {
    n uint32
    b []uint64
}

func NewBitVector(n uint32) *BitVector {
    return &BitVector {
        n: n,
        b: make([]uint64, (n + 63) / 64),
    }
}

func (self *BitVector) Cap() uint32 {
    return self.n
}

func (self *BitVector) Test(i uint32) bool {
    if i >= self.n {
        panic("gcinfo: bit index out of range")
    } else {
        return self.b[i / 64] & (1 << (i % 64)) != 0
    }
}

func (self *BitVector) Set(i uint32) {
    if i >= self.n {
        panic("gcinfo: bit index out of range")
    } else {
        self.b[i / 64] |= 1 << (i % 64)
    }
}

func (self *BitVector) Clear(i uint32) {
    if i >= self.n {
        panic("gcinfo: bit index out of range")
    } else {
        self.b[i / 64] &^= 1 << (i % 64)
    }
}

// Resize grows the vector to at least n bits. Shrinking is not
// supported; existing bits keep their values.
func (self *BitVector) Resize(n uint32) {
    if n < self.n {
        panic("gcinfo: bit vector shrink")
    }
    nw := (n + 63) / 64
    for uint32(len(self.b)) < nw {
        self.b = append(self.b, 0)
    }
    self.n = n
}
