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
    `github.com/swaroop-sridhar/llilc/internal/ee`
)

// SlotTable maps callee-relative stack offsets to the slot identifiers
// the encoder assigned for them. Identifiers are allocated in strict
// class order, pinned first, then tracked, then aggregate fields, and
// are dense within the table; a hole in the numbering corrupts the
// engine's slot bit numbering.
type SlotTable struct {
    m map[int32]ee.SlotID
}

func newSlotTable() *SlotTable {
    return &SlotTable {
        m: make(map[int32]ee.SlotID),
    }
}

func (self *SlotTable) size() uint32 {
    return uint32(len(self.m))
}

func (self *SlotTable) find(off int32) (ee.SlotID, bool) {
    id, ok := self.m[off]
    return id, ok
}

// insert records a freshly allocated identifier and checks density.
func (self *SlotTable) insert(off int32, id ee.SlotID) bool {
    self.m[off] = id
    return id == ee.SlotID(len(self.m) - 1)
}
