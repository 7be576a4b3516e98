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
)

// FrameObject is one stack object in the backend's final frame layout.
// The offset is relative to the caller's incoming stack pointer.
type FrameObject struct {
    Local  Local
    Offset int32
}

// FrameLayout is the finalized frame of one function, handed to the
// walker as a plain value once slot assignment is done.
type FrameLayout struct {
    StackSize uint32
    Objects   []FrameObject
}

// WalkFrame resolves every annotated slot of rec to its concrete offset
// relative to the callee's stack pointer:
//
//   calleeOffset = callerOffset + frameSize + pointerWidth
//
// Each slot resolves exactly once; a second resolution means the layout
// names the same local twice.
func (self *Context) WalkFrame(rec *FuncRecord, fl *FrameLayout) error {
    base := int32(fl.StackSize + self.DL.PtrSize)

    for _, obj := range fl.Objects {
        off := base + obj.Offset

        /* reserved engine slots */
        if sp := rec.GsCookie; sp != nil && sp.Local == obj.Local {
            if sp.Offset != InvalidOffset {
                return InvariantError { Fn: rec.Name, Reason: "stack-guard cookie resolved twice" }
            }
            sp.Offset = off
            self.trace("GsCookie: @%d\n", off)
            continue
        }
        if sp := rec.SecurityObject; sp != nil && sp.Local == obj.Local {
            if sp.Offset != InvalidOffset {
                return InvariantError { Fn: rec.Name, Reason: "security object resolved twice" }
            }
            sp.Offset = off
            self.trace("SecurityObject: @%d\n", off)
            continue
        }
        if sp := rec.GenericsContext; sp != nil && sp.Local == obj.Local {
            if sp.Offset != InvalidOffset {
                return InvariantError { Fn: rec.Name, Reason: "generics context resolved twice" }
            }
            sp.Offset = off
            self.trace("GenericsContext: @%d\n", off)
            continue
        }

        /* pinned reference slots */
        if cur, ok := rec.Pinned[obj.Local]; ok {
            if cur != InvalidOffset {
                return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("pinned slot %d resolved twice", obj.Local) }
            }
            rec.Pinned[obj.Local] = off
            self.trace("Pinned Pointer: @%d\n", off)
            continue
        }

        /* aggregates with embedded references */
        if agg, ok := rec.Aggregates[obj.Local]; ok {
            if agg.Offset != InvalidOffset {
                return InvariantError { Fn: rec.Name, Reason: fmt.Sprintf("aggregate slot %d resolved twice", obj.Local) }
            }
            agg.Offset = off
            self.trace("GC Aggregate: @%d\n", off)
        }
    }
    return nil
}
