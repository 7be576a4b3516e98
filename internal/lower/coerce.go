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

package lower

import (
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

// Coerce produces a value of type vt from v. Matching types pass
// through untouched; otherwise the value's address is reinterpreted as
// pointing at vt, and the result is either that address (aggregate
// targets) or a load through it (scalar targets).
func (self *Frame) Coerce(vt *ir.Type, v *ir.Value) *ir.Value {
    var ptr *ir.Value

    if vt.IsVoid() {
        panic("lower: coercion to void")
    }

    /* identity fast paths, by variant */
    if v.Kind == ir.V_aggaddr {
        if vt.Equals(v.Aggregate()) {
            return v
        }
        ptr = v
    } else {
        if vt.Equals(v.Type) {
            return v
        }
        ptr = self.B.AddrOf(v)
    }

    /* reinterpret and read back */
    cast := self.B.Cast(ptr, vt)
    if vt.IsAggregate() {
        return cast
    }
    return self.B.Load(vt, cast)
}
