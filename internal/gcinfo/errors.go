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

// InvariantError reports a violated pipeline invariant: a slot resolved
// twice or never, dis-contiguous slot identifiers, an aggregate slot that
// is not an aggregate. These indicate a bug in an upstream phase, and the
// function's compilation is aborted rather than risking a wrong table.
type InvariantError struct {
    Fn     string
    Reason string
}

func (self InvariantError) Error() string {
    return fmt.Sprintf("InvariantError(%s): %s", self.Fn, self.Reason)
}

// UnsupportedError reports an input this backend does not handle: a
// multi-function safepoint stream, or a reference live in a register.
// There is no recovery; a silently wrong GC table is worse than a failed
// compilation.
type UnsupportedError struct {
    Fn      string
    Feature string
}

func (self UnsupportedError) Error() string {
    return fmt.Sprintf("UnsupportedError(%s): %s", self.Fn, self.Feature)
}
