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

package llilc

import (
    `github.com/swaroop-sridhar/llilc/internal/gcinfo`
    `github.com/swaroop-sridhar/llilc/internal/stackmap`
)

// InvariantError occures when a function's GC information contradicts
// itself, such as a pinned local that never received a frame location.
// The function's table is abandoned, never partially emitted.
type InvariantError = gcinfo.InvariantError

// UnsupportedError occures when a function needs a feature this encoder
// does not handle, such as a GC reference live in a register at a
// safepoint.
type UnsupportedError = gcinfo.UnsupportedError

// StreamError occures when the raw safepoint stream is malformed.
type StreamError = stackmap.FormatError
