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
	"fmt"

	"github.com/swaroop-sridhar/llilc/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithCallSiteSize sets the assumed byte length of a call instruction.
//
// The raw safepoint stream reports the instruction offset just past each
// call; the runtime wants the offset of the call's first byte. This value
// is the difference, and it must match the call encoding the code
// generator actually emits.
//
// The default value of this option is "2", the length of an indirect
// register call on x86-64. It can also be configured with the
// `LLILC_CALL_SITE_SIZE` environment variable.
func WithCallSiteSize(size int) Option {
	if size <= 0 || size > 15 {
		panic(fmt.Sprintf("llilc: invalid call site size: %d", size))
	} else {
		return func(o *opts.Options) { o.CallSiteSize = uint8(size) }
	}
}

// WithTraceGC enables tracing of slot allocation and per-safepoint
// liveness transitions to standard error.
//
// This can also be enabled with the `LLILC_TRACE_GCINFO` environment
// variable. Tracing never affects the emitted table.
func WithTraceGC(v bool) Option {
	return func(o *opts.Options) { o.TraceGC = v }
}

// WithScratchAreaSize sets the size of the outgoing-argument scratch
// area reported to the runtime's table encoder.
//
// A negative size, the default, means the scratch area is not reported.
func WithScratchAreaSize(size int32) Option {
	return func(o *opts.Options) { o.ScratchAreaSize = size }
}

// WithPartialInterruption records the offset and size of every call site
// with the runtime's table encoder, for runtimes that only suspend
// threads at call boundaries.
func WithPartialInterruption(v bool) Option {
	return func(o *opts.Options) { o.PartialInterrupt = v }
}
