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

package opts

import (
	"os"
	"strconv"
)

const (
	// The call instruction this backend typically emits on x86-64 is an
	// indirect "call [reg]" with a two-byte encoding. Any size > 0 keeps
	// the engine's end-of-call arithmetic correct outside of
	// fully-interruptible regions.
	_DefaultCallSiteSize = 2
)

var (
	CallSiteSize = parseOrDefault("LLILC_CALL_SITE_SIZE", _DefaultCallSiteSize, 0)
	TraceGC      = os.Getenv("LLILC_TRACE_GCINFO") != ""
)

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("llilc: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("llilc: value too small for " + key)
	} else {
		return ret
	}
}
