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

type Options struct {
	// CallSiteSize is the assumed byte length of a call instruction.
	// The raw safepoint stream reports the offset just past the call,
	// the engine wants the offset of its first byte; this value is the
	// difference. It depends on the call encoding the emitter actually
	// produces, hence a policy value rather than a constant.
	CallSiteSize uint8

	// TraceGC dumps slot allocations and per-safepoint liveness deltas.
	// Purely observational, never affects the encoding.
	TraceGC bool

	// ScratchAreaSize is the size of the outgoing-argument scratch area
	// reported to the encoder. Negative means "do not report".
	ScratchAreaSize int32

	// PartialInterrupt records call-site offsets and sizes with the
	// encoder for partially-interruptible code support.
	PartialInterrupt bool
}

func GetDefaultOptions() Options {
	return Options{
		CallSiteSize:    uint8(CallSiteSize),
		TraceGC:         TraceGC,
		ScratchAreaSize: -1,
	}
}
