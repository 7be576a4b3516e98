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

// Package debug exposes compile statistics and diagnostic helpers for
// inspecting the emitted code and tables.
package debug

import (
	"sync/atomic"

	"github.com/klauspost/cpuid/v2"
	"github.com/swaroop-sridhar/llilc/internal/gcinfo"
)

// A Stats records statistics about the GC table encoder.
type Stats struct {
	Tables TableStats
	CPU    CPUStats
}

// A TableStats records cumulative GC table encoding counters.
type TableStats struct {
	Count int
	Slots int
}

// A CPUStats records the host CPU features relevant to the emitted
// call sequences.
type CPUStats struct {
	Name   string
	AVX    bool
	AVX2   bool
	BMI2   bool
	POPCNT bool
}

// GetStats returns statistics of the table encoder and the host CPU.
func GetStats() Stats {
	return Stats{
		Tables: TableStats{
			Count: int(atomic.LoadInt64(&gcinfo.TableCount)),
			Slots: int(atomic.LoadInt64(&gcinfo.SlotCount)),
		},
		CPU: CPUStats{
			Name:   cpuid.CPU.BrandName,
			AVX:    cpuid.CPU.Has(cpuid.AVX),
			AVX2:   cpuid.CPU.Has(cpuid.AVX2),
			BMI2:   cpuid.CPU.Has(cpuid.BMI2),
			POPCNT: cpuid.CPU.Has(cpuid.POPCNT),
		},
	}
}
