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
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

func TestLayout_GcTypePredicates(t *testing.T) {
    mp := ir.ManagedPtr(ir.Int8T)
    up := ir.UnmanagedPtr(ir.Int8T)

    require.True(t, IsGcPointer(mp))
    require.False(t, IsGcPointer(up))
    require.False(t, IsGcPointer(ir.Int64T))
    require.True(t, IsUnmanagedPointer(up))
    require.False(t, IsUnmanagedPointer(mp))

    require.True(t, IsGcAggregate(ir.ArrayOf(mp, 4)))
    require.True(t, IsGcAggregate(ir.VectorOf(mp, 2)))
    require.False(t, IsGcAggregate(ir.ArrayOf(up, 4)))
    require.True(t, IsGcAggregate(ir.StructOf(ir.Int64T, mp)))
    require.False(t, IsGcAggregate(ir.StructOf(ir.Int64T, up)))

    /* reference buried one level down still counts */
    require.True(t, IsGcAggregate(ir.StructOf(ir.Int64T, ir.StructOf(mp))))
}

func TestLayout_GcPointers(t *testing.T) {
    dl := ir.DataLayout { PtrSize: 8 }
    mp := ir.ManagedPtr(ir.Int8T)

    /* flat: { ptr, i64, ptr } */
    st := ir.StructOf(mp, ir.Int64T, mp)
    require.Equal(t, []uint32 { 0, 16 }, GcPointers(st, dl))

    /* no references at all */
    require.Empty(t, GcPointers(ir.StructOf(ir.Int64T, ir.Float64T), dl))
}

func TestLayout_GcPointersNested(t *testing.T) {
    dl := ir.DataLayout { PtrSize: 8 }
    mp := ir.ManagedPtr(ir.Int8T)

    /* { i8, { i32, ptr }, ptr }: inner at 8, its ptr at 8+8, tail at 24 */
    inner := ir.StructOf(ir.Int32T, mp)
    outer := ir.StructOf(ir.Int8T, inner, mp)
    require.Equal(t, []uint32 { 16, 24 }, GcPointers(outer, dl))

    /* two levels of nesting */
    deep := ir.StructOf(ir.Int64T, ir.StructOf(ir.Int64T, ir.StructOf(mp, ir.Int64T)))
    require.Equal(t, []uint32 { 16 }, GcPointers(deep, dl))
}

func TestLayout_GcPointersUnmanagedSkipped(t *testing.T) {
    dl := ir.DataLayout { PtrSize: 8 }
    mp := ir.ManagedPtr(ir.Int8T)
    up := ir.UnmanagedPtr(ir.Int8T)

    st := ir.StructOf(up, mp, up, mp)
    require.Equal(t, []uint32 { 8, 24 }, GcPointers(st, dl))
}

func TestBitVector_Doubling(t *testing.T) {
    bv := NewBitVector(25)
    require.Equal(t, uint32(25), bv.Cap())

    bv.Set(0)
    bv.Set(13)
    bv.Set(24)
    require.Panics(t, func() { bv.Set(25) })

    /* growth keeps every existing bit */
    bv.Resize(50)
    require.Equal(t, uint32(50), bv.Cap())
    require.True(t, bv.Test(0))
    require.True(t, bv.Test(13))
    require.True(t, bv.Test(24))
    require.False(t, bv.Test(25))
    require.False(t, bv.Test(49))

    bv.Set(49)
    require.True(t, bv.Test(49))
    bv.Clear(13)
    require.False(t, bv.Test(13))

    require.Panics(t, func() { bv.Resize(10) })
}
