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

func TestWalker_ResolveOffsets(t *testing.T) {
    ctx := testContext()
    rec := ctx.NewFunc("resolve")
    rec.RecordGsCookie(1)
    rec.RecordSecurityObject(2)
    rec.RecordGenericsContext(3)
    rec.RecordPinnedSlot(4)
    rec.RecordGcAggregate(5, ir.StructOf(ir.ManagedPtr(ir.Int8T)))

    err := ctx.WalkFrame(rec, &FrameLayout {
        StackSize : 40,
        Objects   : []FrameObject {
            { Local: 1, Offset: 0 },
            { Local: 2, Offset: 8 },
            { Local: 3, Offset: 16 },
            { Local: 4, Offset: 24 },
            { Local: 5, Offset: 32 },
            { Local: 9, Offset: 48 },  /* not annotated, ignored */
        },
    })
    require.NoError(t, err)

    /* callee offset = caller offset + stack size + pointer width */
    require.Equal(t, int32(48), rec.GsCookie.Offset)
    require.Equal(t, int32(56), rec.SecurityObject.Offset)
    require.Equal(t, int32(64), rec.GenericsContext.Offset)
    require.Equal(t, int32(72), rec.Pinned[4])
    require.Equal(t, int32(80), rec.Aggregates[5].Offset)
}

func TestWalker_ZeroStackSize(t *testing.T) {
    ctx := testContext()
    rec := ctx.NewFunc("leaf")
    rec.RecordPinnedSlot(0)

    err := ctx.WalkFrame(rec, &FrameLayout {
        Objects: []FrameObject {{ Local: 0, Offset: 0 }},
    })
    require.NoError(t, err)
    require.Equal(t, int32(8), rec.Pinned[0])
}

func TestWalker_Pointer32(t *testing.T) {
    o := testContext().Opts
    ctx := NewContext(o, ir.DataLayout { PtrSize: 4 })

    rec := ctx.NewFunc("narrow")
    rec.RecordPinnedSlot(0)

    err := ctx.WalkFrame(rec, &FrameLayout {
        StackSize : 12,
        Objects   : []FrameObject {{ Local: 0, Offset: 4 }},
    })
    require.NoError(t, err)
    require.Equal(t, int32(20), rec.Pinned[0])
}

func TestWalker_DoubleResolution(t *testing.T) {
    tests := []struct {
        name   string
        record func(rec *FuncRecord)
    }{{
        name   : "cookie",
        record : func(rec *FuncRecord) { rec.RecordGsCookie(1) },
    }, {
        name   : "security object",
        record : func(rec *FuncRecord) { rec.RecordSecurityObject(1) },
    }, {
        name   : "generics context",
        record : func(rec *FuncRecord) { rec.RecordGenericsContext(1) },
    }, {
        name   : "pinned",
        record : func(rec *FuncRecord) { rec.RecordPinnedSlot(1) },
    }, {
        name   : "aggregate",
        record : func(rec *FuncRecord) { rec.RecordGcAggregate(1, ir.StructOf(ir.ManagedPtr(ir.Int8T))) },
    }}

    for _, tv := range tests {
        t.Run(tv.name, func(t *testing.T) {
            ctx := testContext()
            rec := ctx.NewFunc("twice-" + tv.name)
            tv.record(rec)

            err := ctx.WalkFrame(rec, &FrameLayout {
                StackSize : 16,
                Objects   : []FrameObject {{ Local: 1, Offset: 0 }, { Local: 1, Offset: 8 }},
            })
            require.Error(t, err)
            require.IsType(t, InvariantError{}, err)
            require.Contains(t, err.Error(), "resolved twice")
        })
    }
}
