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

package abi

import (
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/swaroop-sridhar/llilc/internal/ir`
)

var testDL = ir.DataLayout { PtrSize: 8 }

func TestCallConv_Normalize(t *testing.T) {
    require.Equal(t, Default, Default.Normalize())
    require.Equal(t, C, C.Normalize())
    require.Equal(t, C, StdCall.Normalize())
    require.Equal(t, C, ThisCall.Normalize())
    require.Equal(t, C, FastCall.Normalize())

    require.True(t, Default.IsManaged())
    require.False(t, C.IsManaged())
    require.False(t, StdCall.IsManaged())
}

func TestAMD64_ClassifyScalars(t *testing.T) {
    var p AMD64

    /* narrow integers widen by signedness */
    require.Equal(t, KindSignExtend, p.ClassifyArgument(MkABI(ir.Int8T, true), testDL).Kind)
    require.Equal(t, KindZeroExtend, p.ClassifyArgument(MkABI(ir.Int8T, false), testDL).Kind)
    require.Equal(t, KindSignExtend, p.ClassifyArgument(MkABI(ir.Int16T, true), testDL).Kind)

    /* word-sized and wider pass directly */
    require.Equal(t, KindDirect, p.ClassifyArgument(MkABI(ir.Int32T, true), testDL).Kind)
    require.Equal(t, KindDirect, p.ClassifyArgument(MkABI(ir.Int64T, false), testDL).Kind)
    require.Equal(t, KindDirect, p.ClassifyArgument(MkABI(ir.Float64T, true), testDL).Kind)
    require.Equal(t, KindDirect, p.ClassifyArgument(MkABI(ir.ManagedPtr(ir.Int8T), false), testDL).Kind)
}

func TestAMD64_ClassifyAggregates(t *testing.T) {
    var p AMD64
    mp := ir.ManagedPtr(ir.Int8T)

    /* small non-GC aggregates coerce to a same-sized integer */
    a := p.ClassifyArgument(MkABI(ir.StructOf(ir.Int32T, ir.Int32T), false), testDL)
    require.Equal(t, KindDirect, a.Kind)
    require.True(t, ir.Int64T.Equals(a.Type))

    a = p.ClassifyArgument(MkABI(ir.StructOf(ir.Int8T), false), testDL)
    require.Equal(t, KindDirect, a.Kind)
    require.True(t, ir.Int8T.Equals(a.Type))

    /* non-power-of-two sizes pass by address */
    big := ir.StructOf(ir.Int64T, ir.Int64T, ir.Int64T)
    a = p.ClassifyArgument(MkABI(big, false), testDL)
    require.Equal(t, KindIndirect, a.Kind)
    require.Same(t, big, a.Type)

    /* a word-sized GC aggregate still keeps its identity */
    gc := ir.StructOf(mp)
    a = p.ClassifyArgument(MkABI(gc, false), testDL)
    require.Equal(t, KindIndirect, a.Kind)
    require.Same(t, gc, a.Type)
}

func TestAMD64_ClassifyResult(t *testing.T) {
    var p AMD64

    r := p.ClassifyResult(MkABI(ir.VoidT, false), testDL)
    require.Equal(t, KindDirect, r.Kind)
    require.True(t, r.Type.IsVoid())

    r = p.ClassifyResult(MkABI(ir.StructOf(ir.ManagedPtr(ir.Int8T), ir.Int64T, ir.Int64T), false), testDL)
    require.Equal(t, KindIndirect, r.Kind)
}

func TestArgInfo_Attr(t *testing.T) {
    z := mkArg(KindZeroExtend, ir.Int8T)
    s := mkArg(KindSignExtend, ir.Int16T)
    d := mkArg(KindDirect, ir.Int64T)

    require.Equal(t, ir.AttrZExt, z.Attr())
    require.Equal(t, ir.AttrSExt, s.Attr())
    require.Equal(t, ir.AttrNone, d.Attr())
    require.Equal(t, int32(-1), z.Index)
}

func TestResolveSignature_Managed(t *testing.T) {
    sig := &CallSig {
        Conv    : Default,
        HasThis : true,
        Ret     : MkABI(ir.Int64T, true),
        Args    : []ABIType {
            MkABI(ir.ManagedPtr(ir.Int8T), false),
            MkABI(ir.Int8T, true),
        },
    }

    rs := ResolveSignature(sig, AMD64{}, testDL)
    require.True(t, rs.Managed)
    require.True(t, rs.HasThis)
    require.False(t, rs.HasIndirectResult())
    require.True(t, ir.Int64T.Equals(rs.FuncRet))
    require.True(t, ir.Int64T.Equals(rs.LogicalRet))
    require.Len(t, rs.Args, 2)
    require.Equal(t, KindDirect, rs.Args[0].Kind)
    require.Equal(t, KindSignExtend, rs.Args[1].Kind)
}

func TestResolveSignature_IndirectResult(t *testing.T) {
    big := ir.StructOf(ir.ManagedPtr(ir.Int8T), ir.Int64T, ir.Int64T)
    sig := &CallSig {
        Conv : Default,
        Ret  : MkABI(big, false),
    }

    rs := ResolveSignature(sig, AMD64{}, testDL)
    require.True(t, rs.HasIndirectResult())

    /* machine return is the result buffer pointer, reported as a root */
    require.True(t, rs.FuncRet.IsPointer())
    require.Equal(t, uint32(ir.ManagedAddressSpace), rs.FuncRet.Space)
    require.True(t, big.Equals(rs.FuncRet.Elem))
    require.Same(t, big, rs.LogicalRet)
}

func TestResolveSignature_Unmanaged(t *testing.T) {
    sig := &CallSig {
        Conv : StdCall,
        Ret  : MkABI(ir.Int32T, true),
        Args : []ABIType { MkABI(ir.UnmanagedPtr(ir.Int8T), false) },
    }

    rs := ResolveSignature(sig, AMD64{}, testDL)
    require.Equal(t, C, rs.Conv)
    require.False(t, rs.Managed)
    require.Equal(t, ir.ConvC, rs.Conv.Conv())
}
