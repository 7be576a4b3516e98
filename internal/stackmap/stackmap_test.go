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

package stackmap

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func TestStackMap_RoundTrip(t *testing.T) {
    var b Builder
    b.AddFunc(0x401000, 88)
    b.AddConst(0xdeadbeef)
    b.AddRecord(0, 17, []Location {
        DirectLoc(24),
        DirectLoc(32),
        { Kind: Constant, Offset: 42 },
    })
    b.AddRecord(1, 45, []Location {
        DirectLoc(32),
    })

    buf := b.Build()
    require.Equal(t, 0, len(buf) % 8)

    tab, err := Parse(buf)
    require.NoError(t, err)
    require.Equal(t, []FuncDesc {{ Addr: 0x401000, StackSize: 88 }}, tab.Funcs)
    require.Equal(t, []uint64 { 0xdeadbeef }, tab.Consts)
    require.Len(t, tab.Records, 2)
    require.Equal(t, uint32(17), tab.Records[0].Offset)
    require.Equal(t, DirectLoc(24), tab.Records[0].Locations[0])
    require.Equal(t, Constant, tab.Records[0].Locations[2].Kind)
    require.Equal(t, uint32(45), tab.Records[1].Offset)
}

func TestStackMap_EmptySections(t *testing.T) {
    var b Builder
    b.AddFunc(0, 0)

    tab, err := Parse(b.Build())
    require.NoError(t, err)
    require.Len(t, tab.Funcs, 1)
    require.Empty(t, tab.Consts)
    require.Empty(t, tab.Records)
}

func TestStackMap_Malformed(t *testing.T) {
    var b Builder
    good := b.AddFunc(0, 16).AddRecord(0, 10, []Location { DirectLoc(8) }).Build()

    tests := []struct {
        name string
        data []byte
    }{{
        name: "empty",
        data: []byte{},
    }, {
        name: "bad version",
        data: append([]byte { 2 }, good[1:]...),
    }, {
        name: "truncated header",
        data: good[:7],
    }, {
        name: "truncated record",
        data: good[:len(good) - 8],
    }, {
        name: "trailing data",
        data: append(append([]byte(nil), good...), 0, 0, 0, 0, 0, 0, 0, 0),
    }}

    for _, tv := range tests {
        t.Run(tv.name, func(t *testing.T) {
            _, err := Parse(tv.data)
            require.Error(t, err)
            require.IsType(t, FormatError{}, err)
        })
    }
}

func TestStackMap_InvalidLocationKind(t *testing.T) {
    var b Builder
    buf := b.AddFunc(0, 16).AddRecord(0, 10, []Location {{ Kind: LocationKind(9) }}).Build()

    _, err := Parse(buf)
    require.Error(t, err)
    require.Contains(t, err.Error(), "invalid location kind")
}
