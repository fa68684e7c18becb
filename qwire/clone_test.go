// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package qwire

import "testing"

func TestCloneDetachesBackingArray(t *testing.T) {
	var f frameBuilder
	f.i8(int8(IntType))
	f.u8(byte(AttrNone))
	f.i32(2)
	f.i32(1)
	f.i32(2)
	msg := mustRead(t, f.frame(Sync), ReadOptions{})

	clone := msg.Data.Clone()
	orig := msg.Data.Ints()
	cloned := clone.Ints()
	orig[0] = 99
	if cloned[0] == 99 {
		t.Fatal("clone shares backing array with original")
	}
}

func TestCloneList(t *testing.T) {
	var f frameBuilder
	f.i8(int8(GeneralList))
	f.u8(byte(AttrNone))
	f.i32(1)
	f.i8(int8(SymbolType))
	f.u8(byte(AttrNone))
	f.i32(1)
	f.cstring("a")
	msg := mustRead(t, f.frame(Sync), ReadOptions{})

	clone := msg.Data.Clone()
	origSyms := msg.Data.List()[0].Symbols()
	clonedSyms := clone.List()[0].Symbols()
	origSyms[0] = "z"
	if clonedSyms[0] == "z" {
		t.Fatal("clone shares symbol slice with original")
	}
}
