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

func TestTypeVectorAtom(t *testing.T) {
	cases := []struct {
		t      Type
		vector Type
		atom   Type
	}{
		{LongType, LongType, -LongType},
		{-LongType, LongType, -LongType},
		{SymbolType, SymbolType, -SymbolType},
		{GeneralList, GeneralList, GeneralList},
	}
	for _, c := range cases {
		if got := c.t.Vector(); got != c.vector {
			t.Errorf("%v.Vector() = %v, want %v", c.t, got, c.vector)
		}
		if got := c.t.Atom(); got != c.atom {
			t.Errorf("%v.Atom() = %v, want %v", c.t, got, c.atom)
		}
	}
}

func TestTypeIsAtomIsVector(t *testing.T) {
	if !(-LongType).IsAtom() {
		t.Error("-LongType should be an atom")
	}
	if LongType.IsAtom() {
		t.Error("LongType should not be an atom")
	}
	if !LongType.IsVector() {
		t.Error("LongType should be a vector")
	}
	if TableType.IsVector() {
		t.Error("TableType should not be a vector")
	}
}

func TestElementWidth(t *testing.T) {
	cases := []struct {
		t     Type
		width int
		ok    bool
	}{
		{BoolType, 1, true},
		{GUIDType, 16, true},
		{LongType, 8, true},
		{SymbolType, -1, true},
		{TableType, 0, false},
	}
	for _, c := range cases {
		w, ok := ElementWidth(c.t)
		if ok != c.ok || w != c.width {
			t.Errorf("ElementWidth(%v) = (%d, %v), want (%d, %v)", c.t, w, ok, c.width, c.ok)
		}
	}
}

func TestTypeIsTemporalIsDuration(t *testing.T) {
	for _, tt := range []Type{TimestampType, MonthType, DateType, DatetimeType, TimespanType, MinuteType, SecondType, TimeType} {
		if !tt.IsTemporal() {
			t.Errorf("%v should be temporal", tt)
		}
	}
	if LongType.IsTemporal() {
		t.Error("LongType should not be temporal")
	}
	for _, tt := range []Type{TimespanType, MinuteType, SecondType, TimeType} {
		if !tt.IsDuration() {
			t.Errorf("%v should be duration-valued", tt)
		}
	}
	for _, tt := range []Type{TimestampType, MonthType, DateType, DatetimeType} {
		if tt.IsDuration() {
			t.Errorf("%v should not be duration-valued", tt)
		}
	}
}
