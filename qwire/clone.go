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

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Clone returns a deep copy of v whose slice-backed payloads (typed
// vector elements, symbols, nested lists/dicts/tables) share no backing
// array with v. A Reader reuses its StreamSource's scratch buffer on
// every call to Read, and a SliceSource's buffer is owned by the caller;
// either way, a Value read from one of them is only guaranteed valid
// until the next Read. Callers that need to retain a decoded Value past
// that point should Clone it first.
func (v Value) Clone() Value {
	out := v
	switch x := v.v.(type) {
	case []bool:
		out.v = slices.Clone(x)
	case []uuid.UUID:
		out.v = slices.Clone(x)
	case []byte:
		out.v = slices.Clone(x)
	case []int16:
		out.v = slices.Clone(x)
	case []int32:
		out.v = slices.Clone(x)
	case []int64:
		out.v = slices.Clone(x)
	case []float32:
		out.v = slices.Clone(x)
	case []float64:
		out.v = slices.Clone(x)
	case []string:
		out.v = slices.Clone(x)
	case []Temporal:
		out.v = slices.Clone(x)
	case List:
		cloned := make(List, len(x))
		for i, item := range x {
			cloned[i] = item.Clone()
		}
		out.v = cloned
	case []Value:
		cloned := make([]Value, len(x))
		for i, item := range x {
			cloned[i] = item.Clone()
		}
		out.v = cloned
	case *Dict:
		out.v = &Dict{Keys: x.Keys.Clone(), Values: x.Values.Clone()}
	case *Table:
		out.v = x.clone()
	case *KeyedTable:
		out.v = &KeyedTable{Keys: *x.Keys.clone(), Values: *x.Values.clone()}
	}
	return out
}

func (t *Table) clone() *Table {
	data := make([]Value, len(t.Data))
	for i, col := range t.Data {
		data[i] = col.Clone()
	}
	return &Table{Columns: slices.Clone(t.Columns), Data: data}
}
