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
	"fmt"

	"github.com/google/uuid"
)

// Attribute is the one-byte flag preceding a general list or typed vector's
// element count. For typed vectors the decoder stores it verbatim without
// validating the sorted/unique/parted/grouped claim it makes about the
// payload; a general list's attribute byte is read and discarded.
type Attribute byte

const (
	AttrNone    Attribute = 0
	AttrSorted  Attribute = 1
	AttrUnique  Attribute = 2
	AttrParted  Attribute = 3
	AttrGrouped Attribute = 4
)

// Value is a single node of a decoded q value tree: an atom, a typed
// vector, or one of the distinguished container/function kinds. Value
// holds its q type code plus an opaque payload whose concrete Go
// representation depends on T, mirroring how the reference decoder keeps
// one lazily-interpreted cell per node rather than a deep interface
// hierarchy. Use the typed accessors (Bool, Long, Symbols, List, ...) to
// recover the payload; each accessor panics if the payload's Go type is not
// the one it returns. In raw temporal mode, temporal atoms and vectors hold
// plain int32, int64 or float64 payloads and are read with the matching
// numeric accessors.
type Value struct {
	T    Type
	Attr Attribute
	v    interface{}
}

// Null is the generic null / identity placeholder `::` (unary primitive,
// opcode 0). It is also used as the neutral sentinel for unbound
// projection slots; per spec the two are the same value.
var Null = Value{T: UnaryPrimType}

// IsNull reports whether v is the generic null placeholder.
func (v Value) IsNull() bool {
	return v.T == UnaryPrimType && v.v == nil
}

func atom(t Type, payload interface{}) Value {
	return Value{T: t.Atom(), v: payload}
}

func vector(t Type, attr Attribute, payload interface{}) Value {
	return Value{T: t.Vector(), Attr: attr, v: payload}
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.T, v.v)
}

// Raw returns the underlying Go representation of v without any type
// assertion, for callers that want to type-switch on it themselves.
func (v Value) Raw() interface{} { return v.v }

// Bool returns v's payload as a bool; v.T must be the boolean atom type.
func (v Value) Bool() bool { return v.v.(bool) }

// Bools returns v's payload as a []bool; v.T must be the boolean vector type.
func (v Value) Bools() []bool { return v.v.([]bool) }

// GUID returns v's payload as a uuid.UUID; v.T must be the guid atom type.
func (v Value) GUID() uuid.UUID { return v.v.(uuid.UUID) }

// GUIDs returns v's payload as a []uuid.UUID; v.T must be the guid vector type.
func (v Value) GUIDs() []uuid.UUID { return v.v.([]uuid.UUID) }

// Byte returns v's payload as a byte; v.T must be the byte atom type.
func (v Value) Byte() byte { return v.v.(byte) }

// Bytes returns v's payload as a []byte; v.T must be the byte vector type.
func (v Value) Bytes() []byte { return v.v.([]byte) }

// Short returns v's payload as an int16; v.T must be the short atom type.
func (v Value) Short() int16 { return v.v.(int16) }

// Shorts returns v's payload as a []int16; v.T must be the short vector type.
func (v Value) Shorts() []int16 { return v.v.([]int16) }

// Int returns v's payload as an int32; v.T must be the int atom type or,
// in raw temporal mode, a month, date, minute, second or time atom.
func (v Value) Int() int32 { return v.v.(int32) }

// Ints returns v's payload as a []int32; v.T must be the int vector type
// or, in raw temporal mode, a month, date, minute, second or time vector.
func (v Value) Ints() []int32 { return v.v.([]int32) }

// Long returns v's payload as an int64; v.T must be the long atom type or,
// in raw temporal mode, a timestamp or timespan atom.
func (v Value) Long() int64 { return v.v.(int64) }

// Longs returns v's payload as a []int64; v.T must be the long vector type
// or, in raw temporal mode, a timestamp or timespan vector.
func (v Value) Longs() []int64 { return v.v.([]int64) }

// Real returns v's payload as a float32; v.T must be the real atom type.
func (v Value) Real() float32 { return v.v.(float32) }

// Reals returns v's payload as a []float32; v.T must be the real vector type.
func (v Value) Reals() []float32 { return v.v.([]float32) }

// Float returns v's payload as a float64; v.T must be the double atom type
// or, in raw temporal mode, a datetime atom.
func (v Value) Float() float64 { return v.v.(float64) }

// Floats returns v's payload as a []float64; v.T must be the double vector
// type or, in raw temporal mode, a datetime vector.
func (v Value) Floats() []float64 { return v.v.([]float64) }

// Char returns v's payload as a byte (q chars are single bytes, not runes).
func (v Value) Char() byte { return v.v.(byte) }

// Chars returns v's payload as a []byte; v.T must be the char vector type.
func (v Value) Chars() []byte { return v.v.([]byte) }

// Symbol returns v's payload as a string; v.T must be the symbol atom type.
func (v Value) Symbol() string { return v.v.(string) }

// Symbols returns v's payload as a []string; v.T must be the symbol vector type.
func (v Value) Symbols() []string { return v.v.([]string) }

// Temporal returns v's payload as a Temporal; v.T must be a temporal atom type.
func (v Value) Temporal() Temporal { return v.v.(Temporal) }

// Temporals returns v's payload as a []Temporal; v.T must be a temporal
// vector type.
func (v Value) Temporals() []Temporal { return v.v.([]Temporal) }

// List returns v's payload as a List; v.T must be GeneralList.
func (v Value) List() List { return v.v.(List) }

// Dict returns v's payload as a *Dict; v.T must be DictType.
func (v Value) Dict() *Dict { return v.v.(*Dict) }

// Table returns v's payload as a *Table; v.T must be TableType.
func (v Value) Table() *Table { return v.v.(*Table) }

// KeyedTable returns v's payload as a *KeyedTable; v.T must be DictType
// with both sides tables.
func (v Value) KeyedTable() *KeyedTable { return v.v.(*KeyedTable) }

// Lambda returns v's payload as a *Lambda; v.T must be LambdaType.
func (v Value) Lambda() *Lambda { return v.v.(*Lambda) }

// FunctionRef returns v's payload as a FunctionRef; v.T must be
// UnaryPrimType, OperatorType, or TernaryType with a nonzero opcode.
func (v Value) FunctionRef() FunctionRef { return v.v.(FunctionRef) }

// Items returns v's payload as a []Value; v.T must be ProjectionType,
// CompositionType, or one of the adverb codes.
func (v Value) Items() []Value { return v.v.([]Value) }

// List is an ordered, possibly heterogeneous sequence of values (type code 0).
type List []Value

// Dict is a q dictionary: two conformant containers, keys and values.
type Dict struct {
	Keys   Value
	Values Value
}

// Table is a symbol vector of column names paired with same-length column
// values; the on-wire representation of a table is a flipped dictionary.
type Table struct {
	Columns []string
	Data    []Value
}

// Column returns the data for the named column, or the zero Value and
// false if no such column exists.
func (t *Table) Column(name string) (Value, bool) {
	for i, c := range t.Columns {
		if c == name {
			return t.Data[i], true
		}
	}
	return Value{}, false
}

// RowCount returns the table's row count, i.e. the length of its columns.
func (t *Table) RowCount() int {
	if len(t.Data) == 0 {
		return 0
	}
	return columnLen(t.Data[0])
}

// KeyedTable is a dictionary whose key side and value side are both
// tables, acting like a primary-keyed relation.
type KeyedTable struct {
	Keys   Table
	Values Table
}

// Lambda is q source text together with the namespace symbol it is
// defined in.
type Lambda struct {
	Namespace string
	Body      string
}

// FunctionRef names a built-in unary primitive, operator, or ternary/
// internal function by its one-byte opcode.
type FunctionRef struct {
	Kind   Type
	Opcode byte
}

func columnLen(v Value) int {
	switch x := v.v.(type) {
	case []bool:
		return len(x)
	case []uuid.UUID:
		return len(x)
	case []byte:
		return len(x)
	case []int16:
		return len(x)
	case []int32:
		return len(x)
	case []int64:
		return len(x)
	case []float32:
		return len(x)
	case []float64:
		return len(x)
	case []string:
		return len(x)
	case []Temporal:
		return len(x)
	case List:
		return len(x)
	default:
		return 0
	}
}
