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

// Package qwire decodes the q/kdb+ IPC wire format: framing, a bespoke
// LZ-style decompression scheme, and recursive reconstruction of q's value
// tree (atoms, typed vectors, general lists, dictionaries, tables, keyed
// tables, lambdas, projections and function references).
//
// The package only consumes bytes; transport, the writer half of the
// protocol, and any synchronous/asynchronous RPC layer built on top of it
// are out of scope.
package qwire

import "fmt"

// Type is a q IPC type code: a signed byte identifying the shape of the
// next value on the wire. Positive codes in [1,19] are homogeneous vector
// types; their negation is the corresponding atom. Code 0 is a general
// (heterogeneous) list. Codes at or above 98 name distinguished container
// and function kinds that have no atom/vector counterpart.
type Type int8

const (
	GeneralList  Type = 0
	BoolType     Type = 1
	GUIDType     Type = 2
	ByteType     Type = 4
	ShortType    Type = 5
	IntType      Type = 6
	LongType     Type = 7
	RealType     Type = 8
	FloatType    Type = 9
	CharType     Type = 10
	SymbolType   Type = 11
	TimestampType Type = 12
	MonthType    Type = 13
	DateType     Type = 14
	DatetimeType Type = 15
	TimespanType Type = 16
	MinuteType   Type = 17
	SecondType   Type = 18
	TimeType     Type = 19

	TableType      Type = 98
	DictType       Type = 99
	LambdaType     Type = 100
	UnaryPrimType  Type = 101
	OperatorType   Type = 102
	TernaryType    Type = 103
	ProjectionType Type = 104
	CompositionType Type = 105
	EachType       Type = 106
	OverType       Type = 107
	ScanType       Type = 108
	PriorType      Type = 109
	EachRightType  Type = 110
	EachLeftType   Type = 111
	DynLoadType    Type = 112

	ExceptionType Type = -128
)

// Vector returns t's homogeneous vector code: for an atom code (t<0) this
// is -t, for a vector code (t in [1,19]) this is t itself.
func (t Type) Vector() Type {
	if t < 0 {
		return -t
	}
	return t
}

// Atom returns t's atom code: the negation of the vector code.
func (t Type) Atom() Type {
	v := t.Vector()
	if v == 0 {
		return 0
	}
	return -v
}

// IsAtom reports whether t identifies an atom (a negative vector code).
func (t Type) IsAtom() bool { return t < 0 }

// IsVector reports whether t identifies a homogeneous vector (1..19).
func (t Type) IsVector() bool { return t >= 1 && t <= 19 }

// IsTemporal reports whether t's vector form names a date/time value.
func (t Type) IsTemporal() bool {
	switch t.Vector() {
	case TimestampType, MonthType, DateType, DatetimeType,
		TimespanType, MinuteType, SecondType, TimeType:
		return true
	default:
		return false
	}
}

// IsDuration reports whether t's temporal vector form is duration-valued
// (as opposed to calendar-valued).
func (t Type) IsDuration() bool {
	switch t.Vector() {
	case TimespanType, MinuteType, SecondType, TimeType:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	if name, ok := typeNames[t.Vector()]; ok {
		if t.IsAtom() {
			return name + " atom"
		}
		if t.IsVector() {
			return name + " vector"
		}
		return name
	}
	return fmt.Sprintf("type(%d)", int8(t))
}

var typeNames = map[Type]string{
	GeneralList:     "general list",
	BoolType:        "boolean",
	GUIDType:        "guid",
	ByteType:        "byte",
	ShortType:       "short",
	IntType:         "int",
	LongType:        "long",
	RealType:        "real",
	FloatType:       "float",
	CharType:        "char",
	SymbolType:      "symbol",
	TimestampType:   "timestamp",
	MonthType:       "month",
	DateType:        "date",
	DatetimeType:    "datetime",
	TimespanType:    "timespan",
	MinuteType:      "minute",
	SecondType:      "second",
	TimeType:        "time",
	TableType:       "table",
	DictType:        "dictionary",
	LambdaType:      "lambda",
	UnaryPrimType:   "unary primitive",
	OperatorType:    "operator",
	TernaryType:     "ternary/internal",
	ProjectionType:  "projection",
	CompositionType: "composition",
	EachType:        "each",
	OverType:        "over",
	ScanType:        "scan",
	PriorType:       "prior",
	EachRightType:   "each-right",
	EachLeftType:    "each-left",
	DynLoadType:     "dynamic load",
	ExceptionType:   "exception",
}

// typeInfo describes the encoding of a vector element type: its width in
// bytes.
type typeInfo struct {
	width int // element width in bytes; -1 for variable-width (symbol)
}

var registry = map[Type]typeInfo{
	BoolType:      {width: 1},
	GUIDType:      {width: 16},
	ByteType:      {width: 1},
	ShortType:     {width: 2},
	IntType:       {width: 4},
	LongType:      {width: 8},
	RealType:      {width: 4},
	FloatType:     {width: 8},
	CharType:      {width: 1},
	SymbolType:    {width: -1},
	TimestampType: {width: 8},
	MonthType:     {width: 4},
	DateType:      {width: 4},
	DatetimeType:  {width: 8},
	TimespanType:  {width: 8},
	MinuteType:    {width: 4},
	SecondType:    {width: 4},
	TimeType:      {width: 4},
}

// ElementWidth returns the number of bytes occupied by a single element of
// the given vector type, or (-1, true) for variable-width elements
// (symbols), or (0, false) if t does not name a vector element type.
func ElementWidth(t Type) (int, bool) {
	info, ok := registry[t.Vector()]
	if !ok {
		return 0, false
	}
	return info.width, true
}
