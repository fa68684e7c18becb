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
	"math"

	"github.com/google/uuid"
)

// ReadOptions configures a single decode. The zero value selects raw
// temporal mode (the default) and full value decoding.
type ReadOptions struct {
	// Raw, if true, skips value decoding entirely and returns the frame
	// body as bytes (see ReadData).
	Raw bool
	// Universal, if true, converts temporal atoms/vectors to calendar
	// dates/timespans (Temporal) instead of leaving them as raw tagged
	// integers. This is the "numpy_temporals" mode of the reference
	// client.
	Universal bool
}

// valueDecoder walks a single buffered frame body and reconstructs its
// value tree. It holds no state beyond the cursor and the read options, so
// one is created per frame by ReadData.
type valueDecoder struct {
	c    *cursor
	opts ReadOptions
}

func (d *valueDecoder) decodeValue() (Value, error) {
	t, err := d.c.i8()
	if err != nil {
		return Value{}, err
	}
	return d.decodeWithType(Type(t))
}

func (d *valueDecoder) decodeWithType(t Type) (Value, error) {
	switch {
	case t == ExceptionType:
		msg, err := d.c.cstring()
		if err != nil {
			return Value{}, err
		}
		return Value{}, qException(msg)
	case t.IsAtom():
		return d.decodeAtom(t)
	case t == GeneralList:
		return d.decodeList()
	case t.IsVector():
		return d.decodeVector(t)
	case t == TableType:
		return d.decodeTable()
	case t == DictType:
		return d.decodeDict()
	case t == LambdaType:
		return d.decodeLambda()
	case t == UnaryPrimType:
		return d.decodeOpcode(t)
	case t == OperatorType || t == TernaryType:
		return d.decodeOpcode(t)
	case t == ProjectionType || t == CompositionType:
		return d.decodeItems(t)
	case t >= EachType && t <= EachLeftType:
		arg, err := d.decodeValue()
		if err != nil {
			return Value{}, err
		}
		return Value{T: t, v: []Value{arg}}, nil
	case t == DynLoadType:
		return Value{T: t}, nil
	default:
		return Value{}, badType(t)
	}
}

func (d *valueDecoder) decodeOpcode(t Type) (Value, error) {
	op, err := d.c.u8()
	if err != nil {
		return Value{}, err
	}
	if t == UnaryPrimType && op == 0 {
		return Null, nil
	}
	return Value{T: t, v: FunctionRef{Kind: t, Opcode: op}}, nil
}

func (d *valueDecoder) decodeItems(t Type) (Value, error) {
	n, err := d.c.i32()
	if err != nil {
		return Value{}, err
	}
	items, err := d.decodeN(int(n))
	if err != nil {
		return Value{}, err
	}
	return Value{T: t, v: items}, nil
}

func (d *valueDecoder) decodeN(n int) ([]Value, error) {
	if n < 0 {
		return nil, toosmall("negative count %d", n)
	}
	// Every item is at least one byte (its type code), so this bounds
	// the allocation below without yet decoding anything.
	if n > d.c.remaining() {
		return nil, toosmall("count %d exceeds %d remaining bytes", n, d.c.remaining())
	}
	out := make([]Value, n)
	for i := range out {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *valueDecoder) decodeList() (Value, error) {
	_, err := d.c.u8() // attribute; general lists carry one but never use it
	if err != nil {
		return Value{}, err
	}
	n, err := d.c.i32()
	if err != nil {
		return Value{}, err
	}
	items, err := d.decodeN(int(n))
	if err != nil {
		return Value{}, err
	}
	return Value{T: GeneralList, v: List(items)}, nil
}

func (d *valueDecoder) decodeAtom(t Type) (Value, error) {
	elem, err := d.readElement(t.Vector())
	if err != nil {
		return Value{}, err
	}
	return atom(t, elem), nil
}

func (d *valueDecoder) decodeVector(t Type) (Value, error) {
	attrByte, err := d.c.u8()
	if err != nil {
		return Value{}, err
	}
	n, err := d.c.i32()
	if err != nil {
		return Value{}, err
	}
	if n < 0 {
		return Value{}, toosmall("negative vector count %d", n)
	}
	payload, err := d.readElements(t, int(n))
	if err != nil {
		return Value{}, err
	}
	return vector(t, Attribute(attrByte), payload), nil
}

// readElement reads one element of the fixed-width atom type t (positive
// vector code).
func (d *valueDecoder) readElement(t Type) (interface{}, error) {
	switch t {
	case BoolType:
		b, err := d.c.u8()
		return b != 0, err
	case GUIDType:
		b, err := d.c.bytes(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		copy(u[:], b)
		return u, nil
	case ByteType:
		return d.c.u8()
	case ShortType:
		return d.c.i16()
	case IntType:
		return d.c.i32()
	case LongType:
		return d.c.i64()
	case RealType:
		return d.c.f32()
	case FloatType:
		return d.c.f64()
	case CharType:
		return d.c.u8()
	case SymbolType:
		return d.c.cstring()
	case MonthType, DateType, MinuteType, SecondType, TimeType:
		raw, err := d.c.i32()
		if err != nil {
			return nil, err
		}
		if !d.opts.Universal {
			return raw, nil
		}
		return newTemporal(t, int64(raw)), nil
	case TimestampType, TimespanType:
		raw, err := d.c.i64()
		if err != nil {
			return nil, err
		}
		if !d.opts.Universal {
			return raw, nil
		}
		return newTemporal(t, raw), nil
	case DatetimeType:
		bits, err := d.c.u64()
		if err != nil {
			return nil, err
		}
		if !d.opts.Universal {
			return math.Float64frombits(bits), nil
		}
		return newTemporal(t, int64(bits)), nil
	default:
		return nil, badType(t)
	}
}

// readElements reads n elements of vector type t and returns them packed
// into a Go slice of the concrete element type.
func (d *valueDecoder) readElements(t Type, n int) (interface{}, error) {
	switch t.Vector() {
	case BoolType:
		if err := d.c.need(n); err != nil {
			return nil, err
		}
		out := make([]bool, n)
		for i := range out {
			b, err := d.c.u8()
			if err != nil {
				return nil, err
			}
			out[i] = b != 0
		}
		return out, nil
	case GUIDType:
		if err := d.c.need(n * 16); err != nil {
			return nil, err
		}
		out := make([]uuid.UUID, n)
		for i := range out {
			b, err := d.c.bytes(16)
			if err != nil {
				return nil, err
			}
			copy(out[i][:], b)
		}
		return out, nil
	case ByteType:
		b, err := d.c.bytes(n)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		copy(out, b)
		return out, nil
	case CharType:
		b, err := d.c.bytes(n)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		copy(out, b)
		return out, nil
	case SymbolType:
		// Every symbol is at least one byte (its NUL terminator), so
		// this bounds the allocation without yet reading any of them.
		if n > d.c.remaining() {
			return nil, toosmall("symbol count %d exceeds %d remaining bytes", n, d.c.remaining())
		}
		out := make([]string, n)
		for i := range out {
			s, err := d.c.cstring()
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	case ShortType:
		if err := d.c.need(n * 2); err != nil {
			return nil, err
		}
		out := make([]int16, n)
		for i := range out {
			v, err := d.c.i16()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case IntType:
		return d.readInt32s(n)
	case LongType:
		return d.readInt64s(n)
	case RealType:
		if err := d.c.need(n * 4); err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i := range out {
			v, err := d.c.f32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case FloatType:
		if err := d.c.need(n * 8); err != nil {
			return nil, err
		}
		out := make([]float64, n)
		for i := range out {
			v, err := d.c.f64()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case MonthType, DateType, MinuteType, SecondType, TimeType:
		if !d.opts.Universal {
			return d.readInt32s(n)
		}
		raws, err := d.readInt32s(n)
		if err != nil {
			return nil, err
		}
		return temporalSlice(t, raws), nil
	case TimestampType, TimespanType:
		if !d.opts.Universal {
			return d.readInt64s(n)
		}
		raws, err := d.readInt64s(n)
		if err != nil {
			return nil, err
		}
		return temporalSlice(t, raws), nil
	case DatetimeType:
		if err := d.c.need(n * 8); err != nil {
			return nil, err
		}
		if !d.opts.Universal {
			out := make([]float64, n)
			for i := range out {
				v, err := d.c.f64()
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		out := make([]Temporal, n)
		for i := range out {
			bits, err := d.c.u64()
			if err != nil {
				return nil, err
			}
			out[i] = newTemporal(t, int64(bits))
		}
		return out, nil
	default:
		return nil, badType(t)
	}
}

func (d *valueDecoder) readInt32s(n int) ([]int32, error) {
	if err := d.c.need(n * 4); err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		v, err := d.c.i32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *valueDecoder) readInt64s(n int) ([]int64, error) {
	if err := d.c.need(n * 8); err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := range out {
		v, err := d.c.i64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func temporalSlice[T int32 | int64](t Type, raws []T) []Temporal {
	out := make([]Temporal, len(raws))
	for i, r := range raws {
		out[i] = newTemporal(t, int64(r))
	}
	return out
}

func (d *valueDecoder) decodeTable() (Value, error) {
	if _, err := d.c.u8(); err != nil { // reserved byte
		return Value{}, err
	}
	dictVal, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	if dictVal.T != DictType {
		return Value{}, badType(dictVal.T)
	}
	tbl, err := tableFromDict(dictVal.v.(*Dict))
	if err != nil {
		return Value{}, err
	}
	return Value{T: TableType, v: tbl}, nil
}

func tableFromDict(dict *Dict) (*Table, error) {
	if dict.Keys.T != SymbolType {
		return nil, toosmall("table column-name dictionary key side is not a symbol vector")
	}
	cols := dict.Keys.Symbols()
	if dict.Values.T != GeneralList {
		return nil, toosmall("table column dictionary value side is not a general list")
	}
	data := dict.Values.List()
	if len(data) != len(cols) {
		return nil, toosmall("table has %d column names but %d columns", len(cols), len(data))
	}
	rows := -1
	for _, col := range data {
		n := columnLen(col)
		if rows == -1 {
			rows = n
		} else if n != rows {
			return nil, toosmall("table columns have mismatched lengths")
		}
	}
	return &Table{Columns: cols, Data: []Value(data)}, nil
}

func (d *valueDecoder) decodeDict() (Value, error) {
	keys, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	values, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	if keys.T == TableType && values.T == TableType {
		return Value{T: DictType, v: &KeyedTable{
			Keys:   *keys.v.(*Table),
			Values: *values.v.(*Table),
		}}, nil
	}
	return Value{T: DictType, v: &Dict{Keys: keys, Values: values}}, nil
}

func (d *valueDecoder) decodeLambda() (Value, error) {
	ns, err := d.c.cstring()
	if err != nil {
		return Value{}, err
	}
	body, err := d.decodeValue()
	if err != nil {
		return Value{}, err
	}
	if body.T != CharType {
		return Value{}, toosmall("lambda body is not a char vector")
	}
	return Value{T: LambdaType, v: &Lambda{Namespace: ns, Body: string(body.Chars())}}, nil
}
