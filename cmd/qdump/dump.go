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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/kdbipc/qwire/qwire"
)

// writeValue renders a decoded value tree as a compact, q-ish textual
// form. It is not meant to round-trip; it exists so a frame's shape is
// legible on a terminal.
func writeValue(w io.Writer, v qwire.Value) {
	switch {
	case v.IsNull():
		fmt.Fprint(w, "::")
	case v.T.IsAtom():
		writeAtom(w, v)
	case v.T.IsVector():
		writeVector(w, v)
	case v.T == qwire.GeneralList:
		fmt.Fprint(w, "(")
		for i, item := range v.List() {
			if i > 0 {
				fmt.Fprint(w, ";")
			}
			writeValue(w, item)
		}
		fmt.Fprint(w, ")")
	case v.T == qwire.DictType:
		writeDict(w, v)
	case v.T == qwire.TableType:
		writeTable(w, v.Table())
	case v.T == qwire.LambdaType:
		lam := v.Lambda()
		fmt.Fprintf(w, "%s%s", lam.Namespace, lam.Body)
	case v.T == qwire.ProjectionType || v.T == qwire.CompositionType:
		fmt.Fprint(w, "[")
		for i, item := range v.Items() {
			if i > 0 {
				fmt.Fprint(w, ";")
			}
			writeValue(w, item)
		}
		fmt.Fprint(w, "]")
	default:
		fmt.Fprintf(w, "<%s>", v.T)
	}
}

func writeAtom(w io.Writer, v qwire.Value) {
	switch v.T.Vector() {
	case qwire.BoolType:
		fmt.Fprint(w, v.Bool())
	case qwire.ByteType:
		fmt.Fprintf(w, "0x%02x", v.Byte())
	case qwire.ShortType:
		fmt.Fprint(w, v.Short())
	case qwire.IntType:
		fmt.Fprint(w, v.Int())
	case qwire.LongType:
		fmt.Fprint(w, v.Long())
	case qwire.RealType:
		fmt.Fprint(w, v.Real())
	case qwire.FloatType:
		fmt.Fprint(w, v.Float())
	case qwire.CharType:
		fmt.Fprintf(w, "%q", rune(v.Char()))
	case qwire.SymbolType:
		fmt.Fprintf(w, "`%s", v.Symbol())
	case qwire.GUIDType:
		fmt.Fprint(w, v.GUID())
	default:
		if v.T.IsTemporal() {
			writeTemporal(w, v.Raw())
			return
		}
		fmt.Fprintf(w, "<%s>", v.T)
	}
}

func writeVector(w io.Writer, v qwire.Value) {
	switch v.T {
	case qwire.SymbolType:
		syms := v.Symbols()
		for i, s := range syms {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "`%s", s)
		}
	case qwire.CharType:
		fmt.Fprintf(w, "%q", string(v.Chars()))
	default:
		if temporals, ok := v.Raw().([]qwire.Temporal); ok {
			for i, t := range temporals {
				if i > 0 {
					fmt.Fprint(w, " ")
				}
				writeTemporal(w, t)
			}
			return
		}
		fmt.Fprint(w, "(")
		fmt.Fprint(w, strings.TrimSpace(fmt.Sprint(v.Raw())))
		fmt.Fprint(w, ")")
	}
}

func writeTemporal(w io.Writer, raw interface{}) {
	switch t := raw.(type) {
	case qwire.Temporal:
		if t.IsNaT() {
			fmt.Fprint(w, "0N")
			return
		}
		if t.T.IsDuration() {
			fmt.Fprint(w, t.Duration())
		} else {
			fmt.Fprint(w, t.Time())
		}
	default:
		fmt.Fprint(w, raw)
	}
}

func writeDict(w io.Writer, v qwire.Value) {
	if kt, ok := v.Raw().(*qwire.KeyedTable); ok {
		writeTable(w, &kt.Keys)
		fmt.Fprint(w, "!")
		writeTable(w, &kt.Values)
		return
	}
	d := v.Dict()
	writeValue(w, d.Keys)
	fmt.Fprint(w, "!")
	writeValue(w, d.Values)
}

func writeTable(w io.Writer, t *qwire.Table) {
	fmt.Fprint(w, "+`")
	fmt.Fprint(w, strings.Join(t.Columns, "`"))
	fmt.Fprint(w, "!(")
	for i, col := range t.Data {
		if i > 0 {
			fmt.Fprint(w, ";")
		}
		writeValue(w, col)
	}
	fmt.Fprint(w, ")")
}
