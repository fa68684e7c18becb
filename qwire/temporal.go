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
	"time"

	"github.com/kdbipc/qwire/date"
)

// qEpoch is q's calendar epoch, 2000-01-01T00:00:00Z, the reference point
// for every temporal type's raw integer.
var qEpoch = date.Date(2000, 1, 1, 0, 0, 0, 0)

// Temporal is the tagged wrapper a universal-mode read (ReadOptions.Universal)
// produces for every date/time-shaped q value (month, date, datetime,
// timestamp, timespan, minute, second, time); a raw-mode read leaves these
// values as plain numbers instead. It always carries the raw wire integer
// (or, for datetime, the raw IEEE-754 bit pattern) and the q vector type it
// was read as, so the wire value is kept bit-exactly. Valid is false when
// Raw is that type's null sentinel; Time and Duration are meaningless (and not-a-time) in that
// case.
type Temporal struct {
	T     Type
	Raw   int64
	Valid bool
}

func newTemporal(t Type, raw int64) Temporal {
	return Temporal{T: t.Vector(), Raw: raw, Valid: !isNullRaw(t, raw)}
}

// isNullRaw reports whether raw is the q-null bit pattern for temporal
// vector type t.
func isNullRaw(t Type, raw int64) bool {
	switch t.Vector() {
	case MonthType, DateType, MinuteType, SecondType, TimeType:
		return int32(raw) == math.MinInt32
	case TimestampType, TimespanType:
		return raw == math.MinInt64
	case DatetimeType:
		return math.IsNaN(math.Float64frombits(uint64(raw)))
	default:
		return false
	}
}

// IsNaT reports whether t is the universal not-a-time sentinel, i.e. its
// raw wire value was the null pattern for its type.
func (t Temporal) IsNaT() bool { return !t.Valid }

// Time converts t to a calendar date.Time. T must be one of the
// calendar-valued temporal types (month, date, datetime, timestamp); for
// duration-valued types use Duration instead. Time panics if t is NaT;
// callers should check IsNaT first.
func (t Temporal) Time() date.Time {
	if !t.Valid {
		panic("qwire: Time called on not-a-time value")
	}
	switch t.T.Vector() {
	case MonthType:
		return date.Duration{Month: int(int32(t.Raw))}.Add(qEpoch)
	case DateType:
		days := int64(int32(t.Raw))
		return qEpoch.Add(time.Duration(days) * 24 * time.Hour)
	case DatetimeType:
		days := math.Float64frombits(uint64(t.Raw))
		return qEpoch.Add(time.Duration(days * float64(24*time.Hour)))
	case TimestampType:
		return qEpoch.Add(time.Duration(t.Raw))
	default:
		panic("qwire: Time called on duration-valued temporal type " + t.T.String())
	}
}

// Duration converts t to a time.Duration. T must be one of the
// duration-valued temporal types (timespan, minute, second, time);
// Duration panics if t is NaT.
func (t Temporal) Duration() time.Duration {
	if !t.Valid {
		panic("qwire: Duration called on not-a-time value")
	}
	switch t.T.Vector() {
	case TimespanType:
		return time.Duration(t.Raw)
	case MinuteType:
		return time.Duration(int32(t.Raw)) * time.Minute
	case SecondType:
		return time.Duration(int32(t.Raw)) * time.Second
	case TimeType:
		return time.Duration(int32(t.Raw)) * time.Millisecond
	default:
		panic("qwire: Duration called on calendar-valued temporal type " + t.T.String())
	}
}
