// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package store

import "fmt"

// ValueKind tags the dynamic type carried by a Value (§9: "prefer
// tagged-union values over string-keyed dictionaries-of-anything").
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt
	KindFloat
	KindBool
	KindEnum
)

// Value is a signal's typed value: exactly one of Int/Float/Bool/Enum is
// meaningful, selected by Kind. A Null value (Kind == KindNull) represents
// the documented defaults for numeric edge cases (§4.6, §7): empty
// neighbor sets, zero-variance signals with no meaningful percentile
// baseline, etc. Values are immutable once set (§3).
type Value struct {
	Kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string // enum tag
}

func IntValue(v int) Value     { return Value{Kind: KindInt, i: int64(v)} }
func Int64Value(v int64) Value { return Value{Kind: KindInt, i: v} }
func FloatValue(v float64) Value {
	return Value{Kind: KindFloat, f: v}
}
func BoolValue(v bool) Value       { return Value{Kind: KindBool, b: v} }
func EnumValue(v string) Value     { return Value{Kind: KindEnum, s: v} }
func NullValue() Value             { return Value{Kind: KindNull} }
func (v Value) IsNull() bool       { return v.Kind == KindNull }

// Int returns the integer value and whether v actually holds one.
func (v Value) Int() (int, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return int(v.i), true
}

// Float returns the float value and whether v holds a numeric (int or
// float) value — ints widen transparently, the common case when a
// composite needs to treat a count as a ratio input.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Bool returns the boolean value and whether v actually holds one.
func (v Value) Bool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Enum returns the enum tag and whether v actually holds one.
func (v Value) Enum() (string, bool) {
	if v.Kind != KindEnum {
		return "", false
	}
	return v.s, true
}

// String renders the value for logging/debugging.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindEnum:
		return v.s
	default:
		return "null"
	}
}
