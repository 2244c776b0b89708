// Copyright The OpenTelemetry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//       http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package otapmetrics

import "go.opentelemetry.io/collector/pdata/pcommon"

// ParentIDEncoding identifies which of the three schemes an attributes
// table's parent_id column was encoded with.
type ParentIDEncoding int

const (
	// ParentIDNoEncoding means the column already holds absolute ids.
	ParentIDNoEncoding ParentIDEncoding = iota
	// ParentIDDeltaEncoding means each cell is a running-sum delta over
	// the whole column.
	ParentIDDeltaEncoding
	// ParentIDDeltaGroupEncoding means each cell is a running-sum delta
	// within the run of rows sharing an identical (key, value) pair; the
	// default scheme.
	ParentIDDeltaGroupEncoding
)

// valueEqual reports whether two pcommon.Value instances hold the same
// type and content. pcommon.Value has no built-in equality, so this walks
// the tagged union explicitly the way the teacher's attribute decoder
// does via its own carrow.Equal helper.
func valueEqual(a, b pcommon.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Type() {
	case pcommon.ValueTypeEmpty:
		return true
	case pcommon.ValueTypeStr:
		return a.Str() == b.Str()
	case pcommon.ValueTypeInt:
		return a.Int() == b.Int()
	case pcommon.ValueTypeDouble:
		return a.Double() == b.Double()
	case pcommon.ValueTypeBool:
		return a.Bool() == b.Bool()
	case pcommon.ValueTypeBytes:
		return string(a.Bytes().AsRaw()) == string(b.Bytes().AsRaw())
	default:
		return a.AsString() == b.AsString()
	}
}

// ParentIDDecoder reconstructs absolute parent identifiers from one of the
// three encoding schemes (C2). It is stateful and must see every row of
// its table in stored order.
type ParentIDDecoder struct {
	encoding  ParentIDEncoding
	prevID    uint64
	prevKey   string
	prevValue pcommon.Value
	seenValue bool
}

// NewParentIDDecoder constructs a decoder for the given encoding. The
// default scheme (when a schema carries no explicit encoding) is
// ParentIDDeltaGroupEncoding.
func NewParentIDDecoder(encoding ParentIDEncoding) *ParentIDDecoder {
	return &ParentIDDecoder{encoding: encoding, prevValue: pcommon.NewValueEmpty()}
}

// Decode consumes one row's (delta-or-absolute, key, value) and returns
// the reconstructed absolute parent id.
func (d *ParentIDDecoder) Decode(deltaOrParentID uint64, key string, value pcommon.Value) uint64 {
	switch d.encoding {
	case ParentIDNoEncoding:
		return deltaOrParentID
	case ParentIDDeltaEncoding:
		d.prevID += deltaOrParentID
		return d.prevID
	case ParentIDDeltaGroupEncoding:
		if d.seenValue && d.prevKey == key && valueEqual(d.prevValue, value) {
			d.prevID += deltaOrParentID
			return d.prevID
		}
		d.prevKey = key
		d.prevValue = value
		d.prevID = deltaOrParentID
		d.seenValue = true
		return d.prevID
	default:
		panic("unknown parent id encoding")
	}
}

// RunningSum reconstructs a plain running-sum identifier space (resource
// id, scope id, metric id, data-point id, exemplar id) where every row
// contributes a delta with no grouping behavior. A null cell contributes
// delta zero, which the caller achieves simply by passing 0.
type RunningSum struct {
	value uint64
}

// Add advances the running sum by delta and returns the new absolute
// value.
func (r *RunningSum) Add(delta uint64) uint64 {
	r.value += delta
	return r.value
}

// Value returns the current absolute value without advancing it.
func (r *RunningSum) Value() uint64 {
	return r.value
}
