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

// Package arrowutils provides typed, null-aware accessors for columns of an
// Arrow record batch or struct array, addressed by name.
package arrowutils

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
)

// FieldSource is anything that exposes named, index-addressable child
// arrays: an arrow.Record (through RecordSource) or a *array.Struct
// (through StructSource).
type FieldSource interface {
	FieldIndex(name string) (int, bool)
	Field(idx int) arrow.Array
}

type recordSource struct {
	record arrow.Record
}

// RecordSource adapts an arrow.Record to a FieldSource.
func RecordSource(record arrow.Record) FieldSource {
	return recordSource{record: record}
}

func (s recordSource) FieldIndex(name string) (int, bool) {
	indices := s.record.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return 0, false
	}
	return indices[0], true
}

func (s recordSource) Field(idx int) arrow.Array {
	return s.record.Column(idx)
}

type structSource struct {
	arr *array.Struct
	dt  *arrow.StructType
}

// StructSource adapts a *array.Struct to a FieldSource. Returns nil if arr
// is nil (callers must check before dereferencing a nested struct column).
func StructSource(arr *array.Struct) FieldSource {
	if arr == nil {
		return nil
	}
	return structSource{arr: arr, dt: arr.DataType().(*arrow.StructType)}
}

func (s structSource) FieldIndex(name string) (int, bool) {
	return s.dt.FieldIdx(name)
}

func (s structSource) Field(idx int) arrow.Array {
	return s.arr.Field(idx)
}

// resolve looks a column up by name, returning its index and array. The
// bool result is false when the column does not exist.
func resolve(src FieldSource, name string) (int, arrow.Array, bool) {
	idx, ok := src.FieldIndex(name)
	if !ok {
		return 0, nil, false
	}
	return idx, src.Field(idx), true
}

// dictValueIndex resolves a dictionary-encoded array's logical value index
// for row. The second result is false when the key is null.
func dictValueIndex(arr *array.Dictionary, row int) (int, bool) {
	if arr.IsNull(row) {
		return 0, false
	}
	return arr.GetValueIndex(row), true
}
