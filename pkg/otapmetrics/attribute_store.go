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

import (
	"github.com/apache/arrow/go/v12/arrow"
	"go.opentelemetry.io/collector/pdata/pcommon"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

// AttributeStore indexes parent_id -> attribute map, built once per batch
// from an attributes table (C3). The 16 and 32-bit identifier spaces
// (resource/scope vs. data-point/exemplar) share this one implementation;
// only the width of the incoming parent id differs, and that is erased to
// uint64 before it reaches the store.
type AttributeStore struct {
	byParentID map[uint64]*pcommon.Map
}

// NewAttributeStore creates an empty AttributeStore.
func NewAttributeStore() *AttributeStore {
	return &AttributeStore{byParentID: make(map[uint64]*pcommon.Map)}
}

// AttributesByID returns the attribute map for id, or nil if none was
// built for it.
func (s *AttributeStore) AttributesByID(id uint64) *pcommon.Map {
	return s.byParentID[id]
}

// BuildAttributeStore scans an attributes record batch and returns the
// resulting store. The record must carry parent_id, key, type, and one
// value column per AnyValue variant (str, int, double, bool, bytes, ser).
func BuildAttributeStore(record arrow.Record, parentIDWidth int) (*AttributeStore, error) {
	store := NewAttributeStore()
	src := arrowutils.RecordSource(record)
	decoder := NewParentIDDecoder(ParentIDDeltaGroupEncoding)

	rows := int(record.NumRows())
	for i := 0; i < rows; i++ {
		key, err := arrowutils.RequiredString(src, otapconsts.Key, i)
		if err != nil {
			return nil, asDecodeError(err)
		}

		vType, err := arrowutils.RequiredUint8(src, otapconsts.Type, i)
		if err != nil {
			return nil, asDecodeError(err)
		}

		value := pcommon.NewValueEmpty()
		if err := populateAttributeValue(src, i, attributeValueType(vType), value); err != nil {
			return nil, asDecodeError(err)
		}

		var deltaOrParentID uint64
		switch parentIDWidth {
		case 16:
			v, err := arrowutils.RequiredUint16(src, otapconsts.ParentID, i)
			if err != nil {
				return nil, asDecodeError(err)
			}
			deltaOrParentID = uint64(v)
		default:
			v, err := arrowutils.RequiredUint32(src, otapconsts.ParentID, i)
			if err != nil {
				return nil, asDecodeError(err)
			}
			deltaOrParentID = uint64(v)
		}

		parentID := decoder.Decode(deltaOrParentID, key, value)

		m, ok := store.byParentID[parentID]
		if !ok {
			newMap := pcommon.NewMap()
			m = &newMap
			store.byParentID[parentID] = m
		}
		value.CopyTo(m.PutEmpty(key))
	}

	return store, nil
}

func populateAttributeValue(src arrowutils.FieldSource, row int, vType attributeValueType, value pcommon.Value) error {
	switch vType {
	case attrTypeEmpty:
		return nil
	case attrTypeStr:
		v, err := arrowutils.RequiredString(src, otapconsts.Str, row)
		if err != nil {
			return err
		}
		value.SetStr(v)
	case attrTypeInt:
		v, err := arrowutils.RequiredInt64(src, otapconsts.Int, row)
		if err != nil {
			return err
		}
		value.SetInt(v)
	case attrTypeDouble:
		v, err := arrowutils.RequiredFloat64(src, otapconsts.Double, row)
		if err != nil {
			return err
		}
		value.SetDouble(v)
	case attrTypeBool:
		v, err := arrowutils.RequiredBool(src, otapconsts.Bool, row)
		if err != nil {
			return err
		}
		value.SetBool(v)
	case attrTypeBytes:
		v, err := arrowutils.RequiredBinary(src, otapconsts.Bytes, row)
		if err != nil {
			return err
		}
		value.SetEmptyBytes().FromRaw(v)
	case attrTypeSer:
		v, err := arrowutils.RequiredBinary(src, otapconsts.Ser, row)
		if err != nil {
			return err
		}
		return deserializeInto(v, value)
	default:
		// Unknown attribute value tags are ignored rather than failing
		// the whole batch: a forward-compatible producer may add a new
		// variant before this decoder knows about it.
	}
	return nil
}
