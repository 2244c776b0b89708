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
	"github.com/fxamacker/cbor/v2"
	"go.opentelemetry.io/collector/pdata/pcommon"
)

// attributeValueType mirrors the `type` column's seven-way tag: empty plus
// the six AnyValue variants.
type attributeValueType uint8

const (
	attrTypeEmpty attributeValueType = iota
	attrTypeStr
	attrTypeInt
	attrTypeDouble
	attrTypeBool
	attrTypeBytes
	attrTypeSer
)

// deserializeInto CBOR-decodes raw (a nested map or slice built by the
// producer for AnyValue's map/slice variants) into dst.
func deserializeInto(raw []byte, dst pcommon.Value) error {
	var decoded interface{}
	if err := cbor.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	populateValue(decoded, dst)
	return nil
}

func populateValue(v interface{}, dst pcommon.Value) {
	switch t := v.(type) {
	case nil:
		// leave dst as the empty value it already is
	case string:
		dst.SetStr(t)
	case bool:
		dst.SetBool(t)
	case int64:
		dst.SetInt(t)
	case uint64:
		dst.SetInt(int64(t))
	case float64:
		dst.SetDouble(t)
	case []byte:
		dst.SetEmptyBytes().FromRaw(t)
	case []interface{}:
		slice := dst.SetEmptySlice()
		slice.EnsureCapacity(len(t))
		for _, item := range t {
			populateValue(item, slice.AppendEmpty())
		}
	case map[interface{}]interface{}:
		m := dst.SetEmptyMap()
		for k, item := range t {
			ks, _ := k.(string)
			populateValue(item, m.PutEmpty(ks))
		}
	case map[string]interface{}:
		m := dst.SetEmptyMap()
		for k, item := range t {
			populateValue(item, m.PutEmpty(k))
		}
	default:
		dst.SetEmptyBytes()
	}
}
