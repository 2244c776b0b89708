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
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

// ExemplarStore maps the owning data point's reconstructed id to the
// exemplars collected for it (C5). Entries are drained exactly once, when
// the owning data point is built.
type ExemplarStore struct {
	byParentID map[uint64]pmetric.ExemplarSlice
}

// NewExemplarStore creates an empty ExemplarStore.
func NewExemplarStore() *ExemplarStore {
	return &ExemplarStore{byParentID: make(map[uint64]pmetric.ExemplarSlice)}
}

// Drain removes and returns the exemplars collected for id, or an empty
// (but valid) slice if none were collected.
func (s *ExemplarStore) Drain(id uint64) pmetric.ExemplarSlice {
	if slice, ok := s.byParentID[id]; ok {
		delete(s.byParentID, id)
		return slice
	}
	return pmetric.NewExemplarSlice()
}

// BuildExemplarStore scans a *DpExemplars record batch: columns id (the
// exemplar's own id, joined by the corresponding *DpExemplarAttrs table),
// parent_id (the owning data point's id space), time_unix_nano, span_id,
// trace_id, and a value union (int_value/double_value).
func BuildExemplarStore(record arrow.Record, attrs *AttributeStore) (*ExemplarStore, error) {
	store := NewExemplarStore()
	src := arrowutils.RecordSource(record)

	var idSum, parentSum RunningSum
	rows := int(record.NumRows())
	for i := 0; i < rows; i++ {
		idDelta, err := arrowutils.RequiredUint32(src, otapconsts.ID, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		exemplarID := idSum.Add(uint64(idDelta))

		parentDelta, err := arrowutils.RequiredUint32(src, otapconsts.ParentID, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		parentID := parentSum.Add(uint64(parentDelta))

		slice, ok := store.byParentID[parentID]
		if !ok {
			slice = pmetric.NewExemplarSlice()
			store.byParentID[parentID] = slice
		}
		exemplar := slice.AppendEmpty()

		if attrs != nil {
			if m := attrs.AttributesByID(exemplarID); m != nil {
				m.CopyTo(exemplar.FilteredAttributes())
			}
		}

		ts, err := arrowutils.RequiredTimestamp(src, otapconsts.TimeUnixNano, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		exemplar.SetTimestamp(pcommon.Timestamp(ts))

		if spanID, err := arrowutils.OptionalBinary(src, otapconsts.SpanID, i); err != nil {
			return nil, asDecodeError(err)
		} else if len(spanID) == 8 {
			var sid pcommon.SpanID
			copy(sid[:], spanID)
			exemplar.SetSpanID(sid)
		}

		if traceID, err := arrowutils.OptionalBinary(src, otapconsts.TraceID, i); err != nil {
			return nil, asDecodeError(err)
		} else if len(traceID) == 16 {
			var tid pcommon.TraceID
			copy(tid[:], traceID)
			exemplar.SetTraceID(tid)
		}

		if err := setExemplarValue(src, i, exemplar); err != nil {
			return nil, asDecodeError(err)
		}
	}

	return store, nil
}

func setExemplarValue(src arrowutils.FieldSource, row int, exemplar pmetric.Exemplar) error {
	if v, present, err := arrowutils.OptionalInt64(src, otapconsts.IntValue, row); err != nil {
		return err
	} else if present {
		exemplar.SetIntValue(v)
		return nil
	}
	if v, present, err := arrowutils.OptionalFloat64(src, otapconsts.DoubleValue, row); err != nil {
		return err
	} else if present {
		exemplar.SetDoubleValue(v)
	}
	return nil
}
