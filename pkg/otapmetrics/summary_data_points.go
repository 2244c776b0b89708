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
	"github.com/apache/arrow/go/v12/arrow/array"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

// BuildSummaryDataPointStore scans a SummaryDataPoints record batch.
// Columns: id, parent_id (metric id), start_time_unix_nano,
// time_unix_nano, count, sum, quantile (list<struct{quantile,value}>),
// flags.
func BuildSummaryDataPointStore(record arrow.Record, attrs *AttributeStore) (*SummaryDataPointStore, error) {
	store := NewSummaryDataPointStore()
	src := arrowutils.RecordSource(record)

	var idSum, parentSum RunningSum
	rows := int(record.NumRows())
	for i := 0; i < rows; i++ {
		idDelta, err := arrowutils.RequiredUint32(src, otapconsts.ID, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		pointID := idSum.Add(uint64(idDelta))

		parentDelta, err := arrowutils.RequiredUint16(src, otapconsts.ParentID, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		metricID := parentSum.Add(uint64(parentDelta))

		dp := store.bucket(metricID).AppendEmpty()

		startTS, err := arrowutils.RequiredTimestamp(src, otapconsts.StartTimeUnixNano, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetStartTimestamp(pcommon.Timestamp(startTS))

		ts, err := arrowutils.RequiredTimestamp(src, otapconsts.TimeUnixNano, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetTimestamp(pcommon.Timestamp(ts))

		count, _, err := arrowutils.OptionalInt64(src, otapconsts.Count, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetCount(uint64(count))

		sum, _, err := arrowutils.OptionalFloat64(src, otapconsts.Sum, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetSum(sum)

		if err := appendQuantileValues(src, i, dp.QuantileValues()); err != nil {
			return nil, asDecodeError(err)
		}

		flags, _, err := arrowutils.OptionalUint32(src, otapconsts.Flags, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetFlags(pmetric.DataPointFlags(flags))

		if attrs != nil {
			if m := attrs.AttributesByID(pointID); m != nil {
				m.CopyTo(dp.Attributes())
			}
		}
	}

	return store, nil
}

func appendQuantileValues(src arrowutils.FieldSource, row int, dst pmetric.SummaryDataPointValueAtQuantileSlice) error {
	rng, err := arrowutils.RequiredList(src, otapconsts.Quantile, row)
	if err != nil {
		return err
	}
	if rng == nil {
		return nil
	}
	values, ok := rng.Values.(*array.Struct)
	if !ok {
		return invalidQuantileType("quantile column is not list<struct>")
	}
	qSrc := arrowutils.StructSource(values)
	dst.EnsureCapacity(rng.End - rng.Start)
	for i := rng.Start; i < rng.End; i++ {
		q, err := arrowutils.RequiredFloat64(qSrc, otapconsts.Quantile, i)
		if err != nil {
			return err
		}
		v, err := arrowutils.RequiredFloat64(qSrc, otapconsts.QuantileValue, i)
		if err != nil {
			return err
		}
		qv := dst.AppendEmpty()
		qv.SetQuantile(q)
		qv.SetValue(v)
	}
	return nil
}
