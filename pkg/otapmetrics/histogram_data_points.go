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

// BuildHistogramDataPointStore scans a HistogramDataPoints record batch.
// Columns: id, parent_id (metric id), start_time_unix_nano,
// time_unix_nano, count, sum, bucket_counts (list<u64>), explicit_bounds
// (list<f64>), min, max, flags.
func BuildHistogramDataPointStore(record arrow.Record, exemplars *ExemplarStore, attrs *AttributeStore) (*HistogramDataPointStore, error) {
	store := NewHistogramDataPointStore()
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

		if sum, present, err := arrowutils.OptionalFloat64(src, otapconsts.Sum, i); err != nil {
			return nil, asDecodeError(err)
		} else if present {
			dp.SetSum(sum)
		}

		if err := appendUint64List(src, i, otapconsts.BucketCounts, dp.BucketCounts()); err != nil {
			return nil, asDecodeError(err)
		}
		if err := appendFloat64List(src, i, otapconsts.ExplicitBounds, dp.ExplicitBounds()); err != nil {
			return nil, asDecodeError(err)
		}

		if min, present, err := arrowutils.OptionalFloat64(src, otapconsts.Min, i); err != nil {
			return nil, asDecodeError(err)
		} else if present {
			dp.SetMin(min)
		}
		if max, present, err := arrowutils.OptionalFloat64(src, otapconsts.Max, i); err != nil {
			return nil, asDecodeError(err)
		} else if present {
			dp.SetMax(max)
		}

		flags, _, err := arrowutils.OptionalUint32(src, otapconsts.Flags, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetFlags(pmetric.DataPointFlags(flags))

		if exemplars != nil {
			exemplars.Drain(pointID).MoveAndAppendTo(dp.Exemplars())
		}
		if attrs != nil {
			if m := attrs.AttributesByID(pointID); m != nil {
				m.CopyTo(dp.Attributes())
			}
		}
	}

	return store, nil
}

func appendUint64List(src arrowutils.FieldSource, row int, name string, dst pcommon.UInt64Slice) error {
	rng, err := arrowutils.RequiredList(src, name, row)
	if err != nil {
		return err
	}
	if rng == nil {
		return nil
	}
	values, ok := rng.Values.(*array.Uint64)
	if !ok {
		return errTypeMismatchList(name, "uint64")
	}
	dst.EnsureCapacity(rng.End - rng.Start)
	for i := rng.Start; i < rng.End; i++ {
		dst.Append(values.Value(i))
	}
	return nil
}

func appendFloat64List(src arrowutils.FieldSource, row int, name string, dst pcommon.Float64Slice) error {
	rng, err := arrowutils.RequiredList(src, name, row)
	if err != nil {
		return err
	}
	if rng == nil {
		return nil
	}
	values, ok := rng.Values.(*array.Float64)
	if !ok {
		return errTypeMismatchList(name, "float64")
	}
	dst.EnsureCapacity(rng.End - rng.Start)
	for i := rng.Start; i < rng.End; i++ {
		dst.Append(values.Value(i))
	}
	return nil
}
