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

// BuildExpHistogramDataPointStore scans an ExpHistogramDataPoints record
// batch. Columns: id, parent_id (metric id), start_time_unix_nano,
// time_unix_nano, count, sum, scale, zero_count, positive/negative
// (struct{offset, bucket_counts}), min, max, flags.
func BuildExpHistogramDataPointStore(record arrow.Record, exemplars *ExemplarStore, attrs *AttributeStore) (*ExpHistogramDataPointStore, error) {
	store := NewExpHistogramDataPointStore()
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

		scale, err := arrowutils.RequiredInt32(src, otapconsts.Scale, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetScale(scale)

		zeroCount, _, err := arrowutils.OptionalInt64(src, otapconsts.ZeroCount, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dp.SetZeroCount(uint64(zeroCount))

		if err := appendExpHistogramBuckets(src, i, otapconsts.Positive, dp.Positive()); err != nil {
			return nil, asDecodeError(err)
		}
		if err := appendExpHistogramBuckets(src, i, otapconsts.Negative, dp.Negative()); err != nil {
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

func appendExpHistogramBuckets(src arrowutils.FieldSource, row int, name string, dst pmetric.ExponentialHistogramDataPointBuckets) error {
	bucketSrc, err := arrowutils.RequiredStruct(src, name, row)
	if err != nil {
		return err
	}
	if bucketSrc == nil {
		return nil
	}

	offset, err := arrowutils.RequiredInt32(bucketSrc, otapconsts.Offset, row)
	if err != nil {
		return err
	}
	dst.SetOffset(offset)

	return appendUint64List(bucketSrc, row, otapconsts.BucketCounts, dst.BucketCounts())
}
