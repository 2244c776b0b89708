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

// BuildNumberDataPointStore scans a NumberDataPoints record batch. Columns:
// id (u32, the data point's own id -- joins exemplars and dp-attrs), parent_id
// (u16, the owning metric id), start_time_unix_nano, time_unix_nano,
// int_value, double_value (mutually exclusive), flags.
func BuildNumberDataPointStore(record arrow.Record, exemplars *ExemplarStore, attrs *AttributeStore) (*NumberDataPointStore, error) {
	store := NewNumberDataPointStore()
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

		intVal, intPresent, err := arrowutils.OptionalInt64(src, otapconsts.IntValue, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		dblVal, dblPresent, err := arrowutils.OptionalFloat64(src, otapconsts.DoubleValue, i)
		if err != nil {
			return nil, asDecodeError(err)
		}
		if intPresent && dblPresent {
			return nil, mutuallyExclusiveColumns(otapconsts.IntValue, otapconsts.DoubleValue)
		}
		if intPresent {
			dp.SetIntValue(intVal)
		} else if dblPresent {
			dp.SetDoubleValue(dblVal)
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
