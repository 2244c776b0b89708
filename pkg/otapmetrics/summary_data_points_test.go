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
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

func summaryDataPointsSchema() *arrow.Schema {
	quantileStruct := arrow.StructOf(
		arrow.Field{Name: otapconsts.Quantile, Type: arrow.PrimitiveTypes.Float64},
		arrow.Field{Name: otapconsts.QuantileValue, Type: arrow.PrimitiveTypes.Float64},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint32},
		{Name: otapconsts.ParentID, Type: arrow.PrimitiveTypes.Uint16},
		{Name: otapconsts.StartTimeUnixNano, Type: arrow.FixedWidthTypes.Timestamp_ns},
		{Name: otapconsts.TimeUnixNano, Type: arrow.FixedWidthTypes.Timestamp_ns},
		{Name: otapconsts.Count, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: otapconsts.Sum, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: otapconsts.Quantile, Type: arrow.ListOf(quantileStruct)},
	}, nil)
}

func TestBuildSummaryDataPointStore_QuantileList(t *testing.T) {
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, summaryDataPointsSchema())
	defer rb.Release()

	rb.Field(0).(*array.Uint32Builder).Append(1)
	rb.Field(1).(*array.Uint16Builder).Append(1)
	rb.Field(2).(*array.TimestampBuilder).Append(10)
	rb.Field(3).(*array.TimestampBuilder).Append(20)
	rb.Field(4).(*array.Int64Builder).Append(100)
	rb.Field(5).(*array.Float64Builder).Append(55.5)

	lb := rb.Field(6).(*array.ListBuilder)
	qSb := lb.ValueBuilder().(*array.StructBuilder)
	lb.Append(true)
	for _, pair := range [][2]float64{{0.5, 10}, {0.9, 20}, {0.99, 30}} {
		qSb.Append(true)
		qSb.FieldBuilder(0).(*array.Float64Builder).Append(pair[0])
		qSb.FieldBuilder(1).(*array.Float64Builder).Append(pair[1])
	}

	record := rb.NewRecord()
	defer record.Release()

	store, err := BuildSummaryDataPointStore(record, nil)
	require.NoError(t, err)

	points := store.Drain(1)
	require.Equal(t, 1, points.Len())
	dp := points.At(0)
	require.Equal(t, uint64(100), dp.Count())
	require.Equal(t, 55.5, dp.Sum())

	qv := dp.QuantileValues()
	require.Equal(t, 3, qv.Len())
	require.Equal(t, 0.5, qv.At(0).Quantile())
	require.Equal(t, float64(10), qv.At(0).Value())
	require.Equal(t, 0.99, qv.At(2).Quantile())
}
