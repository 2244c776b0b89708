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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pmetric"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

func resourceStructType() arrow.DataType {
	return arrow.StructOf(
		arrow.Field{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint16, Nullable: true},
		arrow.Field{Name: otapconsts.DroppedAttributesCount, Type: arrow.PrimitiveTypes.Uint32},
		arrow.Field{Name: otapconsts.SchemaURL, Type: arrow.BinaryTypes.String},
	)
}

func scopeStructType() arrow.DataType {
	return arrow.StructOf(
		arrow.Field{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint16, Nullable: true},
		arrow.Field{Name: otapconsts.Name, Type: arrow.BinaryTypes.String},
		arrow.Field{Name: otapconsts.Version, Type: arrow.BinaryTypes.String},
		arrow.Field{Name: otapconsts.DroppedAttributesCount, Type: arrow.PrimitiveTypes.Uint32},
	)
}

func gaugeMainTableSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint16},
		{Name: otapconsts.Resource, Type: resourceStructType()},
		{Name: otapconsts.Scope, Type: scopeStructType()},
		{Name: otapconsts.SchemaURL, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Name, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Description, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Unit, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.MetricType, Type: arrow.PrimitiveTypes.Uint8},
	}, nil)
}

func numberDataPointsSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint32},
		{Name: otapconsts.ParentID, Type: arrow.PrimitiveTypes.Uint16},
		{Name: otapconsts.StartTimeUnixNano, Type: arrow.FixedWidthTypes.Timestamp_ns},
		{Name: otapconsts.TimeUnixNano, Type: arrow.FixedWidthTypes.Timestamp_ns},
		{Name: otapconsts.IntValue, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: otapconsts.DoubleValue, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
}

// buildGaugeMainTable builds a main UnivariateMetrics table with two metrics
// under one resource/scope group: the resource and scope id deltas are 1 on
// the first row and 0 on the second, and both rows carry metric_id delta 1,
// so every row is a distinct metric (ids 1 and 2).
func buildGaugeMainTable(t *testing.T) arrow.Record {
	t.Helper()
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, gaugeMainTableSchema())
	defer rb.Release()

	appendRow := func(metricIDDelta, groupIDDelta uint16, name string) {
		rb.Field(0).(*array.Uint16Builder).Append(metricIDDelta)

		resSb := rb.Field(1).(*array.StructBuilder)
		resSb.Append(true)
		resSb.FieldBuilder(0).(*array.Uint16Builder).Append(groupIDDelta)
		resSb.FieldBuilder(1).(*array.Uint32Builder).Append(0)
		resSb.FieldBuilder(2).(*array.StringBuilder).Append("https://resource.schema")

		scopeSb := rb.Field(2).(*array.StructBuilder)
		scopeSb.Append(true)
		scopeSb.FieldBuilder(0).(*array.Uint16Builder).Append(groupIDDelta)
		scopeSb.FieldBuilder(1).(*array.StringBuilder).Append("my-scope")
		scopeSb.FieldBuilder(2).(*array.StringBuilder).Append("v1")
		scopeSb.FieldBuilder(3).(*array.Uint32Builder).Append(0)

		rb.Field(3).(*array.StringBuilder).Append("https://scope.schema")
		rb.Field(4).(*array.StringBuilder).Append(name)
		rb.Field(5).(*array.StringBuilder).Append("a gauge")
		rb.Field(6).(*array.StringBuilder).Append("1")
		rb.Field(7).(*array.Uint8Builder).Append(uint8(MetricTypeGauge))
	}

	appendRow(1, 1, "metric-one")
	appendRow(1, 0, "metric-two")

	return rb.NewRecord()
}

func buildNumberDataPoints(t *testing.T) arrow.Record {
	t.Helper()
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, numberDataPointsSchema())
	defer rb.Release()

	// Point 1 (id delta 1 -> id 1) belongs to metric 1 (parent delta 1).
	rb.Field(0).(*array.Uint32Builder).Append(1)
	rb.Field(1).(*array.Uint16Builder).Append(1)
	rb.Field(2).(*array.TimestampBuilder).Append(1000)
	rb.Field(3).(*array.TimestampBuilder).Append(2000)
	rb.Field(4).(*array.Int64Builder).Append(42)
	rb.Field(5).(*array.Float64Builder).AppendNull()

	// Point 2 (id delta 1 -> id 2) belongs to metric 2 (parent delta 1 -> 2).
	rb.Field(0).(*array.Uint32Builder).Append(1)
	rb.Field(1).(*array.Uint16Builder).Append(1)
	rb.Field(2).(*array.TimestampBuilder).Append(3000)
	rb.Field(3).(*array.TimestampBuilder).Append(4000)
	rb.Field(4).(*array.Int64Builder).AppendNull()
	rb.Field(5).(*array.Float64Builder).Append(3.5)

	return rb.NewRecord()
}

func TestReduceMetrics_GaugeEndToEnd(t *testing.T) {
	mainRecord := buildGaugeMainTable(t)
	dpRecord := buildNumberDataPoints(t)
	defer dpRecord.Release()

	numberStore, err := BuildNumberDataPointStore(dpRecord, nil, nil)
	require.NoError(t, err)

	related := NewRelatedData()
	related.NumberDataPoints = numberStore

	request, err := ReduceMetrics(mainRecord, related)
	require.NoError(t, err)

	rms := request.Metrics().ResourceMetrics()
	require.Equal(t, 1, rms.Len())
	rm := rms.At(0)
	require.Equal(t, "https://resource.schema", rm.SchemaUrl())
	require.Equal(t, uint32(0), rm.Resource().DroppedAttributesCount())

	sms := rm.ScopeMetrics()
	require.Equal(t, 1, sms.Len())
	sm := sms.At(0)
	require.Equal(t, "my-scope", sm.Scope().Name())
	require.Equal(t, "v1", sm.Scope().Version())
	require.Equal(t, "https://scope.schema", sm.SchemaUrl())

	metrics := sm.Metrics()
	require.Equal(t, 2, metrics.Len())

	m1 := metrics.At(0)
	require.Equal(t, "metric-one", m1.Name())
	require.Equal(t, "a gauge", m1.Description())
	require.Equal(t, "1", m1.Unit())
	require.Equal(t, 1, m1.Gauge().DataPoints().Len())
	require.Equal(t, int64(42), m1.Gauge().DataPoints().At(0).IntValue())

	m2 := metrics.At(1)
	require.Equal(t, "metric-two", m2.Name())
	require.Equal(t, 1, m2.Gauge().DataPoints().Len())
	require.Equal(t, 3.5, m2.Gauge().DataPoints().At(0).DoubleValue())
}

func TestReduceMetrics_EmptyMetricTypeFails(t *testing.T) {
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, gaugeMainTableSchema())
	defer rb.Release()

	rb.Field(0).(*array.Uint16Builder).Append(1)
	resSb := rb.Field(1).(*array.StructBuilder)
	resSb.Append(true)
	resSb.FieldBuilder(0).(*array.Uint16Builder).Append(1)
	resSb.FieldBuilder(1).(*array.Uint32Builder).Append(0)
	resSb.FieldBuilder(2).(*array.StringBuilder).Append("")
	scopeSb := rb.Field(2).(*array.StructBuilder)
	scopeSb.Append(true)
	scopeSb.FieldBuilder(0).(*array.Uint16Builder).Append(1)
	scopeSb.FieldBuilder(1).(*array.StringBuilder).Append("")
	scopeSb.FieldBuilder(2).(*array.StringBuilder).Append("")
	scopeSb.FieldBuilder(3).(*array.Uint32Builder).Append(0)
	rb.Field(3).(*array.StringBuilder).Append("")
	rb.Field(4).(*array.StringBuilder).Append("broken")
	rb.Field(5).(*array.StringBuilder).Append("")
	rb.Field(6).(*array.StringBuilder).Append("")
	rb.Field(7).(*array.Uint8Builder).Append(uint8(MetricTypeEmpty))

	record := rb.NewRecord()

	_, err := ReduceMetrics(record, NewRelatedData())
	require.ErrorIs(t, err, ErrEmptyMetricType)
}

// mainTableSchemaWithTemporality extends gaugeMainTableSchema with the two
// columns only Sum/Histogram/ExpHistogram rows carry.
func mainTableSchemaWithTemporality() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: otapconsts.ID, Type: arrow.PrimitiveTypes.Uint16},
		{Name: otapconsts.Resource, Type: resourceStructType()},
		{Name: otapconsts.Scope, Type: scopeStructType()},
		{Name: otapconsts.SchemaURL, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Name, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Description, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.Unit, Type: arrow.BinaryTypes.String},
		{Name: otapconsts.MetricType, Type: arrow.PrimitiveTypes.Uint8},
		{Name: otapconsts.AggregationTemporality, Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: otapconsts.IsMonotonic, Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
	}, nil)
}

// buildSingleMetricRow builds a one-row main table for metricType, setting
// temporality/monotonic when the caller passes non-nil values and leaving
// them null otherwise (Gauge/Summary rows carry neither).
func buildSingleMetricRow(t *testing.T, metricType MetricType, temporality *int32, monotonic *bool) arrow.Record {
	t.Helper()
	mem := memory.NewGoAllocator()
	rb := array.NewRecordBuilder(mem, mainTableSchemaWithTemporality())
	defer rb.Release()

	rb.Field(0).(*array.Uint16Builder).Append(1)

	resSb := rb.Field(1).(*array.StructBuilder)
	resSb.Append(true)
	resSb.FieldBuilder(0).(*array.Uint16Builder).Append(1)
	resSb.FieldBuilder(1).(*array.Uint32Builder).Append(0)
	resSb.FieldBuilder(2).(*array.StringBuilder).Append("https://resource.schema")

	scopeSb := rb.Field(2).(*array.StructBuilder)
	scopeSb.Append(true)
	scopeSb.FieldBuilder(0).(*array.Uint16Builder).Append(1)
	scopeSb.FieldBuilder(1).(*array.StringBuilder).Append("my-scope")
	scopeSb.FieldBuilder(2).(*array.StringBuilder).Append("v1")
	scopeSb.FieldBuilder(3).(*array.Uint32Builder).Append(0)

	rb.Field(3).(*array.StringBuilder).Append("https://scope.schema")
	rb.Field(4).(*array.StringBuilder).Append("metric-under-test")
	rb.Field(5).(*array.StringBuilder).Append("")
	rb.Field(6).(*array.StringBuilder).Append("")
	rb.Field(7).(*array.Uint8Builder).Append(uint8(metricType))

	temporalityBuilder := rb.Field(8).(*array.Int32Builder)
	if temporality != nil {
		temporalityBuilder.Append(*temporality)
	} else {
		temporalityBuilder.AppendNull()
	}
	monotonicBuilder := rb.Field(9).(*array.BooleanBuilder)
	if monotonic != nil {
		monotonicBuilder.Append(*monotonic)
	} else {
		monotonicBuilder.AppendNull()
	}

	return rb.NewRecord()
}

func int32p(v int32) *int32 { return &v }
func boolp(v bool) *bool    { return &v }

// TestReduceMetrics_SumCarriesTemporalityAndMonotonicity covers the
// MetricTypeSum dispatch branch (E2): a Sum row with is_monotonic=true and
// a cumulative temporality, alongside a default (unset) gauge elsewhere in
// the suite, so the two metric shapes are exercised independently.
func TestReduceMetrics_SumCarriesTemporalityAndMonotonicity(t *testing.T) {
	record := buildSingleMetricRow(t, MetricTypeSum, int32p(int32(pmetric.AggregationTemporalityCumulative)), boolp(true))

	request, err := ReduceMetrics(record, NewRelatedData())
	require.NoError(t, err)

	metric := request.Metrics().ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics().At(0)
	sum := metric.Sum()
	assert.Equal(t, pmetric.AggregationTemporalityCumulative, sum.AggregationTemporality())
	assert.True(t, sum.IsMonotonic())
}

// TestReduceMetrics_UnrecognizedMetricType covers E5: a metric_type value
// outside the closed MetricType tag set fails with UnrecognizedMetricType
// rather than silently producing an empty metric.
func TestReduceMetrics_UnrecognizedMetricType(t *testing.T) {
	record := buildSingleMetricRow(t, MetricType(9), nil, nil)

	_, err := ReduceMetrics(record, NewRelatedData())
	require.Error(t, err)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, KindUnrecognizedMetricType, de.Kind)
}

// TestReduceMetrics_HistogramReadsTemporality covers the MetricTypeHistogram
// dispatch branch.
func TestReduceMetrics_HistogramReadsTemporality(t *testing.T) {
	record := buildSingleMetricRow(t, MetricTypeHistogram, int32p(int32(pmetric.AggregationTemporalityDelta)), nil)

	request, err := ReduceMetrics(record, NewRelatedData())
	require.NoError(t, err)

	metric := request.Metrics().ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics().At(0)
	assert.Equal(t, pmetric.AggregationTemporalityDelta, metric.Histogram().AggregationTemporality())
}

// TestReduceMetrics_ExpHistogramReadsTemporality covers the
// MetricTypeExpHistogram dispatch branch.
func TestReduceMetrics_ExpHistogramReadsTemporality(t *testing.T) {
	record := buildSingleMetricRow(t, MetricTypeExpHistogram, int32p(int32(pmetric.AggregationTemporalityCumulative)), nil)

	request, err := ReduceMetrics(record, NewRelatedData())
	require.NoError(t, err)

	metric := request.Metrics().ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics().At(0)
	assert.Equal(t, pmetric.AggregationTemporalityCumulative, metric.ExponentialHistogram().AggregationTemporality())
}

// TestReduceMetrics_SummaryDispatch covers the MetricTypeSummary dispatch
// branch, which carries neither temporality nor monotonicity.
func TestReduceMetrics_SummaryDispatch(t *testing.T) {
	record := buildSingleMetricRow(t, MetricTypeSummary, nil, nil)

	request, err := ReduceMetrics(record, NewRelatedData())
	require.NoError(t, err)

	metric := request.Metrics().ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics().At(0)
	assert.Equal(t, pmetric.MetricTypeSummary, metric.Type())
	assert.Equal(t, 0, metric.Summary().DataPoints().Len())
}
