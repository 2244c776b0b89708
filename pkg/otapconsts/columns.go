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

// Package otapconsts holds the fixed column-name vocabulary that producers
// and consumers of OTAP record batches must agree on exactly.
package otapconsts

const (
	ID       = "id"
	ParentID = "parent_id"

	Resource = "resource"
	Scope    = "scope"

	SchemaURL               = "schema_url"
	Name                    = "name"
	Version                 = "version"
	Description             = "description"
	Unit                    = "unit"
	MetricType              = "metric_type"
	AggregationTemporality  = "aggregation_temporality"
	IsMonotonic             = "is_monotonic"
	DroppedAttributesCount  = "dropped_attributes_count"

	TimeUnixNano      = "time_unix_nano"
	StartTimeUnixNano = "start_time_unix_nano"
	IntValue          = "int_value"
	DoubleValue       = "double_value"
	Flags             = "flags"

	Quantile      = "quantile"
	QuantileValue = "value"

	Count          = "count"
	Sum            = "sum"
	BucketCounts   = "bucket_counts"
	ExplicitBounds = "explicit_bounds"
	Min            = "min"
	Max            = "max"
	Scale          = "scale"
	ZeroCount      = "zero_count"
	Positive       = "positive"
	Negative       = "negative"
	Offset         = "offset"

	SpanID  = "span_id"
	TraceID = "trace_id"

	Key    = "key"
	Type   = "type"
	Str    = "str"
	Int    = "int"
	Double = "double"
	Bool   = "bool"
	Bytes  = "bytes"
	Ser    = "ser"
)
