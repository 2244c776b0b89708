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

// PayloadType is the closed tag set identifying each table's role inside a
// BatchArrowRecords message.
type PayloadType int32

const (
	PayloadTypeUnknown PayloadType = iota
	PayloadTypeResourceAttrs
	PayloadTypeScopeAttrs
	PayloadTypeUnivariateMetrics
	PayloadTypeMultivariateMetrics
	PayloadTypeNumberDataPoints
	PayloadTypeSummaryDataPoints
	PayloadTypeHistogramDataPoints
	PayloadTypeExpHistogramDataPoints
	PayloadTypeNumberDpAttrs
	PayloadTypeSummaryDpAttrs
	PayloadTypeHistogramDpAttrs
	PayloadTypeExpHistogramDpAttrs
	PayloadTypeNumberDpExemplars
	PayloadTypeHistogramDpExemplars
	PayloadTypeExpHistogramDpExemplars
	PayloadTypeNumberDpExemplarAttrs
	PayloadTypeHistogramDpExemplarAttrs
	PayloadTypeExpHistogramDpExemplarAttrs
	PayloadTypeLogs
	PayloadTypeLogAttrs
	PayloadTypeSpans
	PayloadTypeSpanAttrs
	PayloadTypeSpanEvents
	PayloadTypeSpanLinks
	PayloadTypeSpanEventAttrs
	PayloadTypeSpanLinkAttrs

	payloadTypeCount
)

var payloadTypeNames = [...]string{
	"Unknown", "ResourceAttrs", "ScopeAttrs", "UnivariateMetrics", "MultivariateMetrics",
	"NumberDataPoints", "SummaryDataPoints", "HistogramDataPoints", "ExpHistogramDataPoints",
	"NumberDpAttrs", "SummaryDpAttrs", "HistogramDpAttrs", "ExpHistogramDpAttrs",
	"NumberDpExemplars", "HistogramDpExemplars", "ExpHistogramDpExemplars",
	"NumberDpExemplarAttrs", "HistogramDpExemplarAttrs", "ExpHistogramDpExemplarAttrs",
	"Logs", "LogAttrs", "Spans", "SpanAttrs", "SpanEvents", "SpanLinks", "SpanEventAttrs", "SpanLinkAttrs",
}

func (t PayloadType) String() string {
	if t < 0 || int(t) >= len(payloadTypeNames) {
		return "Invalid"
	}
	return payloadTypeNames[t]
}

// ParsePayloadType validates a wire-level integer against the closed tag
// set, returning UnsupportedPayloadType for anything outside it.
func ParsePayloadType(v int32) (PayloadType, error) {
	if v < 0 || PayloadType(v) >= payloadTypeCount {
		return PayloadTypeUnknown, unsupportedPayloadType(v)
	}
	return PayloadType(v), nil
}
