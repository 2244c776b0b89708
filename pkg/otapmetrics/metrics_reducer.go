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
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/otapconsts"
)

// MetricType enumerates the closed tag set of the main table's
// metric_type column.
type MetricType int32

const (
	MetricTypeEmpty MetricType = iota
	MetricTypeGauge
	MetricTypeSum
	MetricTypeHistogram
	MetricTypeExpHistogram
	MetricTypeSummary
)

// ReduceMetrics is the main metrics reducer (C9): it walks record (the
// UnivariateMetrics table) row by row and emits the OTLP export request,
// draining related's auxiliary stores as it goes.
func ReduceMetrics(record arrow.Record, related *RelatedData) (pmetricotlp.ExportRequest, error) {
	defer record.Release()

	request := pmetricotlp.NewExportRequest()
	metrics := request.Metrics()
	src := arrowutils.RecordSource(record)

	var resSum, scopeSum RunningSum
	var prevResID, prevScopeID *uint64
	var currentResource pmetric.ResourceMetrics
	var currentScope pmetric.ScopeMetrics

	rows := int(record.NumRows())
	for i := 0; i < rows; i++ {
		resourceSrc, err := arrowutils.RequiredStruct(src, otapconsts.Resource, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		scopeSrc, err := arrowutils.RequiredStruct(src, otapconsts.Scope, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}

		resDelta, err := structUint16(resourceSrc, otapconsts.ID, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		resID := resSum.Add(uint64(resDelta))

		if prevResID == nil || *prevResID != resID {
			currentResource = metrics.ResourceMetrics().AppendEmpty()
			if resourceSrc != nil {
				if dac, err := arrowutils.RequiredUint32(resourceSrc, otapconsts.DroppedAttributesCount, i); err != nil {
					return pmetricotlp.ExportRequest{}, asDecodeError(err)
				} else {
					currentResource.Resource().SetDroppedAttributesCount(dac)
				}
				if schemaURL, err := arrowutils.RequiredString(resourceSrc, otapconsts.SchemaURL, i); err != nil {
					return pmetricotlp.ExportRequest{}, asDecodeError(err)
				} else {
					currentResource.SetSchemaUrl(schemaURL)
				}
			}
			if related.ResourceAttrs != nil {
				if m := related.ResourceAttrs.AttributesByID(resID); m != nil {
					m.CopyTo(currentResource.Resource().Attributes())
				}
			}
			id := resID
			prevResID = &id
			prevScopeID = nil
		}

		scopeDelta, err := structUint16(scopeSrc, otapconsts.ID, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		scopeID := scopeSum.Add(uint64(scopeDelta))

		if prevScopeID == nil || *prevScopeID != scopeID {
			currentScope = currentResource.ScopeMetrics().AppendEmpty()
			if scopeSrc != nil {
				if name, err := arrowutils.RequiredString(scopeSrc, otapconsts.Name, i); err != nil {
					return pmetricotlp.ExportRequest{}, asDecodeError(err)
				} else {
					currentScope.Scope().SetName(name)
				}
				if version, err := arrowutils.RequiredString(scopeSrc, otapconsts.Version, i); err != nil {
					return pmetricotlp.ExportRequest{}, asDecodeError(err)
				} else {
					currentScope.Scope().SetVersion(version)
				}
				if dac, err := arrowutils.RequiredUint32(scopeSrc, otapconsts.DroppedAttributesCount, i); err != nil {
					return pmetricotlp.ExportRequest{}, asDecodeError(err)
				} else {
					currentScope.Scope().SetDroppedAttributesCount(dac)
				}
			}
			if related.ScopeAttrs != nil {
				if m := related.ScopeAttrs.AttributesByID(scopeID); m != nil {
					m.CopyTo(currentScope.Scope().Attributes())
				}
			}
			if schemaURL, err := arrowutils.RequiredString(src, otapconsts.SchemaURL, i); err != nil {
				return pmetricotlp.ExportRequest{}, asDecodeError(err)
			} else {
				currentScope.SetSchemaUrl(schemaURL)
			}
			id := scopeID
			prevScopeID = &id
		}

		metricIDDelta, err := arrowutils.RequiredUint16(src, otapconsts.ID, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		metricID := related.AdvanceMetricID(metricIDDelta)

		metric := currentScope.Metrics().AppendEmpty()

		name, err := arrowutils.RequiredString(src, otapconsts.Name, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		metric.SetName(name)

		description, err := arrowutils.RequiredString(src, otapconsts.Description, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		metric.SetDescription(description)

		unit, err := arrowutils.RequiredString(src, otapconsts.Unit, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}
		metric.SetUnit(unit)

		rawType, err := arrowutils.RequiredUint8(src, otapconsts.MetricType, i)
		if err != nil {
			return pmetricotlp.ExportRequest{}, asDecodeError(err)
		}

		if err := populateMetricData(src, i, MetricType(rawType), metric, related, metricID); err != nil {
			return pmetricotlp.ExportRequest{}, err
		}
	}

	return request, nil
}

// structUint16 reads a uint16 column from a (possibly nil) nested struct
// source, returning 0 when the struct itself is null -- a null resource or
// scope struct contributes delta zero, same as a null id cell would.
func structUint16(src arrowutils.FieldSource, name string, row int) (uint16, error) {
	if src == nil {
		return 0, nil
	}
	return arrowutils.RequiredUint16(src, name, row)
}

func populateMetricData(src arrowutils.FieldSource, row int, metricType MetricType, metric pmetric.Metric, related *RelatedData, metricID uint64) error {
	switch metricType {
	case MetricTypeEmpty:
		return emptyMetricTypeErr()
	case MetricTypeGauge:
		related.NumberDataPoints.Drain(metricID).MoveAndAppendTo(metric.SetEmptyGauge().DataPoints())
	case MetricTypeSum:
		sum := metric.SetEmptySum()
		if err := setTemporalityAndMonotonicity(src, row, sum); err != nil {
			return err
		}
		related.NumberDataPoints.Drain(metricID).MoveAndAppendTo(sum.DataPoints())
	case MetricTypeHistogram:
		hist := metric.SetEmptyHistogram()
		temporality, err := arrowutils.RequiredInt32(src, otapconsts.AggregationTemporality, row)
		if err != nil {
			return asDecodeError(err)
		}
		hist.SetAggregationTemporality(pmetric.AggregationTemporality(temporality))
		related.HistogramDataPoints.Drain(metricID).MoveAndAppendTo(hist.DataPoints())
	case MetricTypeExpHistogram:
		hist := metric.SetEmptyExponentialHistogram()
		temporality, err := arrowutils.RequiredInt32(src, otapconsts.AggregationTemporality, row)
		if err != nil {
			return asDecodeError(err)
		}
		hist.SetAggregationTemporality(pmetric.AggregationTemporality(temporality))
		related.ExpHistogramDataPoints.Drain(metricID).MoveAndAppendTo(hist.DataPoints())
	case MetricTypeSummary:
		related.SummaryDataPoints.Drain(metricID).MoveAndAppendTo(metric.SetEmptySummary().DataPoints())
	default:
		return unrecognizedMetricType(int32(metricType))
	}
	return nil
}

func setTemporalityAndMonotonicity(src arrowutils.FieldSource, row int, sum pmetric.Sum) error {
	temporality, err := arrowutils.RequiredInt32(src, otapconsts.AggregationTemporality, row)
	if err != nil {
		return asDecodeError(err)
	}
	sum.SetAggregationTemporality(pmetric.AggregationTemporality(temporality))

	monotonic, err := arrowutils.RequiredBool(src, otapconsts.IsMonotonic, row)
	if err != nil {
		return asDecodeError(err)
	}
	sum.SetIsMonotonic(monotonic)
	return nil
}
