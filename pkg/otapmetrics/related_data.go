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

import "github.com/apache/arrow/go/v12/arrow"

// RelatedData is the collection of auxiliary stores referenced by the main
// metrics table via reconstructed identifiers (C8). It lives only for the
// duration of one ConsumeBatches call and is drained destructively by the main
// metrics reducer (C9).
type RelatedData struct {
	ResourceAttrs *AttributeStore
	ScopeAttrs    *AttributeStore

	NumberDataPoints       *NumberDataPointStore
	SummaryDataPoints      *SummaryDataPointStore
	HistogramDataPoints    *HistogramDataPointStore
	ExpHistogramDataPoints *ExpHistogramDataPointStore

	metricID RunningSum
}

// AdvanceMetricID applies the next row's delta to the running metric-id
// sum and returns the reconstructed absolute id.
func (r *RelatedData) AdvanceMetricID(delta uint16) uint64 {
	return r.metricID.Add(uint64(delta))
}

// NewRelatedData creates an empty RelatedData with empty (not nil) data
// point stores, so a batch carrying no auxiliary tables for a given shape
// still drains cleanly to empty slices.
func NewRelatedData() *RelatedData {
	return &RelatedData{
		NumberDataPoints:       NewNumberDataPointStore(),
		SummaryDataPoints:      NewSummaryDataPointStore(),
		HistogramDataPoints:    NewHistogramDataPointStore(),
		ExpHistogramDataPoints: NewExpHistogramDataPointStore(),
	}
}

// BuildRelatedData walks messages exactly once to bucket them by payload
// type, then builds every auxiliary store honoring the required order:
// *ExemplarAttrs -> *Exemplars -> *DpAttrs -> *DataPoints. It returns the
// assembled RelatedData together with the main UnivariateMetrics record
// (not yet consumed -- C9 processes it).
func BuildRelatedData(messages []RecordMessage) (*RelatedData, arrow.Record, error) {
	byType := make(map[PayloadType]arrow.Record, len(messages))
	for _, m := range messages {
		byType[m.PayloadType] = m.Record
	}

	mainRecord, ok := byType[PayloadTypeUnivariateMetrics]
	if !ok {
		return nil, nil, metricRecordNotFoundErr()
	}

	related := NewRelatedData()

	if rec, ok := byType[PayloadTypeResourceAttrs]; ok {
		store, err := BuildAttributeStore(rec, 16)
		if err != nil {
			return nil, nil, err
		}
		related.ResourceAttrs = store
	}
	if rec, ok := byType[PayloadTypeScopeAttrs]; ok {
		store, err := BuildAttributeStore(rec, 16)
		if err != nil {
			return nil, nil, err
		}
		related.ScopeAttrs = store
	}

	// Pass 1: *DpExemplarAttrs (32-bit parent ids, keyed by exemplar id).
	numberExemplarAttrs, err := buildOptionalAttrs(byType, PayloadTypeNumberDpExemplarAttrs)
	if err != nil {
		return nil, nil, err
	}
	histogramExemplarAttrs, err := buildOptionalAttrs(byType, PayloadTypeHistogramDpExemplarAttrs)
	if err != nil {
		return nil, nil, err
	}
	expHistogramExemplarAttrs, err := buildOptionalAttrs(byType, PayloadTypeExpHistogramDpExemplarAttrs)
	if err != nil {
		return nil, nil, err
	}

	// Pass 2: *DpExemplars (32-bit parent ids, keyed by data point id).
	var numberExemplars, histogramExemplars, expHistogramExemplars *ExemplarStore
	if rec, ok := byType[PayloadTypeNumberDpExemplars]; ok {
		numberExemplars, err = BuildExemplarStore(rec, numberExemplarAttrs)
		if err != nil {
			return nil, nil, err
		}
	}
	if rec, ok := byType[PayloadTypeHistogramDpExemplars]; ok {
		histogramExemplars, err = BuildExemplarStore(rec, histogramExemplarAttrs)
		if err != nil {
			return nil, nil, err
		}
	}
	if rec, ok := byType[PayloadTypeExpHistogramDpExemplars]; ok {
		expHistogramExemplars, err = BuildExemplarStore(rec, expHistogramExemplarAttrs)
		if err != nil {
			return nil, nil, err
		}
	}

	// Pass 3: *DpAttrs (32-bit parent ids, keyed by data point id).
	numberDpAttrs, err := buildOptionalAttrs(byType, PayloadTypeNumberDpAttrs)
	if err != nil {
		return nil, nil, err
	}
	summaryDpAttrs, err := buildOptionalAttrs(byType, PayloadTypeSummaryDpAttrs)
	if err != nil {
		return nil, nil, err
	}
	histogramDpAttrs, err := buildOptionalAttrs(byType, PayloadTypeHistogramDpAttrs)
	if err != nil {
		return nil, nil, err
	}
	expHistogramDpAttrs, err := buildOptionalAttrs(byType, PayloadTypeExpHistogramDpAttrs)
	if err != nil {
		return nil, nil, err
	}

	// Pass 4: *DataPoints, joined against the exemplar and attribute
	// stores built above.
	if rec, ok := byType[PayloadTypeNumberDataPoints]; ok {
		related.NumberDataPoints, err = BuildNumberDataPointStore(rec, numberExemplars, numberDpAttrs)
		if err != nil {
			return nil, nil, err
		}
	}
	if rec, ok := byType[PayloadTypeSummaryDataPoints]; ok {
		related.SummaryDataPoints, err = BuildSummaryDataPointStore(rec, summaryDpAttrs)
		if err != nil {
			return nil, nil, err
		}
	}
	if rec, ok := byType[PayloadTypeHistogramDataPoints]; ok {
		related.HistogramDataPoints, err = BuildHistogramDataPointStore(rec, histogramExemplars, histogramDpAttrs)
		if err != nil {
			return nil, nil, err
		}
	}
	if rec, ok := byType[PayloadTypeExpHistogramDataPoints]; ok {
		related.ExpHistogramDataPoints, err = BuildExpHistogramDataPointStore(rec, expHistogramExemplars, expHistogramDpAttrs)
		if err != nil {
			return nil, nil, err
		}
	}

	return related, mainRecord, nil
}

func buildOptionalAttrs(byType map[PayloadType]arrow.Record, t PayloadType) (*AttributeStore, error) {
	rec, ok := byType[t]
	if !ok {
		return nil, nil
	}
	return BuildAttributeStore(rec, 32)
}
