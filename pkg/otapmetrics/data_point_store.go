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

import "go.opentelemetry.io/collector/pdata/pmetric"

// NumberDataPointStore buckets NumberDataPoints by owning metric id (C4).
type NumberDataPointStore struct {
	byMetricID map[uint64]pmetric.NumberDataPointSlice
}

func NewNumberDataPointStore() *NumberDataPointStore {
	return &NumberDataPointStore{byMetricID: make(map[uint64]pmetric.NumberDataPointSlice)}
}

func (s *NumberDataPointStore) bucket(metricID uint64) pmetric.NumberDataPointSlice {
	slice, ok := s.byMetricID[metricID]
	if !ok {
		slice = pmetric.NewNumberDataPointSlice()
		s.byMetricID[metricID] = slice
	}
	return slice
}

// Drain removes and returns the data points collected for metricID.
func (s *NumberDataPointStore) Drain(metricID uint64) pmetric.NumberDataPointSlice {
	if slice, ok := s.byMetricID[metricID]; ok {
		delete(s.byMetricID, metricID)
		return slice
	}
	return pmetric.NewNumberDataPointSlice()
}

// SummaryDataPointStore buckets SummaryDataPoints by owning metric id.
type SummaryDataPointStore struct {
	byMetricID map[uint64]pmetric.SummaryDataPointSlice
}

func NewSummaryDataPointStore() *SummaryDataPointStore {
	return &SummaryDataPointStore{byMetricID: make(map[uint64]pmetric.SummaryDataPointSlice)}
}

func (s *SummaryDataPointStore) bucket(metricID uint64) pmetric.SummaryDataPointSlice {
	slice, ok := s.byMetricID[metricID]
	if !ok {
		slice = pmetric.NewSummaryDataPointSlice()
		s.byMetricID[metricID] = slice
	}
	return slice
}

func (s *SummaryDataPointStore) Drain(metricID uint64) pmetric.SummaryDataPointSlice {
	if slice, ok := s.byMetricID[metricID]; ok {
		delete(s.byMetricID, metricID)
		return slice
	}
	return pmetric.NewSummaryDataPointSlice()
}

// HistogramDataPointStore buckets HistogramDataPoints by owning metric id.
type HistogramDataPointStore struct {
	byMetricID map[uint64]pmetric.HistogramDataPointSlice
}

func NewHistogramDataPointStore() *HistogramDataPointStore {
	return &HistogramDataPointStore{byMetricID: make(map[uint64]pmetric.HistogramDataPointSlice)}
}

func (s *HistogramDataPointStore) bucket(metricID uint64) pmetric.HistogramDataPointSlice {
	slice, ok := s.byMetricID[metricID]
	if !ok {
		slice = pmetric.NewHistogramDataPointSlice()
		s.byMetricID[metricID] = slice
	}
	return slice
}

func (s *HistogramDataPointStore) Drain(metricID uint64) pmetric.HistogramDataPointSlice {
	if slice, ok := s.byMetricID[metricID]; ok {
		delete(s.byMetricID, metricID)
		return slice
	}
	return pmetric.NewHistogramDataPointSlice()
}

// ExpHistogramDataPointStore buckets ExponentialHistogramDataPoints by
// owning metric id.
type ExpHistogramDataPointStore struct {
	byMetricID map[uint64]pmetric.ExponentialHistogramDataPointSlice
}

func NewExpHistogramDataPointStore() *ExpHistogramDataPointStore {
	return &ExpHistogramDataPointStore{byMetricID: make(map[uint64]pmetric.ExponentialHistogramDataPointSlice)}
}

func (s *ExpHistogramDataPointStore) bucket(metricID uint64) pmetric.ExponentialHistogramDataPointSlice {
	slice, ok := s.byMetricID[metricID]
	if !ok {
		slice = pmetric.NewExponentialHistogramDataPointSlice()
		s.byMetricID[metricID] = slice
	}
	return slice
}

func (s *ExpHistogramDataPointStore) Drain(metricID uint64) pmetric.ExponentialHistogramDataPointSlice {
	if slice, ok := s.byMetricID[metricID]; ok {
		delete(s.byMetricID, metricID)
		return slice
	}
	return pmetric.NewExponentialHistogramDataPointSlice()
}
