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

	"github.com/stretchr/testify/assert"
)

func TestNumberDataPointStore_DrainIsDestructive(t *testing.T) {
	s := NewNumberDataPointStore()
	s.bucket(42).AppendEmpty().SetIntValue(7)

	first := s.Drain(42)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, int64(7), first.At(0).IntValue())

	second := s.Drain(42)
	assert.Equal(t, 0, second.Len())
}

func TestNumberDataPointStore_DrainAbsentMetricReturnsEmpty(t *testing.T) {
	s := NewNumberDataPointStore()
	slice := s.Drain(999)
	assert.Equal(t, 0, slice.Len())
}

func TestHistogramDataPointStore_SeparateMetricsDoNotShareBuckets(t *testing.T) {
	s := NewHistogramDataPointStore()
	s.bucket(1).AppendEmpty().SetCount(1)
	s.bucket(2).AppendEmpty().SetCount(2)
	s.bucket(2).AppendEmpty().SetCount(3)

	assert.Equal(t, 1, s.Drain(1).Len())
	assert.Equal(t, 2, s.Drain(2).Len())
}
