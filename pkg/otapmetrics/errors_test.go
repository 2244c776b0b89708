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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/werror"
)

func TestDecodeError_Is(t *testing.T) {
	err := unsupportedPayloadType(4)
	assert.True(t, errors.Is(err, &DecodeError{Kind: KindUnsupportedPayloadType}))
	assert.False(t, errors.Is(err, ErrEmptyBatch))
	assert.True(t, errors.Is(ErrEmptyBatch, ErrEmptyBatch))
}

func TestAsDecodeError_NormalizesColumnNotFound(t *testing.T) {
	var notFoundErr error = &arrowutils.ColumnNotFoundError{Name: "missing"}
	wrapped := werror.Wrap(notFoundErr)

	decoded := asDecodeError(wrapped)
	var de *DecodeError
	require.ErrorAs(t, decoded, &de)
	assert.Equal(t, KindColumnNotFound, de.Kind)
}

func TestAsDecodeError_NormalizesTypeMismatch(t *testing.T) {
	var mismatchErr error = &arrowutils.ColumnTypeMismatchError{Name: "count", Expected: "int64", Actual: "float64"}
	wrapped := werror.Wrap(mismatchErr)

	decoded := asDecodeError(wrapped)
	var de *DecodeError
	require.ErrorAs(t, decoded, &de)
	assert.Equal(t, KindColumnDataTypeMismatch, de.Kind)
}

func TestAsDecodeError_PassesThroughUnrelatedErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Equal(t, plain, asDecodeError(plain))
}

func TestAsDecodeError_Nil(t *testing.T) {
	assert.Nil(t, asDecodeError(nil))
}
