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
	"fmt"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/werror"
)

// Kind classifies a DecodeError the way callers are expected to switch on
// it: by what went wrong, not by which component raised it.
type Kind int

const (
	// KindColumnNotFound mirrors arrowutils.ColumnNotFoundError.
	KindColumnNotFound Kind = iota
	// KindColumnDataTypeMismatch mirrors arrowutils.ColumnTypeMismatchError.
	KindColumnDataTypeMismatch
	KindUnsupportedPayloadType
	KindEmptyBatch
	KindBuildStreamReader
	KindReadRecordBatch
	KindInvalidQuantileType
	KindUnrecognizedMetricType
	KindEmptyMetricType
	KindMetricRecordNotFound
	KindMutuallyExclusiveColumns
)

func (k Kind) String() string {
	switch k {
	case KindColumnNotFound:
		return "ColumnNotFound"
	case KindColumnDataTypeMismatch:
		return "ColumnDataTypeMismatch"
	case KindUnsupportedPayloadType:
		return "UnsupportedPayloadType"
	case KindEmptyBatch:
		return "EmptyBatch"
	case KindBuildStreamReader:
		return "BuildStreamReader"
	case KindReadRecordBatch:
		return "ReadRecordBatch"
	case KindInvalidQuantileType:
		return "InvalidQuantileType"
	case KindUnrecognizedMetricType:
		return "UnrecognizedMetricType"
	case KindEmptyMetricType:
		return "EmptyMetricType"
	case KindMetricRecordNotFound:
		return "MetricRecordNotFound"
	case KindMutuallyExclusiveColumns:
		return "MutuallyExclusiveColumns"
	default:
		return "Unknown"
	}
}

// DecodeError is the single error type the decoder raises. Kind selects
// the taxonomy bucket; Context carries the raiser-supplied detail (column
// name, payload type integer, and so on). cause, when set, is the
// werror-wrapped error this DecodeError was normalized from (or raised
// alongside); Unwrap exposes it so errors.As can still reach the
// werror.Wrapper underneath for its file/line/function.
type DecodeError struct {
	Kind    Kind
	Message string
	Context map[string]interface{}
	cause   error
}

func (e *DecodeError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, otapmetrics.ErrEmptyBatch) style sentinels work
// against the Kind regardless of the detail carried alongside it.
func (e *DecodeError) Is(target error) bool {
	var other *DecodeError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// Unwrap exposes the werror-wrapped cause, if any, so
// errors.As(err, &werror.Wrapper{}) and friends can still walk past a
// DecodeError to the location it was raised at.
func (e *DecodeError) Unwrap() error {
	return e.cause
}

func newErr(kind Kind, msg string, ctx map[string]interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Message: msg, Context: ctx}
}

// Sentinel instances usable with errors.Is, one per Kind that carries no
// per-occurrence detail. These are Kind templates for comparison, not
// themselves raised — raise sites build their own instance via the
// matching werror-wrapped constructor below so the error chain records
// where it was actually raised.
var (
	ErrEmptyBatch           = newErr(KindEmptyBatch, "arrow_payloads is empty", nil)
	ErrMetricRecordNotFound = newErr(KindMetricRecordNotFound, "no UnivariateMetrics payload in batch", nil)
	ErrEmptyMetricType      = newErr(KindEmptyMetricType, "metric_type is 0", nil)
)

func emptyBatchErr() error {
	de := newErr(KindEmptyBatch, "arrow_payloads is empty", nil)
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func metricRecordNotFoundErr() error {
	de := newErr(KindMetricRecordNotFound, "no UnivariateMetrics payload in batch", nil)
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func emptyMetricTypeErr() error {
	de := newErr(KindEmptyMetricType, "metric_type is 0", nil)
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func unsupportedPayloadType(actual int32) error {
	de := newErr(KindUnsupportedPayloadType, fmt.Sprintf("payload type %d", actual), map[string]interface{}{"type": actual})
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func buildStreamReaderErr(schemaID string, cause error) error {
	de := newErr(KindBuildStreamReader, fmt.Sprintf("schema %q: %v", schemaID, cause), map[string]interface{}{"schema_id": schemaID})
	de.cause = werror.Wrap(cause)
	return de
}

func readRecordBatchErr(schemaID string, cause error) error {
	de := newErr(KindReadRecordBatch, fmt.Sprintf("schema %q: %v", schemaID, cause), map[string]interface{}{"schema_id": schemaID})
	de.cause = werror.Wrap(cause)
	return de
}

func invalidQuantileType(msg string) error {
	de := newErr(KindInvalidQuantileType, msg, nil)
	de.cause = werror.Wrap(errors.New(msg))
	return de
}

func errTypeMismatchList(name, expected string) error {
	de := newErr(KindColumnDataTypeMismatch, fmt.Sprintf("column %q: expected list<%s>", name, expected), map[string]interface{}{"column": name})
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func mutuallyExclusiveColumns(a, b string) error {
	de := newErr(KindMutuallyExclusiveColumns, fmt.Sprintf("%s and %s both present", a, b), map[string]interface{}{"a": a, "b": b})
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

func unrecognizedMetricType(v int32) error {
	de := newErr(KindUnrecognizedMetricType, fmt.Sprintf("metric_type %d", v), map[string]interface{}{"metric_type": v})
	de.cause = werror.Wrap(errors.New(de.Message))
	return de
}

// asDecodeError normalizes a column-accessor failure (ColumnNotFoundError /
// ColumnTypeMismatchError, already werror-wrapped at its raise site in
// arrowutils) into the decoder's own taxonomy so callers never need to
// know about the arrowutils package. The incoming chain is kept as the
// returned DecodeError's cause rather than discarded, so the original
// file/line/function the werror.Wrapper captured is still reachable
// through Unwrap.
func asDecodeError(err error) error {
	if err == nil {
		return nil
	}
	var notFound *arrowutils.ColumnNotFoundError
	if errors.As(err, &notFound) {
		de := newErr(KindColumnNotFound, notFound.Error(), map[string]interface{}{"column": notFound.Name})
		de.cause = err
		return de
	}
	var mismatch *arrowutils.ColumnTypeMismatchError
	if errors.As(err, &mismatch) {
		de := newErr(KindColumnDataTypeMismatch, mismatch.Error(), map[string]interface{}{
			"column":   mismatch.Name,
			"expected": mismatch.Expected,
			"actual":   mismatch.Actual,
		})
		de.cause = err
		return de
	}
	return err
}
