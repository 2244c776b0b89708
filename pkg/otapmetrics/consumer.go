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

// Package otapmetrics decodes OpenTelemetry-Arrow (OTAP) metrics batches
// into the OTLP in-memory metrics export request.
package otapmetrics

import (
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"
	"go.uber.org/zap"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/werror"
)

const defaultMemLimit = 20 << 20

// ConsumerOption configures a Consumer at construction time.
type ConsumerOption func(*Consumer)

// WithLogger attaches a zap logger the consumer uses for operability
// events that are not decode failures (stream end-of-stream, reader
// eviction).
func WithLogger(logger *zap.Logger) ConsumerOption {
	return func(c *Consumer) { c.logger = logger }
}

// WithMemoryLimit bounds how many bytes of Arrow buffers any one schema's
// IPC reader may hold at once.
func WithMemoryLimit(limit uint64) ConsumerOption {
	return func(c *Consumer) { c.memLimit = limit }
}

// Consumer is a BatchArrowRecords consumer (C7). It is single-threaded and
// cooperative: one instance is owned by one caller at a time. Its only
// persistent state across calls is the schema-keyed stream decoder pool,
// which exists to carry learned IPC schemas forward.
type Consumer struct {
	pool     *streamDecoderPool
	logger   *zap.Logger
	memLimit uint64
}

// NewConsumer creates a Consumer ready to decode UnivariateMetrics
// batches.
func NewConsumer(opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		logger:   zap.NewNop(),
		memLimit: defaultMemLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pool = newStreamDecoderPool(c.memLimit, c.logger)
	return c
}

// Close releases every stream reader still held by the consumer.
func (c *Consumer) Close() error {
	c.pool.close()
	return nil
}

// ConsumeBatches decodes one BatchArrowRecords message into an OTLP
// ExportMetricsServiceRequest (C7 + C8 + C9). Only UnivariateMetrics main
// payloads are supported; Logs, Spans, and any other main type fail with
// UnsupportedPayloadType.
func (c *Consumer) ConsumeBatches(bar BatchArrowRecords) (pmetricotlp.ExportRequest, error) {
	if len(bar.ArrowPayloads) == 0 {
		return pmetricotlp.ExportRequest{}, emptyBatchErr()
	}

	mainType, err := ParsePayloadType(bar.ArrowPayloads[0].Type)
	if err != nil {
		return pmetricotlp.ExportRequest{}, err
	}
	if mainType != PayloadTypeUnivariateMetrics {
		return pmetricotlp.ExportRequest{}, unsupportedPayloadType(int32(mainType))
	}

	messages, err := c.decodeMessages(bar)
	if err != nil {
		return pmetricotlp.ExportRequest{}, err
	}

	related, mainRecord, err := BuildRelatedData(messages)
	if err != nil {
		return pmetricotlp.ExportRequest{}, err
	}

	request, err := ReduceMetrics(mainRecord, related)
	if err != nil {
		return pmetricotlp.ExportRequest{}, werror.Wrap(err)
	}
	return request, nil
}

// decodeMessages runs every payload in the batch through the stream
// decoder pool, preserving producer order, and tags each resulting record
// batch into a RecordMessage.
func (c *Consumer) decodeMessages(bar BatchArrowRecords) ([]RecordMessage, error) {
	messages := make([]RecordMessage, 0, len(bar.ArrowPayloads))

	for _, payload := range bar.ArrowPayloads {
		payloadType, err := ParsePayloadType(payload.Type)
		if err != nil {
			return nil, err
		}

		record, err := c.pool.pull(payload.SchemaID, payloadType, payload.Record)
		if err != nil {
			return nil, werror.WrapWithContext(err, map[string]interface{}{
				"schema_id":    payload.SchemaID,
				"payload_type": payloadType.String(),
			})
		}
		if record == nil {
			continue
		}

		messages = append(messages, RecordMessage{
			BatchID:     bar.BatchID,
			SchemaID:    payload.SchemaID,
			PayloadType: payloadType,
			Record:      record,
		})
	}

	return messages, nil
}
