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
	"bytes"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"go.uber.org/zap"

	"github.com/open-telemetry/otel-arrow-otap-decoder/pkg/arrowutils"
)

// schemaReader pairs one Arrow IPC stream reader with the rewritable byte
// cursor it was constructed over, so the consumer can swap in a new
// payload's bytes between pulls without losing the schema the reader
// already learned (C6).
type schemaReader struct {
	payloadType PayloadType
	cursor      *bytes.Reader
	reader      *ipc.Reader
}

func (s *schemaReader) release() {
	if s.reader != nil {
		s.reader.Release()
	}
}

// streamDecoderPool is the schema-keyed, long-lived decoder pool: one
// Arrow IPC stream reader per schema id.
type streamDecoderPool struct {
	readers  map[string]*schemaReader
	memLimit uint64
	logger   *zap.Logger
}

func newStreamDecoderPool(memLimit uint64, logger *zap.Logger) *streamDecoderPool {
	return &streamDecoderPool{
		readers:  make(map[string]*schemaReader),
		memLimit: memLimit,
		logger:   logger,
	}
}

// pull feeds payload's bytes through the reader for schemaID, creating or
// evicting readers as required, and returns exactly one record batch (or
// nil if the stream yielded end-of-stream for this payload).
func (p *streamDecoderPool) pull(schemaID string, payloadType PayloadType, payload []byte) (arrow.Record, error) {
	sr, ok := p.readers[schemaID]
	if !ok {
		p.evictByPayloadType(payloadType)

		cursor := bytes.NewReader(payload)
		allocator := arrowutils.NewLimitedAllocator(memory.NewGoAllocator(), p.memLimit)
		reader, err := ipc.NewReader(cursor, ipc.WithAllocator(allocator), ipc.WithDictionaryDeltas(true))
		if err != nil {
			return nil, buildStreamReaderErr(schemaID, err)
		}

		sr = &schemaReader{payloadType: payloadType, cursor: cursor, reader: reader}
		p.readers[schemaID] = sr
	} else {
		sr.cursor.Reset(payload)
	}

	if !sr.reader.Next() {
		if err := sr.reader.Err(); err != nil && err != io.EOF {
			return nil, readRecordBatchErr(schemaID, err)
		}
		p.logger.Warn("stream reader reached end-of-stream mid-batch; payload dropped",
			zap.String("schema_id", schemaID), zap.Stringer("payload_type", payloadType))
		return nil, nil
	}

	return sr.reader.Record(), nil
}

// evictByPayloadType drops every reader sharing payloadType: the producer
// regenerates schema ids when a table's schema changes and stops sending
// the old one, so holding onto the old reader only wastes memory.
func (p *streamDecoderPool) evictByPayloadType(payloadType PayloadType) {
	for schemaID, sr := range p.readers {
		if sr.payloadType == payloadType {
			p.logger.Debug("evicting stream reader on schema change",
				zap.String("schema_id", schemaID), zap.Stringer("payload_type", payloadType))
			sr.release()
			delete(p.readers, schemaID)
		}
	}
}

func (p *streamDecoderPool) close() {
	for schemaID, sr := range p.readers {
		sr.release()
		delete(p.readers, schemaID)
	}
}
