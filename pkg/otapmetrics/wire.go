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

// ArrowPayload is one column-table fragment inside a BatchArrowRecords
// message: an Arrow IPC stream chunk tagged with the schema it belongs to
// and the table's role.
type ArrowPayload struct {
	SchemaID string
	Type     int32
	Record   []byte
}

// BatchArrowRecords is the input unit handed to ConsumeBatches: an ordered
// sequence of ArrowPayload, the first of which names the batch's main
// payload type.
type BatchArrowRecords struct {
	BatchID       int64
	ArrowPayloads []ArrowPayload
}

// RecordMessage is the internal tuple produced by the stream decoder (C6)
// and consumed exactly once by the related-data assembler (C8) or the
// main metrics reducer (C9).
type RecordMessage struct {
	BatchID     int64
	SchemaID    string
	PayloadType PayloadType
	Record      arrow.Record
}
