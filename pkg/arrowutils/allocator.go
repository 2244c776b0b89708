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

package arrowutils

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow/memory"
)

// LimitedAllocator wraps a memory.Allocator and panics once the number of
// bytes in use would exceed limit. The IPC reader recovers panics raised
// from its own allocator calls and turns them into plain errors, so this
// is the mechanism by which a pathological or malicious schema is kept
// from exhausting process memory.
type LimitedAllocator struct {
	Allocator memory.Allocator
	inuse     uint64
	limit     uint64
}

// NewLimitedAllocator wraps allocator with a hard ceiling of limit bytes.
func NewLimitedAllocator(allocator memory.Allocator, limit uint64) *LimitedAllocator {
	return &LimitedAllocator{Allocator: allocator, limit: limit}
}

var _ memory.Allocator = &LimitedAllocator{}

// LimitError reports that an allocation would exceed the configured limit.
type LimitError struct {
	Request uint64
	Inuse   uint64
	Limit   uint64
}

func (e LimitError) Error() string {
	return fmt.Sprintf("allocation size exceeds limit: requested %d out of %d (in-use=%d)", e.Request, e.Limit, e.Inuse)
}

// Inuse reports the current number of bytes allocated through this
// allocator.
func (l *LimitedAllocator) Inuse() uint64 {
	return l.inuse
}

func (l *LimitedAllocator) Allocate(size int) []byte {
	change := uint64(size)
	if l.inuse+change > l.limit {
		panic(LimitError{Request: change, Inuse: l.inuse, Limit: l.limit})
	}
	res := l.Allocator.Allocate(size)
	l.inuse += change
	return res
}

func (l *LimitedAllocator) Reallocate(size int, b []byte) []byte {
	change := uint64(size - len(b))
	if l.inuse+change > l.limit {
		panic(LimitError{Request: change, Inuse: l.inuse, Limit: l.limit})
	}
	res := l.Allocator.Reallocate(size, b)
	l.inuse += change
	return res
}

func (l *LimitedAllocator) Free(b []byte) {
	l.Allocator.Free(b)
	l.inuse -= uint64(len(b))
}
