// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mz3

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/niftyimages/go-mz3/internal/streamio"
)

// Codec reads and writes a single MZ3 file through the host's four-phase
// protocol. A Codec services one file at a time through a strictly
// sequential sequence of operations (§5): call ReadInfo or WriteInfo first,
// then the phase methods in order, then Finalize. A zero-value Codec is
// ready to use. Distinct Codec values operate on distinct files without
// interference; a single value is not safe for concurrent use.
type Codec struct {
	path       string
	adapter    streamio.Adapter
	header     Header
	compressed bool
	writing    bool

	// vertexBuf holds vertex coordinates buffered during a compressed
	// write, between WritePoints and WriteCells (§9 "Deferred vertex
	// buffer"). nil outside of that window.
	vertexBuf []float32

	// cellTag is the host-supplied triangle-cell tag ReadCells emits as
	// the first element of each 5-tuple. Defaults to meshio.TriangleCell.
	cellTag uint32

	opts WriteOptions
}

// peekMagic reads the first two bytes of path without disturbing any other
// reader, to decide plain vs gzip (§3.3) or to answer CanRead (§4.2.1).
func peekMagic(path string) ([2]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [2]byte{}, err
	}
	defer f.Close()

	var buf [2]byte
	if _, err := f.Read(buf[:]); err != nil {
		return [2]byte{}, err
	}
	return buf, nil
}

func isGzip(b [2]byte) bool {
	return b == gzipMagic
}

// CanRead reports whether path can be read by this codec: it must exist,
// have a case-insensitive ".mz3" extension, and begin with either the MZ3
// magic or the gzip magic (§4.2.1). Any I/O failure yields false, not an
// error.
func CanRead(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".mz3") {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	b, err := peekMagic(path)
	if err != nil {
		return false
	}
	return (b[0] == magic[0] && b[1] == magic[1]) || isGzip(b)
}

// CanWrite reports whether path can be written by this codec: its
// extension must be ".mz3" (case-insensitive). No I/O is performed.
func CanWrite(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mz3")
}

// CanRead implements the meshio.Factory-facing predicate on a Codec value.
func (c *Codec) CanRead(path string) bool { return CanRead(path) }

// CanWrite implements the meshio.Factory-facing predicate on a Codec value.
func (c *Codec) CanWrite(path string) bool { return CanWrite(path) }

// Finalize closes the adapter, flushing a gzip writer's trailer if one is
// open. Finalize is idempotent: calling it twice, or calling it on a Codec
// that never opened a stream, is a no-op. After Finalize the Codec is
// reusable for another read or write sequence on a different file.
func (c *Codec) Finalize() error {
	if c.adapter == nil {
		return nil
	}
	a := c.adapter
	c.adapter = nil
	c.vertexBuf = nil
	return a.Close()
}
