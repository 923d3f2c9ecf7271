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

package streamio

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
)

// OpenGzipRead opens path, verifies it begins with a valid gzip header and
// returns an Adapter over its decompressed contents; errors later in the
// compressed data surface from ReadFull or the seeks. Seeks are forward-only:
// the underlying flate stream cannot rewind, matching §4.1 of the format
// ("gzip rewind is not required and never invoked").
func OpenGzipRead(path string) (Adapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", errStreamio, path, err)
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: gzip header %q: %w", errStreamio, path, err)
	}
	return &gzipReadAdapter{f: f, z: zr}, nil
}

// OpenGzipWrite creates (or truncates) path and returns an Adapter that emits
// a standard gzip stream (RFC 1952 framing, CRC-32 + ISIZE trailer) as bytes
// are written to it.
func OpenGzipWrite(path string) (Adapter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %w", errStreamio, path, err)
	}
	zw := pgzip.NewWriter(f)
	return &gzipWriteAdapter{f: f, z: zw}, nil
}

// gzipReadAdapter decompresses path through pgzip and tracks a logical
// cursor so SeekAbs/SeekRel can be satisfied by discarding bytes forward.
type gzipReadAdapter struct {
	f      *os.File
	z      *pgzip.Reader
	cursor int64
	closed bool
}

func (g *gzipReadAdapter) ReadFull(buf []byte) error {
	n, err := io.ReadFull(g.z, buf)
	g.cursor += int64(n)
	if err != nil {
		log.Tracef("gzip ReadFull: read %d of %d bytes at cursor %d: %v", n, len(buf), g.cursor, err)
		return fmt.Errorf("%w: %w", ErrShortRead, err)
	}
	return nil
}

func (g *gzipReadAdapter) Write([]byte) error {
	return fmt.Errorf("%w: write on read-only gzip adapter", errStreamio)
}

func (g *gzipReadAdapter) SeekAbs(offset int64) error {
	return g.discardTo(offset)
}

func (g *gzipReadAdapter) SeekRel(offset int64) error {
	return g.discardTo(g.cursor + offset)
}

// discardTo advances the logical cursor to target by reading and dropping
// the bytes in between. It cannot move backward.
func (g *gzipReadAdapter) discardTo(target int64) error {
	if target < g.cursor {
		return fmt.Errorf("%w: at %d, requested %d", ErrBackwardSeek, g.cursor, target)
	}
	n, err := io.CopyN(io.Discard, g.z, target-g.cursor)
	g.cursor += n
	if err != nil {
		return fmt.Errorf("%w: discard to %d: %w", errStreamio, target, err)
	}
	return nil
}

func (g *gzipReadAdapter) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	zerr := g.z.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return fmt.Errorf("%w: close gzip: %w", errStreamio, zerr)
	}
	if ferr != nil {
		return fmt.Errorf("%w: close file: %w", errStreamio, ferr)
	}
	return nil
}

// gzipWriteAdapter streams writes through pgzip sequentially. The MZ3 write
// protocol never needs to seek a gzip output: vertex data is buffered by the
// codec and emitted in order (see the mz3 Codec's deferred vertex buffer), so
// SeekAbs/SeekRel are simply refused here.
type gzipWriteAdapter struct {
	f      *os.File
	z      *pgzip.Writer
	closed bool
}

func (g *gzipWriteAdapter) ReadFull([]byte) error {
	return fmt.Errorf("%w: read on write-only gzip adapter", errStreamio)
}

func (g *gzipWriteAdapter) Write(buf []byte) error {
	if _, err := g.z.Write(buf); err != nil {
		return fmt.Errorf("%w: write: %w", errStreamio, err)
	}
	return nil
}

func (g *gzipWriteAdapter) SeekAbs(int64) error {
	return ErrUnsupportedSeek
}

func (g *gzipWriteAdapter) SeekRel(int64) error {
	return ErrUnsupportedSeek
}

func (g *gzipWriteAdapter) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.z.Close(); err != nil {
		g.f.Close()
		return fmt.Errorf("%w: close gzip: %w", errStreamio, err)
	}
	if err := g.f.Close(); err != nil {
		return fmt.Errorf("%w: close file: %w", errStreamio, err)
	}
	return nil
}
