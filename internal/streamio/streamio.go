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

// Package streamio provides a uniform byte-sequential read/write/seek
// capability over either a plain OS file or a gzip-wrapped OS file, so that
// callers can drive a binary format without caring which transport backs it.
package streamio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
)

var log = capnslog.NewPackageLogger("github.com/niftyimages/go-mz3", "streamio")

var (
	// errStreamio is the base error for all streamio errors.
	errStreamio = errors.New("streamio")

	// ErrBackwardSeek indicates a seek would move before the current position
	// of a forward-only (gzip) stream.
	ErrBackwardSeek = fmt.Errorf("%w: backward seek unsupported", errStreamio)

	// ErrUnsupportedSeek indicates a seek operation the adapter cannot perform
	// at all, such as any seek on a gzip write stream.
	ErrUnsupportedSeek = fmt.Errorf("%w: unsupported seek", errStreamio)

	// ErrShortRead indicates fewer bytes were available than requested.
	ErrShortRead = fmt.Errorf("%w: short read", errStreamio)
)

// Adapter is the polymorphic byte-stream capability of MZ3 §4.1: open file
// handles are hidden behind it, and callers issue byte-exact reads, writes,
// and seeks without knowing whether a gzip stream or a plain file backs them.
type Adapter interface {
	// ReadFull reads exactly len(buf) bytes, or returns ErrShortRead wrapping
	// the underlying error.
	ReadFull(buf []byte) error

	// Write writes all of buf.
	Write(buf []byte) error

	// SeekAbs seeks to an absolute offset from the start of the logical
	// (decompressed) stream.
	SeekAbs(offset int64) error

	// SeekRel seeks relative to the current position of the logical stream.
	SeekRel(offset int64) error

	// Close releases the adapter's resources. Close is idempotent.
	Close() error
}

// OpenPlainRead opens path for plain (non-gzip) sequential and seekable
// reading.
func OpenPlainRead(path string) (Adapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", errStreamio, path, err)
	}
	return &plainAdapter{f: f}, nil
}

// OpenPlainWrite creates (or truncates) path for plain sequential and
// seekable writing.
func OpenPlainWrite(path string) (Adapter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %w", errStreamio, path, err)
	}
	return &plainAdapter{f: f}, nil
}

// plainAdapter is the OS-file-backed Adapter. Reads and writes pass straight
// through to the file; seeks pass straight through to the OS.
type plainAdapter struct {
	f      *os.File
	closed bool
}

func (p *plainAdapter) ReadFull(buf []byte) error {
	n, err := io.ReadFull(p.f, buf)
	if err != nil {
		log.Tracef("plain ReadFull: read %d of %d bytes: %v", n, len(buf), err)
		return fmt.Errorf("%w: %w", ErrShortRead, err)
	}
	return nil
}

func (p *plainAdapter) Write(buf []byte) error {
	if _, err := p.f.Write(buf); err != nil {
		return fmt.Errorf("%w: write: %w", errStreamio, err)
	}
	return nil
}

func (p *plainAdapter) SeekAbs(offset int64) error {
	if _, err := p.f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %w", errStreamio, err)
	}
	return nil
}

func (p *plainAdapter) SeekRel(offset int64) error {
	if _, err := p.f.Seek(offset, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: seek: %w", errStreamio, err)
	}
	return nil
}

func (p *plainAdapter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.f.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", errStreamio, err)
	}
	return nil
}
