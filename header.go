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
	"encoding/binary"
	"fmt"

	"github.com/niftyimages/go-mz3/internal/streamio"
)

// magic is the 2-byte signature every MZ3 stream (after any gzip
// decompression) begins with: ASCII "MZ".
var magic = [2]byte{0x4D, 0x5A}

// gzipMagic is the first two bytes of a gzip stream (RFC 1952 §2.3.1),
// used to decide whether a file needs decompression before the MZ3 header
// can be parsed.
var gzipMagic = [2]byte{0x1F, 0x8B}

// Attribute bitmask bits, per §3.2.
const (
	attrFace   uint16 = 1 << 0
	attrVert   uint16 = 1 << 1
	attrRGBA   uint16 = 1 << 2
	attrScalar uint16 = 1 << 3
	attrDouble uint16 = 1 << 4
)

// headerSize is the fixed byte length of the MZ3 header, before any skip
// padding.
const headerSize = 16

// Header is the parsed 16-byte MZ3 header together with the attribute
// booleans derived from its bitmask.
type Header struct {
	// Attributes is the raw bitmask from offset 2. Reserved bits beyond
	// those defined in §3.2 are kept verbatim here; WriteInfo never sets
	// them, so they are not carried over when a read mesh is written again.
	Attributes uint16

	// NFace is the number of triangles.
	NFace uint32

	// NVert is the number of vertices.
	NVert uint32

	// Skip is the number of padding bytes between the header and the first
	// data block.
	Skip uint32
}

// HasFaces reports whether the face-index block (bit 0) is present.
func (h Header) HasFaces() bool { return h.Attributes&attrFace != 0 }

// HasVertices reports whether the vertex-coordinate block (bit 1) is
// present.
func (h Header) HasVertices() bool { return h.Attributes&attrVert != 0 }

// HasRGBA reports whether the per-vertex RGBA color block (bit 2) is
// present.
func (h Header) HasRGBA() bool { return h.Attributes&attrRGBA != 0 }

// HasScalar reports whether the per-vertex float32 scalar block (bit 3) is
// present.
func (h Header) HasScalar() bool { return h.Attributes&attrScalar != 0 }

// HasDouble reports whether the per-vertex float64 scalar block (bit 4) is
// present.
func (h Header) HasDouble() bool { return h.Attributes&attrDouble != 0 }

// hasPointData reports whether any point-data attribute bit is set.
func (h Header) hasPointData() bool {
	return h.HasRGBA() || h.HasScalar() || h.HasDouble()
}

// pointDataKind resolves which of the mutually-exclusive point-data blocks
// a header declares, applying the fixed RGBA, then SCALAR, then DOUBLE
// precedence of §3.2/§4.2.3. At most one of the three bits is ever set by
// this package's WriteInfo; a header with more than one set (unspecified by
// the format) resolves by this same precedence, matching the original
// reader's ReadPointData dispatch order.
type pointDataKind int

const (
	pointDataNone pointDataKind = iota
	pointDataRGBA
	pointDataScalar
	pointDataDouble
)

func (h Header) pointDataKind() pointDataKind {
	switch {
	case h.HasRGBA():
		return pointDataRGBA
	case h.HasScalar():
		return pointDataScalar
	case h.HasDouble():
		return pointDataDouble
	default:
		return pointDataNone
	}
}

// pointDataSize returns the byte length of the point-data block this
// header declares, or 0 if none is present.
func (h Header) pointDataSize() int64 {
	switch h.pointDataKind() {
	case pointDataRGBA, pointDataScalar:
		return 4 * int64(h.NVert)
	case pointDataDouble:
		return 8 * int64(h.NVert)
	default:
		return 0
	}
}

// readHeader reads and validates the 16-byte header from a.
func readHeader(a streamio.Adapter) (Header, error) {
	buf := make([]byte, headerSize)
	if err := a.ReadFull(buf); err != nil {
		return Header{}, fmt.Errorf("%w: header: %w", ErrShortRead, err)
	}
	if buf[0] != magic[0] || buf[1] != magic[1] {
		return Header{}, fmt.Errorf("%w: got %#02x %#02x", ErrBadMagic, buf[0], buf[1])
	}
	return Header{
		Attributes: binary.LittleEndian.Uint16(buf[2:4]),
		NFace:      binary.LittleEndian.Uint32(buf[4:8]),
		NVert:      binary.LittleEndian.Uint32(buf[8:12]),
		Skip:       binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// writeHeader emits the 16-byte header to a.
func writeHeader(a streamio.Adapter, h Header) error {
	buf := make([]byte, headerSize)
	buf[0], buf[1] = magic[0], magic[1]
	binary.LittleEndian.PutUint16(buf[2:4], h.Attributes)
	binary.LittleEndian.PutUint32(buf[4:8], h.NFace)
	binary.LittleEndian.PutUint32(buf[8:12], h.NVert)
	binary.LittleEndian.PutUint32(buf[12:16], h.Skip)
	if err := a.Write(buf); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWriteFailed, err)
	}
	return nil
}
