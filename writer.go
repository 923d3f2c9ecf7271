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
	"fmt"
	"os"

	"github.com/niftyimages/go-mz3/internal/streamio"
	"github.com/niftyimages/go-mz3/meshio"
)

// WriteOptions configures a write sequence's header and attribute-flag
// policy (§4.2.3 WriteInfo).
type WriteOptions struct {
	// Compress selects a gzip-wrapped (true) or plain (false) output
	// stream (§3.3).
	Compress bool

	// PointPixelType and PointPixelComponentType together select which
	// per-vertex attribute bit (if any) WriteInfo sets, per the policy
	// table in §4.2.3. Leave PointPixelType as meshio.UnknownPixel to
	// write a mesh with no per-vertex attribute block.
	PointPixelType          meshio.PixelType
	PointPixelComponentType meshio.ComponentType

	// TriangleCellTag is the host-supplied cell-geometry tag for this write
	// sequence. Zero defaults to meshio.TriangleCell. WriteCells does not
	// compare the first element of each input 5-tuple against it, and the
	// tag is not stored in the file: a later ReadCells on the same Codec
	// value emits it, while a fresh Codec emits meshio.TriangleCell.
	TriangleCellTag uint32
}

// WriteInfo opens path for writing (choosing plain or gzip per
// opts.Compress), computes the attribute bitmask from opts' declared
// point-pixel kind, and emits the 16-byte header. Skip is always written
// as 0. Call WritePoints, WriteCells, and (if opts declares a pixel type)
// WritePointData afterward, in that order, then Finalize.
func (c *Codec) WriteInfo(path string, nvert, nface uint32, opts WriteOptions) error {
	var a streamio.Adapter
	var err error
	if opts.Compress {
		a, err = streamio.OpenGzipWrite(path)
	} else {
		a, err = streamio.OpenPlainWrite(path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, err)
	}

	attrs := attrFace | attrVert
	switch {
	case opts.PointPixelType == meshio.Scalar && opts.PointPixelComponentType == meshio.Float32:
		attrs |= attrScalar
	case opts.PointPixelType == meshio.Scalar && opts.PointPixelComponentType == meshio.Float64:
		attrs |= attrDouble
	case opts.PointPixelType == meshio.RGBA:
		attrs |= attrRGBA
	case opts.PointPixelType == meshio.Scalar &&
		(opts.PointPixelComponentType == meshio.Int8 || opts.PointPixelComponentType == meshio.UInt8 ||
			opts.PointPixelComponentType == meshio.Int16 || opts.PointPixelComponentType == meshio.UInt16):
		// Values are promoted to float32 at write time (§4.2.3).
		attrs |= attrScalar
	case opts.PointPixelType == meshio.UnknownPixel:
		// No per-vertex attribute block.
	default:
		a.Close()
		return fmt.Errorf("%w: %v/%v", ErrUnsupportedPixelType, opts.PointPixelType, opts.PointPixelComponentType)
	}

	h := Header{Attributes: attrs, NFace: nface, NVert: nvert, Skip: 0}
	if err := writeHeader(a, h); err != nil {
		a.Close()
		return err
	}

	c.path = path
	c.adapter = a
	c.header = h
	c.compressed = opts.Compress
	c.writing = true
	c.opts = opts
	c.cellTag = opts.TriangleCellTag
	if c.cellTag == 0 {
		c.cellTag = meshio.TriangleCell
	}
	c.vertexBuf = nil
	if opts.Compress {
		c.vertexBuf = make([]float32, 3*nvert)
	}

	log.Tracef("WriteInfo %s: compressed=%v attrs=%#04x nface=%d nvert=%d",
		path, opts.Compress, attrs, nface, nvert)

	return nil
}

// WritePoints accepts the caller's point-component buffer ([]float32 or
// []float64, 3*NVert elements) and either buffers it (gzip mode, since the
// on-disk block order puts faces before vertices while the host hands
// points to the codec before cells: §9 "Deferred vertex buffer") or seeks
// past the not-yet-written face block and writes it immediately (plain
// mode, since the plain adapter can seek forward over blocks it hasn't
// written yet).
func (c *Codec) WritePoints(buf any) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	components, err := toFloat32Components(buf)
	if err != nil {
		return err
	}
	want := 3 * int(c.header.NVert)
	if len(components) != want {
		return fmt.Errorf("%w: points: want %d, got %d", ErrBufferSize, want, len(components))
	}

	if c.compressed {
		copy(c.vertexBuf, components)
		return nil
	}

	if err := c.adapter.SeekAbs(headerSize + int64(c.header.Skip)); err != nil {
		return err
	}
	if c.header.HasFaces() {
		if err := c.adapter.SeekRel(12 * int64(c.header.NFace)); err != nil {
			return err
		}
	}
	if err := c.adapter.Write(encodeFloat32LE(components)); err != nil {
		return fmt.Errorf("%w: points: %w", ErrWriteFailed, err)
	}
	return nil
}

// WriteCells accepts the caller's cell buffer: for each face, a 5-tuple
// (cellTag, pointCount, v0, v1, v2) of any integer component type
// (§4.2.3). A pointCount other than 3 for any face fails with
// ErrNonTriangleCell and leaves no valid file behind. In gzip mode, the
// three face indices of every face are written first, then the deferred
// vertex buffer is emitted in one call, exactly reproducing the faces-then-
// vertices order the plain adapter achieves by seeking. In plain mode, the
// face indices are written at 16+skip; vertices were already placed by
// WritePoints.
func (c *Codec) WriteCells(buf any) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	cells, err := toCellComponents(buf)
	if err != nil {
		return err
	}
	nface := int(c.header.NFace)
	if cells.len != 5*nface {
		return fmt.Errorf("%w: cells: want %d, got %d", ErrBufferSize, 5*nface, cells.len)
	}

	indices := make([]uint32, 3*nface)
	idx := 0
	for i := 0; i < nface; i++ {
		cellTag := cells.at(idx)
		_ = cellTag
		pointCount := cells.at(idx + 1)
		if pointCount != 3 {
			// Close and remove the partial output so no readable file
			// with a header-only or vertices-only body is left behind.
			c.Finalize()
			os.Remove(c.path)
			return fmt.Errorf("%w: face %d has %d points", ErrNonTriangleCell, i, pointCount)
		}
		indices[3*i] = cells.at(idx + 2)
		indices[3*i+1] = cells.at(idx + 3)
		indices[3*i+2] = cells.at(idx + 4)
		idx += 5
	}

	if c.compressed {
		if err := c.adapter.Write(encodeUint32LE(indices)); err != nil {
			return fmt.Errorf("%w: cells: %w", ErrWriteFailed, err)
		}
		if err := c.adapter.Write(encodeFloat32LE(c.vertexBuf)); err != nil {
			return fmt.Errorf("%w: deferred vertices: %w", ErrWriteFailed, err)
		}
		c.vertexBuf = nil
		return nil
	}

	if err := c.adapter.SeekAbs(headerSize + int64(c.header.Skip)); err != nil {
		return err
	}
	if err := c.adapter.Write(encodeUint32LE(indices)); err != nil {
		return fmt.Errorf("%w: cells: %w", ErrWriteFailed, err)
	}
	return nil
}

// WritePointData writes the per-vertex attribute block declared by
// opts.PointPixelType/PointPixelComponentType in WriteInfo, if any.
// RGBA uint8 and float32 scalar buffers are written verbatim (4*NVert
// bytes); float64 scalar verbatim (8*NVert bytes); narrow integer scalar
// buffers (int8/uint8/int16/uint16) are promoted to float32 and written as
// 4*NVert bytes. Any other declared pixel kind fails with
// ErrUnsupportedPixelType. In plain mode this seeks past the face and
// vertex blocks first; in gzip mode the write simply continues the
// already-open stream.
func (c *Codec) WritePointData(buf any) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	if c.opts.PointPixelType == meshio.UnknownPixel {
		return nil
	}

	var raw []byte
	switch {
	case c.opts.PointPixelType == meshio.RGBA && c.opts.PointPixelComponentType == meshio.UInt8:
		b, ok := buf.([]byte)
		if !ok {
			return fmt.Errorf("%w: RGBA: %T", ErrUnsupportedPointComponentType, buf)
		}
		raw = b
	case c.opts.PointPixelType == meshio.Scalar && c.opts.PointPixelComponentType == meshio.Float32:
		b, ok := buf.([]float32)
		if !ok {
			return fmt.Errorf("%w: scalar float32: %T", ErrUnsupportedPointComponentType, buf)
		}
		raw = encodeFloat32LE(b)
	case c.opts.PointPixelType == meshio.Scalar && c.opts.PointPixelComponentType == meshio.Float64:
		b, ok := buf.([]float64)
		if !ok {
			return fmt.Errorf("%w: scalar float64: %T", ErrUnsupportedPointComponentType, buf)
		}
		raw = encodeFloat64LE(b)
	case c.opts.PointPixelType == meshio.Scalar:
		promoted, ok := narrowIntToFloat32(buf)
		if !ok {
			return fmt.Errorf("%w: %v", ErrUnsupportedPixelType, c.opts.PointPixelComponentType)
		}
		raw = encodeFloat32LE(promoted)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedPixelType, c.opts.PointPixelType)
	}

	if !c.compressed {
		if err := c.adapter.SeekAbs(headerSize + int64(c.header.Skip)); err != nil {
			return err
		}
		if c.header.HasFaces() {
			if err := c.adapter.SeekRel(12 * int64(c.header.NFace)); err != nil {
				return err
			}
		}
		if c.header.HasVertices() {
			if err := c.adapter.SeekRel(12 * int64(c.header.NVert)); err != nil {
				return err
			}
		}
	}

	if err := c.adapter.Write(raw); err != nil {
		return fmt.Errorf("%w: point data: %w", ErrWriteFailed, err)
	}
	return nil
}

// WriteCellData is a documented no-op: MZ3 has no per-cell attribute data
// (§1 Non-goals).
func (c *Codec) WriteCellData(buf []byte) error {
	return nil
}
