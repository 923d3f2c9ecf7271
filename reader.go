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

	"github.com/niftyimages/go-mz3/internal/streamio"
	"github.com/niftyimages/go-mz3/meshio"
)

// ReadInfo opens path (auto-detecting plain vs gzip by peeking at its first
// two bytes), parses the 16-byte header, and reports the mesh shape the
// host's Information phase expects (§4.2.2). Call ReadPoints, ReadCells,
// and ReadPointData afterward, in that order, to pull the data blocks the
// header says are present.
//
// ReadInfo does not verify that bit 1 (isVERT) or bit 0 (isFACE) is
// consistent with NVert/NFace being non-zero; a file with NVert>0 but
// isVERT clear yields undefined data from ReadPoints. This is a format
// limitation preserved from the original implementation, not a bug fixed
// here.
func (c *Codec) ReadInfo(path string) (meshio.MeshInfo, error) {
	b, err := peekMagic(path)
	if err != nil {
		return meshio.MeshInfo{}, fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, err)
	}
	compressed := isGzip(b)

	var a streamio.Adapter
	if compressed {
		a, err = streamio.OpenGzipRead(path)
	} else {
		a, err = streamio.OpenPlainRead(path)
	}
	if err != nil {
		return meshio.MeshInfo{}, fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, err)
	}

	h, err := readHeader(a)
	if err != nil {
		a.Close()
		return meshio.MeshInfo{}, err
	}

	c.path = path
	c.adapter = a
	c.header = h
	c.compressed = compressed
	c.writing = false
	if c.cellTag == 0 {
		c.cellTag = meshio.TriangleCell
	}

	log.Tracef("ReadInfo %s: compressed=%v attrs=%#04x nface=%d nvert=%d skip=%d",
		path, compressed, h.Attributes, h.NFace, h.NVert, h.Skip)

	info := meshio.MeshInfo{
		NPoints:            h.NVert,
		NCells:             h.NFace,
		PointDimension:     3,
		CellBufferSize:     5 * h.NFace,
		PointComponentType: meshio.Float32,
		CellComponentType:  meshio.UInt32,
		FileType:           meshio.Binary,
		ByteOrder:          meshio.LittleEndian,
		UpdatePoints:       h.NVert > 0,
		UpdateCells:        h.NFace > 0,
	}

	switch h.pointDataKind() {
	case pointDataRGBA:
		info.PointPixelType = meshio.RGBA
		info.PointPixelComponentType = meshio.UInt8
		info.UpdatePointData = true
	case pointDataScalar:
		info.PointPixelType = meshio.Scalar
		info.PointPixelComponentType = meshio.Float32
		info.UpdatePointData = true
	case pointDataDouble:
		info.PointPixelType = meshio.Scalar
		info.PointPixelComponentType = meshio.Float64
		info.UpdatePointData = true
	}

	return info, nil
}

// seekToBlocks seeks the open adapter to 16+skip and then forward past any
// blocks named in skipFaces/skipVerts, per the seek sequence every read and
// write phase beyond Info repeats (§4.2.2-4.2.3).
func (c *Codec) seekToBlocks(skipFaces, skipVerts bool) error {
	if err := c.adapter.SeekAbs(headerSize + int64(c.header.Skip)); err != nil {
		return err
	}
	if skipFaces && c.header.HasFaces() {
		if err := c.adapter.SeekRel(12 * int64(c.header.NFace)); err != nil {
			return err
		}
	}
	if skipVerts && c.header.HasVertices() {
		if err := c.adapter.SeekRel(12 * int64(c.header.NVert)); err != nil {
			return err
		}
	}
	return nil
}

// ReadPoints reads the NVert vertex coordinates (as declared by ReadInfo)
// into buf, which must have length 3*NVert. No byte-swapping beyond the
// little-endian decode below is necessary: the format is little-endian by
// contract (§3.1).
func (c *Codec) ReadPoints(buf []float32) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	want := 3 * int(c.header.NVert)
	if len(buf) != want {
		return fmt.Errorf("%w: points: want %d, got %d", ErrBufferSize, want, len(buf))
	}
	if err := c.seekToBlocks(true, false); err != nil {
		return err
	}
	raw := make([]byte, 4*want)
	if err := c.adapter.ReadFull(raw); err != nil {
		return err
	}
	decodeFloat32LE(raw, buf)
	return nil
}

// ReadCells reads the NFace triangles into buf, expanding the on-disk
// tightly packed uint32[3] faces into the host's 5-tuple cell encoding
// (cellTag, 3, v0, v1, v2) per face (§4.2.2). buf must have length
// 5*NFace. If the header's isFACE bit is clear, ReadCells returns without
// touching buf.
func (c *Codec) ReadCells(buf []uint32) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	if !c.header.HasFaces() {
		return nil
	}
	want := 5 * int(c.header.NFace)
	if len(buf) != want {
		return fmt.Errorf("%w: cells: want %d, got %d", ErrBufferSize, want, len(buf))
	}
	if err := c.adapter.SeekAbs(headerSize + int64(c.header.Skip)); err != nil {
		return err
	}

	raw := make([]byte, 12*c.header.NFace)
	if err := c.adapter.ReadFull(raw); err != nil {
		return err
	}
	faces := make([]uint32, 3*c.header.NFace)
	decodeUint32LE(raw, faces)

	cellTag := c.cellTag
	if cellTag == 0 {
		cellTag = meshio.TriangleCell
	}
	idx := 0
	for i := uint32(0); i < c.header.NFace; i++ {
		buf[idx] = cellTag
		buf[idx+1] = 3
		buf[idx+2] = faces[3*i]
		buf[idx+3] = faces[3*i+1]
		buf[idx+4] = faces[3*i+2]
		idx += 5
	}
	return nil
}

// ReadPointData reads the per-vertex attribute block ReadInfo reported
// (RGBA, float32 scalar, or float64 scalar), if any, verbatim into buf.
// buf must be sized per the attribute kind: 4*NVert bytes for RGBA or
// float32 scalar, 8*NVert for float64 scalar. If no attribute bit is set,
// ReadPointData returns without touching buf. Callers reinterpret the raw
// bytes as their declared pixel type, mirroring the original's void*
// buffer.
func (c *Codec) ReadPointData(buf []byte) error {
	if c.adapter == nil {
		return ErrNotOpen
	}
	size := c.header.pointDataSize()
	if size == 0 {
		return nil
	}
	if int64(len(buf)) != size {
		return fmt.Errorf("%w: point data: want %d, got %d", ErrBufferSize, size, len(buf))
	}
	if err := c.seekToBlocks(true, true); err != nil {
		return err
	}
	return c.adapter.ReadFull(buf)
}

// ReadCellData is a documented no-op: MZ3 has no per-cell attribute data
// (§1 Non-goals). It exists so a host that always calls every phase of the
// four-phase protocol does not need a type switch to skip this one.
func (c *Codec) ReadCellData(buf []byte) error {
	return nil
}
