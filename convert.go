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
	"math"
)

// encodeFloat32LE packs vals as little-endian float32 into a freshly
// allocated byte slice.
func encodeFloat32LE(vals []float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeFloat32LE unpacks a little-endian float32 buffer into dst. len(buf)
// must equal 4*len(dst).
func decodeFloat32LE(buf []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
}

// encodeFloat64LE packs vals as little-endian float64 into a freshly
// allocated byte slice.
func encodeFloat64LE(vals []float64) []byte {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

// decodeUint32LE unpacks a little-endian uint32 buffer into dst. len(buf)
// must equal 4*len(dst).
func decodeUint32LE(buf []byte, dst []uint32) {
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
}

// encodeUint32LE packs vals as little-endian uint32 into a freshly
// allocated byte slice.
func encodeUint32LE(vals []uint32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	return buf
}

// toFloat32Components converts an arbitrary caller-supplied point-component
// buffer (§9 "Type conversion at the boundary": float32, float64, or the
// Go stand-in for long double) to a []float32 of the same length by
// ordinary numeric cast, no saturation or rounding beyond Go's default.
func toFloat32Components(buf any) ([]float32, error) {
	switch b := buf.(type) {
	case []float32:
		out := make([]float32, len(b))
		copy(out, b)
		return out, nil
	case []float64:
		out := make([]float32, len(b))
		for i, v := range b {
			out[i] = float32(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPointComponentType, buf)
	}
}

// cellComponents exposes an arbitrary caller-supplied cell-index buffer
// (any of the accepted integer widths) as a uniform accessor converting
// each element to uint32 on demand, matching the original's per-type
// WriteCells template instantiation.
type cellComponents struct {
	len int
	at  func(i int) uint32
}

// toCellComponents type-switches buf to one of the accepted integer slice
// kinds (§4.2.3 WriteCells: "any integer width"), or fails with
// ErrUnsupportedCellComponentType.
func toCellComponents(buf any) (cellComponents, error) {
	switch b := buf.(type) {
	case []uint8:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []int8:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []uint16:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []int16:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []uint32:
		return cellComponents{len(b), func(i int) uint32 { return b[i] }}, nil
	case []int32:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []uint64:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []int64:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []uint:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	case []int:
		return cellComponents{len(b), func(i int) uint32 { return uint32(b[i]) }}, nil
	default:
		return cellComponents{}, fmt.Errorf("%w: %T", ErrUnsupportedCellComponentType, buf)
	}
}

// DecodeScalarFloat32 interprets a ReadPointData buffer for a float32
// scalar attribute (pointDataSize reported 4*NVert bytes) as a []float32.
func DecodeScalarFloat32(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	decodeFloat32LE(buf, out)
	return out
}

// DecodeScalarFloat64 interprets a ReadPointData buffer for a float64
// scalar attribute (pointDataSize reported 8*NVert bytes) as a []float64.
func DecodeScalarFloat64(buf []byte) []float64 {
	out := make([]float64, len(buf)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return out
}

// DecodeRGBA interprets a ReadPointData buffer for an RGBA attribute
// (pointDataSize reported 4*NVert bytes) as one [4]uint8 per vertex.
func DecodeRGBA(buf []byte) [][4]byte {
	out := make([][4]byte, len(buf)/4)
	for i := range out {
		copy(out[i][:], buf[4*i:4*i+4])
	}
	return out
}

// narrowIntToFloat32 promotes a per-vertex scalar buffer of one of the
// narrow integer component types MZ3 accepts for SCALAR point data
// (int8/uint8/int16/uint16, per §4.2.3's WriteInfo pixel-kind policy) to
// []float32, or reports that buf's type isn't one of them.
func narrowIntToFloat32(buf any) ([]float32, bool) {
	switch b := buf.(type) {
	case []uint8:
		out := make([]float32, len(b))
		for i, v := range b {
			out[i] = float32(v)
		}
		return out, true
	case []int8:
		out := make([]float32, len(b))
		for i, v := range b {
			out[i] = float32(v)
		}
		return out, true
	case []uint16:
		out := make([]float32, len(b))
		for i, v := range b {
			out[i] = float32(v)
		}
		return out, true
	case []int16:
		out := make([]float32, len(b))
		for i, v := range b {
			out[i] = float32(v)
		}
		return out, true
	default:
		return nil, false
	}
}
