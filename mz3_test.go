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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/niftyimages/go-mz3/meshio"
)

// minimalVerts and minimalCells are a single triangle over three vertices, used throughout as
// the smallest file every test scenario can build on.
var (
	minimalVerts = []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}
	minimalCells = []uint32{
		meshio.TriangleCell, 3, 0, 1, 2,
	}
)

func writeMinimal(t *testing.T, path string, opts WriteOptions) {
	t.Helper()
	var c Codec
	if err := c.WriteInfo(path, 3, 1, opts); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}
	if err := c.WritePoints(minimalVerts); err != nil {
		t.Fatalf("WritePoints: %v", err)
	}
	if err := c.WriteCells(minimalCells); err != nil {
		t.Fatalf("WriteCells: %v", err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}

func readMinimal(t *testing.T, path string) (meshio.MeshInfo, []float32, []uint32) {
	t.Helper()
	var c Codec
	info, err := c.ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	verts := make([]float32, 3*info.NPoints)
	if err := c.ReadPoints(verts); err != nil {
		t.Fatalf("ReadPoints: %v", err)
	}
	cells := make([]uint32, info.CellBufferSize)
	if err := c.ReadCells(cells); err != nil {
		t.Fatalf("ReadCells: %v", err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return info, verts, cells
}

func TestRoundTripPlain(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	writeMinimal(t, path, WriteOptions{})

	info, verts, cells := readMinimal(t, path)
	if info.NPoints != 3 || info.NCells != 1 {
		t.Fatalf("info = %+v, want NPoints=3 NCells=1", info)
	}
	if diff := cmp.Diff(minimalVerts, verts); diff != "" {
		t.Errorf("verts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(minimalCells, cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripGzip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	writeMinimal(t, path, WriteOptions{Compress: true})

	info, verts, cells := readMinimal(t, path)
	if info.NPoints != 3 || info.NCells != 1 {
		t.Fatalf("info = %+v, want NPoints=3 NCells=1", info)
	}
	if diff := cmp.Diff(minimalVerts, verts); diff != "" {
		t.Errorf("verts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(minimalCells, cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

// TestPlainGzipEquivalence checks that the plain and gzip encodings of the
// same mesh decode to identical content, even though their on-disk bytes
// differ.
func TestPlainGzipEquivalence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.mz3")
	gzipPath := filepath.Join(dir, "gzip.mz3")
	writeMinimal(t, plainPath, WriteOptions{})
	writeMinimal(t, gzipPath, WriteOptions{Compress: true})

	_, plainVerts, plainCells := readMinimal(t, plainPath)
	_, gzipVerts, gzipCells := readMinimal(t, gzipPath)

	if diff := cmp.Diff(plainVerts, gzipVerts); diff != "" {
		t.Errorf("verts mismatch (-plain +gzip):\n%s", diff)
	}
	if diff := cmp.Diff(plainCells, gzipCells); diff != "" {
		t.Errorf("cells mismatch (-plain +gzip):\n%s", diff)
	}
}

// TestMinimalPlainExactBytes pins the minimal mesh's disk encoding to the
// exact byte sequence the format contract implies, catching any drift in
// field order or endianness.
func TestMinimalPlainExactBytes(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	writeMinimal(t, path, WriteOptions{})

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := make([]byte, 0, 16+12+36)
	want = append(want, 'M', 'Z')
	want = appendU16(want, attrFace|attrVert)
	want = appendU32(want, 1) // n_face
	want = appendU32(want, 3) // n_vert
	want = appendU32(want, 0) // skip
	for _, idx := range []uint32{0, 1, 2} {
		want = appendU32(want, idx)
	}
	for _, v := range minimalVerts {
		want = appendF32(want, v)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("on-disk bytes mismatch (-want +got):\n%s", diff)
	}
}

func appendU16(b []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

func appendU32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendF32(b []byte, v float32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	return append(b, buf[:]...)
}

func TestScalarPointDataRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts WriteOptions
		want any
	}{
		{
			name: "float32",
			opts: WriteOptions{PointPixelType: meshio.Scalar, PointPixelComponentType: meshio.Float32},
			want: []float32{1.5, -2.25, 3},
		},
		{
			name: "float64",
			opts: WriteOptions{PointPixelType: meshio.Scalar, PointPixelComponentType: meshio.Float64},
			want: []float64{1.5, -2.25, 3},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "mesh.mz3")

			var w Codec
			if err := w.WriteInfo(path, 3, 1, tc.opts); err != nil {
				t.Fatalf("WriteInfo: %v", err)
			}
			if err := w.WritePoints(minimalVerts); err != nil {
				t.Fatalf("WritePoints: %v", err)
			}
			if err := w.WriteCells(minimalCells); err != nil {
				t.Fatalf("WriteCells: %v", err)
			}
			if err := w.WritePointData(tc.want); err != nil {
				t.Fatalf("WritePointData: %v", err)
			}
			if err := w.Finalize(); err != nil {
				t.Fatalf("Finalize: %v", err)
			}

			var r Codec
			info, err := r.ReadInfo(path)
			if err != nil {
				t.Fatalf("ReadInfo: %v", err)
			}
			if !info.UpdatePointData {
				t.Fatalf("info.UpdatePointData = false, want true")
			}
			buf := make([]byte, func() int64 {
				if info.PointPixelComponentType == meshio.Float64 {
					return 8 * int64(info.NPoints)
				}
				return 4 * int64(info.NPoints)
			}())
			if err := r.ReadPointData(buf); err != nil {
				t.Fatalf("ReadPointData: %v", err)
			}
			defer r.Finalize()

			var got any
			if info.PointPixelComponentType == meshio.Float64 {
				got = DecodeScalarFloat64(buf)
			} else {
				got = DecodeScalarFloat32(buf)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("point data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRGBAPointDataRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	want := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
	}

	var w Codec
	opts := WriteOptions{PointPixelType: meshio.RGBA, PointPixelComponentType: meshio.UInt8}
	if err := w.WriteInfo(path, 3, 1, opts); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}
	if err := w.WritePoints(minimalVerts); err != nil {
		t.Fatalf("WritePoints: %v", err)
	}
	if err := w.WriteCells(minimalCells); err != nil {
		t.Fatalf("WriteCells: %v", err)
	}
	if err := w.WritePointData(want); err != nil {
		t.Fatalf("WritePointData: %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var r Codec
	info, err := r.ReadInfo(path)
	if err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	if info.PointPixelType != meshio.RGBA {
		t.Fatalf("info.PointPixelType = %v, want RGBA", info.PointPixelType)
	}
	buf := make([]byte, 4*info.NPoints)
	if err := r.ReadPointData(buf); err != nil {
		t.Fatalf("ReadPointData: %v", err)
	}
	defer r.Finalize()

	if diff := cmp.Diff(want, buf); diff != "" {
		t.Errorf("RGBA mismatch (-want +got):\n%s", diff)
	}
}

func TestCanReadRejectsBadMagic(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.mz3")
	if err := os.WriteFile(path, []byte{0x00, 0x00, 0x03, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if CanRead(path) {
		t.Errorf("CanRead(%q) = true, want false", path)
	}

	var c Codec
	if _, err := c.ReadInfo(path); err == nil {
		t.Error("ReadInfo on a bad-magic file succeeded, want ErrBadMagic")
	}
}

func TestCanWriteRejectsWrongExtension(t *testing.T) {
	t.Parallel()
	if CanWrite("mesh.nmz3") {
		t.Errorf("CanWrite(%q) = true, want false", "mesh.nmz3")
	}
	if !CanWrite("mesh.mz3") {
		t.Errorf("CanWrite(%q) = false, want true", "mesh.mz3")
	}
	if !CanWrite("MESH.MZ3") {
		t.Errorf("CanWrite(%q) = false, want true (case-insensitive)", "MESH.MZ3")
	}
}

func TestCanReadMissingFile(t *testing.T) {
	t.Parallel()
	if CanRead(filepath.Join(t.TempDir(), "missing.mz3")) {
		t.Error("CanRead on a nonexistent file = true, want false")
	}
}

func TestWriteCellsRejectsNonTriangle(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")

	var c Codec
	if err := c.WriteInfo(path, 4, 1, WriteOptions{}); err != nil {
		t.Fatalf("WriteInfo: %v", err)
	}
	verts := make([]float32, 12)
	if err := c.WritePoints(verts); err != nil {
		t.Fatalf("WritePoints: %v", err)
	}

	quad := []uint32{meshio.TriangleCell, 4, 0, 1, 2}
	if err := c.WriteCells(quad); err == nil {
		t.Fatal("WriteCells with a 4-point cell succeeded, want ErrNonTriangleCell")
	}
	c.Finalize()
}

func TestFinalizeIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	writeMinimal(t, path, WriteOptions{})

	var c Codec
	if _, err := c.ReadInfo(path); err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("first Finalize: %v", err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatalf("second Finalize: %v", err)
	}

	var zero Codec
	if err := zero.Finalize(); err != nil {
		t.Fatalf("Finalize on a never-opened Codec: %v", err)
	}
}

func TestReadPointsWrongBufferSize(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mesh.mz3")
	writeMinimal(t, path, WriteOptions{})

	var c Codec
	if _, err := c.ReadInfo(path); err != nil {
		t.Fatalf("ReadInfo: %v", err)
	}
	defer c.Finalize()

	if err := c.ReadPoints(make([]float32, 6)); err == nil {
		t.Error("ReadPoints with a short buffer succeeded, want ErrBufferSize")
	}
}
