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

// Package meshio is the seam between a mesh-format codec (such as mz3) and
// the generic mesh-I/O host framework that owns the in-memory mesh
// representation, drives the four-phase information/points/cells/point-data
// protocol, and dispatches to a codec by file extension. The host itself is
// out of scope for this repository; this package supplies only the opaque
// identifiers and registry the host is assumed to provide.
package meshio

import "sync"

// ComponentType identifies the scalar representation of a point or cell
// buffer's components. The host defines these; a codec only compares
// against them.
type ComponentType int

// Component types a host may declare for point or cell buffers.
const (
	UnknownComponent ComponentType = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	// LongDouble stands in for the host's extended-precision float. Go has
	// no equivalent type; callers represent it as float64 and lose the extra
	// precision on the conversion to the on-disk float32, exactly as the
	// original C++ implementation's `static_cast<float>` does from a
	// platform `long double`.
	LongDouble
)

// PixelType identifies the kind of per-point (or per-cell) data a host
// declares.
type PixelType int

// Pixel types relevant to MZ3: a single scalar component, or 4-component
// RGBA color.
const (
	UnknownPixel PixelType = iota
	Scalar
	RGBA
)

// FileType identifies whether a format's on-disk encoding is ASCII or
// binary. MZ3 is always Binary.
type FileType int

// File types a host may declare.
const (
	Binary FileType = iota
	ASCII
)

// ByteOrder identifies the host's assumed multi-byte layout.
type ByteOrder int

// Byte orders a host may declare. MZ3 is little-endian by contract.
const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// TriangleCell is the cell-geometry tag a host uses to mark a cell as a
// triangle in its 5-tuple cell encoding (cellTag, pointCount, v0, v1, v2).
// The concrete value is host-defined; codecs treat it as opaque and never
// compare it against anything but what the host gave them. 3 is used here
// as the default, matching common mesh-toolkit triangle-cell enumerations.
const TriangleCell uint32 = 3

// MeshInfo is the mesh shape a codec's Info phase reports to the host, per
// the four-phase read protocol's first step.
type MeshInfo struct {
	NPoints        uint32
	NCells         uint32
	PointDimension int
	CellBufferSize uint32

	PointComponentType ComponentType
	CellComponentType  ComponentType
	FileType           FileType
	ByteOrder          ByteOrder

	UpdatePoints    bool
	UpdateCells     bool
	UpdatePointData bool

	PointPixelType          PixelType
	PointPixelComponentType ComponentType
}

// Factory constructs a codec instance. It returns `any` because this
// package is never allowed to import a concrete codec package (doing so
// would invert the dependency the registry exists to decouple); the host is
// expected to type-assert the result to whatever interface it drives.
type Factory func() any

// Registry maps lowercase, dot-prefixed file extensions (".mz3") to codec
// factories. It is the Go analogue of the host's I/O-dispatch registry that
// a codec's factory registers itself into at process start (§6 "Factory
// registration", §9 "Global state").
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates ext (e.g. ".mz3") with factory. Re-registering the
// same extension replaces the previous factory.
func (r *Registry) Register(ext string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[ext] = factory
}

// Lookup returns the factory registered for ext, if any.
func (r *Registry) Lookup(ext string) (Factory, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factories[ext]
	return f, ok
}

// Default is the process-wide registry populated by each codec package's
// init(). It is initialized once and never torn down, matching the
// lifecycle of the original factory-registration mechanism.
var Default = NewRegistry()
