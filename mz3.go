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

// Package mz3 implements the MZ3 binary triangle-mesh file format: a
// compact little-endian format, optionally wrapped in a gzip stream, that
// stores a 16-byte header followed by an optional face-index block, an
// optional vertex-coordinate block, and at most one optional per-vertex
// attribute block (RGBA color, 32-bit scalar, or 64-bit scalar).
//
// See: https://github.com/neurolabusc/surf-ice (the format's origin)
//
// mz3 does not own an in-memory mesh representation. It reads and writes
// the blocks a generic mesh-I/O host drives through the four-phase
// information/points/cells/point-data protocol (package meshio), in place.
package mz3

import (
	"github.com/coreos/pkg/capnslog"

	"github.com/niftyimages/go-mz3/meshio"
)

var log = capnslog.NewPackageLogger("github.com/niftyimages/go-mz3", "mz3")

func init() {
	meshio.Default.Register(".mz3", func() any { return new(Codec) })
}
