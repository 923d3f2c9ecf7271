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
	"errors"
	"fmt"
)

var (
	// ErrMZ3 is the base error all mz3 errors wrap, so callers can test for
	// any codec failure with errors.Is(err, mz3.ErrMZ3).
	ErrMZ3 = errors.New("mz3")

	// ErrOpenFailed indicates the OS could not open the file for the
	// requested mode: path missing, permission denied, or an unreadable
	// gzip header.
	ErrOpenFailed = fmt.Errorf("%w: open failed", ErrMZ3)

	// ErrBadMagic indicates the first two bytes of the decompressed stream
	// were not 0x4D 0x5A.
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrMZ3)

	// ErrShortRead indicates the stream ended before the expected byte
	// count was read.
	ErrShortRead = fmt.Errorf("%w: short read", ErrMZ3)

	// ErrWriteFailed indicates an I/O or gzip error during emit.
	ErrWriteFailed = fmt.Errorf("%w: write failed", ErrMZ3)

	// ErrNonTriangleCell indicates a cell in a WriteCells buffer declared a
	// point count other than 3.
	ErrNonTriangleCell = fmt.Errorf("%w: only triangles are supported", ErrMZ3)

	// ErrUnsupportedPixelType indicates a caller-declared point-pixel type
	// this codec cannot write.
	ErrUnsupportedPixelType = fmt.Errorf("%w: unsupported point pixel type", ErrMZ3)

	// ErrUnsupportedCellComponentType indicates a caller-declared cell
	// component type outside the accepted integer set.
	ErrUnsupportedCellComponentType = fmt.Errorf("%w: unsupported cell component type", ErrMZ3)

	// ErrUnsupportedPointComponentType indicates a caller-declared point
	// component type this codec cannot write. Not part of the format's own
	// taxonomy (the original C++ switches over a closed enum, so there is
	// no runtime case for this); added because Go's `any` parameter has no
	// closed set of types to switch over.
	ErrUnsupportedPointComponentType = fmt.Errorf("%w: unsupported point component type", ErrMZ3)

	// ErrNotOpen indicates a phase method (ReadPoints, WriteCells, ...) was
	// called before the matching Info phase opened the stream.
	ErrNotOpen = fmt.Errorf("%w: no stream open", ErrMZ3)

	// ErrBufferSize indicates a caller-supplied buffer's length does not
	// match the size the header declares.
	ErrBufferSize = fmt.Errorf("%w: buffer size mismatch", ErrMZ3)
)
