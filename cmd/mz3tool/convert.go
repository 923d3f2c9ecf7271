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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/niftyimages/go-mz3"
	"github.com/niftyimages/go-mz3/meshio"
)

func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "read an MZ3 mesh and write it back out, optionally changing compression",
		ArgsUsage: "<input_mesh_path> <output_mesh_path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "compress",
				Usage:              "gzip-wrap the output stream",
				DisableDefaultText: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("%w: convert requires <input> and <output>", ErrFlagParse)
			}
			conv := convert{
				in:       c.Args().Get(0),
				out:      c.Args().Get(1),
				compress: c.Bool("compress"),
			}
			return conv.Run()
		},
	}
}

type convert struct {
	in       string
	out      string
	compress bool
}

func (cv *convert) Run() error {
	var src mz3.Codec
	info, err := src.ReadInfo(cv.in)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrMZ3Tool, cv.in, err)
	}
	defer src.Finalize()

	points := make([]float32, 3*info.NPoints)
	if info.UpdatePoints {
		if err := src.ReadPoints(points); err != nil {
			return fmt.Errorf("%w: reading points: %w", ErrMZ3Tool, err)
		}
	}

	cells := make([]uint32, info.CellBufferSize)
	if info.UpdateCells {
		if err := src.ReadCells(cells); err != nil {
			return fmt.Errorf("%w: reading cells: %w", ErrMZ3Tool, err)
		}
	}

	var pointData []byte
	if info.UpdatePointData {
		pointData = make([]byte, pointDataByteSize(info))
		if err := src.ReadPointData(pointData); err != nil {
			return fmt.Errorf("%w: reading point data: %w", ErrMZ3Tool, err)
		}
	}

	var dst mz3.Codec
	opts := mz3.WriteOptions{
		Compress:                cv.compress,
		PointPixelType:          info.PointPixelType,
		PointPixelComponentType: info.PointPixelComponentType,
	}
	if err := dst.WriteInfo(cv.out, info.NPoints, info.NCells, opts); err != nil {
		return fmt.Errorf("%w: writing %q: %w", ErrMZ3Tool, cv.out, err)
	}
	defer dst.Finalize()

	if err := dst.WritePoints(points); err != nil {
		return fmt.Errorf("%w: writing points: %w", ErrMZ3Tool, err)
	}
	if err := dst.WriteCells(cells); err != nil {
		return fmt.Errorf("%w: writing cells: %w", ErrMZ3Tool, err)
	}
	if info.UpdatePointData {
		if err := writePointData(&dst, info, pointData); err != nil {
			return fmt.Errorf("%w: writing point data: %w", ErrMZ3Tool, err)
		}
	}

	return dst.Finalize()
}

// pointDataByteSize mirrors the attribute-kind byte sizing ReadPointData
// applies internally, so the CLI can size its own scratch buffer.
func pointDataByteSize(info meshio.MeshInfo) int {
	if info.PointPixelComponentType == meshio.Float64 {
		return 8 * int(info.NPoints)
	}
	return 4 * int(info.NPoints)
}

// writePointData reinterprets the raw bytes ReadPointData returned back
// into the typed buffer WritePointData expects for each pixel kind.
func writePointData(dst *mz3.Codec, info meshio.MeshInfo, raw []byte) error {
	switch {
	case info.PointPixelType == meshio.RGBA:
		return dst.WritePointData(raw)
	case info.PointPixelComponentType == meshio.Float64:
		return dst.WritePointData(mz3.DecodeScalarFloat64(raw))
	default:
		return dst.WritePointData(mz3.DecodeScalarFloat32(raw))
	}
}
