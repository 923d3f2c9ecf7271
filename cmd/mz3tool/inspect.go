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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/niftyimages/go-mz3"
	"github.com/niftyimages/go-mz3/meshio"
)

func newInspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print an MZ3 mesh's header fields without reading its data blocks",
		ArgsUsage: "<mesh_path>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("%w: inspect requires exactly one path", ErrFlagParse)
			}
			return inspect(c, c.Args().Get(0))
		},
	}
}

func inspect(c *cli.Context, path string) error {
	var codec mz3.Codec
	info, err := codec.ReadInfo(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrMZ3Tool, path, err)
	}
	defer codec.Finalize()

	tbl := table.New("Field", "Value")
	tbl.WithWriter(c.App.Writer)
	tbl.AddRow("path", path)
	tbl.AddRow("vertices", info.NPoints)
	tbl.AddRow("faces", info.NCells)
	tbl.AddRow("has points", info.UpdatePoints)
	tbl.AddRow("has cells", info.UpdateCells)
	tbl.AddRow("has point data", info.UpdatePointData)
	if info.UpdatePointData {
		tbl.AddRow("point data kind", pixelKindLabel(info))
	}
	tbl.Print()
	return nil
}

func pixelKindLabel(info meshio.MeshInfo) string {
	switch {
	case info.PointPixelType == meshio.RGBA:
		return "rgba (uint8[4])"
	case info.PointPixelComponentType == meshio.Float64:
		return "scalar (float64)"
	default:
		return "scalar (float32)"
	}
}
