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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrMZ3Tool is the base error for mz3tool CLI failures.
var ErrMZ3Tool = errors.New("mz3tool")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrMZ3Tool)

func newMZ3App() *cli.App {
	return &cli.App{
		Name:  filepath.Base("mz3tool"),
		Usage: "Convert and inspect MZ3 triangle-mesh files.",
		Description: "mz3tool reads and writes the MZ3 binary triangle-mesh format " +
			"(plain or gzip-wrapped), and prints a file's header fields.",
		Commands: []*cli.Command{
			newConvertCommand(),
			newInspectCommand(),
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "license",
				Usage:              "print license information and exit",
				DisableDefaultText: true,
			},
		},
		Copyright: "Google LLC",
		Action: func(c *cli.Context) error {
			switch {
			case c.Bool("version"):
				return printVersion(c)
			case c.Bool("license"):
				return printLicense(c)
			default:
				return cli.ShowAppHelp(c)
			}
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err)
			if errors.Is(err, ErrFlagParse) {
				cli.OsExiter(ExitCodeFlagParseError)
				return
			}
			cli.OsExiter(ExitCodeUnknownError)
		},
	}
}
