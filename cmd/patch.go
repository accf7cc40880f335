// Copyright 2026 The supergsi Authors
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

// Package cmd contains supergsi subcommand implementations.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"

	"supergsi/builder"
	"supergsi/config"
	"supergsi/fs"
	"supergsi/tools/lptools"

	"github.com/google/subcommands"
)

var errAborted = errors.New("aborted by user")

// Patch implements subcommands.Command for the 'patch' command. It rebuilds
// a super image with a replacement GSI system partition and packages the
// result as an Odin AP archive.
type Patch struct {
	super         string
	system        string
	workDir       string
	outputDir     string
	outputName    string
	assumeYes     bool
	keepWorkspace bool
	noSparse      bool
}

// Name implements subcommands.Command.Name.
func (*Patch) Name() string {
	return "patch"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Patch) Synopsis() string {
	return "Replace the system partition in a super image with a GSI."
}

// Usage implements subcommands.Command.Usage.
func (*Patch) Usage() string {
	return `patch [flags]

Inputs not given as flags are prompted for interactively.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (p *Patch) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.super, "super", "", "Path to the source super image (sparse or raw)")
	f.StringVar(&p.system, "system", "", "Path to the replacement GSI system image (sparse, raw, or .gz)")
	f.StringVar(&p.workDir, "workdir", ".", "Directory to create the scratch workspace under")
	f.StringVar(&p.outputDir, "output-dir", ".", "Directory to write the finished archive to")
	f.StringVar(&p.outputName, "name", "", "Base name of the output archive: <name>_AP.tar.md5")
	f.BoolVar(&p.assumeYes, "yes", false, "Continue past advisory warnings without prompting")
	f.BoolVar(&p.keepWorkspace, "keep-workspace", false, "Keep the workspace after a successful run")
	f.BoolVar(&p.noSparse, "no-sparse", false, "Build a non-sparse super image (skip lpmake --sparse)")
}

func (p *Patch) buildRequest(pr *prompter) (*config.Request, error) {
	req := config.NewRequest()
	req.WorkDir = p.workDir
	req.OutputDir = p.outputDir
	req.AssumeYes = p.assumeYes
	req.KeepWorkspace = p.keepWorkspace
	req.SparseOutput = !p.noSparse

	var err error
	superPath := p.super
	if superPath == "" {
		if superPath, err = pr.input("Path to super image"); err != nil {
			return nil, err
		}
	}
	if req.SuperImage, err = builder.ResolveInput(superPath); err != nil {
		return nil, err
	}
	systemPath := p.system
	if systemPath == "" {
		if systemPath, err = pr.input("Path to replacement GSI image"); err != nil {
			return nil, err
		}
	}
	if req.SystemImage, err = builder.ResolveInput(systemPath); err != nil {
		return nil, err
	}
	req.OutputName = p.outputName
	if req.OutputName == "" {
		if req.OutputName, err = pr.input("Output name"); err != nil {
			return nil, err
		}
	}
	if req.OutputName == "" {
		req.OutputName = config.NewRequest().OutputName
	}
	return req, nil
}

func (p *Patch) run(ctx context.Context, r lptools.Runner, pr *prompter) error {
	if !lptools.InTermux() {
		log.Println("WARNING: this does not look like a Termux environment; continuing anyway")
	}
	if err := lptools.CheckDeps(r, lptools.RequiredTools()); err != nil {
		return err
	}
	req, err := p.buildRequest(pr)
	if err != nil {
		return err
	}

	var warnings []string
	warnings = append(warnings, builder.ValidateSuperImage(ctx, r, req.SuperImage)...)
	warnings = append(warnings, builder.ValidateSystemImage(ctx, r, req.SystemImage)...)
	warnings = append(warnings, builder.CheckDiskSpace(req.WorkDir, req.SuperImage, req.SystemImage)...)
	for _, w := range warnings {
		if !pr.confirm(w) {
			return errAborted
		}
	}

	files := fs.DefaultFiles(req.WorkDir)
	result, err := builder.Run(ctx, builder.Deps{Runner: r}, files, req)
	if err != nil {
		return err
	}
	for _, part := range result.Partitions {
		log.Printf("  packed %-12s %d bytes", part.Name, part.Size)
	}
	return nil
}

// Execute implements subcommands.Command.Execute.
func (p *Patch) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := p.run(ctx, lptools.NewRunner(), newPrompter(p.assumeYes)); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
