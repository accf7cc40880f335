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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"supergsi/builder"
	"supergsi/tools/lptools"

	"github.com/google/subcommands"
)

// Inspect implements subcommands.Command for the 'inspect' command. It
// lists the logical partitions inside a super image without modifying it.
type Inspect struct {
	super string
}

// Name implements subcommands.Command.Name.
func (*Inspect) Name() string {
	return "inspect"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Inspect) Synopsis() string {
	return "List the logical partitions inside a super image."
}

// Usage implements subcommands.Command.Usage.
func (*Inspect) Usage() string {
	return `inspect -super <image>
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (i *Inspect) SetFlags(f *flag.FlagSet) {
	f.StringVar(&i.super, "super", "", "Path to the super image to inspect (sparse or raw)")
}

func (i *Inspect) run(ctx context.Context, r lptools.Runner) error {
	if err := lptools.CheckDeps(r, []string{lptools.SimgToRawCmd, lptools.UnpackCmd}); err != nil {
		return err
	}
	superPath, err := builder.ResolveInput(i.super)
	if err != nil {
		return err
	}
	tmpDir, err := os.MkdirTemp("", "supergsi-inspect-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	raw, _, err := builder.EnsureRaw(ctx, r, superPath, filepath.Join(tmpDir, "super.raw.img"))
	if err != nil {
		return err
	}
	extractDir := filepath.Join(tmpDir, "extracted")
	if err := lptools.Unpack(ctx, r, raw, extractDir); err != nil {
		return err
	}
	parts, err := builder.ListPartitions(extractDir)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("no partitions found in %q", superPath)
	}
	for _, p := range parts {
		fmt.Printf("%-16s %d bytes\n", p.Name, p.Size)
	}
	return nil
}

// Execute implements subcommands.Command.Execute.
func (i *Inspect) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if i.super == "" || f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := i.run(ctx, lptools.NewRunner()); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
