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

// Package builder exports behaviors for rebuilding a super image with a
// replacement system partition end-to-end. The pipeline is strictly
// sequential and halts on the first fatal error; a failed run leaves the
// workspace in place for inspection.
package builder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"supergsi/config"
	"supergsi/fs"
	"supergsi/pack"
	"supergsi/tools/lptools"
	"supergsi/utils"
)

// Deps contains builder dependencies.
type Deps struct {
	// Runner executes the external partition tools.
	Runner lptools.Runner
}

// Result describes a finished run.
type Result struct {
	// OutputPath is the finished <name>_AP.tar.md5 archive.
	OutputPath string
	// Partitions is the partition set that went into the rebuilt image.
	Partitions []lptools.Partition
	// GroupSize is the computed container size.
	GroupSize int64
	// Sparse reports whether the rebuilt image inside the archive is sparse.
	Sparse bool
}

// EnsureRaw returns a raw form of the image at src. A sparse source is
// expanded into scratch; a raw source is used in place. The returned bool
// reports whether scratch was written.
func EnsureRaw(ctx context.Context, r lptools.Runner, src, scratch string) (string, bool, error) {
	sparse, err := lptools.IsSparse(src)
	if err != nil {
		return "", false, err
	}
	if !sparse {
		return src, false, nil
	}
	log.Printf("Converting %q to raw...", src)
	if err := lptools.SparseToRaw(ctx, r, src, scratch); err != nil {
		return "", false, err
	}
	return scratch, true, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer utils.CheckClose(in, fmt.Sprintf("error closing %q", src), &err)
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer utils.CheckClose(out, fmt.Sprintf("error closing %q", dst), &err)
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error copying %q to %q: %v", src, dst, err)
	}
	return nil
}

// installSystem replaces the extracted system image with the replacement GSI
// in raw form, decompressing and converting first as needed.
func installSystem(ctx context.Context, r lptools.Runner, files *fs.Files, gsi string) error {
	src := gsi
	if fs.IsGzip(src) {
		log.Printf("Decompressing %q...", src)
		if err := fs.GunzipFile(src, files.SystemStage); err != nil {
			return err
		}
		src = files.SystemStage
		// The compressed stream couldn't be probed during validation;
		// probe the decompressed bytes now. Warn-only: confirmation has
		// already passed.
		if format, desc, err := lptools.DetectFormat(ctx, r, src); err == nil && format == lptools.FormatUnknown {
			log.Printf("WARNING: decompressed %q does not look like a sparse or raw filesystem image (file reports: %s)", gsi, desc)
		}
	}
	dst := filepath.Join(files.ExtractDir, SystemPartition+".img")
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing extracted system image %q: %v", dst, err)
	}
	sparse, err := lptools.IsSparse(src)
	if err != nil {
		return err
	}
	if sparse {
		return lptools.SparseToRaw(ctx, r, src, dst)
	}
	if src == files.SystemStage {
		// Already a workspace scratch file; move instead of copying.
		return os.Rename(src, dst)
	}
	return copyFile(src, dst)
}

// Run drives a full repack based on req. Inputs must already be resolved and
// advisory warnings confirmed; everything that fails in here is fatal.
func Run(ctx context.Context, deps Deps, files *fs.Files, req *config.Request) (*Result, error) {
	log.Println("Preparing workspace...")
	if err := files.CreateWorkspace(); err != nil {
		return nil, err
	}
	if err := config.SaveToFile(files.RequestFile, req); err != nil {
		return nil, fmt.Errorf("error saving request snapshot: %v", err)
	}

	rawSuper, _, err := EnsureRaw(ctx, deps.Runner, req.SuperImage, files.RawSuper)
	if err != nil {
		return nil, err
	}
	log.Println("Unpacking super image...")
	if err := lptools.Unpack(ctx, deps.Runner, rawSuper, files.ExtractDir); err != nil {
		return nil, err
	}
	systemImg := filepath.Join(files.ExtractDir, SystemPartition+".img")
	if _, err := os.Stat(systemImg); err != nil {
		return nil, fmt.Errorf("super image %q contains no system partition: %v", req.SuperImage, err)
	}

	log.Println("Installing replacement system image...")
	if err := installSystem(ctx, deps.Runner, files, req.SystemImage); err != nil {
		return nil, err
	}

	parts, err := ScanPartitions(files.ExtractDir)
	if err != nil {
		return nil, err
	}
	group := GroupSize(parts)
	log.Printf("Repacking %d partitions, group size %d bytes...", len(parts), group)
	sparse, err := lptools.Repack(ctx, deps.Runner, lptools.RepackRequest{
		Partitions: parts,
		GroupSize:  group,
		Output:     files.Repacked,
		Sparse:     req.SparseOutput,
	})
	if err != nil {
		return nil, err
	}
	if sparse != req.SparseOutput {
		req.SparseOutput = sparse
		if err := config.SaveToFile(files.RequestFile, req); err != nil {
			return nil, fmt.Errorf("error updating request snapshot: %v", err)
		}
	}

	log.Println("Packaging Odin archive...")
	staged, err := pack.Stage(files.Repacked, files.StageDir)
	if err != nil {
		return nil, err
	}
	outputPath, err := pack.OdinArchive(staged, req.OutputDir, req.OutputName)
	if err != nil {
		return nil, err
	}

	if req.KeepWorkspace {
		log.Printf("Keeping workspace %q", files.Root())
	} else {
		log.Println("Cleaning up workspace...")
		if err := files.Cleanup(); err != nil {
			return nil, fmt.Errorf("error cleaning up workspace %q: %v", files.Root(), err)
		}
	}
	log.Printf("Done. Flash %q in Odin's AP slot.", outputPath)
	return &Result{
		OutputPath: outputPath,
		Partitions: parts,
		GroupSize:  group,
		Sparse:     sparse,
	}, nil
}
