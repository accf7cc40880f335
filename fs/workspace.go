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

// Package fs exports functionality related to all of the supergsi state
// stored on the file system.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const (
	// Name of the workspace directory created under the user's work dir.
	// Everything supergsi generates lives below it, so user files are never
	// touched by cleanup.
	workspaceDir = ".supergsi"

	rawSuperImage = "super.raw.img"
	systemStage   = "system.stage.img"
	extractDir    = "extracted"
	repackedImage = "super.new.img"
	stageDir      = "odin"
	requestFile   = "request.json"
)

// Files stores important workspace file paths.
type Files struct {
	root string
	// RawSuper points to the raw copy of the source super image. Only
	// written when the source is sparse; a raw source is used in place.
	RawSuper string
	// SystemStage is scratch space for decompressing or converting the
	// replacement system image.
	SystemStage string
	// ExtractDir holds the logical partitions unpacked from the super image.
	ExtractDir string
	// Repacked is where lpmake writes the rebuilt super image.
	Repacked string
	// StageDir is the clean directory the rebuilt image is staged into
	// before archiving.
	StageDir string
	// RequestFile holds a JSON snapshot of the run request, so a workspace
	// left behind by a failed run is self-describing.
	RequestFile string
}

// DefaultFiles builds a Files struct rooted in the given work directory.
func DefaultFiles(workDir string) *Files {
	root := filepath.Join(workDir, workspaceDir)
	return &Files{
		root,
		filepath.Join(root, rawSuperImage),
		filepath.Join(root, systemStage),
		filepath.Join(root, extractDir),
		filepath.Join(root, repackedImage),
		filepath.Join(root, stageDir),
		filepath.Join(root, requestFile),
	}
}

// Root returns the workspace root directory.
func (f *Files) Root() string {
	return f.root
}

// CreateWorkspace wipes any leftover workspace and creates a fresh one.
func (f *Files) CreateWorkspace() error {
	if err := os.RemoveAll(f.root); err != nil {
		return fmt.Errorf("error removing leftover workspace %q: %v", f.root, err)
	}
	if err := os.MkdirAll(f.ExtractDir, 0770); err != nil {
		return fmt.Errorf("error creating workspace %q: %v", f.root, err)
	}
	return nil
}

// Cleanup deletes the entire workspace. User-supplied files never live in
// the workspace, so this removes generated artifacts only.
func (f *Files) Cleanup() error {
	return os.RemoveAll(f.root)
}

// FreeSpace returns the number of bytes available to the caller on the
// filesystem containing path.
func FreeSpace(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("error statting filesystem of %q: %v", path, err)
	}
	return st.Bavail * uint64(st.Bsize), nil
}
