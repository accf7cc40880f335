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

package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"supergsi/fs"
	"supergsi/tools/lptools"
)

// MinGSISize is the smallest size a replacement system image is expected to
// have. Smaller images trigger an advisory warning, not a failure: the
// threshold is a plausibility heuristic, not a correctness guarantee.
const MinGSISize = 1 << 30

// ResolveInput resolves a user-supplied path to an absolute path and fails
// if the file is missing, a directory, or empty. These failures mean the
// input is definitely unusable, so they are fatal.
func ResolveInput(path string) (string, error) {
	if path == "" {
		return "", errors.New("no path given")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error resolving %q: %v", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("input file %q does not exist: %v", abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("input %q is a directory, not an image file", abs)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("input file %q is empty", abs)
	}
	return abs, nil
}

// ValidateSuperImage applies the heuristic checks to a resolved super image
// path and returns advisory warnings. The definitive structural check (a
// successful unpack containing a system partition) happens in Run.
func ValidateSuperImage(ctx context.Context, r lptools.Runner, path string) []string {
	var warnings []string
	format, desc, err := lptools.DetectFormat(ctx, r, path)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("could not determine the type of %q: %v", path, err))
	case format == lptools.FormatUnknown:
		warnings = append(warnings, fmt.Sprintf("%q does not look like a sparse or raw image (file reports: %s)", path, desc))
	}
	return warnings
}

// ValidateSystemImage applies the heuristic checks to a resolved replacement
// GSI path and returns advisory warnings.
func ValidateSystemImage(ctx context.Context, r lptools.Runner, path string) []string {
	var warnings []string
	info, err := os.Stat(path)
	if err == nil && info.Size() < MinGSISize {
		warnings = append(warnings,
			fmt.Sprintf("%q is %d bytes, smaller than 1 GiB; it may not be a complete GSI", path, info.Size()))
	}
	if fs.IsGzip(path) {
		// The compressed stream can't be probed in place; it is re-probed,
		// warn-only, after decompression into the workspace.
		return warnings
	}
	format, desc, err := lptools.DetectFormat(ctx, r, path)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("could not determine the type of %q: %v", path, err))
	case format == lptools.FormatUnknown:
		warnings = append(warnings, fmt.Sprintf("%q does not look like a sparse or raw filesystem image (file reports: %s)", path, desc))
	}
	return warnings
}

// CheckDiskSpace compares the free space under dir with the estimated need
// (the sum of both input image sizes) and returns an advisory warning if it
// falls short. The estimate is advisory, not an enforced quota.
func CheckDiskSpace(dir string, inputs ...string) []string {
	var required int64
	for _, path := range inputs {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		required += info.Size()
	}
	free, err := fs.FreeSpace(dir)
	if err != nil {
		return []string{fmt.Sprintf("could not check free space under %q: %v", dir, err)}
	}
	if free < uint64(required) {
		return []string{fmt.Sprintf("about %d bytes of scratch space are needed under %q but only %d are free", required, dir, free)}
	}
	return nil
}
