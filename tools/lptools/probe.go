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

package lptools

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format tags the on-disk encoding of an image file.
type Format string

const (
	FormatSparse  Format = "sparse"
	FormatRaw     Format = "raw"
	FormatUnknown Format = "unknown"
)

// Magic number at the start of an Android sparse image.
const sparseMagic = 0xed26ff3a

// IsSparse reports whether the file at path starts with the Android sparse
// image magic.
func IsSparse(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("error reading %q: %v", path, err)
	}
	return binary.LittleEndian.Uint32(buf[:]) == sparseMagic, nil
}

// DetectFormat classifies the image at path and returns the file(1)
// description that backed the classification. The classification is a
// heuristic: an unknown format is a reason to warn, never to fail.
func DetectFormat(ctx context.Context, r Runner, path string) (Format, string, error) {
	sparse, err := IsSparse(path)
	if err != nil {
		return FormatUnknown, "", err
	}
	out, probeErr := r.Output(ctx, FileCmd, "-b", path)
	desc := strings.TrimSpace(string(out))
	if sparse {
		return FormatSparse, desc, nil
	}
	if probeErr != nil {
		return FormatUnknown, "", fmt.Errorf("error probing %q: %v", path, probeErr)
	}
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "sparse image"):
		return FormatSparse, desc, nil
	case strings.Contains(lower, "filesystem"):
		return FormatRaw, desc, nil
	default:
		return FormatUnknown, desc, nil
	}
}
