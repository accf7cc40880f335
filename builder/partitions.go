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
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"supergsi/tools/lptools"
)

// SystemPartition is the one partition every super image must carry.
const SystemPartition = "system"

// OptionalPartitions lists the partitions carried over into the rebuilt
// image when the source super image contains them.
var OptionalPartitions = []string{"vendor", "product", "odm", "system_ext"}

// ScanPartitions builds the partition set from an extraction directory.
// The system image is mandatory; optional partitions are included only if
// present and non-empty. Sizes are re-read from disk, so the set reflects
// the state after the system image was replaced.
func ScanPartitions(extractDir string) ([]lptools.Partition, error) {
	names := append([]string{SystemPartition}, OptionalPartitions...)
	var parts []lptools.Partition
	for _, name := range names {
		path := filepath.Join(extractDir, name+".img")
		info, err := os.Stat(path)
		if err != nil {
			if name == SystemPartition {
				return nil, fmt.Errorf("no system partition image in %q: %v", extractDir, err)
			}
			continue
		}
		if info.Size() == 0 {
			if name == SystemPartition {
				return nil, fmt.Errorf("system partition image %q is empty", path)
			}
			continue
		}
		parts = append(parts, lptools.Partition{Name: name, Path: path, Size: info.Size()})
	}
	return parts, nil
}

// ListPartitions returns every partition image in an extraction directory,
// sorted by name. Used by the inspect command, which reports whatever the
// unpacker produced rather than the fixed repack set.
func ListPartitions(extractDir string) ([]lptools.Partition, error) {
	matches, err := filepath.Glob(filepath.Join(extractDir, "*.img"))
	if err != nil {
		return nil, err
	}
	var parts []lptools.Partition
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		name = name[:len(name)-len(".img")]
		parts = append(parts, lptools.Partition{Name: name, Path: path, Size: info.Size()})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	return parts, nil
}

// GroupSize returns the container size for a partition set: the sum of all
// partition sizes plus a 20% margin, in integer arithmetic.
func GroupSize(parts []lptools.Partition) int64 {
	var sum int64
	for _, p := range parts {
		sum += p.Size
	}
	return sum * 12 / 10
}
