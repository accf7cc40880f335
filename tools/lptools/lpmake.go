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
	"fmt"
	"log"
	"os"
	"strconv"
)

// Partition describes one logical partition to include in a rebuilt super
// image.
type Partition struct {
	// Name is the logical partition name, e.g. "system" or "vendor".
	Name string
	// Path is the raw partition image on disk.
	Path string
	// Size is the byte size of the image at Path.
	Size int64
}

// RepackRequest describes a full lpmake invocation.
type RepackRequest struct {
	// Partitions lists every partition to include. All are packed readonly
	// into a single update group.
	Partitions []Partition
	// GroupSize is the size of the update group and of the super device.
	GroupSize int64
	// Output is the path lpmake writes the rebuilt image to.
	Output string
	// Sparse requests sparse (flashable) output.
	Sparse bool
}

const (
	metadataSize  = 65536
	metadataSlots = 2
	superName     = "super"
	groupName     = "main"
)

func repackArgs(req RepackRequest) []string {
	args := []string{
		"--metadata-size", strconv.Itoa(metadataSize),
		"--metadata-slots", strconv.Itoa(metadataSlots),
		"--device", fmt.Sprintf("%s:%d", superName, req.GroupSize),
		"--group", fmt.Sprintf("%s:%d", groupName, req.GroupSize),
	}
	for _, p := range req.Partitions {
		args = append(args,
			"--partition", fmt.Sprintf("%s:readonly:%d:%s", p.Name, p.Size, groupName),
			"--image", fmt.Sprintf("%s=%s", p.Name, p.Path))
	}
	if req.Sparse {
		args = append(args, "--sparse")
	}
	args = append(args, "--output", req.Output)
	return args
}

func outputPresent(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// Repack invokes lpmake to rebuild a super image from req. Success is judged
// by the presence of a non-empty output file, not by lpmake's exit status.
// If sparse output was requested and no output appears, the invocation is
// retried once without the sparse option. The returned bool reports whether
// the produced image is sparse.
func Repack(ctx context.Context, r Runner, req RepackRequest) (bool, error) {
	if len(req.Partitions) == 0 {
		return false, fmt.Errorf("no partitions to repack into %q", req.Output)
	}
	if err := r.Run(ctx, RepackCmd, repackArgs(req)...); err != nil {
		log.Printf("lpmake failed: %v", err)
	}
	if outputPresent(req.Output) {
		return req.Sparse, nil
	}
	if !req.Sparse {
		return false, fmt.Errorf("lpmake produced no output at %q", req.Output)
	}
	log.Println("lpmake produced no output with --sparse, retrying without it...")
	retry := req
	retry.Sparse = false
	if err := r.Run(ctx, RepackCmd, repackArgs(retry)...); err != nil {
		log.Printf("lpmake retry failed: %v", err)
	}
	if outputPresent(req.Output) {
		return false, nil
	}
	return false, fmt.Errorf("lpmake produced no output at %q after retrying without --sparse", req.Output)
}
