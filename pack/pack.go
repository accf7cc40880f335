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

// Package pack builds the Odin-flashable AP archive from a rebuilt super
// image: an uncompressed tar with a single super.img entry, followed by the
// MD5 trailer Odin expects from a .tar.md5 sidecar.
package pack

import (
	"archive/tar"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"supergsi/utils"
)

// EntryName is the name of the sole tar entry. Odin flashes it to the super
// partition based on this name.
const EntryName = "super.img"

// Stage moves the rebuilt image into a clean staging directory and renames
// it to super.img. The directory is wiped first so the archive can only ever
// contain the one entry.
func Stage(image, stageDir string) (string, error) {
	if err := os.RemoveAll(stageDir); err != nil {
		return "", fmt.Errorf("error clearing staging directory %q: %v", stageDir, err)
	}
	if err := os.MkdirAll(stageDir, 0770); err != nil {
		return "", fmt.Errorf("error creating staging directory %q: %v", stageDir, err)
	}
	staged := filepath.Join(stageDir, EntryName)
	if err := os.Rename(image, staged); err != nil {
		return "", fmt.Errorf("error staging %q as %q: %v", image, staged, err)
	}
	return staged, nil
}

// OdinArchive writes <name>_AP.tar.md5 into outDir, containing the staged
// image as its sole super.img entry. The MD5 digest covers the complete tar
// byte stream; the trailer appended after it has the form
// "<hex-digest>  <tarname>.md5" with two spaces, which is what Odin checks.
func OdinArchive(staged, outDir, name string) (outPath string, err error) {
	info, err := os.Stat(staged)
	if err != nil {
		return "", fmt.Errorf("error statting staged image %q: %v", staged, err)
	}
	if err := os.MkdirAll(outDir, 0775); err != nil {
		return "", err
	}
	tarName := name + "_AP.tar"
	tarPath := filepath.Join(outDir, tarName)
	out, err := os.Create(tarPath)
	if err != nil {
		return "", fmt.Errorf("error creating archive %q: %v", tarPath, err)
	}
	defer utils.CheckClose(out, fmt.Sprintf("error closing %q", tarPath), &err)

	digest := md5.New()
	tw := tar.NewWriter(io.MultiWriter(out, digest))
	hdr := &tar.Header{
		Name:    EntryName,
		Mode:    0644,
		Size:    info.Size(),
		ModTime: info.ModTime().Truncate(time.Second),
		Format:  tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return "", fmt.Errorf("error writing tar header: %v", err)
	}
	in, err := os.Open(staged)
	if err != nil {
		return "", err
	}
	defer utils.CheckClose(in, fmt.Sprintf("error closing %q", staged), &err)
	if _, err := io.Copy(tw, in); err != nil {
		return "", fmt.Errorf("error archiving %q: %v", staged, err)
	}
	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("error finishing archive %q: %v", tarPath, err)
	}

	// The trailer is written to the file only, after the digest is final.
	trailer := fmt.Sprintf("%x  %s.md5", digest.Sum(nil), tarName)
	if _, err := io.WriteString(out, trailer); err != nil {
		return "", fmt.Errorf("error appending MD5 trailer to %q: %v", tarPath, err)
	}

	outPath = tarPath + ".md5"
	if err := os.Rename(tarPath, outPath); err != nil {
		return "", fmt.Errorf("error renaming %q to %q: %v", tarPath, outPath, err)
	}
	return outPath, nil
}
