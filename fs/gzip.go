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

package fs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"supergsi/utils"

	gzip "github.com/klauspost/pgzip"
)

// IsGzip reports whether path names a gzip-compressed file, judged by
// extension. GSIs are commonly distributed as system.img.gz.
func IsGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// GunzipFile decompresses the file at the input path and saves the result at
// the output path.
func GunzipFile(inPath, outPath string) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer utils.CheckClose(in, fmt.Sprintf("error closing %q", inPath), &err)
	gzIn, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("error reading gzip header of %q: %v", inPath, err)
	}
	defer utils.CheckClose(gzIn, fmt.Sprintf("error closing gzip reader for %q", inPath), &err)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer utils.CheckClose(out, fmt.Sprintf("error closing %q", outPath), &err)
	if _, err := io.Copy(out, gzIn); err != nil {
		return fmt.Errorf("error gunzipping %q to %q: %v", inPath, outPath, err)
	}
	return nil
}
