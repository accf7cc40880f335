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
	"archive/tar"
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"supergsi/config"
	"supergsi/fakes"
	"supergsi/fs"
	"supergsi/tools/lptools"

	"github.com/google/go-cmp/cmp"
	gzip "github.com/klauspost/pgzip"
)

func outputArg(args []string) string {
	for i, arg := range args {
		if arg == "--output" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// fakeTools scripts the external tools: lpunpack produces the given
// partition images, lpmake writes a fixed rebuilt image, simg2img copies
// its input.
func fakeTools(t *testing.T, extracted map[string]int) *fakes.Runner {
	t.Helper()
	return &fakes.Runner{
		OnRun: func(name string, args []string) error {
			switch name {
			case lptools.UnpackCmd:
				for part, size := range extracted {
					path := filepath.Join(args[1], part+".img")
					if err := os.WriteFile(path, bytes.Repeat([]byte{'O'}, size), 0644); err != nil {
						return err
					}
				}
			case lptools.RepackCmd:
				return os.WriteFile(outputArg(args), []byte("NEWSUPER"), 0644)
			case lptools.SimgToRawCmd:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return os.WriteFile(args[1], data, 0644)
			}
			return nil
		},
	}
}

func testRequest(t *testing.T, workDir, outDir string, gsiSize int) *config.Request {
	t.Helper()
	inputs := t.TempDir()
	req := config.NewRequest()
	req.SuperImage = writeImage(t, inputs, "super", 8192)
	req.SystemImage = writeImage(t, inputs, "gsi", gsiSize)
	req.WorkDir = workDir
	req.OutputDir = outDir
	req.OutputName = "test"
	return req
}

func TestRunEndToEnd(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	req := testRequest(t, workDir, outDir, 4096)
	runner := fakeTools(t, map[string]int{"system": 2048, "vendor": 1024})
	files := fs.DefaultFiles(workDir)

	res, err := Run(context.Background(), Deps{Runner: runner}, files, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantOutput := filepath.Join(outDir, "test_AP.tar.md5")
	if res.OutputPath != wantOutput {
		t.Errorf("output path %q, want %q", res.OutputPath, wantOutput)
	}
	// The replacement system image's size, not the original's, must be in
	// the partition set; vendor is carried over unchanged.
	var got []lptools.Partition
	for _, p := range res.Partitions {
		got = append(got, lptools.Partition{Name: p.Name, Size: p.Size})
	}
	want := []lptools.Partition{{Name: "system", Size: 4096}, {Name: "vendor", Size: 1024}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partition set diff (-want +got):\n%s", diff)
	}
	if wantGroup := int64((4096 + 1024) * 12 / 10); res.GroupSize != wantGroup {
		t.Errorf("group size %d, want %d", res.GroupSize, wantGroup)
	}
	if len(runner.CallsTo(lptools.SimgToRawCmd)) != 0 {
		t.Error("simg2img invoked for a raw super image")
	}
	if _, err := os.Stat(files.Root()); !os.IsNotExist(err) {
		t.Errorf("workspace %q not cleaned up after success", files.Root())
	}

	// Check the archive: a single super.img entry followed by the Odin
	// trailer over the exact tar bytes.
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	trailerLen := len(fmt.Sprintf("%x  test_AP.tar.md5", md5.Sum(nil)))
	if len(data) <= trailerLen {
		t.Fatalf("archive too small: %d bytes", len(data))
	}
	payload, trailer := data[:len(data)-trailerLen], string(data[len(data)-trailerLen:])
	parts := strings.SplitN(trailer, "  ", 2)
	if len(parts) != 2 || parts[1] != "test_AP.tar.md5" {
		t.Fatalf("malformed trailer %q", trailer)
	}
	if want := fmt.Sprintf("%x", md5.Sum(payload)); parts[0] != want {
		t.Errorf("trailer digest %q, want %q", parts[0], want)
	}
	tr := tar.NewReader(bytes.NewReader(payload))
	hdr, err := tr.Next()
	if err != nil {
		t.Fatalf("reading tar entry: %v", err)
	}
	if hdr.Name != "super.img" {
		t.Errorf("tar entry %q, want super.img", hdr.Name)
	}
	content, err := io.ReadAll(tr)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "NEWSUPER" {
		t.Errorf("tar entry content %q, want the rebuilt image", content)
	}
	if _, err := tr.Next(); err != io.EOF {
		t.Error("archive contains more than one entry")
	}
}

func TestRunSparseSuper(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	req := testRequest(t, workDir, outDir, 4096)
	sparse := append([]byte{0x3a, 0xff, 0x26, 0xed}, bytes.Repeat([]byte{0}, 60)...)
	if err := os.WriteFile(req.SuperImage, sparse, 0644); err != nil {
		t.Fatal(err)
	}
	runner := fakeTools(t, map[string]int{"system": 2048})
	files := fs.DefaultFiles(workDir)

	if _, err := Run(context.Background(), Deps{Runner: runner}, files, req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	convs := runner.CallsTo(lptools.SimgToRawCmd)
	if len(convs) != 1 {
		t.Fatalf("simg2img invoked %d times, want 1", len(convs))
	}
	unpacks := runner.CallsTo(lptools.UnpackCmd)
	if len(unpacks) != 1 || unpacks[0].Args[0] != files.RawSuper {
		t.Errorf("lpunpack ran against %v, want the converted raw image %q", unpacks, files.RawSuper)
	}
}

func TestRunNoSystemPartition(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	req := testRequest(t, workDir, outDir, 4096)
	runner := fakeTools(t, map[string]int{"vendor": 1024})
	files := fs.DefaultFiles(workDir)

	_, err := Run(context.Background(), Deps{Runner: runner}, files, req)
	if err == nil {
		t.Fatal("Run succeeded on a super image without a system partition")
	}
	if !strings.Contains(err.Error(), "no system partition") {
		t.Errorf("error %q does not name the missing system partition", err)
	}
	// A failed run leaves the workspace for inspection.
	if _, statErr := os.Stat(files.Root()); statErr != nil {
		t.Errorf("workspace %q not left behind after failure: %v", files.Root(), statErr)
	}
}

func TestRunKeepWorkspace(t *testing.T) {
	workDir, outDir := t.TempDir(), t.TempDir()
	req := testRequest(t, workDir, outDir, 4096)
	req.KeepWorkspace = true
	runner := fakeTools(t, map[string]int{"system": 2048})
	files := fs.DefaultFiles(workDir)

	if _, err := Run(context.Background(), Deps{Runner: runner}, files, req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	snapshot := new(config.Request)
	if err := config.LoadFromFile(files.RequestFile, snapshot); err != nil {
		t.Fatalf("loading request snapshot: %v", err)
	}
	if diff := cmp.Diff(req, snapshot); diff != "" {
		t.Errorf("request snapshot diff (-want +got):\n%s", diff)
	}
}

func TestInstallSystemGzip(t *testing.T) {
	workDir := t.TempDir()
	files := fs.DefaultFiles(workDir)
	if err := files.CreateWorkspace(); err != nil {
		t.Fatal(err)
	}
	writeImage(t, files.ExtractDir, "system", 2048)

	content := bytes.Repeat([]byte{'G'}, 4096)
	gzPath := filepath.Join(t.TempDir(), "gsi.img.gz")
	out, err := os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	gzOut := gzip.NewWriter(out)
	if _, err := gzOut.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := gzOut.Close(); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	runner := &fakes.Runner{Outputs: map[string][]byte{lptools.FileCmd: []byte("data\n")}}
	if err := installSystem(context.Background(), runner, files, gzPath); err != nil {
		t.Fatalf("installSystem: %v", err)
	}
	// The deferred type probe must run against the decompressed stage file.
	probes := runner.CallsTo(lptools.FileCmd)
	if len(probes) != 1 || probes[0].Args[len(probes[0].Args)-1] != files.SystemStage {
		t.Errorf("file probe calls %v, want one against %q", probes, files.SystemStage)
	}
	got, err := os.ReadFile(filepath.Join(files.ExtractDir, "system.img"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("installed system image has %d bytes, want the %d decompressed bytes", len(got), len(content))
	}
}
