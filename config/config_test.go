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

package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSave(t *testing.T) {
	data := &struct{ Test string }{"test"}
	expected := "{\"Test\":\"test\"}"
	actual := new(strings.Builder)
	if err := Save(actual, data); err != nil {
		t.Fatal(err)
	}
	if got := actual.String(); got != expected {
		t.Errorf("actual: %s expected: %s", got, expected)
	}
}

func TestLoad(t *testing.T) {
	data := strings.NewReader("{\"Test\":\"test\"}")
	expected := &struct{ Test string }{"test"}
	actual := new(struct{ Test string })
	if err := Load(data, actual); err != nil {
		t.Fatal(err)
	}
	if *actual != *expected {
		t.Errorf("actual: %v expected: %v", actual, expected)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	req := NewRequest()
	req.SuperImage = "/sdcard/super.img"
	req.SystemImage = "/sdcard/gsi.img.gz"
	req.OutputName = "lineage"
	req.KeepWorkspace = true
	if err := SaveToFile(path, req); err != nil {
		t.Fatal(err)
	}
	got := new(Request)
	if err := LoadFromFile(path, got); err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(got, req) {
		t.Errorf("actual: %v expected: %v", got, req)
	}
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest()
	if !req.SparseOutput {
		t.Error("new requests should default to sparse output")
	}
	if req.OutputName == "" {
		t.Error("new requests should carry a default output name")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"), new(Request)); err == nil {
		t.Fatal("LoadFromFile succeeded on a missing file")
	}
}
