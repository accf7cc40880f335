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

// Package config exports functionality for storing/retrieving run
// configuration on/from the local disk.
package config

import (
	"encoding/json"
	"io"
	"os"
)

// Request stores the full configuration of one repack run. It is threaded
// explicitly through every pipeline stage instead of living in ambient
// process state, and a snapshot of it is written into the workspace.
type Request struct {
	// SuperImage is the absolute path of the source super image.
	SuperImage string
	// SystemImage is the absolute path of the replacement GSI system image.
	SystemImage string
	// WorkDir is the directory the workspace is created under.
	WorkDir string
	// OutputDir is the directory the finished AP archive is written to.
	OutputDir string
	// OutputName is the base name of the output archive:
	// <OutputName>_AP.tar.md5.
	OutputName string
	// AssumeYes suppresses interactive confirmation of advisory warnings.
	AssumeYes bool
	// KeepWorkspace leaves the workspace in place after a successful run.
	KeepWorkspace bool
	// SparseOutput requests a sparse rebuilt image. Updated to reflect what
	// was actually produced if lpmake falls back to non-sparse output.
	SparseOutput bool
}

// NewRequest builds a Request with defaults.
func NewRequest() *Request {
	return &Request{
		WorkDir:      ".",
		OutputDir:    ".",
		OutputName:   "patched_super",
		SparseOutput: true,
	}
}

// Save serializes the given struct as JSON and writes it out.
func Save(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Load deserializes JSON formatted data into the given struct.
func Load(r io.Reader, v interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SaveToFile serializes the given struct as JSON into the file at path.
func SaveToFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Save(f, v)
}

// LoadFromFile loads JSON data from a file into the given struct.
func LoadFromFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Load(f, v)
}
