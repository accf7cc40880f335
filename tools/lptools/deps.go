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
	"fmt"
	"os"
	"strings"
)

// Names of the external tools this package invokes.
const (
	SimgToRawCmd = "simg2img"
	UnpackCmd    = "lpunpack"
	RepackCmd    = "lpmake"
	FileCmd      = "file"
)

// RequiredTools lists the executables a full patch run needs on PATH.
func RequiredTools() []string {
	return []string{SimgToRawCmd, UnpackCmd, RepackCmd, FileCmd}
}

// CheckDeps verifies that every named tool resolves on the execution path.
// The returned error names everything missing and how to install it.
func CheckDeps(r Runner, tools []string) error {
	var missing []string
	for _, tool := range tools {
		if _, err := r.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s. On Termux, run %q to install them",
			strings.Join(missing, ", "), "pkg install android-tools file")
	}
	return nil
}

// InTermux reports whether the process appears to be running inside Termux.
// Used for an advisory warning only.
func InTermux() bool {
	if os.Getenv("TERMUX_VERSION") != "" {
		return true
	}
	return strings.Contains(os.Getenv("PREFIX"), "com.termux")
}
