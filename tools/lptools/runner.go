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

// Package lptools wraps the external Android partition tools (simg2img,
// lpunpack, lpmake) and the generic file-type prober. The tools are treated
// as black boxes: this package builds their invocations and interprets their
// observable results, nothing more.
package lptools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external tools. It exists so tests can substitute a fake
// for real subprocesses.
type Runner interface {
	// Run executes the named tool with args. Stdout and stderr stream to
	// the current process.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes the named tool and captures its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// LookPath resolves an executable name on the execution path.
	LookPath(name string) (string, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by real subprocesses.
func NewRunner() Runner {
	return &execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf(`error in cmd "%s %s", see stderr for details: %v`, name, strings.Join(args, " "), err)
	}
	return nil
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf(`error in cmd "%s %s": %v`, name, strings.Join(args, " "), err)
	}
	return out, nil
}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
