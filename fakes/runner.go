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

// Package fakes provides fake implementations of supergsi's external
// collaborators for use in tests.
package fakes

import (
	"context"
	"fmt"

	"supergsi/utils"
)

// Call records a single subprocess invocation.
type Call struct {
	Name string
	Args []string
}

// Runner is a scripted fake of the lptools.Runner interface. The zero value
// succeeds at everything and records all calls.
type Runner struct {
	// Calls records every Run and Output invocation in order.
	Calls []Call
	// Missing lists executable names LookPath fails to resolve.
	Missing []string
	// RunErr maps a tool name to the error every Run of it returns.
	RunErr map[string]error
	// Outputs maps a tool name to the stdout bytes Output returns for it.
	Outputs map[string][]byte
	// OnRun, if set, is invoked on every Run before its result is
	// determined. Use it to create the output files a real tool would
	// produce.
	OnRun func(name string, args []string) error
}

// Run implements lptools.Runner.
func (r *Runner) Run(_ context.Context, name string, args ...string) error {
	r.Calls = append(r.Calls, Call{name, args})
	if r.OnRun != nil {
		if err := r.OnRun(name, args); err != nil {
			return err
		}
	}
	return r.RunErr[name]
}

// Output implements lptools.Runner.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	r.Calls = append(r.Calls, Call{name, args})
	if err := r.RunErr[name]; err != nil {
		return nil, err
	}
	return r.Outputs[name], nil
}

// LookPath implements lptools.Runner.
func (r *Runner) LookPath(name string) (string, error) {
	if utils.StringSliceContains(r.Missing, name) {
		return "", fmt.Errorf("%q not found on fake PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// CallsTo returns the recorded invocations of the named tool.
func (r *Runner) CallsTo(name string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}
