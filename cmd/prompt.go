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

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// prompter collects interactive answers. All reads default to abort: only
// an explicit "y" continues past a warning.
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
}

func newPrompter(assumeYes bool) *prompter {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	return &prompter{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: interactive,
		assumeYes:   assumeYes,
	}
}

// input prompts for a value that was not supplied as a flag.
func (p *prompter) input(label string) (string, error) {
	if !p.interactive {
		return "", fmt.Errorf("%s was not provided and stdin is not a terminal", label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("error reading %s: %v", label, err)
	}
	return strings.TrimSpace(line), nil
}

// confirm surfaces an advisory warning and asks whether to continue. Any
// answer other than y aborts.
func (p *prompter) confirm(warning string) bool {
	if p.assumeYes {
		log.Printf("WARNING: %s (continuing, -yes given)", warning)
		return true
	}
	if !p.interactive {
		log.Printf("WARNING: %s (aborting, stdin is not a terminal)", warning)
		return false
	}
	fmt.Fprintf(p.out, "WARNING: %s\nContinue? [y/N]: ", warning)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
