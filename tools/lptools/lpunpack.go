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
	"os"
)

// Unpack extracts every logical partition of the raw super image at
// rawSuper into outDir. A failed unpack means the super image is not
// structurally usable, so failures here are fatal to the caller.
func Unpack(ctx context.Context, r Runner, rawSuper, outDir string) error {
	if err := os.MkdirAll(outDir, 0770); err != nil {
		return err
	}
	if err := r.Run(ctx, UnpackCmd, rawSuper, outDir); err != nil {
		return fmt.Errorf("error unpacking %q, the super image may be corrupt: %v", rawSuper, err)
	}
	return nil
}
