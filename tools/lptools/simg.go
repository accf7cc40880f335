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

// SparseToRaw expands the sparse image at src into a raw image at dst.
func SparseToRaw(ctx context.Context, r Runner, src, dst string) error {
	if err := r.Run(ctx, SimgToRawCmd, src, dst); err != nil {
		return fmt.Errorf("error converting %q to raw: %v", src, err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("conversion of %q produced no output at %q: %v", src, dst, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("conversion of %q produced an empty file at %q", src, dst)
	}
	return nil
}
