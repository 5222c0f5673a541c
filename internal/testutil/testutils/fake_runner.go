package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/underrout/callisto-release/internal/toolchain"
)

// FakeRunner records commands instead of executing them. Handle lets a test simulate the
// files a tool would produce or make a specific invocation fail.
type FakeRunner struct {
	mu       sync.Mutex
	Commands []toolchain.Command
	Handle   func(cmd toolchain.Command) error
}

func (f *FakeRunner) Run(ctx context.Context, cmd toolchain.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	handle := f.Handle
	f.mu.Unlock()
	if handle != nil {
		return handle(cmd)
	}
	return nil
}

// Recorded returns a copy of the commands seen so far.
func (f *FakeRunner) Recorded() []toolchain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Commands)
}

// IsBuild reports whether cmd is a "cmake --build" invocation.
func IsBuild(cmd toolchain.Command) bool {
	return len(cmd.Args) > 0 && cmd.Args[0] == "--build"
}

// ArchOf returns the value following "-A" in a configure invocation.
func ArchOf(cmd toolchain.Command) string {
	for i, a := range cmd.Args {
		if a == "-A" && i+1 < len(cmd.Args) {
			return cmd.Args[i+1]
		}
	}
	return ""
}

// WriteOutputs creates files (relative to dir) with their content, mimicking build outputs.
func WriteOutputs(dir string, files map[string]string) error {
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write fake output %s: %w", name, err)
		}
	}
	return nil
}
