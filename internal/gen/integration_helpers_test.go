package gen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// runExampleIntegrationTest runs the CLI on an example manifest, writing
// into a throwaway module, and compiles the result. wantGenErr is set for
// manifests whose run reports error diagnostics but still emits files.
func runExampleIntegrationTest(t *testing.T, exampleName, manifestFile string, wantGenErr bool) {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test runs the go tool")
	}

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	modDir := t.TempDir()
	outDir := filepath.Join(modDir, "conf")

	if err := os.WriteFile(filepath.Join(modDir, "go.mod"), []byte("module generated\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	cmd := exec.CommandContext(t.Context(), "go", "run", "./cmd/configen", "gen",
		filepath.Join(repoRoot, "examples", exampleName, manifestFile),
		"--out", outDir,
		"--log-level", "error",
	)
	cmd.Dir = repoRoot

	b, err := cmd.CombinedOutput()
	if (err != nil) != wantGenErr {
		// Best-effort: if any file got written, dump it for easier debugging.
		if entries, readErr := os.ReadDir(outDir); readErr == nil {
			for _, e := range entries {
				p := filepath.Join(outDir, e.Name())
				if fb, rerr := os.ReadFile(p); rerr == nil {
					t.Logf("generated file %s:\n%s", p, string(fb))
				}
			}
		}

		t.Fatalf("gen: err=%v, want error=%v\n%s", err, wantGenErr, string(b))
	}

	build := exec.CommandContext(t.Context(), "go", "build", "./...")
	build.Dir = modDir

	b, err = build.CombinedOutput()
	if err != nil {
		t.Fatalf("compile failed: %v\n%s", err, string(b))
	}
}
