package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SampleFileName is the file written by WriteSample.
const SampleFileName = "configen.yaml"

// Sample is the manifest written by "configen init".
const Sample = `# configen manifest
version: "1"

# Optional text placed after the generated-code banner.
# header: "Copyright (c) 2026 Example Inc."

output:
  dir: ./conf
  package: conf

# Flags emitted as meta fields of every generated struct.
default_flags:
  convert: none
  recursive: true

# Extra named types rendered as a primitive kind (bool, int, float, string).
known_types:
  time.Duration: string

# Config structs generated elsewhere that targets may reference.
# structures:
#   - name: example.com/project/db.Pool
#     package: example.com/project/db/conf
#     type: PoolConf

targets:
  - example.com/project/service.Server
  - name: example.com/project/service.NewClient
    defaults:
      retries: 3
      endpoint: http://localhost:8080
`

// WriteSample writes the sample manifest into dir and returns its path.
// It refuses to overwrite an existing file.
func WriteSample(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	filename := filepath.Join(dir, SampleFileName)

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("manifest %s already exists", filename)
		}

		return "", fmt.Errorf("failed to create manifest %s: %w", filename, err)
	}

	if _, err := f.WriteString(Sample); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write manifest %s: %w", filename, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write manifest %s: %w", filename, err)
	}

	return filename, nil
}
