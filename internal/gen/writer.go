package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory, replacing
// existing files wholesale. It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// Drift is a generated file whose content differs from the file on disk.
type Drift struct {
	Filename string
	// Diff is a unified diff from the file on disk to the generated content.
	Diff string
}

// CheckFiles compares generated files with the output directory without
// writing anything. Missing files are diffed against empty content.
func CheckFiles(files []GeneratedFile, outputDir string) ([]Drift, error) {
	var drifts []Drift

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		current, err := os.ReadFile(outputPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading file %s: %w", file.Filename, err)
		}

		if bytes.Equal(current, file.Content) {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(current)),
			B:        difflib.SplitLines(string(file.Content)),
			FromFile: outputPath,
			ToFile:   outputPath + " (generated)",
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("diffing file %s: %w", file.Filename, err)
		}

		drifts = append(drifts, Drift{Filename: file.Filename, Diff: diff})
	}

	return drifts, nil
}
