// Package fsutil provides file system helpers for locating and reading
// dependency dump files.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DumpExtension is the file extension dump files are discovered by when a
// directory is given instead of a single file.
const DumpExtension = ".dot"

// FindFilesByExtension recursively searches the given root path for all files ending
// with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ReadDumps returns the dump text at path. A regular file is read as-is. A
// directory is searched recursively for dump files, which are concatenated
// in sorted path order so multi-module builds yield a stable forest.
func ReadDumps(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat dump path %s: %w", path, err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read dump file %s: %w", path, err)
		}
		return string(data), nil
	}

	files, err := FindFilesByExtension(path, DumpExtension)
	if err != nil {
		return "", fmt.Errorf("failed to search %s for dump files: %w", path, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no %s files found under %s", DumpExtension, path)
	}
	sort.Strings(files)

	var sb strings.Builder
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read dump file %s: %w", file, err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
