package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// TestdataFS holds the embedded test data files.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	path := fmt.Sprintf("testdata/%s", name)
	data, err := fs.ReadFile(TestdataFS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// CorpusFiles returns the names of all embedded C sources, sorted.
func CorpusFiles() ([]string, error) {
	entries, err := fs.ReadDir(TestdataFS, "testdata")
	if err != nil {
		return nil, fmt.Errorf("failed to list test data: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".c" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ValidPrograms returns the corpus files that contain no lexical or syntax
// errors.
func ValidPrograms() ([]string, error) {
	names, err := CorpusFiles()
	if err != nil {
		return nil, err
	}
	valid := names[:0]
	for _, name := range names {
		if name != "lexer.c" {
			valid = append(valid, name)
		}
	}
	return valid, nil
}
