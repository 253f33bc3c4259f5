package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListModels returns the model folder names under root, sorted. A missing
// root yields an empty list.
func ListModels(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("discovery: read %q: %w", root, err)
	}

	var models []string
	for _, e := range entries {
		if e.IsDir() {
			models = append(models, e.Name())
		}
	}
	sort.Strings(models)
	return models, nil
}

// ModelFiles returns the CSV files of one model: those inside its date
// sub-folders plus any placed directly in the model folder, sorted by path.
func ModelFiles(root, model string) ([]string, error) {
	modelDir := filepath.Join(root, model)
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return nil, fmt.Errorf("discovery: read model folder %q: %w", modelDir, err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(modelDir, e.Name())
		if e.IsDir() {
			nested, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("discovery: read date folder %q: %w", path, err)
			}
			for _, n := range nested {
				if !n.IsDir() && isCSV(n.Name()) {
					files = append(files, filepath.Join(path, n.Name()))
				}
			}
			continue
		}
		if isCSV(e.Name()) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// LoadExcludeKeywords reads one keyword per line, trimming whitespace and
// skipping blank lines. A missing file yields no keywords.
func LoadExcludeKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("discovery: open keywords %q: %w", path, err)
	}
	defer f.Close()

	var keywords []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line != "" {
			keywords = append(keywords, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("discovery: read keywords %q: %w", path, err)
	}
	return keywords, nil
}
