package eftest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DiscoverFixtures walks dir and returns every *.json file found,
// sorted lexically.
func DiscoverFixtures(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".json" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover fixtures in %s: %w", dir, err)
	}
	return paths, nil
}

// LoadFixture reads and parses a single fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fx, nil
}

// BatchResult aggregates the outcome of running every fixture in a
// directory.
type BatchResult struct {
	Total   int
	Passed  int
	Failed  int
	Results []*TestResult
}

// RunFixtureDir discovers every fixture under dir, runs each, and
// aggregates the results.
func RunFixtureDir(dir string) (*BatchResult, error) {
	paths, err := DiscoverFixtures(dir)
	if err != nil {
		return nil, err
	}
	batch := &BatchResult{Total: len(paths)}
	for _, path := range paths {
		fx, err := LoadFixture(path)
		if err != nil {
			batch.Failed++
			batch.Results = append(batch.Results, &TestResult{
				Name:  filepath.Base(path),
				Error: err,
			})
			continue
		}
		result := RunFixture(filepath.Base(path), fx)
		batch.Results = append(batch.Results, result)
		if result.Passed {
			batch.Passed++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}
