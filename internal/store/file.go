package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spigell/resume-scorer/internal/apperr"
	"github.com/spigell/resume-scorer/internal/assessment"
)

// File keeps results in a JSON document on disk. The whole document is rewritten
// on every insert through a temporary file and a rename.
type File struct {
	path string

	mu      sync.Mutex
	results map[int64]assessment.Result
}

type fileDocument struct {
	Results []assessment.Result `json:"results"`
}

// OpenFile loads path if it exists. A missing or empty file starts an empty store.
func OpenFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file store path is required")
	}

	results, err := readResults(path)
	if err != nil {
		return nil, fmt.Errorf("reading assessment results from %q: %w", path, err)
	}
	return &File{path: path, results: results}, nil
}

func (f *File) Create(_ context.Context, result *assessment.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.results[result.ApplicationID]; ok {
		return apperr.NewDuplicateSubmissionError(result.ApplicationID)
	}

	f.results[result.ApplicationID] = result.Clone()
	if err := f.flush(); err != nil {
		delete(f.results, result.ApplicationID)
		return fmt.Errorf("writing assessment results to %q: %w", f.path, err)
	}
	return nil
}

func (f *File) Get(_ context.Context, applicationID int64) (*assessment.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result, ok := f.results[applicationID]
	if !ok {
		return nil, apperr.ErrResultNotFound
	}
	stored := result.Clone()
	return &stored, nil
}

func (f *File) Close() error { return nil }

func readResults(path string) (map[int64]assessment.Result, error) {
	results := make(map[int64]assessment.Result)

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return results, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return results, nil
	}

	var doc fileDocument
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, err
	}
	for _, r := range doc.Results {
		if _, ok := results[r.ApplicationID]; ok {
			return nil, apperr.NewDuplicateSubmissionError(r.ApplicationID)
		}
		results[r.ApplicationID] = r
	}
	return results, nil
}

func (f *File) flush() error {
	doc := fileDocument{Results: make([]assessment.Result, 0, len(f.results))}
	for _, r := range f.results {
		doc.Results = append(doc.Results, r)
	}
	sort.Slice(doc.Results, func(i, j int) bool {
		return doc.Results[i].ApplicationID < doc.Results[j].ApplicationID
	})

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
