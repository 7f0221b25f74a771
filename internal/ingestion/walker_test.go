package ingestion

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghulammurtaza27/debugmaster/internal/config"
	"github.com/ghulammurtaza27/debugmaster/internal/github"
)

// fakeSource serves an in-memory repository tree. Directory listings and
// file fetches can be forced to fail per path.
type fakeSource struct {
	mu       sync.Mutex
	dirs     map[string][]github.Entry
	files    map[string]string
	failDirs map[string]bool
	// failFetches counts down per path; a file stops failing when its
	// counter reaches zero
	failFetches map[string]int
	fetchCalls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		dirs:        make(map[string][]github.Entry),
		files:       make(map[string]string),
		failDirs:    make(map[string]bool),
		failFetches: make(map[string]int),
		fetchCalls:  make(map[string]int),
	}
}

// addFile registers a file and its parent directory chain
func (f *fakeSource) addFile(path, content string) {
	f.files[path] = content

	child := path
	childType := github.EntryTypeFile
	for {
		dir := parentDir(child)
		entries := f.dirs[dir]
		found := false
		for _, e := range entries {
			if e.Path == child {
				found = true
				break
			}
		}
		if !found {
			f.dirs[dir] = append(entries, github.Entry{Path: child, Type: childType})
		}
		if dir == "" {
			return
		}
		child = dir
		childType = github.EntryTypeDir
	}
}

func parentDir(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return ""
}

func (f *fakeSource) ListDirectory(ctx context.Context, ref github.RepositoryRef, path string) ([]github.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDirs[path] {
		return nil, fmt.Errorf("listing %q failed", path)
	}
	return f.dirs[path], nil
}

func (f *fakeSource) GetFileContent(ctx context.Context, ref github.RepositoryRef, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetchCalls[path]++
	if f.failFetches[path] != 0 {
		if f.failFetches[path] > 0 {
			f.failFetches[path]--
		}
		return "", fmt.Errorf("fetch %q failed", path)
	}

	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file %q", path)
	}
	return content, nil
}

func (f *fakeSource) FileExists(ctx context.Context, ref github.RepositoryRef, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.files[path]
	return ok, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fastAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		WalkerBatchSize: 5,
		WalkerPause:     0,
		BatchSize:       10,
		BatchPause:      0,
		FetchRetries:    3,
		RetryBackoff:    0,
	}
}

func testRef() github.RepositoryRef {
	return github.RepositoryRef{Owner: "acme", Name: "webapp"}
}

func TestWalkerListsAnalyzableFiles(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/index.ts", "")
	source.addFile("src/utils/math.ts", "")
	source.addFile("src/app.test.ts", "")
	source.addFile("node_modules/lodash/index.js", "")
	source.addFile("readme.md", "")

	walker := NewWalker(source, fastAnalysisConfig(), quietLogger())
	files, err := walker.ListAllFiles(context.Background(), testRef())
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{"src/index.ts", "src/utils/math.ts"}, files)
}

func TestWalkerSkipsFailedDirectoryListing(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/main.ts", "")
	source.addFile("lib/helper.ts", "")
	source.failDirs["lib"] = true

	walker := NewWalker(source, fastAnalysisConfig(), quietLogger())
	files, err := walker.ListAllFiles(context.Background(), testRef())
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.ts"}, files)
}

func TestWalkerStopsOnCancelledContext(t *testing.T) {
	source := newFakeSource()
	source.addFile("src/main.ts", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	walker := NewWalker(source, fastAnalysisConfig(), quietLogger())
	_, err := walker.ListAllFiles(ctx, testRef())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalkerEmptyRepository(t *testing.T) {
	source := newFakeSource()

	walker := NewWalker(source, fastAnalysisConfig(), quietLogger())
	files, err := walker.ListAllFiles(context.Background(), testRef())
	require.NoError(t, err)
	assert.Empty(t, files)
}
