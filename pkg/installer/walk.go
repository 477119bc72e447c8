package installer

import (
	"iter"
	"os"
	"path/filepath"
	"sort"
)

var readDir = os.ReadDir

// Walk yields every file below root, depth first in lexical order. Symlinked
// directories are followed, each real directory is visited at most once.
// Only an unreadable root is reported, unreadable subdirectories are skipped.
func Walk(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		visited := map[string]bool{}
		walkDir(root, true, visited, yield)
	}
}

func walkDir(dir string, isRoot bool, visited map[string]bool, yield func(string, error) bool) bool {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return !isRoot || yield("", err)
	}
	if visited[real] {
		return true
	}
	visited[real] = true

	entries, err := readDir(dir)
	if err != nil {
		return !isRoot || yield("", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			// dangling symlink
			continue
		}
		if info.IsDir() {
			if !walkDir(path, false, visited, yield) {
				return false
			}
			continue
		}
		if !yield(path, nil) {
			return false
		}
	}
	return true
}
