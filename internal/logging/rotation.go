package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	filePrefix = "rosterdesk_"
	fileSuffix = ".log"
)

// rotate removes the oldest rosterdesk log files in dir so that at most
// maxFiles-1 remain, leaving room for the file about to be created.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type logFile struct {
		path string
		mod  int64
	}
	var files []logFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		var mod int64
		if info, err := entry.Info(); err == nil {
			mod = info.ModTime().UnixNano()
		}
		files = append(files, logFile{path: filepath.Join(dir, name), mod: mod})
	}
	excess := len(files) - (maxFiles - 1)
	if excess <= 0 {
		return nil
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].mod == files[j].mod {
			return files[i].path < files[j].path
		}
		return files[i].mod < files[j].mod
	})
	for _, f := range files[:excess] {
		os.Remove(f.path)
	}
	return nil
}
