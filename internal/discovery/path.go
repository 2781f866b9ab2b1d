package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skylaunch/internal/domain"
)

// PathDirs splits $PATH, dropping empty and duplicate elements
func PathDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv("PATH")) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	return dirs
}

// scanPathDir lists executables in one $PATH directory
func scanPathDir(dir string, weight float64) ([]domain.CatalogEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var entries []domain.CatalogEntry
	for _, f := range files {
		full := filepath.Join(dir, f.Name())
		// Stat follows symlinks, most of /usr/bin is links
		info, err := os.Stat(full)
		if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
			continue
		}
		entries = append(entries, domain.CatalogEntry{
			ID:         "path:" + f.Name(),
			Title:      f.Name(),
			Subtitle:   full,
			Action:     domain.Action{Kind: domain.ActionExec, Target: shellQuote(full)},
			BaseWeight: weight,
			Source:     SourcePath,
		})
	}
	return entries, nil
}

// shellQuote quotes s for the launcher's command line splitter when needed
func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"\\$") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
