package discovery

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skylaunch/internal/domain"
)

// desktopEntry holds the keys we read from the [Desktop Entry] group
type desktopEntry struct {
	Type        string
	Name        string
	GenericName string
	Comment     string
	Keywords    []string
	Exec        string
	Path        string
	NoDisplay   bool
	Hidden      bool
}

// parseDesktopFile reads a freedesktop .desktop file. Only the main group is
// read and localized keys such as Name[de] are ignored.
func parseDesktopFile(r io.Reader) (desktopEntry, error) {
	var de desktopEntry
	inMain := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inMain = line == "[Desktop Entry]"
			continue
		}
		if !inMain {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Type":
			de.Type = value
		case "Name":
			de.Name = value
		case "GenericName":
			de.GenericName = value
		case "Comment":
			de.Comment = value
		case "Keywords":
			de.Keywords = splitList(value)
		case "Exec":
			de.Exec = value
		case "Path":
			de.Path = value
		case "NoDisplay":
			de.NoDisplay = value == "true"
		case "Hidden":
			de.Hidden = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return de, fmt.Errorf("failed to read desktop entry: %w", err)
	}
	return de, nil
}

// splitList splits a semicolon separated desktop entry list
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// stripFieldCodes removes %f, %U and friends from an Exec line. "%%" is a
// literal percent sign.
func stripFieldCodes(exec string) string {
	var b strings.Builder
	fields := strings.Fields(exec)
	for _, f := range fields {
		if len(f) == 2 && f[0] == '%' && f[1] != '%' {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ReplaceAll(f, "%%", "%"))
	}
	return b.String()
}

// launchable reports whether the entry should show up in the catalog
func (de desktopEntry) launchable() bool {
	return de.Type == "Application" && de.Name != "" && de.Exec != "" && !de.NoDisplay && !de.Hidden
}

// toCatalogEntry converts a parsed desktop file; id is the desktop file id
func (de desktopEntry) toCatalogEntry(id string, weight float64) domain.CatalogEntry {
	subtitle := de.GenericName
	if subtitle == "" {
		subtitle = de.Comment
	}

	command := stripFieldCodes(de.Exec)
	keywords := append([]string(nil), de.Keywords...)
	if fields := strings.Fields(command); len(fields) > 0 {
		keywords = append(keywords, filepath.Base(fields[0]))
	}

	return domain.CatalogEntry{
		ID:         "desktop:" + id,
		Title:      de.Name,
		Subtitle:   subtitle,
		Keywords:   keywords,
		Action:     domain.Action{Kind: domain.ActionExec, Target: command, Dir: de.Path},
		BaseWeight: weight,
		Source:     SourceDesktop,
	}
}

// scanDesktopDir reads every .desktop file directly inside dir. A missing
// directory is an empty source, not an error.
func scanDesktopDir(dir string, weight float64) ([]domain.CatalogEntry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var entries []domain.CatalogEntry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".desktop") {
			continue
		}
		fh, err := os.Open(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		de, err := parseDesktopFile(fh)
		fh.Close()
		if err != nil || !de.launchable() {
			continue
		}
		entries = append(entries, de.toCatalogEntry(f.Name(), weight))
	}
	return entries, nil
}
