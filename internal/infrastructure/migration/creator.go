package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"time"
)

const (
	upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

-- Write the forward migration here

`

	downTemplate = `-- Migration: {{.Name}} (rollback)
-- Created: {{.Timestamp}}

-- Write the rollback here

`
)

// MigrationFile describes a generated up/down migration pair
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

type templateData struct {
	Name        string
	Description string
	Timestamp   string
}

var nameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// CreateMigration writes a new timestamped up/down SQL file pair into
// migrationsDir, creating the directory if needed.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("migration name is required")
	}

	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now()
	version := now.Format("20060102150405")
	clean := sanitizeName(name)

	file := &MigrationFile{
		Version:  version,
		Name:     clean,
		UpPath:   filepath.Join(migrationsDir, fmt.Sprintf("%s_%s.up.sql", version, clean)),
		DownPath: filepath.Join(migrationsDir, fmt.Sprintf("%s_%s.down.sql", version, clean)),
	}

	data := templateData{
		Name:        clean,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
	}

	if err := writeTemplate(file.UpPath, upTemplate, data); err != nil {
		return nil, err
	}
	if err := writeTemplate(file.DownPath, downTemplate, data); err != nil {
		os.Remove(file.UpPath)
		return nil, err
	}

	return file, nil
}

// ListMigrations returns the distinct migration base names in
// migrationsDir, sorted by version.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			name = strings.TrimSuffix(name, ".up.sql")
		case strings.HasSuffix(name, ".down.sql"):
			name = strings.TrimSuffix(name, ".down.sql")
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func sanitizeName(name string) string {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = strings.ReplaceAll(clean, " ", "_")
	clean = strings.ReplaceAll(clean, "-", "_")
	clean = nameSanitizer.ReplaceAllString(clean, "")
	return strings.Trim(clean, "_")
}

func writeTemplate(path, tmpl string, data templateData) error {
	t, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse migration template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create migration file: %w", err)
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render migration file: %w", err)
	}
	return nil
}
