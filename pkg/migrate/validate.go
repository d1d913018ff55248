package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir validates migration filenames + basic SQL headers for one
// dialect directory. An empty directory is allowed.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}

	return nil
}

// ValidateRoot validates every dialect directory under the migration root and
// checks the dialects carry the same migration set.
func ValidateRoot(root string) error {
	if root == "" {
		root = DefaultRoot
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read root %q: %w", root, err)
	}

	names := map[string][]string{} // dialect -> sorted migration filenames
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if err := ValidateDir(dir); err != nil {
			return err
		}

		files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
		if err != nil {
			return fmt.Errorf("glob %q: %w", dir, err)
		}
		for _, f := range files {
			names[e.Name()] = append(names[e.Name()], filepath.Base(f))
		}
	}

	var ref []string
	var refDialect string
	for dialect, files := range names {
		if ref == nil {
			ref, refDialect = files, dialect
			continue
		}
		if len(files) != len(ref) {
			return fmt.Errorf("dialect %q has %d migrations, %q has %d", dialect, len(files), refDialect, len(ref))
		}
		for i := range files {
			if files[i] != ref[i] {
				return fmt.Errorf("dialect %q migration %q does not match %q in %q", dialect, files[i], ref[i], refDialect)
			}
		}
	}

	return nil
}
