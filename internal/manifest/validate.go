package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pserrors "git.home.luguber.info/inful/packsmith/internal/errors"
)

// ValidationResult collects all problems found in a manifest. Problems are
// reported together rather than stopping at the first one.
type ValidationResult struct {
	Problems []string
	Warnings []string
}

// OK reports whether validation found no problems.
func (r *ValidationResult) OK() bool { return len(r.Problems) == 0 }

// Err converts the result into a structured error, or nil when valid.
func (r *ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return pserrors.New(pserrors.CategoryValidation, pserrors.SeverityFatal,
		fmt.Sprintf("manifest validation failed:\n  - %s", strings.Join(r.Problems, "\n  - ")))
}

// Validate checks the manifest against the project tree rooted at baseDir.
// Path-valued fields are resolved relative to baseDir.
func Validate(m *Manifest, baseDir string) *ValidationResult {
	res := &ValidationResult{}

	if m.App.Name == "" {
		res.Problems = append(res.Problems, "app.name must not be empty")
	}

	if m.Entry == "" {
		res.Problems = append(res.Problems, "entry must reference the application entry-point file")
	} else if info, err := os.Stat(resolve(baseDir, m.Entry)); err != nil {
		res.Problems = append(res.Problems, fmt.Sprintf("entry-point file does not exist: %s", m.Entry))
	} else if info.IsDir() {
		res.Problems = append(res.Problems, fmt.Sprintf("entry-point must be a file, not a directory: %s", m.Entry))
	}

	for _, pair := range m.Data {
		if pair.Src == "" {
			res.Problems = append(res.Problems, "data pair with empty src")
			continue
		}
		info, err := os.Stat(resolve(baseDir, pair.Src))
		switch {
		case err != nil:
			res.Problems = append(res.Problems, fmt.Sprintf("data directory does not exist: %s", pair.Src))
		case !info.IsDir():
			res.Problems = append(res.Problems, fmt.Sprintf("data src must be a directory: %s", pair.Src))
		}
	}

	if overlap := intersect(m.Hidden, m.Exclude); len(overlap) > 0 {
		res.Problems = append(res.Problems,
			fmt.Sprintf("modules listed as both hidden import and exclude: %s", strings.Join(overlap, ", ")))
	}

	if m.App.Icon != "" {
		if _, err := os.Stat(resolve(baseDir, m.App.Icon)); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("icon file not found: %s", m.App.Icon))
		}
	}

	if seen := duplicates(m.Hidden); len(seen) > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("duplicate hidden imports: %s", strings.Join(seen, ", ")))
	}
	if seen := duplicates(m.Exclude); len(seen) > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("duplicate excludes: %s", strings.Join(seen, ", ")))
	}

	return res
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range b {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func duplicates(items []string) []string {
	seen := make(map[string]int, len(items))
	var out []string
	for _, s := range items {
		seen[s]++
		if seen[s] == 2 {
			out = append(out, s)
		}
	}
	return out
}
