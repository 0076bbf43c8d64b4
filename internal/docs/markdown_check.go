package docs

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Problem is one issue found in the documentation sources.
type Problem struct {
	File    string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.File, p.Message)
}

// CheckMarkdown walks the docs source tree, parses each Markdown file, and
// verifies that relative link and image targets exist. External URLs and
// anchors are not checked; this is a pre-flight check, not a crawler.
func CheckMarkdown(sourceDir string) ([]Problem, error) {
	var problems []Problem

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		rel, _ := filepath.Rel(sourceDir, path)
		for _, dest := range extractDestinations(body) {
			if !isRelativeTarget(dest) {
				continue
			}
			target := strings.SplitN(dest, "#", 2)[0]
			if target == "" {
				continue // pure anchor
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
			if _, err := os.Stat(resolved); err != nil {
				problems = append(problems, Problem{
					File:    rel,
					Message: fmt.Sprintf("link target not found: %s", dest),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk docs sources: %w", err)
	}

	return problems, nil
}

// extractDestinations parses Markdown and collects link and image destinations.
func extractDestinations(body []byte) []string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var dests []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			dests = append(dests, string(node.Destination))
		case *gmast.Image:
			dests = append(dests, string(node.Destination))
		}
		return gmast.WalkContinue, nil
	})
	return dests
}

// isRelativeTarget reports whether dest points into the local docs tree.
func isRelativeTarget(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && !strings.HasPrefix(dest, "/")
}
