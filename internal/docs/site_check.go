package docs

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs maps HTML tags to the attribute carrying their target.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"link":   "href",
	"script": "src",
}

// VerifySite walks the generated site and checks that internal href/src
// targets resolve to files within it. Relative targets resolve against the
// linking page; when baseURL is set, absolute targets under it resolve
// against the site root. Directory links resolve through index.html,
// matching how static site servers handle them.
func VerifySite(siteDir, baseURL string) ([]Problem, error) {
	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
		if err != nil {
			return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
		}
		base = u
	}

	var problems []Problem

	err := filepath.WalkDir(siteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		targets, parseErr := extractHTMLTargets(f)
		_ = f.Close()

		rel, _ := filepath.Rel(siteDir, path)
		if parseErr != nil {
			problems = append(problems, Problem{File: rel, Message: fmt.Sprintf("unparsable HTML: %v", parseErr)})
			return nil
		}

		for _, target := range targets {
			resolved, ok := siteTarget(base, siteDir, filepath.Dir(path), target)
			if !ok {
				continue
			}
			if !resolvesInSite(resolved) {
				problems = append(problems, Problem{
					File:    rel,
					Message: fmt.Sprintf("broken internal link: %s", target),
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk site: %w", err)
	}

	return problems, nil
}

// siteTarget classifies one href/src value. Internal targets return the
// filesystem path to check; external targets, anchors, and absolute targets
// with no known base URL return ok=false.
func siteTarget(base *url.URL, siteDir, pageDir, target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false
	}

	if u.Scheme != "" || u.Host != "" {
		if base == nil || u.Host != base.Host {
			return "", false
		}
		return filepath.Join(siteDir, filepath.FromSlash(trimBasePath(base, u.Path))), true
	}

	if strings.HasPrefix(target, "/") {
		if base == nil {
			return "", false
		}
		return filepath.Join(siteDir, filepath.FromSlash(trimBasePath(base, u.Path))), true
	}

	if u.Path == "" {
		return "", false // pure anchor or query
	}
	return filepath.Join(pageDir, filepath.FromSlash(u.Path)), true
}

// trimBasePath strips the base URL's path prefix, leaving the path relative
// to the site root.
func trimBasePath(base *url.URL, p string) string {
	p = strings.TrimPrefix(p, base.Path)
	return strings.TrimPrefix(p, "/")
}

// extractHTMLTargets parses HTML and collects link-like attribute values.
func extractHTMLTargets(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var targets []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attrName, ok := linkAttrs[n.Data]; ok {
				for _, attr := range n.Attr {
					if attr.Key == attrName && attr.Val != "" {
						targets = append(targets, attr.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return targets, nil
}

// resolvesInSite reports whether the resolved path exists, treating
// directory targets as their index.html.
func resolvesInSite(resolved string) bool {
	info, err := os.Stat(resolved)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err := os.Stat(filepath.Join(resolved, "index.html"))
		return err == nil
	}
	return true
}
