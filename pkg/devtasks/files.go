package devtasks

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

func shellReadDir(path string) ([]os.FileInfo, error) {
	if path == "" {
		path = "."
	}

	return ioutil.ReadDir(path)
}

// ResolvePatterns expands globstar patterns relative to base and returns the matches as
// slash-separated paths relative to base. Patterns without matches are dropped.
func ResolvePatterns(base string, patterns []string) ([]string, error) {
	result := []string{}
	cfg := expand.Config{
		ReadDir:  shellReadDir,
		GlobStar: true,
	}

	quotedBase, err := syntax.Quote(filepath.ToSlash(base), syntax.LangBash)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to quote %s", base)
	}

	parser := syntax.NewParser()
	for _, pattern := range patterns {
		item := quotedBase + "/" + filepath.ToSlash(pattern)
		// an unmatched pattern expands to itself, with the quotes around base removed
		unmatched := filepath.ToSlash(base) + "/" + filepath.ToSlash(pattern)

		words := make([]*syntax.Word, 0)
		err := parser.Words(strings.NewReader(item), func(w *syntax.Word) bool {
			words = append(words, w)
			return true
		})
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to parse pattern %s", pattern)
		}

		matches, err := expand.Fields(&cfg, words...)
		if err != nil {
			return nil, eris.Wrapf(err, "Failed to resolve pattern %s", pattern)
		}

		for _, match := range matches {
			if match == unmatched {
				continue
			}

			rel, err := filepath.Rel(base, filepath.FromSlash(match))
			if err != nil {
				return nil, eris.Wrapf(err, "failed to simplify %s", match)
			}
			result = append(result, filepath.ToSlash(rel))
		}
	}

	sort.Strings(result)
	return result, nil
}
