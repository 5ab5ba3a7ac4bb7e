package lint

import (
	"context"
	"os"
	"strings"
)

// Basic is a minimal built-in CSS checker used when no external linter is
// configured: it reports unbalanced braces and stray NUL bytes, which are the
// failure modes that produce broken bundles. Real deployments plug in an
// external linter through the Linter interface.
type Basic struct{}

// Lint implements Linter.
func (Basic) Lint(ctx context.Context, cssFiles []string) ([]Issue, error) {
	var issues []Issue
	for _, file := range cssFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		issues = append(issues, checkCSS(file, string(data))...)
	}
	return issues, nil
}

func checkCSS(file, content string) []Issue {
	var issues []Issue

	if strings.ContainsRune(content, '\x00') {
		issues = append(issues, Issue{File: file, Line: 1, Message: "binary content in stylesheet"})
	}

	depth := 0
	line := 1
	for _, r := range content {
		switch r {
		case '\n':
			line++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				issues = append(issues, Issue{File: file, Line: line, Message: "unmatched closing brace"})
				depth = 0
			}
		}
	}
	if depth > 0 {
		issues = append(issues, Issue{File: file, Line: line, Message: "unclosed block"})
	}
	return issues
}
