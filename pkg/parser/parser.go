// Package parser extracts fenced code blocks from LLM reply text.
package parser

import (
	"strings"

	"github.com/agentcoder/agentcoder/pkg/types"
)

const (
	fence = "```"

	// defaultLanguage is assigned when an opening fence carries no tag.
	defaultLanguage = "text"
)

// languageExtensions maps a fence language tag to the file extension used
// for suggested filenames. Unknown languages fall back to "txt".
var languageExtensions = map[string]string{
	"python":     "py",
	"javascript": "js",
	"typescript": "ts",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"html":       "html",
	"css":        "css",
	"json":       "json",
	"yaml":       "yml",
	"sql":        "sql",
	"bash":       "sh",
	"shell":      "sh",
	"go":         "go",
	"rust":       "rs",
	"php":        "php",
	"ruby":       "rb",
}

// ExtractCodeBlocks scans reply text for fenced code regions and returns
// them in the order they appear. It is a pure function: no shared state,
// never an error. Text without fences yields a nil slice.
//
// The scan is strictly sequential: each opening fence is paired with the
// next closing fence, and an unterminated trailing fence is ignored.
func ExtractCodeBlocks(content string) []types.CodeBlock {
	var blocks []types.CodeBlock

	pos := 0
	for {
		open := strings.Index(content[pos:], fence)
		if open == -1 {
			break
		}
		tagStart := pos + open + len(fence)

		// The language tag is the run of non-whitespace characters
		// immediately after the fence, on the same line.
		tagEnd := tagStart
		for tagEnd < len(content) && !isSpace(content[tagEnd]) {
			tagEnd++
		}
		language := strings.ToLower(content[tagStart:tagEnd])

		// The body begins after the opening fence's line.
		newline := strings.IndexByte(content[tagEnd:], '\n')
		if newline == -1 {
			break
		}
		bodyStart := tagEnd + newline + 1

		closing := strings.Index(content[bodyStart:], fence)
		if closing == -1 {
			break
		}

		if language == "" {
			language = defaultLanguage
		}
		blocks = append(blocks, types.CodeBlock{
			Language: language,
			Code:     strings.TrimSpace(content[bodyStart : bodyStart+closing]),
			Filename: FilenameForLanguage(language),
		})

		pos = bodyStart + closing + len(fence)
	}

	return blocks
}

// FilenameForLanguage derives a suggested filename for a code block from
// its language tag. The name body is always the literal "example"; it is a
// placeholder, not derived from content.
func FilenameForLanguage(language string) string {
	ext, ok := languageExtensions[strings.ToLower(language)]
	if !ok {
		ext = "txt"
	}
	return "example." + ext
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
