package util

import (
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// RenderMarkdown translates CommonMark markdown to HTML.
func RenderMarkdown(input string) string {
	return markdownParser.RenderToString([]byte(input))
}
