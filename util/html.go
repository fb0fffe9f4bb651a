package util

import (
	"strings"

	"golang.org/x/net/html"
)

// TextContent extracts the text of an HTML fragment, with tags dropped and
// runs of whitespace collapsed. It reads at most the first 4000 bytes, which
// is plenty for a teaser.
func TextContent(fragment string) string {

	tokenizer := html.NewTokenizerFragment(strings.NewReader(fragment), "body")
	tokenizer.SetMaxBuf(4096) // roughly the maximum number of bytes tokenized

	var text = &strings.Builder{}
	var offset = 0

	for {

		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		if tt == html.TextToken {
			for _, field := range strings.Fields(string(tokenizer.Text())) {
				if text.Len() > 0 {
					text.WriteString(" ")
				}
				text.WriteString(field)
			}
		}

		offset += len(tokenizer.Raw())
		if offset > 4000 {
			break
		}
	}

	return text.String()
}
