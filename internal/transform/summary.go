package transform

import (
	"fmt"
	"html"
	"strings"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// RenderSummary renders each chapter as a collapsible section
func RenderSummary(chapters []types.Chapter) string {
	var b strings.Builder
	b.WriteString("<div>")
	for _, c := range chapters {
		fmt.Fprintf(&b, "<details><summary>%s</summary>%s</details>",
			html.EscapeString(c.Headline), html.EscapeString(c.Summary))
	}
	b.WriteString("</div>")
	return b.String()
}
