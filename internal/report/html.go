// Package report renders a session's dashboard as a standalone HTML page
// and prints it to PDF with headless Chrome.
package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/codebuildervaibhav/audio-intelligence/internal/transform"
)

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(v float64) template.CSS { return template.CSS(fmt.Sprintf("%.0f%%", v*100)) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h2 { border-bottom: 1px solid #ccc; }
mark { background-color: rgba(255, 200, 0, var(--i)); }
.topic-L0 { margin-left: 0; font-weight: bold; }
.topic-L1 { margin-left: 1.5em; }
.topic-L2 { margin-left: 3em; }
.topic-L3 { margin-left: 4.5em; }
.istopic { color: #0a58ca; }
.bar { background: #e63a3a; height: 1em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Transcript {{.D.TranscriptID}}</p>
<section><h2>Transcript</h2>{{.Transcript}}</section>
{{- if .D.Speakers}}
<section><h2>Speakers</h2>{{range .D.Speakers}}<p><b>{{.Speaker}}:</b> {{.Text}}</p>{{end}}</section>
{{- end}}
{{- if .D.SummaryHTML}}
<section><h2>Summary</h2>{{.Summary}}</section>
{{- end}}
{{- if .D.TopicsHTML}}
<section><h2>Topics</h2>{{.Topics}}</section>
{{- end}}
{{- if .D.SentimentHTML}}
<section><h2>Sentiment</h2>{{.Sentiment}}</section>
{{- end}}
{{- if .D.EntitiesHTML}}
<section><h2>Entities</h2>{{.Entities}}</section>
{{- end}}
{{- if .D.Safety}}
<section><h2>Content Safety</h2><table>
{{- range $i, $label := .D.Safety.Labels}}
<tr><td>{{$label}}</td><td style="width: 20em"><div class="bar" style="width: {{index $.D.Safety.Severities $i | percent}}"></div></td></tr>
{{- end}}
</table></section>
{{- end}}
</body>
</html>
`))

// HTML renders the full report page
func HTML(d *transform.Dashboard, title string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("no dashboard to render")
	}
	if title == "" {
		title = "Audio Intelligence Report"
	}

	data := struct {
		Title      string
		D          *transform.Dashboard
		Transcript template.HTML
		Summary    template.HTML
		Topics     template.HTML
		Sentiment  template.HTML
		Entities   template.HTML
	}{
		Title:      title,
		D:          d,
		Transcript: template.HTML(HighlightedHTML(d)),
		// The transformers escape every text they embed.
		Summary:   template.HTML(d.SummaryHTML),
		Topics:    template.HTML(d.TopicsHTML),
		Sentiment: template.HTML(d.SentimentHTML),
		Entities:  template.HTML(d.EntitiesHTML),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// HighlightedHTML returns the transcript text with highlight spans wrapped in
// <mark>, paragraphs split on blank lines
func HighlightedHTML(d *transform.Dashboard) string {
	text := d.Text
	var spans []transform.Span
	if d.Highlights != nil {
		text = d.Highlights.Text
		spans = d.Highlights.Spans
	}

	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(runes) {
			continue
		}
		b.WriteString(html.EscapeString(string(runes[pos:s.Start])))
		fmt.Fprintf(&b, `<mark style="--i: %.2f">%s</mark>`, s.Intensity, html.EscapeString(string(runes[s.Start:s.End])))
		pos = s.End
	}
	b.WriteString(html.EscapeString(string(runes[pos:])))

	paragraphs := strings.Split(b.String(), "\n\n")
	return "<p>" + strings.Join(paragraphs, "</p><p>") + "</p>"
}
