package transform

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// ContextRunes is how much text is kept on each side of an entity mention
const ContextRunes = 40

// EntityMention is one entity occurrence with the words around it
type EntityMention struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// EntityGroup holds every mention of one entity type
type EntityGroup struct {
	Label    string          `json:"label"`
	Mentions []EntityMention `json:"mentions"`
}

// GroupEntities finds each entity in text and groups the mentions by type.
// Repeated entity texts are matched to successive occurrences. Entities
// missing from the text (e.g. after redaction) are skipped.
func GroupEntities(entities []types.Entity, text string) ([]EntityGroup, error) {
	runes := []rune(text)
	index := runeIndex(text)
	cursor := map[string]int{}

	var groups []EntityGroup
	position := map[string]int{}

	for i, e := range entities {
		if e.EntityType == "" || e.Text == "" {
			return nil, transformErr("entities", "entity %d has no type or text", i)
		}

		from := cursor[e.Text]
		at := strings.Index(text[from:], e.Text)
		if at < 0 {
			from = 0
			at = strings.Index(text, e.Text)
			if at < 0 {
				continue
			}
		}
		startByte := from + at
		endByte := startByte + len(e.Text)
		cursor[e.Text] = endByte

		mention := mentionAt(runes, index[startByte], index[endByte])

		label := TitleCase(e.EntityType)
		pos, ok := position[label]
		if !ok {
			pos = len(groups)
			position[label] = pos
			groups = append(groups, EntityGroup{Label: label})
		}
		groups[pos].Mentions = append(groups[pos].Mentions, mention)
	}
	return groups, nil
}

// mentionAt cuts a context window around runes[start:end] without splitting words
func mentionAt(runes []rune, start, end int) EntityMention {
	from := max(0, start-ContextRunes)
	if from > 0 && !unicode.IsSpace(runes[from-1]) {
		for from < start && !unicode.IsSpace(runes[from]) {
			from++
		}
	}

	to := min(len(runes), end+ContextRunes)
	if to < len(runes) && !unicode.IsSpace(runes[to]) {
		for to > end && !unicode.IsSpace(runes[to-1]) {
			to--
		}
	}

	return EntityMention{
		Before: strings.TrimLeftFunc(string(runes[from:start]), unicode.IsSpace),
		Match:  string(runes[start:end]),
		After:  strings.TrimRightFunc(string(runes[end:to]), unicode.IsSpace),
	}
}

// RenderEntities renders groups as a nested list with the match marked
func RenderEntities(groups []EntityGroup) string {
	var b strings.Builder
	b.WriteString(`<ul class="entities">`)
	for _, g := range groups {
		fmt.Fprintf(&b, `<li>%s<ul>`, html.EscapeString(g.Label))
		for _, m := range g.Mentions {
			fmt.Fprintf(&b, `<li>%s<mark>%s</mark>%s</li>`,
				html.EscapeString(m.Before), html.EscapeString(m.Match), html.EscapeString(m.After))
		}
		b.WriteString(`</ul></li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}
