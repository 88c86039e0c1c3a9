package transform

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TransformError reports a result payload a transformer cannot render
type TransformError struct {
	Transform string
	Reason    string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Transform, e.Reason)
}

func transformErr(name, format string, args ...any) error {
	return &TransformError{Transform: name, Reason: fmt.Sprintf(format, args...)}
}

// TitleCase turns a snake_case tag into a label, e.g. drugs_alcohol -> Drugs Alcohol
func TitleCase(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// runeIndex maps every byte offset of text to its rune offset
func runeIndex(text string) []int {
	idx := make([]int, len(text)+1)
	r := 0
	for i := range text {
		idx[i] = r
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := 1; j < size; j++ {
			idx[i+j] = r
		}
		r++
	}
	idx[len(text)] = r
	return idx
}
