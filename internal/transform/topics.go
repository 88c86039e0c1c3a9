package transform

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"

	"github.com/codebuildervaibhav/audio-intelligence/internal/types"
)

// TopicSeparator splits taxonomy paths such as NewsAndPolitics>Politics>Elections
const TopicSeparator = ">"

// TopicNode is one level of the taxonomy. A node can be a detected topic and
// have detected subtopics at the same time.
type TopicNode struct {
	Name     string       `json:"name"`
	IsTopic  bool         `json:"is_topic"`
	Children []*TopicNode `json:"children,omitempty"`
}

// HasChildren reports whether a longer detected path continues through n
func (n *TopicNode) HasChildren() bool { return len(n.Children) > 0 }

// Child returns the direct child called name, or nil
func (n *TopicNode) Child(name string) *TopicNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// BuildTopicTree folds the topic paths scoring at least threshold into a tree.
// The returned root is unnamed.
func BuildTopicTree(scores types.Scores, threshold float64) *TopicNode {
	var paths []string
	for _, s := range scores {
		if s.Value >= threshold && s.Label != "" {
			paths = append(paths, s.Label)
		}
	}
	sort.Strings(paths)

	root := &TopicNode{}
	for _, p := range paths {
		node := root
		for _, segment := range strings.Split(p, TopicSeparator) {
			child := node.Child(segment)
			if child == nil {
				child = &TopicNode{Name: segment}
				node.Children = append(node.Children, child)
			}
			node = child
		}
		node.IsTopic = true
	}
	return root
}

// RenderTopics renders the tree depth first, one paragraph per node
func RenderTopics(root *TopicNode) string {
	var b strings.Builder
	b.WriteString(`<div class="topics"><p class="detected-topics">Detected Topics</p>`)
	for _, c := range root.Children {
		renderTopic(&b, c, 0)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderTopic(b *strings.Builder, n *TopicNode, depth int) {
	class := fmt.Sprintf("topic-L%d", depth)
	if n.IsTopic {
		class += " istopic"
	}
	fmt.Fprintf(b, `<p class="%s">%s</p>`, class, html.EscapeString(SplitCamelCase(n.Name)))
	for _, c := range n.Children {
		renderTopic(b, c, depth+1)
	}
}

// SplitCamelCase puts a space before every capital letter, e.g. NewsAndPolitics -> News And Politics
func SplitCamelCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
