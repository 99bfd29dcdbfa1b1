package rfcmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Helper functions for unit testing

func tree(children ...*Node) *Node { return node(DocumentNode, children...) }

func node(typ NodeType, children ...*Node) *Node {
	n := NewNode(typ)
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *Node {
	n := NewNode(Text)
	n.Literal = []byte(s)
	return n
}

func para(children ...*Node) *Node { return node(Paragraph, children...) }

func section(title string, children ...*Node) *Node {
	n := node(Section, children...)
	n.Title = title
	n.Level = 1
	return n
}

func tagged(class string, n *Node) *Node {
	n.Attr.Add("class", class)
	return n
}

func appendix(title string, children ...*Node) *Node {
	return tagged(ClassAppendix, section(title, children...))
}

func bibliography(title string) *Node {
	return tagged(ClassBibliography, section(title))
}

func xref(target string, normative bool) *Node {
	n := NewNode(Xref)
	n.Target = target
	n.Normative = normative
	return n
}

func titleBlock(toml string) *Node {
	n := NewNode(TitleBlock)
	n.Literal = []byte(toml)
	return n
}

// markers renders the marker fragments as "open:front", "transition:front-body"
// and so on.
func markers(doc *Document) []string {
	var m []string
	for _, f := range doc.Markers() {
		switch f.Kind {
		case FragmentOpen:
			m = append(m, fmt.Sprintf("%s:%s", f.Kind, f.To))
		case FragmentClose:
			m = append(m, fmt.Sprintf("%s:%s", f.Kind, f.From))
		default:
			m = append(m, fmt.Sprintf("%s:%s-%s", f.Kind, f.From, f.To))
		}
	}
	return m
}

func render(flags int, root *Node) *Document {
	return XmlRenderer(flags, nil).Render(root)
}

func diff(expected, actual string) string {
	d, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  2,
	})
	return d
}

func assertXML(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("output mismatch:\n%s", diff(expected, actual))
	}
}

func assertContains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Errorf("\nExpected[%#v]\nin      [%s]", p, out)
		}
	}
}

// mapFetcher serves catalog sources from memory.
type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := m[url]
	if !ok {
		return nil, fmt.Errorf("no such source: %s", url)
	}
	return []byte(body), nil
}
