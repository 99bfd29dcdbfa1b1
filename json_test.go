package rfcmark

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeTree(t *testing.T) {
	input := `{
  "type": "document",
  "children": [
    {"type": "titleblock", "text": "Title = \"T\""},
    {"type": "section", "title": "Intro", "level": 1, "id": "intro", "attrs": {"numbered": "false"},
     "children": [
       {"type": "paragraph", "children": [
         {"type": "text", "text": "See "},
         {"type": "xref", "target": "RFC2119", "normative": true}
       ]}
     ]},
    {"type": "section", "title": "Refs", "classes": ["bibliography"]}
  ]
}`
	root, err := DecodeTree(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeTree() error = %v", err)
	}

	expected := "document(\"\")\n" +
		"\ttitleblock(\"Title = \\\"T\\\"\")\n" +
		"\tsection(\"\")\n" +
		"\t\tparagraph(\"\")\n" +
		"\t\t\ttext(\"See \")\n" +
		"\t\t\txref(\"\")\n" +
		"\tsection(\"\")\n"
	if root.String() != expected {
		t.Errorf("\nExpected[%#v]\nActual  [%#v]", expected, root.String())
	}

	intro := root.FirstChild.Next
	if intro.Title != "Intro" || intro.Attr.ID() != "intro" {
		t.Errorf("section = %q, id %q", intro.Title, intro.Attr.ID())
	}
	if v, _ := intro.Attr.Get("numbered"); v != "false" {
		t.Errorf("attribute numbered = %q", v)
	}
	ref := intro.FirstChild.LastChild
	if ref.Target != "RFC2119" || !ref.Normative {
		t.Errorf("xref = %+v", ref.LinkData)
	}
	if !root.LastChild.Attr.HasClass(ClassBibliography) {
		t.Error("bibliography class lost")
	}
}

func TestDecodeTreeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"unknown field", `{"type": "document", "bogus": 1}`},
		{"unknown type", `{"type": "document", "children": [{"type": "video"}]}`},
		{"leaf with children", `{"type": "document", "children": [{"type": "text", "children": [{"type": "text"}]}]}`},
		{"xref without target", `{"type": "document", "children": [{"type": "xref"}]}`},
		{"nested document", `{"type": "document", "children": [{"type": "document"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTree(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := DecodeTree(strings.NewReader(`{"type": "section"}`))
	if !errors.Is(err, ErrNoDocument) {
		t.Errorf("DecodeTree() error = %v, want ErrNoDocument", err)
	}
}
