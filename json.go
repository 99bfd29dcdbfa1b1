package rfcmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrNoDocument is returned when the input tree is not rooted in a document
// node.
var ErrNoDocument = errors.New("input is not a document tree")

// jsonNode is the wire form of a Node as produced by the markdown parser.
type jsonNode struct {
	Type     string            `json:"type"`
	ID       string            `json:"id,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []jsonNode        `json:"children,omitempty"`

	Level       int    `json:"level,omitempty"`
	Title       string `json:"title,omitempty"`
	Ordered     bool   `json:"ordered,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Destination string `json:"destination,omitempty"`
	Target      string `json:"target,omitempty"`
	Normative   bool   `json:"normative,omitempty"`
	Header      bool   `json:"header,omitempty"`
	Primary     string `json:"primary,omitempty"`
	Secondary   string `json:"secondary,omitempty"`
}

// DecodeTree reads a JSON encoded document tree.
func DecodeTree(r io.Reader) (*Node, error) {
	var top jsonNode
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("unable to decode document tree: %w", err)
	}
	if top.Type != DocumentNode.String() {
		return nil, fmt.Errorf("%w: root is %q", ErrNoDocument, top.Type)
	}
	return top.node("")
}

func (j *jsonNode) node(path string) (*Node, error) {
	typ, ok := nodeTypeByName(j.Type)
	if !ok {
		return nil, fmt.Errorf("%s: unknown node type %q", path+"/"+j.Type, j.Type)
	}
	if typ == DocumentNode && path != "" {
		return nil, fmt.Errorf("%s: nested document", path)
	}
	path += "/" + j.Type

	n := NewNode(typ)
	if j.ID != "" {
		n.Attr.Set("id", j.ID)
	}
	for _, c := range j.Classes {
		n.Attr.Add("class", c)
	}
	for _, k := range slices.Sorted(maps.Keys(j.Attrs)) {
		n.Attr.Set(k, j.Attrs[k])
	}
	n.Literal = []byte(j.Text)
	n.Level, n.Title = j.Level, j.Title
	n.Ordered = j.Ordered
	n.Lang = j.Lang
	n.Destination, n.Target, n.Normative = j.Destination, j.Target, j.Normative
	n.IsHeader = j.Header
	n.Primary, n.Secondary = j.Primary, j.Secondary

	switch typ {
	case Xref:
		if n.Target == "" {
			return nil, fmt.Errorf("%s: cross reference without target", path)
		}
	case Index:
		if n.Primary == "" {
			return nil, fmt.Errorf("%s: index entry without primary item", path)
		}
	}

	if len(j.Children) > 0 && !n.isContainer() {
		return nil, fmt.Errorf("%s: leaf node with children", path)
	}
	for i := range j.Children {
		c, err := j.Children[i].node(path)
		if err != nil {
			return nil, err
		}
		n.AppendChild(c)
	}
	return n, nil
}
