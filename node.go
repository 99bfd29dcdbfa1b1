package rfcmark

import (
	"bytes"
	"fmt"
)

// NodeType identifies the kind of a node in the document tree handed to us by
// the markdown parser.
type NodeType int

const (
	DocumentNode NodeType = iota
	TitleBlock
	Abstract
	Section
	Note
	Paragraph
	List
	Item
	CodeBlock
	BlockQuote
	Table
	TableRow
	TableCell
	Text
	Emph
	Strong
	Code
	Link
	Xref
	Index
	Hardbreak
)

var nodeTypeNames = []string{
	DocumentNode: "document",
	TitleBlock:   "titleblock",
	Abstract:     "abstract",
	Section:      "section",
	Note:         "note",
	Paragraph:    "paragraph",
	List:         "list",
	Item:         "item",
	CodeBlock:    "codeblock",
	BlockQuote:   "blockquote",
	Table:        "table",
	TableRow:     "row",
	TableCell:    "cell",
	Text:         "text",
	Emph:         "emph",
	Strong:       "strong",
	Code:         "code",
	Link:         "link",
	Xref:         "xref",
	Index:        "index",
	Hardbreak:    "break",
}

func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
	return nodeTypeNames[t]
}

func nodeTypeByName(name string) (NodeType, bool) {
	for i, n := range nodeTypeNames {
		if n == name {
			return NodeType(i), true
		}
	}
	return 0, false
}

// Classes that turn a section into a zone trigger.
const (
	ClassAppendix     = "appendix"
	ClassBibliography = "bibliography"
)

type SectionData struct {
	Level int    // This holds the heading level number
	Title string // Plain text heading
}

type ListData struct {
	Ordered bool
}

type CodeBlockData struct {
	Lang string
}

type LinkData struct {
	Destination string // Populated for Link
	Target      string // Populated for Xref
	Normative   bool   // Xref written as a normative citation
}

type TableCellData struct {
	IsHeader bool
}

type IndexData struct {
	Primary   string
	Secondary string
}

// Node is a single element in the document tree. It holds connections to the
// structurally neighboring nodes and, for certain types of nodes, additional
// information needed when rendering.
type Node struct {
	Type       NodeType
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	Literal []byte      // Text contents of the leaf nodes, TOML for TitleBlock
	Attr    *Attributes // id, classes and free-form key/value metadata

	SectionData   // Populated if Type == Section or Note
	ListData      // Populated if Type == List
	CodeBlockData // Populated if Type == CodeBlock
	LinkData      // Populated if Type == Link or Xref
	TableCellData // Populated if Type == TableCell
	IndexData     // Populated if Type == Index
}

func NewNode(typ NodeType) *Node {
	return &Node{Type: typ, Attr: NewAttributes()}
}

func (n *Node) unlink() {
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else if n.Parent != nil {
		n.Parent.LastChild = n.Prev
	}
	n.Parent = nil
	n.Next = nil
	n.Prev = nil
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) *Node {
	child.unlink()
	child.Parent = n
	if n.LastChild != nil {
		n.LastChild.Next = child
		child.Prev = n.LastChild
		n.LastChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
	return n
}

// IsTopLevel is true for children of the document node.
func (n *Node) IsTopLevel() bool {
	return n.Parent != nil && n.Parent.Type == DocumentNode
}

func (n *Node) isContainer() bool {
	switch n.Type {
	case Text, Code, CodeBlock, TitleBlock, Index, Hardbreak:
		return false
	}
	return true
}

// WalkStatus allows NodeVisitor to have some control over the tree traversal.
type WalkStatus int

const (
	GoToNext     WalkStatus = iota // The default traversal of every node.
	SkipChildren                   // Skips all children of current node.
	Terminate                      // Terminates the traversal.
)

// NodeVisitor is called twice for every container node: once with
// entering=true when the branch is first visited, then with entering=false
// after all the children are done. Leaf nodes are visited once.
type NodeVisitor func(node *Node, entering bool) WalkStatus

// Walk traverses the tree rooted at root in document order.
func (root *Node) Walk(visitor NodeVisitor) {
	walker := newNodeWalker(root)
	node, entering := walker.next()
	for node != nil {
		status := visitor(node, entering)
		switch status {
		case GoToNext:
			node, entering = walker.next()
		case SkipChildren:
			node, entering = walker.resumeAt(node, false)
		case Terminate:
			return
		}
	}
}

type nodeWalker struct {
	current  *Node
	root     *Node
	entering bool
}

func newNodeWalker(root *Node) *nodeWalker {
	return &nodeWalker{current: root, entering: true}
}

func (nw *nodeWalker) next() (*Node, bool) {
	if nw.current == nil {
		return nil, false
	}
	if nw.root == nil {
		nw.root = nw.current
		return nw.current, nw.entering
	}
	if nw.entering && nw.current.isContainer() {
		if nw.current.FirstChild != nil {
			nw.current = nw.current.FirstChild
			nw.entering = true
		} else {
			nw.entering = false
		}
	} else if nw.current == nw.root {
		return nil, false
	} else if nw.current.Next == nil {
		nw.current = nw.current.Parent
		nw.entering = false
	} else {
		nw.current = nw.current.Next
		nw.entering = true
	}
	return nw.current, nw.entering
}

func (nw *nodeWalker) resumeAt(node *Node, entering bool) (*Node, bool) {
	nw.current = node
	nw.entering = entering
	return nw.next()
}

func (n *Node) String() string {
	return dumpString(n)
}

func dump_r(n *Node, depth int) string {
	if n == nil {
		return ""
	}
	indent := bytes.Repeat([]byte("\t"), depth)
	result := fmt.Sprintf("%s%s(%q)\n", indent, n.Type, n.Literal)
	for c := n.FirstChild; c != nil; c = c.Next {
		result += dump_r(c, depth+1)
	}
	return result
}

func dumpString(n *Node) string {
	return dump_r(n, 0)
}
