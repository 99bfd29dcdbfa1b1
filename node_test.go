package rfcmark

import (
	"fmt"
	"reflect"
	"testing"
)

func walkOrder(root *Node, skip NodeType) []string {
	var visits []string
	root.Walk(func(n *Node, entering bool) WalkStatus {
		if entering {
			visits = append(visits, fmt.Sprintf("+%s", n.Type))
		} else {
			visits = append(visits, fmt.Sprintf("-%s", n.Type))
		}
		if entering && n.Type == skip {
			return SkipChildren
		}
		return GoToNext
	})
	return visits
}

func TestWalk(t *testing.T) {
	root := tree(section("A", para(text("x"), node(Emph, text("y")))), section("B"))
	want := []string{
		"+document",
		"+section", "+paragraph", "+text", "+emph", "+text", "-emph", "-paragraph", "-section",
		"+section", "-section",
		"-document",
	}
	if got := walkOrder(root, -1); !reflect.DeepEqual(got, want) {
		t.Errorf("\nExpected[%v]\nActual  [%v]", want, got)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	root := tree(section("A", para(text("x"))), node(Paragraph, text("y")))
	want := []string{"+document", "+section", "+paragraph", "+text", "-paragraph", "-document"}
	if got := walkOrder(root, Section); !reflect.DeepEqual(got, want) {
		t.Errorf("\nExpected[%v]\nActual  [%v]", want, got)
	}
}

func TestWalkTerminate(t *testing.T) {
	root := tree(section("A"), section("B"))
	n := 0
	root.Walk(func(node *Node, entering bool) WalkStatus {
		n++
		if node.Type == Section {
			return Terminate
		}
		return GoToNext
	})
	if n != 2 {
		t.Errorf("visited %d nodes after Terminate, want 2", n)
	}
}

func TestAppendChildMoves(t *testing.T) {
	a, b := section("A"), section("B")
	p := para()
	a.AppendChild(p)
	b.AppendChild(p)
	if a.FirstChild != nil || b.FirstChild != p || p.Parent != b {
		t.Error("AppendChild did not move the node")
	}
	root := tree(a)
	if !a.IsTopLevel() || p.IsTopLevel() || root.IsTopLevel() {
		t.Error("IsTopLevel() wrong")
	}
}

func TestNodeTypeNames(t *testing.T) {
	for typ := DocumentNode; typ <= Hardbreak; typ++ {
		got, ok := nodeTypeByName(typ.String())
		if !ok || got != typ {
			t.Errorf("nodeTypeByName(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if _, ok := nodeTypeByName("video"); ok {
		t.Error("nodeTypeByName accepted unknown type")
	}
}
