package rfcmark

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	xrefExpr   = xpath.MustCompile("//xref[@target]")
	anchorExpr = xpath.MustCompile("//*[@anchor]")
)

// Collection is what the collector found in a rendered document.
type Collection struct {
	Referenced []string // xref targets, first use order, no duplicates
	Anchors    []string // anchors defined in the document, no duplicates
	Duplicates []string // anchors defined more than once
}

// Collect renders doc and extracts every cross reference target and every
// anchor it defines.
func Collect(doc *Document) (*Collection, error) {
	var out bytes.Buffer
	doc.render(&out, false)

	root, err := xmlquery.Parse(&out)
	if err != nil {
		return nil, fmt.Errorf("unable to parse rendered document: %w", err)
	}

	c := &Collection{}
	seen := make(map[string]bool)
	for _, n := range xmlquery.QuerySelectorAll(root, xrefExpr) {
		target := n.SelectAttr("target")
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		c.Referenced = append(c.Referenced, target)
	}

	defined := make(map[string]int)
	for _, n := range xmlquery.QuerySelectorAll(root, anchorExpr) {
		anchor := n.SelectAttr("anchor")
		if anchor == "" {
			continue
		}
		defined[anchor]++
		switch defined[anchor] {
		case 1:
			c.Anchors = append(c.Anchors, anchor)
		case 2:
			c.Duplicates = append(c.Duplicates, anchor)
		}
	}
	// v2 has no element for an empty bibliography placeholder, its anchor is
	// defined all the same
	for _, f := range doc.Fragments {
		if f.Kind == FragmentReferences && f.Anchor != "" && defined[f.Anchor] == 0 {
			defined[f.Anchor]++
			c.Anchors = append(c.Anchors, f.Anchor)
		}
	}
	return c, nil
}

// External returns the referenced targets that are not anchors of the
// document itself, in first use order.
func (c *Collection) External() []string {
	var ext []string
	for _, r := range c.Referenced {
		if !slices.Contains(c.Anchors, r) {
			ext = append(ext, r)
		}
	}
	return ext
}

// Partition splits targets into normative and informative ones. Targets
// named in normative are normative, everything else is informative; names in
// normative that are not among targets are dropped. Both results keep the
// order of targets.
func Partition(targets, normative []string) (norm, inform []string) {
	for _, t := range targets {
		if slices.Contains(normative, t) {
			norm = append(norm, t)
		} else {
			inform = append(inform, t)
		}
	}
	return norm, inform
}
