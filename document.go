package rfcmark

import (
	"bytes"
	"io"
)

// Entity is an external entity declared in the document type declaration.
type Entity struct {
	Name   string
	System string
}

// Document is the finalized fragment stream of one conversion. The reference
// pass mutates it in place before it is serialized.
type Document struct {
	Fragments []Fragment
	Version   int // xml2rfc vocabulary, 2 or 3

	// Normative holds the targets the author declared normative, from the
	// title block, the options and normative citations.
	Normative []string

	Entities []Entity
}

// Markers returns the zone markers of the stream in order.
func (d *Document) Markers() []Fragment {
	var m []Fragment
	for _, f := range d.Fragments {
		if f.Kind.IsMarker() {
			m = append(m, f)
		}
	}
	return m
}

// SetReferences places the resolved references. The first bibliography
// placeholder receives them; without one they go to the start of back
// matter. A document that never reached back matter gets no references and
// SetReferences reports false.
func (d *Document) SetReferences(normative, informative []Reference) bool {
	for i := range d.Fragments {
		if d.Fragments[i].Kind == FragmentReferences {
			d.Fragments[i].Normative = normative
			d.Fragments[i].Informative = informative
			return true
		}
	}
	if len(normative)+len(informative) == 0 {
		return true
	}
	for i, f := range d.Fragments {
		if f.Kind == FragmentTransition && f.To == ZoneBack {
			d.insert(i+1, Fragment{Kind: FragmentReferences, Normative: normative, Informative: informative})
			return true
		}
	}
	return false
}

func (d *Document) insert(at int, frags ...Fragment) {
	tail := append([]Fragment(nil), d.Fragments[at:]...)
	d.Fragments = append(append(d.Fragments[:at], frags...), tail...)
}

// Declare adds an external entity declaration, once per name.
func (d *Document) Declare(name, system string) {
	for _, e := range d.Entities {
		if e.Name == name {
			return
		}
	}
	d.Entities = append(d.Entities, Entity{Name: name, System: system})
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var out bytes.Buffer
	d.render(&out, true)
	return out.Bytes()
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var out bytes.Buffer
	d.render(&out, true)
	return out.WriteTo(w)
}

// render writes the stream. Without the prolog no entities are declared, so
// references are written out as their placeholder records instead.
func (d *Document) render(out *bytes.Buffer, prolog bool) {
	if prolog {
		out.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		d.doctype(out)
	}

	zone := ZoneFront
	abstract := false
	for _, f := range d.Fragments {
		pre := f.Kind == FragmentContent && f.Preamble && zone == ZoneFront
		if abstract && !pre {
			out.WriteString("</abstract>\n")
			abstract = false
		}
		if pre && !abstract {
			out.WriteString("\n<abstract>\n")
			abstract = true
		}

		switch f.Kind {
		case FragmentContent:
			out.Write(f.Text)
		case FragmentOpen:
			out.WriteString("<" + f.To.element() + ">\n")
			zone = f.To
		case FragmentTransition, FragmentProvisional:
			out.WriteString("</" + f.From.element() + ">\n\n")
			out.WriteString("<" + f.To.element() + ">\n")
			zone = f.To
		case FragmentClose:
			out.WriteString("</" + f.From.element() + ">\n")
		case FragmentReferences:
			d.references(out, f, prolog)
		}
	}
	if abstract {
		out.WriteString("</abstract>\n")
	}
}

func (d *Document) doctype(out *bytes.Buffer) {
	if d.Version == 2 {
		out.WriteString("<!DOCTYPE rfc SYSTEM \"rfc2629.dtd\"")
	} else {
		if len(d.Entities) == 0 {
			return
		}
		out.WriteString("<!DOCTYPE rfc")
	}
	if len(d.Entities) > 0 {
		out.WriteString(" [\n")
		for _, e := range d.Entities {
			out.WriteString("<!ENTITY " + e.Name + " SYSTEM \"" + escapeString(e.System) + "\">\n")
		}
		out.WriteString("]")
	}
	out.WriteString(">\n")
}

func (d *Document) references(out *bytes.Buffer, f Fragment, entities bool) {
	wrap := d.Version != 2 && (f.Anchor != "" || f.Title != "")
	if wrap {
		out.WriteString("\n<references")
		if f.Anchor != "" {
			out.WriteString(" anchor=\"" + escapeString(f.Anchor) + "\"")
		}
		out.WriteString(">\n")
		if f.Title != "" {
			out.WriteString("<name>" + escapeString(f.Title) + "</name>\n")
		}
	}
	anchor := ""
	if d.Version == 2 {
		// no enclosing element, the first group carries the anchor
		anchor = f.Anchor
	}
	if d.referenceGroup(out, "Normative References", anchor, f.Normative, entities) {
		anchor = ""
	}
	d.referenceGroup(out, "Informative References", anchor, f.Informative, entities)
	if wrap {
		out.WriteString("</references>\n")
	}
}

func (d *Document) referenceGroup(out *bytes.Buffer, title, anchor string, refs []Reference, entities bool) bool {
	if len(refs) == 0 {
		return false
	}
	if d.Version == 2 {
		out.WriteString("\n<references")
		if anchor != "" {
			out.WriteString(" anchor=\"" + escapeString(anchor) + "\"")
		}
		out.WriteString(" title=\"" + title + "\">\n")
	} else {
		out.WriteString("\n<references>\n<name>" + title + "</name>\n")
	}
	for _, r := range refs {
		if entities && r.Entity != "" {
			out.WriteString("&" + r.Entity + ";\n")
			continue
		}
		out.Write(r.XML)
		out.WriteByte('\n')
	}
	out.WriteString("</references>\n")
	return true
}
