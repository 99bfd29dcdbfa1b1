package rfcmark

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shurcooL/sanitized_anchor_name"
	"go.uber.org/zap"
)

// XML renderer configuration options.
const (
	XML2 = 1 << iota // xml2rfc v2 vocabulary instead of v3
)

// Xml renders a document tree into a zone tagged fragment stream.
//
// Do not create this directly, instead use the XmlRenderer function.
type Xml struct {
	flags   int // XML* options
	tracker *ZoneTracker
	asm     Assembler
	out     bytes.Buffer // content not yet handed to the assembler

	preamble   bool // out holds preamble content
	merged     bool // inside an explicit abstract that continues the preamble
	titleBlock *title
	headerIDs  map[string]int
	normative  []string

	// table state
	inHead, inBody bool

	// workgroup expands a working group acronym into its display name.
	workgroup func(string) (string, bool)

	log *zap.Logger
}

// XmlRenderer creates and configures a Xml renderer for a single conversion.
//
// flags is a set of XML* options ORed together.
func XmlRenderer(flags int, log *zap.Logger) *Xml {
	if log == nil {
		log = zap.NewNop()
	}
	return &Xml{
		flags:     flags,
		tracker:   NewZoneTracker(),
		headerIDs: make(map[string]int),
		log:       log,
	}
}

func (r *Xml) v2() bool { return r.flags&XML2 != 0 }

// Render walks the tree once, in document order, and returns the finalized
// document.
func (r *Xml) Render(root *Node) *Document {
	if r.titleBlock == nil {
		r.titleBlock = &title{}
		if tb := findTitleBlock(root); tb != nil {
			block, err := decodeTitleBlock(tb.Literal)
			if err != nil {
				// never an error when converting, go on with what we have
				r.log.Warn("Unable to decode title block", zap.Error(err))
			}
			r.titleBlock = block
		}
	}
	r.normative = append(r.normative, r.titleBlock.Normative...)

	r.documentHeader(&r.out)
	r.flush()
	r.marker(r.tracker.Open())

	root.Walk(func(node *Node, entering bool) WalkStatus {
		return r.RenderNode(&r.out, node, entering)
	})

	r.flush()
	r.marker(r.tracker.Close())
	r.out.WriteString("</rfc>\n")
	r.flush()

	doc := r.asm.Finalize()
	if r.v2() {
		doc.Version = 2
	}
	doc.Normative = r.normative
	return doc
}

// flush hands buffered content to the assembler.
func (r *Xml) flush() {
	if r.out.Len() == 0 {
		return
	}
	text := append([]byte(nil), r.out.Bytes()...)
	r.asm.Append(Fragment{Kind: FragmentContent, Text: text, Preamble: r.preamble})
	r.out.Reset()
}

func (r *Xml) marker(ok bool, f Fragment) {
	if !ok {
		return
	}
	r.flush()
	r.asm.Append(f)
	r.log.Debug("Zone marker", zap.Stringer("kind", f.Kind), zap.Stringer("from", f.From), zap.Stringer("to", f.To))
}

// block is called for every block level node on entry. Top level content in
// front matter that is not part of the title block, the abstract or a note
// is preamble: we cannot tell yet whether the body starts after it (it is
// abstract) or before it (there is no separate abstract). An explicit
// abstract or note settles that, the preamble before it is front matter and
// its provisional marker is withdrawn. The content of such an abstract joins
// the preamble's abstract.
func (r *Xml) block(node *Node) {
	if !node.IsTopLevel() {
		return
	}
	pre := false
	switch node.Type {
	case Abstract, Note:
		if r.preamble {
			r.flush()
			if r.tracker.Withdraw() {
				r.asm.Withdraw()
				r.log.Debug("Preamble followed by explicit front matter, provisional marker withdrawn")
			}
			if node.Type == Abstract {
				r.merged = true
				return
			}
		}
	case TitleBlock, Section:
	default:
		pre = r.tracker.Current() == ZoneFront
	}
	if pre == r.preamble {
		return
	}
	r.flush()
	if pre {
		r.marker(r.tracker.Provisional(ZoneBody))
	}
	r.preamble = pre
}

func (r *Xml) RenderNode(w *bytes.Buffer, node *Node, entering bool) WalkStatus {
	switch node.Type {
	case DocumentNode:
		// header and footer are written by Render

	case TitleBlock:
		r.block(node)
		r.titleBlockXML(w)

	case Abstract:
		if entering {
			r.block(node)
		}
		if r.merged {
			if !entering {
				r.flush()
				r.preamble, r.merged = false, false
			}
			break
		}
		if r.tracker.Current() != ZoneFront {
			if entering {
				r.log.Warn("Abstract outside of front matter, rendering it as a note")
			}
			r.note(w, "Abstract", NewAttributes(), entering)
			break
		}
		if entering {
			w.WriteString("\n<abstract" + r.ial(node, "") + ">\n")
		} else {
			w.WriteString("</abstract>\n")
		}

	case Note:
		if entering {
			r.block(node)
		}
		r.note(w, node.Title, node.Attr, entering)

	case Section:
		if !entering {
			w.WriteString("</section>\n")
			break
		}
		r.block(node)
		return r.section(w, node)

	case Paragraph:
		if entering {
			r.block(node)
		}
		if r.v2() && node.Parent != nil && node.Parent.Type == Item {
			break
		}
		if entering {
			w.WriteString("<t" + r.ial(node, "") + ">")
		} else {
			w.WriteString("</t>\n")
		}

	case List:
		if entering {
			r.block(node)
		}
		r.list(w, node, entering)

	case Item:
		if r.v2() {
			if entering {
				w.WriteString("<t>")
			} else {
				w.WriteString("</t>\n")
			}
			break
		}
		if entering {
			w.WriteString("<li>")
		} else {
			w.WriteString("</li>\n")
		}

	case CodeBlock:
		r.block(node)
		r.codeBlock(w, node)

	case BlockQuote:
		if entering {
			r.block(node)
		}
		if r.v2() {
			// fake a list paragraph
			if entering {
				w.WriteString("<t><list style=\"empty\">\n")
			} else {
				w.WriteString("</list></t>\n")
			}
			break
		}
		if entering {
			w.WriteString("<blockquote" + r.ial(node, "") + ">\n")
		} else {
			w.WriteString("</blockquote>\n")
		}

	case Table:
		if entering {
			r.block(node)
		}
		r.table(w, node, entering)

	case TableRow:
		r.tableRow(w, node, entering)

	case TableCell:
		r.tableCell(w, node, entering)

	case Text:
		escapeXML(w, node.Literal)

	case Emph:
		r.span(w, "em", "emph", entering)

	case Strong:
		r.span(w, "strong", "strong", entering)

	case Code:
		if r.v2() {
			w.WriteString("<spanx style=\"verb\">")
			escapeXML(w, node.Literal)
			w.WriteString("</spanx>")
			break
		}
		w.WriteString("<tt>")
		escapeXML(w, node.Literal)
		w.WriteString("</tt>")

	case Link:
		return r.link(w, node, entering)

	case Xref:
		if entering && node.Normative {
			r.normative = append(r.normative, node.Target)
		}
		return r.xref(w, node.Target, node, entering)

	case Index:
		w.WriteString("<iref item=\"" + escapeString(node.Primary) + "\"")
		if node.Secondary != "" {
			w.WriteString(" subitem=\"" + escapeString(node.Secondary) + "\"")
		}
		w.WriteString("/>")

	case Hardbreak:
		if r.v2() {
			w.WriteString("\n<vspace/>\n")
		} else {
			w.WriteString("<br/>\n")
		}

	default:
		panic(fmt.Sprintf("unknown node type %v", node.Type))
	}
	return GoToNext
}

// section handles zone triggers and opens the section. Only sections right
// below the document trigger zone transitions; a tagged section nested in
// another one cannot close the enclosing section's zone.
func (r *Xml) section(w *bytes.Buffer, node *Node) WalkStatus {
	top := node.IsTopLevel()
	appendix := node.Attr.HasClass(ClassAppendix)
	biblio := node.Attr.HasClass(ClassBibliography)
	if !top && (appendix || biblio) {
		r.log.Debug("Nested section tagged as back matter, ignoring tag", zap.String("title", node.Title))
	}

	switch {
	case top && biblio:
		r.marker(r.tracker.RequestTransition(ZoneBack))
		r.flush()
		r.asm.Append(Fragment{Kind: FragmentReferences, Anchor: r.sectionID(node), Title: node.Title})
		return SkipChildren
	case top && appendix:
		r.marker(r.tracker.RequestTransition(ZoneBack))
	case top:
		r.marker(r.tracker.RequestTransition(ZoneBody))
	}

	id := r.sectionID(node)
	if r.v2() {
		w.WriteString("\n<section" + r.ial(node, id) + " title=\"" + escapeString(node.Title) + "\">\n")
		return GoToNext
	}
	w.WriteString("\n<section" + r.ial(node, id) + ">\n")
	w.WriteString("<name>")
	escapeXML(w, []byte(node.Title))
	w.WriteString("</name>\n")
	return GoToNext
}

// sectionID returns the explicit id or a slug of the title, unique within
// the document.
func (r *Xml) sectionID(node *Node) string {
	id := node.Attr.ID()
	if id == "" {
		id = sanitized_anchor_name.Create(node.Title)
	}
	if id == "" {
		id = "section"
	}
	return r.ensureUniqueHeaderID(id)
}

func (r *Xml) ensureUniqueHeaderID(id string) string {
	for count, found := r.headerIDs[id]; found; count, found = r.headerIDs[id] {
		tmp := fmt.Sprintf("%s-%d", id, count+1)

		if _, tmpFound := r.headerIDs[tmp]; !tmpFound {
			r.headerIDs[id] = count + 1
			id = tmp
		} else {
			id = id + "-1"
		}
	}

	if _, found := r.headerIDs[id]; !found {
		r.headerIDs[id] = 0
	}

	return id
}

// ial renders the node attributes as XML attributes: the id becomes the
// anchor, classes and keys that are not XML names are dropped and the rest is
// copied.
func (r *Xml) ial(node *Node, anchor string) string {
	a := NewAttributes()
	if anchor == "" {
		anchor = node.Attr.ID()
	}
	if anchor != "" {
		a.Set("anchor", anchor)
	}
	for _, k := range node.Attr.Keys() {
		if k == "id" || k == "class" {
			continue
		}
		if !isAttrName(k) {
			r.log.Debug("Dropping attribute with invalid name", zap.String("name", k))
			continue
		}
		v, _ := node.Attr.Get(k)
		a.Set(k, v)
	}
	if a.Empty() {
		return ""
	}
	return " " + a.String()
}

func (r *Xml) note(w *bytes.Buffer, name string, attr *Attributes, entering bool) {
	if !entering {
		w.WriteString("</note>\n")
		return
	}
	anchor := ""
	if id := attr.ID(); id != "" {
		anchor = " anchor=\"" + escapeString(id) + "\""
	}
	if r.v2() {
		w.WriteString("\n<note" + anchor + " title=\"" + escapeString(name) + "\">\n")
		return
	}
	w.WriteString("\n<note" + anchor + ">\n")
	if name != "" {
		w.WriteString("<name>" + escapeString(name) + "</name>\n")
	}
}

func (r *Xml) list(w *bytes.Buffer, node *Node, entering bool) {
	inside := node.Parent != nil && node.Parent.Type == Item
	if r.v2() {
		if !entering {
			w.WriteString("</list>\n")
			if !inside {
				w.WriteString("</t>\n")
			}
			return
		}
		// inside lists we must drop the paragraph
		if !inside {
			w.WriteString("<t>\n")
		}
		style := "symbols"
		if node.Ordered {
			style = "numbers"
		}
		w.WriteString("<list style=\"" + style + "\">\n")
		return
	}
	tag := "ul"
	if node.Ordered {
		tag = "ol"
	}
	if entering {
		w.WriteString("<" + tag + r.ial(node, "") + ">\n")
	} else {
		w.WriteString("</" + tag + ">\n")
	}
}

func (r *Xml) codeBlock(w *bytes.Buffer, node *Node) {
	text := node.Literal
	if r.v2() {
		w.WriteString("\n<figure" + r.ial(node, "") + "><artwork>\n")
	} else {
		s := r.ial(node, "")
		if node.Lang != "" {
			s += " type=\"" + escapeString(node.Lang) + "\""
		}
		w.WriteString("\n<sourcecode" + s + ">\n")
	}
	escapeXML(w, text)
	if len(text) > 0 && text[len(text)-1] != '\n' {
		w.WriteByte('\n')
	}
	if r.v2() {
		w.WriteString("</artwork></figure>\n")
	} else {
		w.WriteString("</sourcecode>\n")
	}
}

func (r *Xml) table(w *bytes.Buffer, node *Node, entering bool) {
	if r.v2() {
		if entering {
			w.WriteString("<texttable" + r.ial(node, "") + ">\n")
		} else {
			w.WriteString("</texttable>\n")
		}
		return
	}
	if entering {
		r.inHead, r.inBody = false, false
		w.WriteString("<table" + r.ial(node, "") + ">\n")
		return
	}
	if r.inHead {
		w.WriteString("</thead>\n")
	}
	if r.inBody {
		w.WriteString("</tbody>\n")
	}
	r.inHead, r.inBody = false, false
	w.WriteString("</table>\n")
}

func (r *Xml) tableRow(w *bytes.Buffer, node *Node, entering bool) {
	if r.v2() {
		if !entering {
			w.WriteByte('\n')
		}
		return
	}
	if !entering {
		w.WriteString("</tr>\n")
		return
	}
	header := node.FirstChild != nil && node.FirstChild.IsHeader
	switch {
	case header && !r.inHead && !r.inBody:
		w.WriteString("<thead>\n")
		r.inHead = true
	case !header && !r.inBody:
		if r.inHead {
			w.WriteString("</thead>\n")
			r.inHead = false
		}
		w.WriteString("<tbody>\n")
		r.inBody = true
	}
	w.WriteString("<tr>")
}

func (r *Xml) tableCell(w *bytes.Buffer, node *Node, entering bool) {
	tag := "td"
	switch {
	case r.v2() && node.IsHeader:
		tag = "ttcol"
	case r.v2():
		tag = "c"
	case node.IsHeader:
		tag = "th"
	}
	if entering {
		w.WriteString("<" + tag + ">")
	} else {
		w.WriteString("</" + tag + ">")
	}
}

func (r *Xml) span(w *bytes.Buffer, tag, style string, entering bool) {
	if r.v2() {
		if entering {
			w.WriteString("<spanx style=\"" + style + "\">")
		} else {
			w.WriteString("</spanx>")
		}
		return
	}
	if entering {
		w.WriteString("<" + tag + ">")
	} else {
		w.WriteString("</" + tag + ">")
	}
}

func (r *Xml) link(w *bytes.Buffer, node *Node, entering bool) WalkStatus {
	dest := node.Destination
	if len(dest) > 0 && dest[0] == '#' {
		return r.xref(w, dest[1:], node, entering)
	}
	if !entering {
		w.WriteString("</eref>")
		return GoToNext
	}
	if node.FirstChild == nil {
		w.WriteString("<eref target=\"" + escapeString(dest) + "\"/>")
		return SkipChildren
	}
	w.WriteString("<eref target=\"" + escapeString(dest) + "\">")
	return GoToNext
}

func (r *Xml) xref(w *bytes.Buffer, target string, node *Node, entering bool) WalkStatus {
	if !entering {
		w.WriteString("</xref>")
		return GoToNext
	}
	if node.FirstChild == nil {
		w.WriteString("<xref target=\"" + escapeString(target) + "\"/>")
		return SkipChildren
	}
	w.WriteString("<xref target=\"" + escapeString(target) + "\">")
	return GoToNext
}

// documentHeader opens the root element.
func (r *Xml) documentHeader(w *bytes.Buffer) {
	tb := r.titleBlock
	a := NewAttributes()
	if !r.v2() {
		a.Set("xmlns:xi", "http://www.w3.org/2001/XInclude")
		a.Set("version", "3")
	}
	if tb.Ipr != "" {
		a.Set("ipr", tb.Ipr)
	}
	if tb.Category != "" {
		a.Set("category", tb.Category)
	}
	if tb.DocName != "" {
		a.Set("docName", tb.DocName)
	}
	if tb.SubmissionType != "" {
		a.Set("submissionType", tb.SubmissionType)
	}
	if len(tb.Obsoletes) > 0 {
		a.Set("obsoletes", joinComma(tb.Obsoletes))
	}
	if len(tb.Updates) > 0 {
		a.Set("updates", joinComma(tb.Updates))
	}
	w.WriteString("<rfc")
	if !a.Empty() {
		w.WriteString(" " + a.String())
	}
	w.WriteString(">\n")

	if r.v2() {
		// default processing instructions
		w.WriteString("<?rfc toc=\"yes\"?>\n")
		w.WriteString("<?rfc symrefs=\"yes\"?>\n")
		w.WriteString("<?rfc sortrefs=\"yes\"?>\n")
		w.WriteString("<?rfc compact=\"yes\"?>\n")
		w.WriteString("<?rfc subcompact=\"no\"?>\n")
	}
}

func joinComma(s []string) string {
	var b bytes.Buffer
	for i, e := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e)
	}
	return b.String()
}

// titleBlockXML writes the front matter metadata.
func (r *Xml) titleBlockXML(w *bytes.Buffer) {
	tb := r.titleBlock
	if tb.Title == "" {
		return
	}
	w.WriteString("<title")
	if tb.Abbrev != "" {
		w.WriteString(" abbrev=\"" + escapeString(tb.Abbrev) + "\"")
	}
	w.WriteString(">" + escapeString(tb.Title) + "</title>\n")
	if !r.v2() && tb.DocName != "" {
		w.WriteString("<seriesInfo name=\"Internet-Draft\" value=\"" + escapeString(tb.DocName) + "\"/>\n")
	}
	w.WriteString("\n")

	for _, a := range tb.Author {
		r.author(w, a)
	}

	year, month, day := "", "", ""
	if tb.Date.Year() > 1 {
		year = " year=\"" + strconv.Itoa(tb.Date.Year()) + "\""
		month = " month=\"" + tb.Date.Month().String() + "\""
		day = " day=\"" + strconv.Itoa(tb.Date.Day()) + "\""
	}
	w.WriteString("<date" + year + month + day + "/>\n\n")

	if tb.Area != "" {
		w.WriteString("<area>" + escapeString(tb.Area) + "</area>\n")
	}
	if tb.Workgroup != "" {
		wg := tb.Workgroup
		if r.workgroup != nil {
			if name, ok := r.workgroup(wg); ok {
				wg = name
			}
		}
		w.WriteString("<workgroup>" + escapeString(wg) + "</workgroup>\n")
	}
	for _, k := range tb.Keyword {
		w.WriteString("<keyword>" + escapeString(k) + "</keyword>\n")
	}
	w.WriteString("\n")
}

func (r *Xml) author(w *bytes.Buffer, a author) {
	attr := NewAttributes()
	if a.Initials != "" {
		attr.Set("initials", a.Initials)
	}
	if a.Surname != "" {
		attr.Set("surname", a.Surname)
	}
	if a.Fullname != "" {
		attr.Set("fullname", a.Fullname)
	}
	if a.Role != "" {
		attr.Set("role", a.Role)
	}
	if !attr.Empty() {
		w.WriteString("<author " + attr.String() + ">\n")
	} else {
		w.WriteString("<author>\n")
	}
	if a.Organization != "" {
		w.WriteString("<organization>" + escapeString(a.Organization) + "</organization>\n")
	}
	ad := a.Address
	if ad.Email != "" || ad.Uri != "" || ad.Phone != "" || ad.Postal != (addressPostal{}) {
		w.WriteString("<address>\n")
		if ad.Postal != (addressPostal{}) {
			w.WriteString("<postal>\n")
			element(w, "street", ad.Postal.Street)
			element(w, "city", ad.Postal.City)
			element(w, "code", ad.Postal.Code)
			element(w, "country", ad.Postal.Country)
			w.WriteString("</postal>\n")
		}
		element(w, "phone", ad.Phone)
		element(w, "email", ad.Email)
		element(w, "uri", ad.Uri)
		w.WriteString("</address>\n")
	}
	w.WriteString("</author>\n")
}

func element(w *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	w.WriteString("<" + name + ">" + escapeString(value) + "</" + name + ">\n")
}

