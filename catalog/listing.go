package catalog

import (
	"bytes"
	"html"
	"regexp"
	"strings"
)

// Kind selects one of the catalogs.
type Kind int

const (
	WorkingGroups Kind = iota // working group acronym to display name
	Bibliography              // reference name to reference file URL
)

// Kinds lists every catalog kind.
var Kinds = []Kind{WorkingGroups, Bibliography}

var kindNames = []string{
	WorkingGroups: "workgroups",
	Bibliography:  "bibliography",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// parser extracts catalog entries from the body of one source.
type parser func(source string, body []byte, entries map[string]string) int

func (k Kind) parser() parser {
	if k == Bibliography {
		return parseBibliography
	}
	return parseWorkingGroups
}

// linespan implements a minimal line iterator over '\n' delimited content
type linespan struct{ begin, end int }

// next updates begin and end to point to the next line
func (sc *linespan) next(content []byte) bool {
	sc.begin = sc.end
	if sc.begin >= len(content) {
		return false
	}

	off := bytes.IndexByte(content[sc.begin:], '\n')
	if off >= 0 {
		sc.end = sc.begin + off + 1
		return true
	}

	sc.end = len(content)
	return true
}

var referenceHref = regexp.MustCompile(`href="(reference\.([^"/]+)\.xml)"`)

// parseBibliography reads a directory listing of reference files. Every
// "reference.NAME.xml" link yields NAME mapped to the absolute file URL. A
// name seen before, in this or an earlier source, is kept.
func parseBibliography(source string, body []byte, entries map[string]string) int {
	base := source
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	n := 0
	var sc linespan
	for sc.next(body) {
		for _, m := range referenceHref.FindAllSubmatch(body[sc.begin:sc.end], -1) {
			name := referenceName(string(m[2]))
			if _, ok := entries[name]; ok {
				continue
			}
			entries[name] = base + string(m[1])
			n++
		}
	}
	return n
}

// referenceName maps a reference file name to the anchor authors cite it
// by: reference.RFC.2119.xml is RFC2119, reference.I-D.draft-foo.xml is
// I-D.foo.
func referenceName(name string) string {
	switch {
	case strings.HasPrefix(name, "RFC."):
		return "RFC" + name[len("RFC."):]
	case strings.HasPrefix(name, "I-D.draft-"):
		return "I-D." + name[len("I-D.draft-"):]
	}
	return name
}

var groupRow = regexp.MustCompile(`(?s)<a href="/(?:wg|rg)/([a-z0-9-]+)/(?:about/)?">[^<]*</a>\s*</td>\s*<td[^>]*>\s*(?:<a [^>]*>)?([^<]+?)\s*(?:</a>\s*)?</td>`)

// parseWorkingGroups reads the group listing tables of the datatracker,
// mapping the acronym to the group name.
func parseWorkingGroups(_ string, body []byte, entries map[string]string) int {
	n := 0
	for _, m := range groupRow.FindAllSubmatch(body, -1) {
		acronym := string(m[1])
		if _, ok := entries[acronym]; ok {
			continue
		}
		entries[acronym] = html.UnescapeString(strings.Join(strings.Fields(string(m[2])), " "))
		n++
	}
	return n
}
