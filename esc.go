package rfcmark

import (
	"bytes"
	"io"
	"unicode/utf8"
)

type escMap struct {
	char byte
	seq  []byte
}

var xmlEscaper = []escMap{
	{'&', []byte("&amp;")},
	{'<', []byte("&lt;")},
	{'>', []byte("&gt;")},
	{'"', []byte("&quot;")},
}

// escapeXML writes s with the markup characters escaped. Characters XML does
// not allow at all, control characters and malformed UTF-8, are dropped.
func escapeXML(w io.Writer, s []byte) {
	var start, end int
	for end < len(s) {
		c := s[end]
		if c == '&' || c == '<' || c == '>' || c == '"' {
			for i := 0; i < len(xmlEscaper); i++ {
				if c == xmlEscaper[i].char {
					w.Write(s[start:end])
					w.Write(xmlEscaper[i].seq)
					start = end + 1
					break
				}
			}
			end++
			continue
		}
		size := 1
		if c >= utf8.RuneSelf {
			var r rune
			r, size = utf8.DecodeRune(s[end:])
			if r == utf8.RuneError && size == 1 || r == 0xFFFE || r == 0xFFFF {
				w.Write(s[start:end])
				start = end + size
			}
		} else if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			w.Write(s[start:end])
			start = end + 1
		}
		end += size
	}
	if start < len(s) {
		w.Write(s[start:])
	}
}

func escapeString(s string) string {
	var b bytes.Buffer
	escapeXML(&b, []byte(s))
	return b.String()
}

// isNameStart and isNameChar cover the ASCII part of the XML Name production,
// which is all anchors and entity names ever use.
func isNameStart(c byte) bool {
	return c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

// isAttrName reports whether s can be written as an attribute name as is.
func isAttrName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf || s[i] == ':' || !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

// entityName turns an anchor into a usable entity name.
func entityName(anchor string) string {
	if anchor == "" {
		return "_"
	}
	b := []byte(anchor)
	for i := range b {
		if !isNameChar(b[i]) || b[i] == ':' {
			b[i] = '_'
		}
	}
	if !isNameStart(b[0]) {
		return "_" + string(b)
	}
	return string(b)
}
