package rfcmark

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
)

type author struct {
	Initials     string
	Surname      string
	Fullname     string
	Organization string
	Role         string
	Ascii        string
	Address      address
}

type address struct {
	Phone  string
	Email  string
	Uri    string
	Postal addressPostal
}

type addressPostal struct {
	Street  string
	City    string
	Code    string
	Country string
}

// title is the TOML title block found at the top of the document.
type title struct {
	Title  string
	Abbrev string

	DocName        string
	Ipr            string
	Category       string
	SubmissionType string
	Obsoletes      []string
	Updates        []string

	Date      time.Time
	Area      string
	Workgroup string
	Keyword   []string
	Author    []author

	// Normative lists the reference targets to be filed as normative.
	Normative targetList
}

// targetList accepts either a TOML array or a free-form string where names
// are separated by commas and/or white space.
type targetList []string

func (l *targetList) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		*l = append(*l, ParseTargets(x)...)
	case []any:
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("normative target %v is not a string", e)
			}
			*l = append(*l, ParseTargets(s)...)
		}
	default:
		return fmt.Errorf("unsupported normative target list %T", v)
	}
	return nil
}

// ParseTargets splits a free-form, comma and/or space separated list of
// anchor names.
func ParseTargets(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// decodeTitleBlock decodes the TOML title block. The parser hands it over
// with or without the leading '%' of every line.
func decodeTitleBlock(data []byte) (*title, error) {
	data = bytes.TrimPrefix(data, []byte("%"))
	data = bytes.ReplaceAll(data, []byte("\n%"), []byte("\n"))
	var block title
	if _, err := toml.Decode(string(data), &block); err != nil {
		return &block, fmt.Errorf("error in TOML titleblock: %w", err)
	}
	return &block, nil
}

// findTitleBlock returns the first title block node directly below root.
func findTitleBlock(root *Node) *Node {
	for n := root.FirstChild; n != nil; n = n.Next {
		if n.Type == TitleBlock {
			return n
		}
	}
	return nil
}
