package rfcmark

import (
	"bytes"
	"strings"
)

// Attr holds the values of a single attribute, classes being the only one
// that commonly has more than one.
type Attr []string

// Add appends one more value.
func (a Attr) Add(value string) Attr {
	return append(a, value)
}

// Remove removes the given value.
func (a Attr) Remove(value string) Attr {
	for i := range a {
		if a[i] == value {
			return append(a[:i], a[i+1:]...)
		}
	}
	return a
}

func (a Attr) String() string {
	return strings.Join(a, " ")
}

// Attributes is an insertion ordered store of node attributes. The parser
// hands us an id, a list of classes and free-form key/value metadata; all of
// them live here.
type Attributes struct {
	attrsMap map[string]Attr
	keys     []string
}

// NewAttributes creates an empty Attributes.
func NewAttributes() *Attributes {
	return &Attributes{attrsMap: make(map[string]Attr)}
}

// Add adds the attribute if it does not exist yet and appends value to it.
func (a *Attributes) Add(name, value string) *Attributes {
	if _, ok := a.attrsMap[name]; !ok {
		a.attrsMap[name] = make(Attr, 0)
		a.keys = append(a.keys, name)
	}
	a.attrsMap[name] = a.attrsMap[name].Add(value)
	return a
}

// Set replaces all values of name with value.
func (a *Attributes) Set(name, value string) *Attributes {
	if _, ok := a.attrsMap[name]; !ok {
		a.keys = append(a.keys, name)
	}
	a.attrsMap[name] = Attr{value}
	return a
}

// Remove removes the attribute by name.
func (a *Attributes) Remove(name string) *Attributes {
	for i := range a.keys {
		if a.keys[i] == name {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
	delete(a.attrsMap, name)
	return a
}

// RemoveValue removes value from the attribute; an attribute left without
// values is removed entirely.
func (a *Attributes) RemoveValue(name, value string) *Attributes {
	if attr, ok := a.attrsMap[name]; ok {
		a.attrsMap[name] = attr.Remove(value)
		if len(a.attrsMap[name]) == 0 {
			a.Remove(name)
		}
	}
	return a
}

// Get returns the joined values of name.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.attrsMap[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// ID returns the explicit id, if any.
func (a *Attributes) ID() string {
	id, _ := a.Get("id")
	return id
}

// HasClass reports whether class is among the node classes.
func (a *Attributes) HasClass(class string) bool {
	if a == nil {
		return false
	}
	for _, c := range a.attrsMap["class"] {
		if c == class {
			return true
		}
	}
	return false
}

// Empty checks if attributes is empty.
func (a *Attributes) Empty() bool {
	return a == nil || len(a.keys) == 0
}

// Keys returns attribute names in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// String renders the attributes as XML, values escaped.
func (a *Attributes) String() string {
	if a.Empty() {
		return ""
	}
	var b bytes.Buffer
	for i, name := range a.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString("=\"")
		escapeXML(&b, []byte(a.attrsMap[name].String()))
		b.WriteByte('"')
	}
	return b.String()
}
