package rfcmark

// FragmentKind tells content apart from the zone markers in the stream.
type FragmentKind int

const (
	FragmentContent     FragmentKind = iota // rendered markup
	FragmentOpen                            // open front matter
	FragmentTransition                      // close From, open To
	FragmentProvisional                     // transition that may not happen here
	FragmentClose                           // close From, end of document
	FragmentReferences                      // bibliography, filled in by the resolver
)

var fragmentKindNames = []string{
	FragmentContent:     "content",
	FragmentOpen:        "open",
	FragmentTransition:  "transition",
	FragmentProvisional: "provisional",
	FragmentClose:       "close",
	FragmentReferences:  "references",
}

func (k FragmentKind) String() string { return fragmentKindNames[k] }

// IsMarker is true for the zone markers.
func (k FragmentKind) IsMarker() bool {
	switch k {
	case FragmentOpen, FragmentTransition, FragmentProvisional, FragmentClose:
		return true
	}
	return false
}

// Fragment is one unit of the output stream.
type Fragment struct {
	Kind FragmentKind
	From Zone // markers
	To   Zone // markers

	Text []byte // FragmentContent

	// Preamble marks content rendered after the title block but before the
	// document body was known to start. It is abstract when it ends up in
	// front matter and plain body content otherwise.
	Preamble bool

	// FragmentReferences
	Anchor      string
	Title       string
	Normative   []Reference
	Informative []Reference
}

// Assembler collects fragments in document visit order.
type Assembler struct {
	frags []Fragment
}

// Append adds f to the end of the stream. Empty content is dropped.
func (a *Assembler) Append(f Fragment) {
	if f.Kind == FragmentContent && len(f.Text) == 0 {
		return
	}
	a.frags = append(a.frags, f)
}

// Withdraw removes the last provisional marker from the stream.
func (a *Assembler) Withdraw() bool {
	for i := len(a.frags) - 1; i >= 0; i-- {
		if a.frags[i].Kind == FragmentProvisional {
			a.frags = append(a.frags[:i], a.frags[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of fragments appended so far.
func (a *Assembler) Len() int { return len(a.frags) }

// Finalize reconciles the stream and hands it over as a Document. The
// assembler must not be used afterwards.
func (a *Assembler) Finalize() *Document {
	frags := Reconcile(a.frags)
	a.frags = nil
	return &Document{Fragments: frags, Version: 3}
}

// Reconcile settles provisional markers in a single pass from the end of the
// stream: a provisional marker followed by a confirmed transition into the
// same zone is deleted, one that is not is rewritten into the confirmed
// form in place. A stream without provisional markers is returned
// unchanged, which makes Reconcile idempotent.
func Reconcile(frags []Fragment) []Fragment {
	out := make([]Fragment, len(frags))
	confirmed := make(map[Zone]bool)
	n := len(out)
	for i := len(frags) - 1; i >= 0; i-- {
		f := frags[i]
		switch f.Kind {
		case FragmentTransition:
			confirmed[f.To] = true
		case FragmentProvisional:
			if confirmed[f.To] {
				continue
			}
			f.Kind = FragmentTransition
			confirmed[f.To] = true
		}
		n--
		out[n] = f
	}
	return out[n:]
}
