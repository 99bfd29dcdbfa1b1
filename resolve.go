package rfcmark

import (
	"context"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/miekg/rfcmark/catalog"
)

// Class is the bibliography group a reference is filed under.
type Class int

const (
	Informative Class = iota
	Normative
)

func (c Class) String() string {
	if c == Normative {
		return "normative"
	}
	return "informative"
}

// Source tells where a resolved reference came from.
type Source int

const (
	SourceSkeleton Source = iota + 1 // hand written file in the bibliography directory
	SourceCatalog                    // bibliographic index
)

func (s Source) String() string {
	switch s {
	case SourceSkeleton:
		return "file"
	case SourceCatalog:
		return "catalog"
	}
	return "unresolved"
}

// Reference is a resolved bibliography entry.
type Reference struct {
	Anchor string
	Class  Class
	Source Source

	File string // SourceSkeleton
	URL  string // SourceCatalog

	// XML is the reference element. For catalog references it is a
	// placeholder, the output names Entity instead.
	XML    []byte
	Entity string
}

// Warning reports a target no source could resolve.
type Warning struct {
	Target string
	Class  Class
}

func (w Warning) String() string {
	return fmt.Sprintf("unresolved %s reference %q", w.Class, w.Target)
}

// Resolution is the outcome of resolving the external targets of a document.
type Resolution struct {
	Normative   []Reference
	Informative []Reference
	Entities    []Entity
	Warnings    []Warning
}

// Apply places the references into doc and declares their entities. It
// returns false when doc has no back matter to hold the references, nothing
// is changed then.
func (res *Resolution) Apply(doc *Document) bool {
	if !doc.SetReferences(res.Normative, res.Informative) {
		return false
	}
	for _, e := range res.Entities {
		doc.Declare(e.Name, e.System)
	}
	return true
}

// Resolver looks up reference targets, first in the bibliography directory
// and then in the bibliographic catalog.
type Resolver struct {
	fsys     fs.FS        // bibliography directory, may be nil
	catalogs *catalog.Set // may be nil
	log      *zap.Logger

	skels map[string]skeleton // nil until scanned
}

// NewResolver returns a resolver using the reference files in fsys and the
// bibliographic catalog of catalogs. Either may be nil.
func NewResolver(fsys fs.FS, catalogs *catalog.Set, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{fsys: fsys, catalogs: catalogs, log: log}
}

// Resolve resolves the normative and informative targets, keeping their
// order. Unresolved targets become warnings; only a catalog failure is an
// error.
func (r *Resolver) Resolve(ctx context.Context, normative, informative []string) (*Resolution, error) {
	res := &Resolution{}
	if len(normative)+len(informative) == 0 {
		return res, nil
	}

	if err := r.scan(); err != nil {
		return nil, err
	}

	catalogLoaded := false
	entities := make(map[string]bool)
	resolve := func(target string, class Class) (Reference, bool, error) {
		if s, ok := r.skels[target]; ok {
			return Reference{Anchor: target, Class: class, Source: SourceSkeleton, File: s.file, XML: s.xml}, true, nil
		}
		if r.catalogs == nil {
			return Reference{}, false, nil
		}
		if !catalogLoaded {
			if err := r.catalogs.EnsureLoaded(ctx, catalog.Bibliography); err != nil {
				return Reference{}, false, err
			}
			catalogLoaded = true
		}
		url, ok := r.catalogs.Lookup(catalog.Bibliography, target)
		if !ok {
			return Reference{}, false, nil
		}
		ref := Reference{
			Anchor: target,
			Class:  class,
			Source: SourceCatalog,
			URL:    url,
			XML:    []byte(`<reference anchor="` + escapeString(target) + `"/>`),
			Entity: uniqueEntityName(entityName(target), entities),
		}
		res.Entities = append(res.Entities, Entity{Name: ref.Entity, System: url})
		return ref, true, nil
	}

	for _, group := range []struct {
		targets []string
		class   Class
		out     *[]Reference
	}{
		{normative, Normative, &res.Normative},
		{informative, Informative, &res.Informative},
	} {
		for _, t := range group.targets {
			ref, ok, err := resolve(t, group.class)
			if err != nil {
				return nil, fmt.Errorf("unable to resolve %s: %w", t, err)
			}
			if !ok {
				w := Warning{Target: t, Class: group.class}
				res.Warnings = append(res.Warnings, w)
				r.log.Warn("Unresolved reference", zap.String("target", t), zap.Stringer("class", group.class))
				continue
			}
			r.log.Debug("Reference resolved", zap.String("target", t), zap.Stringer("source", ref.Source))
			*group.out = append(*group.out, ref)
		}
	}
	return res, nil
}

// scan reads the bibliography directory, once.
func (r *Resolver) scan() error {
	if r.skels != nil {
		return nil
	}
	if r.fsys == nil {
		r.skels = make(map[string]skeleton)
		return nil
	}
	skels, err := scanSkeletons(r.fsys, r.log)
	if err != nil {
		return err
	}
	r.skels = skels
	return nil
}

// uniqueEntityName returns name, or name with a numeric suffix when another
// anchor already sanitized to it, and marks the result as used.
func uniqueEntityName(name string, used map[string]bool) string {
	unique := name
	for i := 1; used[unique]; i++ {
		unique = fmt.Sprintf("%s-%d", name, i)
	}
	used[unique] = true
	return unique
}
