package rfcmark

import (
	"context"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/miekg/rfcmark/catalog"
)

// Options control a single conversion.
type Options struct {
	Flags int // XML* renderer options

	// Normative lists targets filed as normative in addition to those the
	// document declares itself.
	Normative []string

	// Bibliography is the directory holding hand written reference files,
	// consulted before the catalog. May be nil.
	Bibliography fs.FS

	// Catalogs supplies working group names and the bibliographic index.
	// Without it workgroups are not expanded and only reference files
	// resolve.
	Catalogs *catalog.Set

	Logger *zap.Logger
}

// Result is the outcome of a conversion.
type Result struct {
	Document   *Document
	Collection *Collection
	Resolution *Resolution
}

// Warnings returns the unresolved references of the conversion.
func (r *Result) Warnings() []Warning {
	return r.Resolution.Warnings
}

// Bytes returns the serialized document.
func (r *Result) Bytes() []byte {
	return r.Document.Bytes()
}

// Convert renders the tree rooted at root and resolves its references.
// Unresolved references do not fail the conversion, they are reported in the
// result; catalog failures do.
func Convert(ctx context.Context, root *Node, opts Options) (*Result, error) {
	if root == nil || root.Type != DocumentNode {
		return nil, ErrNoDocument
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := XmlRenderer(opts.Flags, log)
	if tb := findTitleBlock(root); tb != nil {
		block, err := decodeTitleBlock(tb.Literal)
		if err != nil {
			log.Warn("Unable to decode title block", zap.Error(err))
		}
		r.titleBlock = block
		if block.Workgroup != "" && opts.Catalogs != nil {
			if err := opts.Catalogs.EnsureLoaded(ctx, catalog.WorkingGroups); err != nil {
				return nil, fmt.Errorf("unable to expand workgroup: %w", err)
			}
			r.workgroup = func(acronym string) (string, bool) {
				return opts.Catalogs.Lookup(catalog.WorkingGroups, acronym)
			}
		}
	}
	r.normative = append(r.normative, opts.Normative...)

	doc := r.Render(root)

	coll, err := Collect(doc)
	if err != nil {
		return nil, err
	}
	for _, a := range coll.Duplicates {
		log.Warn("Duplicate anchor", zap.String("anchor", a))
	}

	norm, inform := Partition(coll.External(), doc.Normative)
	log.Debug("References collected",
		zap.Int("referenced", len(coll.Referenced)),
		zap.Int("normative", len(norm)),
		zap.Int("informative", len(inform)))

	res, err := NewResolver(opts.Bibliography, opts.Catalogs, log).Resolve(ctx, norm, inform)
	if err != nil {
		return nil, err
	}
	if !res.Apply(doc) {
		log.Warn("References not placed, document has no appendix or bibliography section",
			zap.Int("normative", len(res.Normative)),
			zap.Int("informative", len(res.Informative)))
	}

	return &Result{Document: doc, Collection: coll, Resolution: res}, nil
}
