// Package rfcmark converts a parsed document tree into xml2rfc XML.
//
// The tree is rendered in a single walk. A ZoneTracker decides whether each
// rendered fragment belongs to the front, middle or back matter of the
// document, and an Assembler collects the fragments together with the zone
// markers. Content that precedes the first section is ambiguous until the
// rest of the document has been seen, it is given a provisional marker which
// Reconcile either confirms or drops.
//
// After rendering, the cross references of the document are collected and
// every target that is not an anchor of the document itself is resolved:
// first against hand written reference files in a bibliography directory,
// then against the bibliographic catalog (see package catalog). References
// found in the catalog are included as external entities.
//
// The simplest way to use it is Convert:
//
//	root, err := rfcmark.DecodeTree(r)
//	...
//	res, err := rfcmark.Convert(ctx, root, rfcmark.Options{Catalogs: set})
//	...
//	res.Document.WriteTo(os.Stdout)
//
// The command in cmd/rfcmark wraps this with configuration, logging and
// cache management.
package rfcmark
