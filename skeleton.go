package rfcmark

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// skeleton is a hand written reference file from the bibliography directory.
type skeleton struct {
	anchor string
	file   string
	xml    []byte // file content without the XML declaration
}

// scanSkeletons reads every *.xml file at the top of fsys and keys it by the
// anchor of its first reference element. Files without one are skipped; when
// two files claim the same anchor the first in lexical order wins.
func scanSkeletons(fsys fs.FS, log *zap.Logger) (map[string]skeleton, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("unable to read reference directory: %w", err)
	}

	skels := make(map[string]skeleton)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".xml") {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("unable to read reference file %s: %w", e.Name(), err)
		}
		anchor, err := skeletonAnchor(data)
		if err != nil {
			log.Debug("Skipping reference file", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		if prev, ok := skels[anchor]; ok {
			log.Warn("Reference defined by more than one file", zap.String("anchor", anchor), zap.String("used", prev.file), zap.String("ignored", e.Name()))
			continue
		}
		skels[anchor] = skeleton{anchor: anchor, file: e.Name(), xml: stripDeclaration(data)}
		log.Debug("Reference file found", zap.String("file", e.Name()), zap.String("anchor", anchor))
	}
	return skels, nil
}

// skeletonAnchor returns the anchor of the first reference element in data.
func skeletonAnchor(data []byte) (string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("unable to parse: %w", err)
	}
	ref := doc.FindElement("//reference")
	if ref == nil {
		return "", fmt.Errorf("no reference element")
	}
	anchor := ref.SelectAttrValue("anchor", "")
	if anchor == "" {
		return "", fmt.Errorf("reference element without anchor")
	}
	return anchor, nil
}

// stripDeclaration drops a leading byte order mark and XML declaration so the
// content can be spliced into another document.
func stripDeclaration(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if end := bytes.Index(data, []byte("?>")); end >= 0 {
			data = bytes.TrimSpace(data[end+2:])
		}
	}
	return data
}
