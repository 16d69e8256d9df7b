package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/scenesync/internal/errors"
	"github.com/vango-dev/scenesync/pkg/style"
)

// LoadStylesheet reads a YAML stylesheet and merges it over
// style.DefaultSheet. An empty path returns the default sheet.
//
// The file is a mapping from tag name to a style object or a list of style
// objects:
//
//	button:
//	  backgroundColor: "#333"
//	  paddingHorizontal: 12
//	h1: [{marginBottom: 12}, {marginTop: 4}]
//
// Each entry is compiled once at load time, so bad values are reported
// with the line and column of the offending key.
func LoadStylesheet(path string) (style.Sheet, error) {
	base := style.DefaultSheet()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E105").
			WithDetail("Failed to read stylesheet " + path).
			Wrap(err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E105").
			WithDetail("Failed to parse " + path + ": " + err.Error())
	}
	if len(doc.Content) == 0 {
		return base, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("E105").WithLocation(path, root.Line, root.Column)
	}

	sheet := make(style.Sheet, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		st, err := decodeSheetEntry(value)
		if err != nil {
			loc := locate(value, err)
			return nil, errors.New("E105").
				WithLocation(path, loc.Line, loc.Column).
				WithDetail("Style for " + key.Value + " is invalid.").
				Wrap(err)
		}
		sheet[key.Value] = st
	}
	return base.Merge(sheet), nil
}

// decodeSheetEntry flattens and compiles one stylesheet entry.
func decodeSheetEntry(n *yaml.Node) (style.Style, error) {
	var src any
	if err := n.Decode(&src); err != nil {
		return nil, err
	}
	flat, err := style.Flatten(src)
	if err != nil {
		return nil, err
	}
	if _, err := style.CompileFlat(flat); err != nil {
		return nil, err
	}
	return flat, nil
}

// locate returns the node a compile error points at: the key of a bad
// value when it can be found, otherwise the entry itself.
func locate(entry *yaml.Node, err error) *yaml.Node {
	var ve *style.ValueError
	if !errors.As(err, &ve) {
		return entry
	}
	if found := findKey(entry, ve.Key); found != nil {
		return found
	}
	return entry
}

// findKey searches mappings (and lists of mappings) for key. The last
// occurrence wins, matching how compositions are flattened.
func findKey(n *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				found = n.Content[i]
			}
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if f := findKey(c, key); f != nil {
				found = f
			}
		}
	}
	return found
}
