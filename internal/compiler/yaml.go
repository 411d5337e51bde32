package compiler

import (
	"encoding/base64"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dscodec/internal/query"
	"github.com/roach88/dscodec/internal/value"
)

// ParseRecordYAML parses a YAML mapping into a native record.
// !!int scalars become value.Int and !!float scalars value.Double.
func ParseRecordYAML(data []byte) (value.Record, error) {
	root, err := parseYAMLDocument(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, yamlError(root, "record", "record must be a mapping")
	}

	v, err := yamlValue(root, "")
	if err != nil {
		return nil, err
	}
	rec, ok := v.(value.Record)
	if !ok {
		return nil, yamlError(root, "record", "record must not be a tagged literal")
	}
	return rec, nil
}

// ParseQueryYAML parses a YAML query document. See CompileQuery for the
// document fields.
func ParseQueryYAML(data []byte) (*query.Query, error) {
	rec, err := ParseRecordYAML(data)
	if err != nil {
		return nil, err
	}

	q, field, err := queryFromRecord(rec)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error()}
	}
	return q, nil
}

func parseYAMLDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CompileError{Field: "yaml", Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &CompileError{Field: "yaml", Message: "empty document"}
	}
	return doc.Content[0], nil
}

func yamlValue(n *yaml.Node, field string) (value.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias, field)
	case yaml.ScalarNode:
		return yamlScalar(n, field)
	case yaml.SequenceNode:
		list := value.List{}
		for i, item := range n.Content {
			v, err := yamlValue(item, indexField(field, i))
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		rec := value.Record{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode || k.ShortTag() == "!!merge" {
				return nil, yamlError(k, field, "mapping keys must be plain strings")
			}
			v, err := yamlValue(vn, joinField(field, k.Value))
			if err != nil {
				return nil, err
			}
			rec[k.Value] = v
		}
		if !isTagged(rec) {
			return rec, nil
		}
		resolved, err := resolveTagged(rec)
		if err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return resolved, nil
	}
	return nil, yamlError(n, field, fmt.Sprintf("unsupported node kind %d", n.Kind))
}

func yamlScalar(n *yaml.Node, field string) (value.Value, error) {
	switch n.ShortTag() {
	case "!!str":
		return value.String(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return value.Double(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return value.Timestamp(t), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(n.Value)
		if err != nil {
			return nil, yamlError(n, field, err.Error())
		}
		return value.Blob(b), nil
	case "!!null":
		return nil, yamlError(n, field, "null is not a supported value")
	}
	return nil, yamlError(n, field, fmt.Sprintf("unsupported tag %s", n.Tag))
}

func yamlError(n *yaml.Node, field, msg string) *CompileError {
	if field == "" {
		field = "yaml"
	}
	return &CompileError{Field: field, Message: msg, Line: n.Line, Column: n.Column}
}
