package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/dscodec/internal/query"
	"github.com/roach88/dscodec/internal/value"
)

// Format is a document syntax.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	// FormatJSON documents are compiled as CUE, of which JSON is a subset.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "cue":
		return FormatCUE, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown document format %q (expected cue, yaml or json)", s)
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer document format of %q", path)
	}
	return ParseFormat(ext)
}

// LoadRecord parses a record document. name is used in error positions.
func LoadRecord(data []byte, format Format, name string) (value.Record, error) {
	switch format {
	case FormatCUE, FormatJSON:
		v := cuecontext.New().CompileBytes(data, cue.Filename(name))
		return CompileRecord(v)
	case FormatYAML:
		return ParseRecordYAML(data)
	}
	return nil, fmt.Errorf("unsupported document format %q", format)
}

// LoadQuery parses a query document. name is used in error positions.
func LoadQuery(data []byte, format Format, name string) (*query.Query, error) {
	switch format {
	case FormatCUE, FormatJSON:
		v := cuecontext.New().CompileBytes(data, cue.Filename(name))
		return CompileQuery(v)
	case FormatYAML:
		return ParseQueryYAML(data)
	}
	return nil, fmt.Errorf("unsupported document format %q", format)
}
