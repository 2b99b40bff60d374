package plan

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	canvaserrors "github.com/felixgeelhaar/flowcanvas/internal/errors"
)

// Format is a plan file encoding
type Format string

// Supported plan formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", canvaserrors.NewPlanUnsupportedFormatError(path)
	}
}

// Load reads and validates a plan file
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, canvaserrors.NewPlanNotFoundError(path)
		}
		return nil, canvaserrors.Wrap(canvaserrors.ErrCodeFileReadFailed, fmt.Sprintf("read plan file: %s", path), err)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, canvaserrors.NewFileUnmarshalError(path, strings.ToUpper(string(format)), err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Decode parses a plan without validating it
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown plan format %q", format)
	}
	return &doc, nil
}

// Encode renders a plan in the given format
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown plan format %q", format)
	}
}

// Save writes a plan to path in the format its extension names
func Save(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(doc, format)
	if err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFileMarshal, "marshal plan", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return canvaserrors.Wrap(canvaserrors.ErrCodeFileWriteFailed, fmt.Sprintf("write plan file: %s", path), err)
	}

	return nil
}
