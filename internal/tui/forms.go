package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/flowcanvas/internal/domain"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// formKind says what a completed form applies to
type formKind int

const (
	formAddNode formKind = iota
	formEditNode
)

// nodeFormValues are bound to the fields of the node forms
type nodeFormValues struct {
	kind   formKind
	target string

	ID     string
	Kind   string
	Label  string
	Params string
}

// newAddNodeForm asks for the id, kind and label of a new node
func newAddNodeForm(v *nodeFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node ID").
				Description("Leave empty to generate one").
				Value(&v.ID).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := domain.NewNodeID(s)
					return err
				}),
			huh.NewInput().
				Title("Kind").
				Placeholder("tool::fetch").
				Value(&v.Kind).
				Validate(validateKind),
			huh.NewInput().
				Title("Label").
				Value(&v.Label),
		),
	).WithShowHelp(false)
}

// newEditNodeForm edits the label and parameters of an existing node
func newEditNodeForm(v *nodeFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Label").
				Value(&v.Label),
			huh.NewText().
				Title("Parameters").
				Description("One key = value per line; values are YAML").
				Value(&v.Params).
				Validate(func(s string) error {
					_, err := ParseParams(s)
					return err
				}),
		),
	).WithShowHelp(false)
}

func validateKind(s string) error {
	if s == "" {
		return nil
	}
	_, err := domain.NewKind(s)
	return err
}

// ParseParams reads "key = value" lines. Values are decoded as YAML scalars
// or flow collections, so numbers, booleans and lists keep their type. Blank
// lines and lines starting with # are skipped.
func ParseParams(text string) (map[string]any, error) {
	params := make(map[string]any)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value", i+1)
		}
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("line %d: empty key", i+1)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			params[k] = nil
			continue
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		params[k] = v
	}
	return params, nil
}

// FormatParams writes params in the form ParseParams reads, sorted by key
func FormatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(formatValue(params[k]))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err == nil {
			return string(data)
		}
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(data))
}

// paramsPatch turns the edited parameter set into a merge patch against the
// node's current params. Removed keys map to nil; values that format the
// same as before are left out.
func paramsPatch(current, edited map[string]any) map[string]any {
	patch := make(map[string]any, len(edited))
	for k, v := range edited {
		if old, ok := current[k]; ok && v != nil && formatValue(old) == formatValue(v) {
			continue
		}
		patch[k] = v
	}
	for k := range current {
		if _, ok := edited[k]; !ok {
			patch[k] = nil
		}
	}
	return patch
}

// editValues prefills the edit form from a node
func editValues(n graph.Node) *nodeFormValues {
	return &nodeFormValues{
		kind:   formEditNode,
		target: n.ID,
		Label:  n.Label,
		Params: FormatParams(n.Params),
	}
}
