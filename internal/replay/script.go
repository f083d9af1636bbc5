// Package replay applies scripted board actions to a fresh board without a
// terminal. Scripts are JSON or YAML documents validated against an embedded
// JSON Schema before any step runs.
package replay

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Op names one scripted action.
type Op string

const (
	OpAddColumn      Op = "add-column"
	OpRenameColumn   Op = "rename-column"
	OpReorderColumns Op = "reorder-columns"
	OpAddTask        Op = "add-task"
	OpDeleteTask     Op = "delete-task"
	OpRecolorTask    Op = "recolor-task"
	OpMoveTask       Op = "move-task"
	OpDrop           Op = "drop"
)

// Script is an optional starting board followed by ordered steps.
type Script struct {
	Version int           `json:"version,omitempty" yaml:"version,omitempty"`
	Board   *app.Snapshot `json:"board,omitempty" yaml:"board,omitempty"`
	Steps   []Step        `json:"steps" yaml:"steps"`
}

// Step is one action. Which fields apply depends on Op. Column and Task may
// name an alias registered by an earlier step's As field.
type Step struct {
	Op       Op                `json:"op" yaml:"op"`
	As       string            `json:"as,omitempty" yaml:"as,omitempty"`
	Column   string            `json:"column,omitempty" yaml:"column,omitempty"`
	Task     string            `json:"task,omitempty" yaml:"task,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Color    string            `json:"color,omitempty" yaml:"color,omitempty"`
	From     int               `json:"from,omitempty" yaml:"from,omitempty"`
	To       int               `json:"to,omitempty" yaml:"to,omitempty"`
	Index    int               `json:"index,omitempty" yaml:"index,omitempty"`
	ToColumn string            `json:"to_column,omitempty" yaml:"to_column,omitempty"`
	ToIndex  int               `json:"to_index,omitempty" yaml:"to_index,omitempty"`
	Drop     *domain.DropEvent `json:"drop,omitempty" yaml:"drop,omitempty"`
}

// Format selects the script encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrInvalidScript wraps schema and decoding failures.
var ErrInvalidScript = errors.New("invalid replay script")

// SchemaError is one schema violation at a location in the script.
type SchemaError struct {
	Path    string
	Message string
}

// Error implements error.
func (e SchemaError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

//go:embed script.schema.json
var schemaJSON []byte

const schemaURL = "script.schema.json"

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", ErrInvalidScript, filepath.Ext(path))
	}
}

// LoadFile reads and validates the script at path.
func LoadFile(path string) (Script, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Script{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(content, format)
}

// Parse decodes content, validates it against the script schema and returns
// the typed script.
func Parse(content []byte, format Format) (Script, error) {
	doc, err := decodeDocument(content, format)
	if err != nil {
		return Script{}, err
	}
	if err := validateDocument(doc); err != nil {
		return Script{}, err
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return Script{}, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	var script Script
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&script); err != nil {
		return Script{}, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return script, nil
}

// decodeDocument returns a JSON-shaped value so YAML and JSON scripts take
// the same validation path.
func decodeDocument(content []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidScript, err)
		}
		return doc, nil
	case FormatYAML:
		var raw any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidScript, err)
		}
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: yaml document is not json compatible: %v", ErrInvalidScript, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidScript, format)
	}
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	var problems []SchemaError
	collectSchemaErrors(ve, &problems)
	if len(problems) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidScript, ve.Message)
	}
	msgs := make([]string, 0, len(problems))
	for _, p := range problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(msgs, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]SchemaError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*out = append(*out, SchemaError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// jsonPointerToPath turns "/steps/0/op" into "steps[0].op".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
