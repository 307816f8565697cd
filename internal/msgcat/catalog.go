package msgcat

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	yaml "gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml
var defaultFiles embed.FS

// Catalog holds user-facing notice templates keyed by flattened
// dot-path, rendered with text/template.
type Catalog struct {
	data map[string]string
}

// New loads the embedded default messages.
func New() (*Catalog, error) {
	raw, err := fs.ReadFile(defaultFiles, "messages.en.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded messages: %w", err)
	}
	flat, err := parseYAMLToFlat(raw)
	if err != nil {
		return nil, err
	}
	return &Catalog{data: flat}, nil
}

// Render produces the notice for key with the given template data.
func (c *Catalog) Render(key string, data any) (string, error) {
	text, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("unknown message key %q", key)
	}
	tpl, err := template.New(key).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %q: %w", key, err)
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %q: %w", key, err)
	}
	return b.String(), nil
}

// MustRender is Render with the key itself as a fallback; notices are
// advisory and must never fail an event broadcast.
func (c *Catalog) MustRender(key string, data any) string {
	if c == nil {
		return ""
	}
	s, err := c.Render(key, data)
	if err != nil {
		return key
	}
	return s
}

func parseYAMLToFlat(raw []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse messages yaml: %w", err)
	}
	flat := make(map[string]string)
	flatten("", tree, flat)
	return flat, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case string:
			out[key] = t
		default:
			out[key] = fmt.Sprintf("%v", t)
		}
	}
}
