package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/tassdoc/pkg/types"
)

// Catalog bundles everything exported for one scan.
type Catalog struct {
	Scan     types.Scan           `json:"scan" yaml:"scan"`
	Requests []types.CatalogEntry `json:"requests" yaml:"requests"`
	Failures []types.Failure      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Render writes the catalog to outputDir in each requested format.
func Render(c *Catalog, outputDir string, formats []string) error {
	for _, f := range formats {
		var err error
		switch f {
		case "json":
			err = RenderJSON(c, outputDir)
		case "yaml":
			err = RenderYAML(c, outputDir)
		case "markdown", "md":
			err = RenderMarkdown(c, outputDir)
		default:
			return fmt.Errorf("unknown export format %q", f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes outputDir/catalog.json with fields in schema order.
func RenderJSON(c *Catalog, outputDir string) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "catalog.json"), append(data, '\n'), 0o644)
}

// RenderYAML writes outputDir/catalog.yaml with fields in schema order.
func RenderYAML(c *Catalog, outputDir string) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "catalog.yaml"), data, 0o644)
}

// RenderMarkdown writes outputDir/catalog.md, a per-scope summary of every
// request with its parameters and response field trees.
func RenderMarkdown(c *Catalog, outputDir string) error {
	if c == nil {
		return fmt.Errorf("catalog is nil")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	b := &strings.Builder{}
	fmt.Fprintln(b, "# TASS API Catalog")
	fmt.Fprintf(b, "\nScan %s of %s: %d requests, %d failures (%s).\n",
		c.Scan.ID, c.Scan.Root, c.Scan.RequestCount, c.Scan.FailureCount, c.Scan.Status)

	for _, scope := range scopeOrder(c.Requests) {
		fmt.Fprintf(b, "\n## %s\n", scope)
		for _, e := range c.Requests {
			if e.Request.Scope != scope {
				continue
			}
			req := e.Request
			fmt.Fprintf(b, "\n### %s (v%d)\n", req.Name(), req.Version)
			if req.Doc != "" {
				fmt.Fprintf(b, "\n%s\n", req.Doc)
			}
			if req.Permissions != nil {
				fmt.Fprintf(b, "\n**Permission:** %s\n", *req.Permissions)
			}
			if len(req.Params) > 0 {
				fmt.Fprintln(b, "\n#### Parameters")
				b.WriteString(renderParams(req.Params))
			}
			if req.SuccessResponse.Len() > 0 {
				fmt.Fprintln(b, "\n#### Success Response")
				b.WriteString(renderSchema(req.SuccessResponse, ""))
			}
			if req.ErrorResponse.Len() > 0 {
				fmt.Fprintln(b, "\n#### Error Response")
				b.WriteString(renderSchema(req.ErrorResponse, ""))
			}
		}
	}

	if len(c.Failures) > 0 {
		fmt.Fprintln(b, "\n## Failures")
		for _, f := range c.Failures {
			fmt.Fprintf(b, "- %s: %s (%s)\n", f.Path, f.Code, f.Message)
		}
	}

	return os.WriteFile(filepath.Join(outputDir, "catalog.md"), []byte(b.String()), 0o644)
}

// scopeOrder returns the distinct scopes in first-appearance order.
func scopeOrder(entries []types.CatalogEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Request.Scope]; ok {
			continue
		}
		seen[e.Request.Scope] = struct{}{}
		out = append(out, e.Request.Scope)
	}
	return out
}

func renderParams(params []types.Parameter) string {
	b := &strings.Builder{}
	for _, p := range params {
		if p.Name == "" {
			fmt.Fprintf(b, "- (%s) %s\n", p.Presence, collapse(p.Doc))
			continue
		}
		fmt.Fprintf(b, "- `%s` (%s, %s)", p.Name, p.Type, p.Presence)
		if p.Doc != "" {
			fmt.Fprintf(b, ": %s", collapse(p.Doc))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderSchema(r *types.Response, indent string) string {
	b := &strings.Builder{}
	for _, f := range r.Fields() {
		fmt.Fprintf(b, "%s- %s (%s)\n", indent, f.Key, f.Kind)
		if f.Nested != nil {
			b.WriteString(renderSchema(f.Nested, indent+"  "))
		}
	}
	return b.String()
}

// collapse folds multi-line prose into a single markdown bullet line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
