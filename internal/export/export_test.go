package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/tassdoc/pkg/types"
)

func testCatalog() *Catalog {
	perm := "Student Details - View"
	nested := types.NewResponse()
	nested.Set(types.ResponseField{Key: "student_code", Kind: types.KindData})
	nested.Set(types.ResponseField{Key: "surname", Kind: types.KindData})
	success := types.NewResponse()
	success.Set(types.ResponseField{Key: "studentsdetails", Kind: types.KindArray, Nested: nested})
	success.Set(types.ResponseField{Key: "__tassversion", Kind: types.KindData})
	errResp := types.NewResponse()
	errResp.Set(types.ResponseField{Key: "error", Kind: types.KindData})

	return &Catalog{
		Scan: types.Scan{ID: "scan_20260825_001", Root: "/data/repos", Status: types.ScanStatusComplete, RequestCount: 2, FailureCount: 1},
		Requests: []types.CatalogEntry{
			{
				ID: 1, ScanID: "scan_20260825_001", Path: "student-details/getstudents.md",
				Request: types.Request{
					Action: "get", Resource: "StudentsDetails",
					Doc:   "Return details for current students.",
					Scope: "student-details", Version: 3, Permissions: &perm,
					Params: []types.Parameter{
						{Name: "currentstatus", Type: types.TagStr, Doc: "status filter", Presence: types.PresenceOptional},
						{Doc: "startdate and enddate must be\nsupplied together", Presence: types.PresenceConditional},
					},
					SuccessResponse: success,
					ErrorResponse:   errResp,
				},
			},
			{
				ID: 2, ScanID: "scan_20260825_001", Path: "boarding/getboarders.md",
				Request: types.Request{
					Action: "get", Resource: "Boarders",
					Doc:   "Return boarder records.",
					Scope: "boarding", Version: 3,
				},
			},
		},
		Failures: []types.Failure{
			{Scope: "payroll", Path: "payroll/broken.md", Code: "missing_title_delimiter", Message: "no ---- delimiter in document"},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	outDir := t.TempDir()
	if err := RenderMarkdown(testCatalog(), outDir); err != nil {
		t.Fatalf("RenderMarkdown error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "catalog.md"))
	if err != nil {
		t.Fatalf("read catalog.md: %v", err)
	}
	md := string(data)
	for _, want := range []string{
		"## student-details",
		"### getStudentsDetails (v3)",
		"**Permission:** Student Details - View",
		"- `currentstatus` (str, optional): status filter",
		"- (conditional) startdate and enddate must be supplied together",
		"- studentsdetails (array)",
		"  - surname (data)",
		"## boarding",
		"### getBoarders (v3)",
		"- payroll/broken.md: missing_title_delimiter",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("catalog.md missing %q:\n%s", want, md)
		}
	}
}

func TestRenderJSONKeepsFieldOrder(t *testing.T) {
	outDir := t.TempDir()
	if err := RenderJSON(testCatalog(), outDir); err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "catalog.json"))
	if err != nil {
		t.Fatalf("read catalog.json: %v", err)
	}
	raw := string(data)
	if strings.Index(raw, `"studentsdetails"`) > strings.Index(raw, `"__tassversion"`) {
		t.Fatalf("field order lost in catalog.json:\n%s", raw)
	}

	var got Catalog
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal catalog.json: %v", err)
	}
	if len(got.Requests) != 2 || got.Scan.ID != "scan_20260825_001" {
		t.Fatalf("unexpected catalog: %+v", got)
	}
	keys := got.Requests[0].Request.SuccessResponse.Keys()
	if len(keys) != 2 || keys[0] != "studentsdetails" || keys[1] != "__tassversion" {
		t.Fatalf("schema order lost after round trip: %v", keys)
	}
}

func TestRenderYAML(t *testing.T) {
	outDir := t.TempDir()
	if err := RenderYAML(testCatalog(), outDir); err != nil {
		t.Fatalf("RenderYAML error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "catalog.yaml"))
	if err != nil {
		t.Fatalf("read catalog.yaml: %v", err)
	}
	raw := string(data)
	if strings.Index(raw, "studentsdetails:") > strings.Index(raw, "__tassversion:") {
		t.Fatalf("field order lost in catalog.yaml:\n%s", raw)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if _, ok := doc["scan"]; !ok {
		t.Fatalf("missing scan section:\n%s", raw)
	}
}

func TestRenderFormats(t *testing.T) {
	outDir := t.TempDir()
	if err := Render(testCatalog(), outDir, []string{"json", "markdown"}); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, name := range []string{"catalog.json", "catalog.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if err := Render(testCatalog(), outDir, []string{"xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
