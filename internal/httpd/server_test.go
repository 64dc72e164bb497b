package httpd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

const testPED = `FAM01 A 0 0 1 1
FAM01 B 0 0 2 1
FAM01 C A B 1 2
FAM02 X 0 0 1 1
FAM02 Y 0 0 2 1
FAM02 Z X Y 2 1
`

func testServer(t *testing.T) *Server {
	t.Helper()
	input := filepath.Join(t.TempDir(), "cohort.ped")
	if err := os.WriteFile(input, []byte(testPED), 0o644); err != nil {
		t.Fatalf("write ped: %v", err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	return New("127.0.0.1:0", input, runner, logger)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthAndVersion(t *testing.T) {
	s := testServer(t)

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	rec := get(t, s, "/version")
	if rec.Code != http.StatusOK {
		t.Fatalf("version status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("version body: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("version response missing version field")
	}
}

func TestListFamilies(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}

	var families []familySummary
	if err := json.Unmarshal(rec.Body.Bytes(), &families); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("got %d families, want 2", len(families))
	}
	if families[0].FamilyID != "FAM01" || families[1].FamilyID != "FAM02" {
		t.Errorf("family order = %s, %s; want FAM01, FAM02", families[0].FamilyID, families[1].FamilyID)
	}
	if families[0].Individuals != 3 || families[0].Founders != 2 || families[0].Affected != 1 {
		t.Errorf("FAM01 summary = %+v", families[0])
	}
	if families[1].Affected != 0 {
		t.Errorf("FAM02 affected = %d, want 0", families[1].Affected)
	}
}

func TestGetLayout(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM02")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var layout struct {
		FamilyID string     `json:"family_id"`
		Levels   [][]string `json:"levels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &layout); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if layout.FamilyID != "FAM02" {
		t.Errorf("family = %q, want FAM02", layout.FamilyID)
	}
	if len(layout.Levels) != 2 {
		t.Errorf("levels = %v, want 2 generations", layout.Levels)
	}
}

func TestGetSVG(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM01.svg?labels=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<svg") {
		t.Error("body is not an SVG document")
	}
	if !strings.Contains(body, `id="ind-C"`) {
		t.Error("SVG missing individual C")
	}
}

func TestGetDOT(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM01.dot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if !strings.HasPrefix(rec.Body.String(), "digraph") {
		t.Error("body is not a digraph")
	}
}

func TestGetGraphSVG(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM01/graph.svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") {
		t.Error("body is not an SVG document")
	}
	for _, id := range []string{"A", "B", "C"} {
		if !strings.Contains(body, ">"+id+"<") {
			t.Errorf("graph SVG missing individual %s", id)
		}
	}
}

func TestBadFamilyID(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/a..b.svg")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != "INVALID_PEDIGREE" {
		t.Errorf("error code = %q, want INVALID_PEDIGREE", body.Code)
	}
}

func TestFamilyNotFound(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != "FAMILY_NOT_FOUND" {
		t.Errorf("error code = %q, want FAMILY_NOT_FOUND", body.Code)
	}
}

func TestBadStyle(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/families/FAM01.svg?style=neon")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body)
	}
}
