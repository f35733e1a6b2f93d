package osv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestClient_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			http.NotFound(w, r)
			return
		}
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Package.Ecosystem != "PyPI" {
			t.Errorf("ecosystem = %q", req.Package.Ecosystem)
		}
		switch req.Package.Name {
		case "pycrypto":
			w.Write([]byte(`{"vulns": [
				{"id": "GHSA-1", "summary": "PyCrypto is unmaintained", "references": [{"type": "WEB", "url": "https://w"}, {"type": "ADVISORY", "url": "https://a"}]},
				{"id": "GHSA-2", "summary": "old", "withdrawn": "2021-01-01T00:00:00Z"}
			]}`))
		default:
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	c := NewClient(nil, time.Hour).WithBaseURL(server.URL)

	vulns, err := c.Query(context.Background(), "PyCrypto", true)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if diff := cmp.Diff([]string{"GHSA-1"}, ids(vulns)); diff != "" {
		t.Errorf("withdrawn advisories should be dropped (-want +got):\n%s", diff)
	}
	if got := vulns[0].Advisory(); got != "https://a" {
		t.Errorf("Advisory() = %q, want ADVISORY reference", got)
	}

	vulns, err = c.Query(context.Background(), "flask", true)
	if err != nil {
		t.Fatal(err)
	}
	if vulns == nil || len(vulns) != 0 {
		t.Errorf("Query(flask) = %#v, want empty slice", vulns)
	}
}

func TestVulnerabilityText(t *testing.T) {
	v := Vulnerability{Summary: "Unmaintained", Details: "Use pycryptodome instead."}
	if got := v.Text(); got != "Unmaintained\nUse pycryptodome instead." {
		t.Errorf("Text() = %q", got)
	}
}

func ids(vulns []Vulnerability) []string {
	out := make([]string, len(vulns))
	for i, v := range vulns {
		out[i] = v.ID
	}
	return out
}
