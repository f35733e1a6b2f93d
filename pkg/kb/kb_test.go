package kb

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSnapshot() *Snapshot {
	return NewSnapshot(map[string]Record{
		"requests": {
			DeprecatedSince: "2023-01-01",
			Reason:          "Test reason",
			Alternatives: []Alternative{
				{Name: "httpx", Reason: "Modern HTTP client", MigrationGuide: "https://example.com"},
			},
		},
		"Nose": {
			DeprecatedSince: "2015-06-01",
			Reason:          "Unmaintained",
			Alternatives:    []Alternative{{Name: "pytest"}},
			Source:          "manual",
		},
	}, Metadata{})
}

func TestSnapshotIsDeprecatedCaseInsensitive(t *testing.T) {
	s := testSnapshot()
	for _, name := range []string{"requests", "REQUESTS", "Requests", " requests ", "nose", "NOSE"} {
		if !s.IsDeprecated(name) {
			t.Errorf("IsDeprecated(%q) = false, want true", name)
		}
	}
	if s.IsDeprecated("httpx") {
		t.Error("IsDeprecated(httpx) = true, want false")
	}
}

func TestSnapshotQueries(t *testing.T) {
	s := testSnapshot()

	if diff := cmp.Diff([]string{"nose", "requests"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	rec, ok := s.Lookup("Nose")
	if !ok || rec.Name != "nose" || rec.Source != "manual" {
		t.Errorf("Lookup(Nose) = %+v, %v", rec, ok)
	}

	alts := s.Alternatives("requests")
	if len(alts) != 1 || alts[0].Name != "httpx" {
		t.Errorf("Alternatives(requests) = %+v", alts)
	}
	if s.Alternatives("flask") != nil {
		t.Error("Alternatives(flask) should be nil")
	}

	guide, ok := s.MigrationGuide("requests", "HTTPX")
	if !ok || guide != "https://example.com" {
		t.Errorf("MigrationGuide(requests, HTTPX) = %q, %v", guide, ok)
	}
	if _, ok := s.MigrationGuide("nose", "pytest"); ok {
		t.Error("MigrationGuide(nose, pytest) should be absent")
	}
	if _, ok := s.MigrationGuide("flask", "quart"); ok {
		t.Error("MigrationGuide(flask, quart) should be absent")
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := testSnapshot()

	alts := s.Alternatives("requests")
	alts[0].Name = "mutated"
	all := s.All()
	all["requests"] = Record{Name: "requests", Reason: "mutated"}
	delete(all, "nose")

	rec, _ := s.Lookup("requests")
	if rec.Alternatives[0].Name != "httpx" || rec.Reason != "Test reason" {
		t.Errorf("snapshot was mutated through a returned copy: %+v", rec)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after mutating All()", s.Len())
	}
}

func TestSnapshotSourceCounts(t *testing.T) {
	s := testSnapshot()
	want := map[string]int{"database": 1, "manual": 1}
	if diff := cmp.Diff(want, s.SourceCounts()); diff != "" {
		t.Errorf("SourceCounts() mismatch (-want +got):\n%s", diff)
	}

	withMeta := NewSnapshot(s.All(), Metadata{SourceCounts: map[string]int{"pypi": 4}})
	if diff := cmp.Diff(map[string]int{"pypi": 4}, withMeta.SourceCounts()); diff != "" {
		t.Errorf("SourceCounts() mismatch (-want +got):\n%s", diff)
	}

	if got := s.BySource("manual"); len(got) != 1 {
		t.Errorf("BySource(manual) = %v", got)
	}
}

func TestSnapshotBySourceProvenance(t *testing.T) {
	s := NewSnapshot(map[string]Record{
		"oldpy": {DeprecatedSince: "2019-01-01", Reason: "advisory", Source: "security", Sources: []string{"pypi", "security"}},
		"nose":  {DeprecatedSince: "2020-06-01", Reason: "Unmaintained", Source: "manual"},
	}, Metadata{})

	tests := []struct {
		source string
		want   []string
	}{
		{"pypi", []string{"oldpy"}},
		{"security", []string{"oldpy"}},
		{"manual", []string{"nose"}},
		{"github", nil},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			var got []string
			for name := range s.BySource(tt.source) {
				got = append(got, name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BySource(%s) mismatch (-want +got):\n%s", tt.source, diff)
			}
		})
	}
}

func TestSnapshotSearch(t *testing.T) {
	s := NewSnapshot(map[string]Record{
		"requests-oauth": {DeprecatedSince: "2020-01-01", Reason: "r"},
		"requests":       {DeprecatedSince: "2020-01-01", Reason: "r"},
		"grequests":      {DeprecatedSince: "2020-01-01", Reason: "r"},
		"nose":           {DeprecatedSince: "2020-01-01", Reason: "r"},
	}, Metadata{})

	var names []string
	for _, r := range s.Search("Requests") {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"requests", "grequests", "requests-oauth"}, names); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	res := testSnapshot().Validate()
	if !res.Valid {
		t.Fatalf("Validate() = %+v, want valid", res)
	}
	if res.TotalPackages != 2 {
		t.Errorf("TotalPackages = %d, want 2", res.TotalPackages)
	}

	bad := NewSnapshot(map[string]Record{
		"requests": {DeprecatedSince: "01/01/2023", Reason: "r"},
		"nose":     {DeprecatedSince: "2015-06-01", Reason: ""},
		"mock":     {DeprecatedSince: "2020-01-01", Reason: "r", Alternatives: []Alternative{{Name: "", MigrationGuide: "not a url"}}},
		"-bad-":    {DeprecatedSince: "2020-01-01", Reason: "r"},
	}, Metadata{})
	res = bad.Validate()
	if res.Valid {
		t.Fatal("Validate() = valid, want invalid")
	}
	if len(res.Problems) != 4 {
		t.Errorf("Problems = %d (%v), want 4", len(res.Problems), res.Problems)
	}
	if res.Error == "" {
		t.Error("Error should summarize problems")
	}
}
