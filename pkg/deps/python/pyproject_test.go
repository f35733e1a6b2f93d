package python

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

func TestPyproject_Parse(t *testing.T) {
	content := `[project]
name = "demo"
dependencies = [
    "requests>=2.28",
    "nose",
]

[tool.poetry.dependencies]
python = "^3.10"
zlib-wrapper = "*"
fastapi = "0.104.0"
aardvark = { version = "^1.2", optional = true }
mock = "~=5.0"
`
	path := writeFile(t, t.TempDir(), "pyproject.toml", content)

	got, err := (&Pyproject{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Poetry entries keep document order, not alphabetical.
	want := []deps.DependencyRecord{
		{Name: "requests", Constraint: ">=2.28"},
		{Name: "nose"},
		{Name: "zlib-wrapper"},
		{Name: "fastapi", Constraint: "==0.104.0"},
		{Name: "aardvark", Constraint: "^1.2"},
		{Name: "mock", Constraint: "~=5.0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestPyproject_ParseInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pyproject.toml", "[project\nname=")
	_, err := (&Pyproject{}).Parse(path, deps.Options{})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Parse() error = %v, want PARSE_ERROR", err)
	}
}

func TestPipfile_Parse(t *testing.T) {
	content := `[[source]]
url = "https://pypi.org/simple"
verify_ssl = true
name = "pypi"

[packages]
requests = "*"
pycrypto = "==2.6.1"
django = {version = ">=4.0", extras = ["argon2"]}

[dev-packages]
pytest = "*"
`
	path := writeFile(t, t.TempDir(), "Pipfile", content)

	got, err := (&Pipfile{}).Parse(path, deps.Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []deps.DependencyRecord{
		{Name: "requests"},
		{Name: "pycrypto", Constraint: "==2.6.1"},
		{Name: "django", Constraint: ">=4.0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}
