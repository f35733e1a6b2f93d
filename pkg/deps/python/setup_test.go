package python

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
)

func TestSetupPy_Parse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []deps.DependencyRecord
	}{
		{
			name: "install_requires list",
			content: `
from setuptools import setup

setup(
    name="test-package",
    install_requires=[
        "fastapi==0.104.0",
        "pydantic>=2.0.0"
    ]
)
`,
			want: []deps.DependencyRecord{
				{Name: "fastapi", Constraint: "==0.104.0"},
				{Name: "pydantic", Constraint: ">=2.0.0"},
			},
		},
		{
			name: "comments quotes and trailing comma",
			content: `setup(
    install_requires = [
        'requests>=2.28.0',  # http ] client
        "flask[async]>=2.2.0",
        # "commented==1.0",
        """jinja2>=3.1.0""",
    ],
    extras_require={"dev": ["pytest"]},
)`,
			want: []deps.DependencyRecord{
				{Name: "requests", Constraint: ">=2.28.0"},
				{Name: "flask", Constraint: ">=2.2.0"},
				{Name: "jinja2", Constraint: ">=3.1.0"},
			},
		},
		{
			name:    "computed requirements are invisible",
			content: "reqs = open('requirements.txt').read().split()\nsetup(install_requires=reqs)\n",
			want:    []deps.DependencyRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "setup.py", tt.content)
			got, err := (&SetupPy{}).Parse(path, deps.Options{})
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListLiterals_NestedIgnored(t *testing.T) {
	got := listLiterals(`"a", ("b", "c"), "d"] trailing "e"`)
	if diff := cmp.Diff([]string{"a", "d"}, got); diff != "" {
		t.Errorf("listLiterals mismatch (-want +got):\n%s", diff)
	}
}
