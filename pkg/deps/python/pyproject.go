package python

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// Pyproject parses pyproject.toml. Both PEP 621 [project].dependencies and
// Poetry's [tool.poetry.dependencies] table are read; the python entry of
// the latter is an interpreter constraint and is skipped.
type Pyproject struct{}

func (p *Pyproject) Kind() deps.ManifestKind   { return deps.KindPyproject }
func (p *Pyproject) Supports(name string) bool { return name == "pyproject.toml" }

type pyprojectFile struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func (p *Pyproject) Parse(path string, opts deps.Options) ([]deps.DependencyRecord, error) {
	opts = opts.WithDefaults()
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	var doc pyprojectFile
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode %s", filepath.Base(path))
	}

	result := []deps.DependencyRecord{}
	for i, raw := range doc.Project.Dependencies {
		result = appendRequirement(result, raw, opts, fmt.Sprintf("pyproject.toml project.dependencies[%d]", i))
	}

	for _, name := range tableKeys(md, "tool", "poetry", "dependencies") {
		if strings.EqualFold(name, "python") {
			continue
		}
		rec, ok := tableRecord(name, doc.Tool.Poetry.Dependencies[name])
		if !ok {
			opts.Logger("skipping pyproject.toml tool.poetry.dependencies.%s", name)
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

// tableKeys returns the direct child keys of the table at prefix in
// document order. Map decoding loses order, the metadata keeps it.
func tableKeys(md toml.MetaData, prefix ...string) []string {
	var keys []string
	for _, k := range md.Keys() {
		if len(k) != len(prefix)+1 {
			continue
		}
		match := true
		for i, part := range prefix {
			if k[i] != part {
				match = false
				break
			}
		}
		if match {
			keys = append(keys, k[len(prefix)])
		}
	}
	return keys
}

// tableRecord converts a Poetry/Pipfile style entry (`name = "spec"` or
// `name = {version = "spec", ...}`) to a record. A "*" spec means
// unconstrained; a bare version means an exact pin.
func tableRecord(name string, value any) (deps.DependencyRecord, bool) {
	var spec string
	switch v := value.(type) {
	case string:
		spec = v
	case map[string]any:
		spec, _ = v["version"].(string)
	case []map[string]any:
		if len(v) > 0 {
			spec, _ = v[0]["version"].(string)
		}
	}

	rec, ok := deps.SplitRequirement(name)
	if !ok {
		return deps.DependencyRecord{}, false
	}
	spec = strings.Join(strings.Fields(spec), "")
	switch {
	case spec == "" || spec == "*":
	case isBareVersion(spec):
		rec.Constraint = "==" + spec
	default:
		rec.Constraint = spec
	}
	return rec, true
}

func isBareVersion(spec string) bool {
	return spec[0] >= '0' && spec[0] <= '9'
}
