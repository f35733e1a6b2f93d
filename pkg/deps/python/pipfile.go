package python

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// Pipfile parses the [packages] table of a Pipenv Pipfile.
type Pipfile struct{}

func (p *Pipfile) Kind() deps.ManifestKind   { return deps.KindPipfile }
func (p *Pipfile) Supports(name string) bool { return name == "Pipfile" }

func (p *Pipfile) Parse(path string, opts deps.Options) ([]deps.DependencyRecord, error) {
	opts = opts.WithDefaults()
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Packages map[string]any `toml:"packages"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode %s", filepath.Base(path))
	}

	result := []deps.DependencyRecord{}
	for _, name := range tableKeys(md, "packages") {
		rec, ok := tableRecord(name, doc.Packages[name])
		if !ok {
			opts.Logger("skipping Pipfile packages.%s", name)
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}
