package deps

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// ManifestFile holds the records extracted from one manifest.
type ManifestFile struct {
	Name    string             // Base filename, e.g. "requirements.txt"
	Path    string             // Full path on disk
	Kind    ManifestKind       // Format used to parse the file
	Records []DependencyRecord // Extracted records in file order
}

// FileError records a manifest that was discovered but could not be read.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return e.Name + ": " + e.Err.Error() }

// Project is the result of scanning a project root for manifests.
type Project struct {
	Root    string
	Files   []ManifestFile // Parsed manifests in discovery order
	Skipped []FileError    // Manifests that failed to parse
}

// ByFile returns the filename → records mapping view of the project.
func (p *Project) ByFile() map[string][]DependencyRecord {
	m := make(map[string][]DependencyRecord, len(p.Files))
	for _, f := range p.Files {
		m[f.Name] = f.Records
	}
	return m
}

// Records flattens every manifest's records in discovery order.
func (p *Project) Records() []DependencyRecord {
	var out []DependencyRecord
	for _, f := range p.Files {
		out = append(out, f.Records...)
	}
	return out
}

// Names returns the parsed manifest filenames in discovery order.
func (p *Project) Names() []string {
	names := make([]string, len(p.Files))
	for i, f := range p.Files {
		names[i] = f.Name
	}
	return names
}

// ParseAll discovers known manifests directly inside root (subdirectories
// are not searched) and parses each with the parser registered for its
// kind. Files are ordered by kind priority ([Kinds]) and then by name.
//
// A missing or unreadable root fails with ErrCodeNotFound. A single
// manifest that fails to parse is recorded in Project.Skipped while the
// others are still returned. A root with no manifests yields an empty
// Project.
//
// If root names a regular manifest file instead of a directory, only that
// file is parsed.
func ParseAll(root string, opts Options, parsers ...ManifestParser) (*Project, error) {
	opts = opts.WithDefaults()

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "project path %s", root)
	}

	byKind := make(map[ManifestKind]ManifestParser, len(parsers))
	for _, p := range parsers {
		byKind[p.Kind()] = p
	}

	var candidates []ManifestFile
	if !info.IsDir() {
		kind, ok := DetectKind(root)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest: %s", filepath.Base(root))
		}
		candidates = append(candidates, ManifestFile{Name: filepath.Base(root), Path: root, Kind: kind})
		root = filepath.Dir(root)
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read project path %s", root)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if kind, ok := DetectKind(e.Name()); ok {
				candidates = append(candidates, ManifestFile{
					Name: e.Name(),
					Path: filepath.Join(root, e.Name()),
					Kind: kind,
				})
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Kind != candidates[j].Kind {
			return candidates[i].Kind < candidates[j].Kind
		}
		return candidates[i].Name < candidates[j].Name
	})

	project := &Project{Root: root}
	for _, mf := range candidates {
		p, ok := byKind[mf.Kind]
		if !ok {
			continue
		}
		records, err := p.Parse(mf.Path, opts)
		if err != nil {
			opts.Logger("skipping %s: %v", mf.Name, err)
			project.Skipped = append(project.Skipped, FileError{Name: mf.Name, Err: err})
			continue
		}
		if records == nil {
			records = []DependencyRecord{}
		}
		mf.Records = records
		project.Files = append(project.Files, mf)
	}
	return project, nil
}
