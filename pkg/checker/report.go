package checker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// Format is a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported report formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported report format %q (want text, json or yaml)", s)
	}
}

type reportDoc struct {
	DeprecatedPackages []deprecatedEntry `json:"deprecated_packages" yaml:"deprecated_packages"`
	SafePackages       []safeEntry       `json:"safe_packages" yaml:"safe_packages"`
	TotalDeprecated    int               `json:"total_deprecated" yaml:"total_deprecated"`
	TotalSafe          int               `json:"total_safe" yaml:"total_safe"`
	Manifests          []string          `json:"manifests" yaml:"manifests"`
	SkippedManifests   []skippedEntry    `json:"skipped_manifests" yaml:"skipped_manifests"`
}

type skippedEntry struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

type deprecatedEntry struct {
	Name            string           `json:"name" yaml:"name"`
	Constraint      string           `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Version         string           `json:"version,omitempty" yaml:"version,omitempty"`
	DeprecatedSince string           `json:"deprecated_since" yaml:"deprecated_since"`
	Reason          string           `json:"reason" yaml:"reason"`
	Alternatives    []kb.Alternative `json:"alternatives" yaml:"alternatives"`
}

type safeEntry struct {
	Name       string `json:"name" yaml:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
}

func newReportDoc(r *Result) reportDoc {
	doc := reportDoc{
		DeprecatedPackages: make([]deprecatedEntry, 0, len(r.Deprecated)),
		SafePackages:       make([]safeEntry, 0, len(r.Safe)),
		TotalDeprecated:    r.TotalDeprecated,
		TotalSafe:          r.TotalSafe,
		Manifests:          r.Manifests,
		SkippedManifests:   make([]skippedEntry, 0, len(r.Skipped)),
	}
	if doc.Manifests == nil {
		doc.Manifests = []string{}
	}
	for _, d := range r.Deprecated {
		alts := d.Record.Alternatives
		if alts == nil {
			alts = []kb.Alternative{}
		}
		doc.DeprecatedPackages = append(doc.DeprecatedPackages, deprecatedEntry{
			Name:            d.Dependency.Name,
			Constraint:      d.Dependency.Constraint,
			Version:         ExtractVersion(d.Dependency.Constraint),
			DeprecatedSince: d.Record.DeprecatedSince,
			Reason:          d.Record.Reason,
			Alternatives:    alts,
		})
	}
	for _, fe := range r.Skipped {
		doc.SkippedManifests = append(doc.SkippedManifests, skippedEntry{File: fe.Name, Error: fe.Err.Error()})
	}
	for _, s := range r.Safe {
		doc.SafePackages = append(doc.SafePackages, safeEntry{
			Name:       s.Name,
			Constraint: s.Constraint,
			Version:    ExtractVersion(s.Constraint),
		})
	}
	return doc
}

// GenerateReport renders r in the given format. Every encoding names each
// deprecated package with its reason and alternatives, and each safe
// package.
func GenerateReport(r *Result, format Format) (string, error) {
	switch format {
	case FormatText:
		return textReport(r), nil
	case FormatJSON:
		data, err := json.MarshalIndent(newReportDoc(r), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json report: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(newReportDoc(r)); err != nil {
			return "", fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml report: %w", err)
		}
		return buf.String(), nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedFormat, "unsupported report format %q", format)
	}
}

func textReport(r *Result) string {
	var b strings.Builder

	b.WriteString("Deprecated dependency report\n")
	if len(r.Manifests) > 0 {
		fmt.Fprintf(&b, "Manifests: %s\n", strings.Join(r.Manifests, ", "))
	}

	fmt.Fprintf(&b, "\nDeprecated packages (%d):\n", r.TotalDeprecated)
	if len(r.Deprecated) == 0 {
		b.WriteString("  none\n")
	}
	for _, d := range r.Deprecated {
		fmt.Fprintf(&b, "  %s", d.Dependency.String())
		if d.Record.DeprecatedSince != "" {
			fmt.Fprintf(&b, " (deprecated since %s)", d.Record.DeprecatedSince)
		} else {
			b.WriteString(" (deprecated)")
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "    Reason: %s\n", d.Record.Reason)
		if len(d.Record.Alternatives) > 0 {
			b.WriteString("    Alternatives:\n")
		}
		for _, alt := range d.Record.Alternatives {
			fmt.Fprintf(&b, "      - %s", alt.Name)
			if alt.Reason != "" {
				fmt.Fprintf(&b, ": %s", alt.Reason)
			}
			b.WriteByte('\n')
			if alt.MigrationGuide != "" {
				fmt.Fprintf(&b, "        Migration guide: %s\n", alt.MigrationGuide)
			}
		}
	}

	fmt.Fprintf(&b, "\nSafe packages (%d):\n", r.TotalSafe)
	if len(r.Safe) == 0 {
		b.WriteString("  none\n")
	}
	for _, s := range r.Safe {
		fmt.Fprintf(&b, "  %s\n", s.String())
	}

	for _, fe := range r.Skipped {
		fmt.Fprintf(&b, "\nSkipped %s: %v\n", fe.Name, fe.Err)
	}

	fmt.Fprintf(&b, "\nSummary: %d deprecated, %d safe\n", r.TotalDeprecated, r.TotalSafe)
	return b.String()
}
