package kb

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

var validate = validator.New()

// ValidationResult summarizes a knowledge base integrity check.
type ValidationResult struct {
	Valid         bool           `json:"valid" yaml:"valid"`
	TotalPackages int            `json:"total_packages" yaml:"total_packages"`
	Sources       map[string]int `json:"sources" yaml:"sources"`
	Problems      []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
	Error         string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Validate checks every record for the required fields, a YYYY-MM-DD
// deprecation date, well-formed alternatives and a usable package name.
// Migration guide URLs are checked for syntax only.
func (s *Snapshot) Validate() ValidationResult {
	res := ValidationResult{
		TotalPackages: s.Len(),
		Sources:       s.SourceCounts(),
	}
	for _, name := range s.Names() {
		if err := validateRecord(name, s.records[name]); err != nil {
			res.Problems = append(res.Problems, err.Error())
		}
	}
	res.Valid = len(res.Problems) == 0
	if !res.Valid {
		res.Error = strings.Join(res.Problems, "; ")
	}
	return res
}

func validateRecord(name string, rec Record) error {
	if strings.HasPrefix(name, "_") {
		return fmt.Errorf("%s: names starting with '_' are reserved", name)
	}
	if err := errors.ValidatePythonPackageName(name); err != nil {
		return fmt.Errorf("%s: %s", name, errors.UserMessage(err))
	}
	if err := validate.Struct(rec); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%s: %s", name, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
