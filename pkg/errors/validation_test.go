package errors

import (
	"testing"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "requests", false},
		{"valid with dash", "my-package", false},
		{"valid with underscore", "my_package", false},
		{"valid with dot", "my.package", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid requirements.txt", "requirements.txt", false},
		{"valid setup.py", "setup.py", false},
		{"valid Pipfile", "Pipfile", false},

		{"empty", "", true},
		{"with path /", "path/to/file", true},
		{"with path \\", "path\\to\\file", true},
		{"hidden file", ".hidden", true},
		{"dotenv", ".env", true},
		{"hidden file long", ".secret.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePythonPackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "requests", false},
		{"with dash", "my-package", false},
		{"with underscore", "my_package", false},
		{"with dot", "my.package", false},
		{"with numbers", "package123", false},
		{"uppercase", "MyPackage", false},

		{"empty", "", true},
		{"starts with dash", "-package", true},
		{"starts with dot", ".package", true},
		{"ends with dash", "package-", true},
		{"ends with dot", "package.", true},
		{"special chars", "my@package", true},
		{"spaces", "my package", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePythonPackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePythonPackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidPackage,
		ErrCodeInvalidManifest,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodePackageNotFound,
		ErrCodeFileNotFound,
		ErrCodeParse,
		ErrCodeCorruptDatabase,
		ErrCodeUnsupportedFormat,
		ErrCodeCollectionFailed,
		ErrCodeUpdateInProgress,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
