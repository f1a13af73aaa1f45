package errors

import (
	"strings"
	"unicode"
)

// ValidateMaxDim validates a maximum simplex dimension bound.
//
// A negative bound is structurally invalid. A bound above the dimension
// reported by the source is accepted: extraction at those dimensions simply
// yields nothing.
func ValidateMaxDim(dim int) error {
	if dim < 0 {
		return New(ErrCodeInvalidDimension, "max dimension must be non-negative, got %d", dim)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// sourceSchemes lists the URI prefixes understood by the pipeline's source
// opener. Plain paths (no scheme) are treated as files.
var sourceSchemes = []string{"sqlite://", "mongodb://", "mongodb+srv://", "sample:"}

// ValidateSourceURI validates a complex source reference.
// It accepts plain file paths ending in .json or .toml and the schemes in
// sourceSchemes. Database schemes must carry a "#<complex-id>" fragment.
func ValidateSourceURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}

	for _, scheme := range sourceSchemes {
		if !strings.HasPrefix(uri, scheme) {
			continue
		}
		if scheme == "sample:" {
			if strings.TrimPrefix(uri, scheme) == "" {
				return New(ErrCodeInvalidSource, "sample source needs a name (e.g. sample:fan)")
			}
			return nil
		}
		i := strings.LastIndex(uri, "#")
		if i < 0 || i == len(uri)-1 {
			return New(ErrCodeInvalidSource, "%s source needs a complex id fragment (#<id>)", strings.TrimSuffix(scheme, "://"))
		}
		return nil
	}

	if err := ValidatePath(uri); err != nil {
		return err
	}
	lower := strings.ToLower(uri)
	if !strings.HasSuffix(lower, ".json") && !strings.HasSuffix(lower, ".toml") {
		return New(ErrCodeInvalidSource, "unsupported source file %q (want .json or .toml)", uri)
	}
	return nil
}
