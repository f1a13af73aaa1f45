package errors

import (
	"testing"
)

func TestValidateMaxDim(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		wantErr bool
	}{
		{"zero", 0, false},
		{"triangles", 2, false},
		{"above any source", 42, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaxDim(tt.dim)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMaxDim(%d) error = %v, wantErr %v", tt.dim, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimension) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDimension)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "complex.json", false},
		{"absolute", "/tmp/complex.toml", false},
		{"nested", "data/fans/fan6.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourceURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"json file", "torus.json", false},
		{"toml file", "shapes/fan.TOML", false},
		{"sqlite", "sqlite://complexes.db#2b1f", false},
		{"mongo", "mongodb://localhost:27017/sight?collection=simplices#abc", false},
		{"mongo srv", "mongodb+srv://cluster/sight#abc", false},
		{"sample", "sample:fan", false},
		{"sample with arg", "sample:fan:12", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"unknown extension", "complex.csv", true},
		{"sqlite without id", "sqlite://complexes.db", true},
		{"sqlite empty id", "sqlite://complexes.db#", true},
		{"sample without name", "sample:", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourceURI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
