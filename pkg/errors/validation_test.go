package errors

import (
	"strings"
	"testing"
)

func TestValidateIndividualID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "NA12878", false},
		{"ValidDotted", "FAM01.child-1", false},
		{"Empty", "", true},
		{"Whitespace", "NA 12878", true},
		{"Tab", "NA\t12878", true},
		{"Control", "NA\x0112878", true},
		{"TooLong", strings.Repeat("x", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndividualID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIndividualID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFamilyID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "FAM01", false},
		{"Empty", "", true},
		{"Slash", "FAM/01", true},
		{"Backslash", `FAM\01`, true},
		{"Traversal", "..", true},
		{"Space", "FAM 01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFamilyID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFamilyID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Valid", "out/trio.svg", false},
		{"Empty", "", true},
		{"NullByte", "out\x00.svg", true},
		{"TooLong", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
