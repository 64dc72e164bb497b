package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPedigree, "duplicate individual: %s", "NA12878")

	if err.Code != ErrCodeInvalidPedigree {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidPedigree)
	}
	if err.Message != "duplicate individual: NA12878" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_PEDIGREE") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("unexpected token")
	err := Wrap(ErrCodeInvalidFormat, cause, "parse %s", "trio.ped")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected token") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeNoData, "no entries"), ErrCodeNoData, true},
		{"Mismatch", New(ErrCodeNoData, "no entries"), ErrCodeLayoutUnstable, false},
		{"Wrapped", fmt.Errorf("outer: %w", New(ErrCodeFamilyNotFound, "missing")), ErrCodeFamilyNotFound, true},
		{"Plain", stderrors.New("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeLayoutUnstable, "did not converge")); got != ErrCodeLayoutUnstable {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeLayoutUnstable)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeLayoutUnstable, "could not resolve this pedigree")
	if got := UserMessage(err); got != "could not resolve this pedigree" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}
