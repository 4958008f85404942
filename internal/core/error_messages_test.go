package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/JonMunkholm/gencsv/internal/generator"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"schema", fmt.Errorf("%w: %q", ErrSchema, ""), "SCH001"},
		{"row limit", fmt.Errorf("%w: -1", ErrRowLimit), "ROW001"},
		{"delete target", fmt.Errorf("%w: xyz", ErrDeleteTarget), "DEL001"},
		{"append mismatch wrapped twice", fmt.Errorf("append to a.csv: %w", fmt.Errorf("%w: cols", ErrAppendSchemaMismatch)), "APP001"},
		{"no loader", ErrNoLoader, "APP002"},
		{"range parse", generator.ErrRangeParse, "RNG001"},
		{"missing file", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, "FILE001"},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, "FILE004"},
		{"csv parse", errors.New("record on line 3: wrong number of fields"), "FILE002"},
		{"parquet", errors.New("parquet: invalid magic number"), "FILE003"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"timeout", errors.New("i/o timeout"), "DB006"},
		{"busy", ErrTooManyRequests, "GEN001"},
		{"cancelled", context.Canceled, "REQ001"},
		{"deadline", fmt.Errorf("build: %w", context.DeadlineExceeded), "REQ002"},
		{"bad parameter", fmt.Errorf("%w: rows \"x\"", ErrInvalidParam), "REQ003"},
		{"no database", errors.New("DATABASE_URL is not set: no database is configured"), "DB001"},
		{"case insensitive", errors.New("Connection Refused"), "DB004"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrSchema)

	expected := "The schema has no valid columns (Code: SCH001). Use name:TYPE pairs separated by commas, e.g. id:INT_INC,name:NAME"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrDeleteTarget, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: \"a\"", ErrSchema)
		userErr := NewUserError(techErr)

		if userErr.Error() != "The schema has no valid columns" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrSchema) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
