package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "oversize source",
			err:         &SourceError{Source: "big.csv", Stage: StageRead, Err: ErrFileTooLarge},
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "wide row in delimited text",
			err:         &SourceError{Source: "a.csv", Stage: StageParse, Err: errors.New("tokenizing data: line 3: expected 2 fields, saw 3")},
			wantCode:    "FILE002",
			wantMessage: "A row has more fields than the header",
		},
		{
			name:        "undecodable text",
			err:         &SourceError{Source: "a.csv", Stage: StageDecode, Err: ErrUndecodable},
			wantCode:    "FILE003",
			wantMessage: "File text is neither UTF-8 nor Windows-1252",
		},
		{
			name:        "empty source",
			err:         &SourceError{Source: "a.xlsx", Stage: StageRead, Err: ErrEmptySource},
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "csv named as spreadsheet",
			err:         &SourceError{Source: "a.txt", Stage: StageDecode, Err: errors.New("zip: not a valid zip file")},
			wantCode:    "FILE006",
			wantMessage: "File is not a readable spreadsheet",
		},
		{
			name:        "single-source mode with many files",
			err:         fmt.Errorf("%w: got 2", ErrSingleSourceOnly),
			wantCode:    "SRC001",
			wantMessage: "Single-source mode accepts exactly one file",
		},
		{
			name:        "session expired",
			err:         ErrSessionNotFound,
			wantCode:    "SES001",
			wantMessage: "Your session has expired",
		},
		{
			name:        "query before upload",
			err:         ErrNoWorkspace,
			wantCode:    "SES002",
			wantMessage: "No data has been uploaded yet",
		},
		{
			name:        "unknown override column",
			err:         fmt.Errorf("%w: %q", ErrUnknownColumn, "Nope"),
			wantCode:    "QRY001",
			wantMessage: "That column does not exist in the uploaded data",
		},
		{
			name:        "limiter busy",
			err:         ErrTooManyUploads,
			wantCode:    "UPL002",
			wantMessage: "Too many uploads in progress",
		},
		{
			name:        "deadline",
			err:         context.DeadlineExceeded,
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "failed request validation",
			err:         errors.New("invalid request: Interest failed max"),
			wantCode:    "REQ001",
			wantMessage: "Request parameters are invalid",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("EMPTY FILE"),
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNoWorkspace)

	expected := "No data has been uploaded yet (Code: SES002). Upload one or more files first"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestFormatFailure(t *testing.T) {
	f := SourceFailure{Name: "broken.csv", Stage: StageDecode, Error: ErrUndecodable.Error()}

	got := FormatFailure(f)
	want := "Could not read broken.csv: File text is neither UTF-8 nor Windows-1252 (Code: FILE003)"
	if got != want {
		t.Errorf("FormatFailure() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrEmptySource,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
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
		techErr := &SourceError{Source: "a.csv", Stage: StageRead, Err: ErrEmptySource}
		userErr := NewUserError(techErr)

		if userErr.Error() != "The uploaded file is empty" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrEmptySource) {
			t.Error("Unwrap() should reach the original error")
		}
	})
}
