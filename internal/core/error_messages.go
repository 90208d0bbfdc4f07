package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # File Errors (FILE001-FILE099)
//
// Errors raised while reading one uploaded source:
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the file or remove unused sheets
//	          Patterns: "file too large"
//
//	FILE002 - Parse error: File structure could not be read as a table
//	          Action: Check that every row has no more fields than the header
//	          Patterns: "tokenizing data", "parse:"
//
//	FILE003 - Encoding error: Text is neither UTF-8 nor Windows-1252
//	          Action: Save the file as UTF-8 CSV
//	          Patterns: "text is not utf-8"
//
//	FILE004 - No file: No file was selected
//	          Action: Select one or more files to upload
//	          Patterns: "no files uploaded"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Upload a file that contains a header row and data
//	          Patterns: "empty file"
//
//	FILE006 - Not a workbook: File is not a readable spreadsheet
//	          Action: Save the file as .xlsx, or rename CSV files to .csv
//	          Patterns: "not a valid zip file", "workbook has no sheets"
//
//	FILE007 - Bad document: PDF could not be read
//	          Action: Re-export the PDF or convert its tables to CSV
//	          Patterns: "malformed pdf", "malformed document"
//
// # Source Selection Errors (SRC001-SRC099)
//
//	SRC001 - Single-source mode: More than one file was uploaded
//	         Action: Upload one file, or switch to multi-source mode
//	         Patterns: "single-source mode"
//
//	SRC002 - Too many files: Upload exceeds the per-request file limit
//	         Action: Upload the files in smaller groups
//	         Patterns: "too many files"
//
//	SRC003 - Nothing loaded: None of the uploaded files could be read
//	         Action: Review the per-file errors and upload corrected files
//	         Patterns: "no source could be read"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: Session not found
//	         Action: Reload the page to start a new session
//	         Patterns: "session not found"
//
//	SES002 - No data loaded: Nothing has been uploaded in this session
//	         Action: Upload one or more files first
//	         Patterns: "no workspace loaded"
//
// # Query Errors (QRY001-QRY099)
//
//	QRY001 - Unknown column: Role override names a column that does not exist
//	         Action: Choose a column from the detected column list
//	         Patterns: "column not found"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent uploads"
//
//	UPL003 - Request too large: Upload body exceeds the request limit
//	         Action: Upload fewer or smaller files
//	         Patterns: "request body too large"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try fewer files or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: A request field failed validation
//	         Action: Check the search fields and try again
//	         Patterns: "invalid request"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Patterns are matched case-insensitively using strings.Contains and the
// first matching pattern wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file or remove unused sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "text is not utf-8",
		msg: UserMessage{
			Message: "File text is neither UTF-8 nor Windows-1252",
			Action:  "Save the file as UTF-8 CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no files uploaded",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select one or more files to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file that contains a header row and data",
			Code:    "FILE005",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "File is not a readable spreadsheet",
			Action:  "Save the file as .xlsx, or rename CSV files to .csv",
			Code:    "FILE006",
		},
	},
	{
		pattern: "workbook has no sheets",
		msg: UserMessage{
			Message: "Workbook contains no sheets",
			Action:  "Save the file as .xlsx with at least one sheet",
			Code:    "FILE006",
		},
	},
	{
		pattern: "malformed pdf",
		msg: UserMessage{
			Message: "PDF could not be read",
			Action:  "Re-export the PDF or convert its tables to CSV",
			Code:    "FILE007",
		},
	},
	{
		pattern: "malformed document",
		msg: UserMessage{
			Message: "PDF could not be read",
			Action:  "Re-export the PDF or convert its tables to CSV",
			Code:    "FILE007",
		},
	},
	{
		pattern: "tokenizing data",
		msg: UserMessage{
			Message: "A row has more fields than the header",
			Action:  "Check that every row has no more fields than the header",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse:",
		msg: UserMessage{
			Message: "File could not be read as a table",
			Action:  "Check the file opens correctly and has a header row",
			Code:    "FILE002",
		},
	},

	// Source selection
	{
		pattern: "single-source mode",
		msg: UserMessage{
			Message: "Single-source mode accepts exactly one file",
			Action:  "Upload one file, or switch to multi-source mode",
			Code:    "SRC001",
		},
	},
	{
		pattern: "too many files",
		msg: UserMessage{
			Message: "Too many files in one upload",
			Action:  "Upload the files in smaller groups",
			Code:    "SRC002",
		},
	},
	{
		pattern: "no source could be read",
		msg: UserMessage{
			Message: "None of the uploaded files could be read",
			Action:  "Review the per-file errors and upload corrected files",
			Code:    "SRC003",
		},
	},

	// Sessions
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your session has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "no workspace loaded",
		msg: UserMessage{
			Message: "No data has been uploaded yet",
			Action:  "Upload one or more files first",
			Code:    "SES002",
		},
	},

	// Queries
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "That column does not exist in the uploaded data",
			Action:  "Choose a column from the detected column list",
			Code:    "QRY001",
		},
	},

	// Upload process
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload is too large",
			Action:  "Upload fewer or smaller files",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try fewer files or check your connection",
			Code:    "UPL005",
		},
	},

	// Request errors
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "Request parameters are invalid",
			Action:  "Check the search fields and try again",
			Code:    "REQ001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(&SourceError{Source: "a.csv", Stage: StageRead, Err: ErrEmptySource})
//	// msg.Code == "FILE005"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// FormatFailure renders a skipped source for display, naming the file.
func FormatFailure(f SourceFailure) string {
	msg := MapError(fmt.Errorf("%s: %s", f.Stage, f.Error))
	return fmt.Sprintf("Could not read %s: %s (Code: %s)", f.Name, msg.Message, msg.Code)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
