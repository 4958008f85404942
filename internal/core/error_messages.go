package core

// error_messages.go maps technical errors to user-facing messages with
// stable support codes. The CLI prints them on stderr; the HTTP layer returns
// them in JSON error bodies.
//
// Codes by category:
//
//	SCH001  schema has no valid columns
//	ROW001  row count out of range
//	DEL001  delete expression not understood
//	APP001  append target has different columns
//	APP002  append requested without a loader
//	RNG001  INT_RNG modifier malformed (normally recovered, never fatal)
//	FILE001 file not found
//	FILE002 CSV unreadable
//	FILE003 Parquet unreadable
//	FILE004 permission denied
//	DB001   no database configured
//	DB004   database connection refused
//	DB005   database connection reset
//	DB006   operation timed out
//	GEN001  too many concurrent generations
//	REQ001  request cancelled
//	REQ002  request deadline exceeded
//	REQ003  malformed request parameter
//	ERR000  anything else; check the logs for the technical error
//
// Sentinel errors are matched with errors.Is first. Remaining patterns are
// matched case-insensitively with strings.Contains; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/gencsv/internal/generator"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// sentinelMessages are checked in order with errors.Is.
var sentinelMessages = []sentinelMessage{
	{ErrSchema, UserMessage{
		Message: "The schema has no valid columns",
		Action:  "Use name:TYPE pairs separated by commas, e.g. id:INT_INC,name:NAME",
		Code:    "SCH001",
	}},
	{ErrRowLimit, UserMessage{
		Message: "The row count is out of range",
		Action:  "Request zero or more rows, up to the configured maximum",
		Code:    "ROW001",
	}},
	{ErrDeleteTarget, UserMessage{
		Message: "The delete expression was not understood",
		Action:  "Use random, a single index, a range like 2-5, or a list like 1,4,7",
		Code:    "DEL001",
	}},
	{ErrAppendSchemaMismatch, UserMessage{
		Message: "The append target has different columns than the schema",
		Action:  "Use a schema with the same column names, in the same order, as the target",
		Code:    "APP001",
	}},
	{ErrNoLoader, UserMessage{
		Message: "Appending is not available here",
		Action:  "Run without an append target",
		Code:    "APP002",
	}},
	{generator.ErrRangeParse, UserMessage{
		Message: "The INT_RNG modifier is malformed",
		Action:  "Write the range as (lower-upper), e.g. (0-100)",
		Code:    "RNG001",
	}},
	{fs.ErrNotExist, UserMessage{
		Message: "The file does not exist",
		Action:  "Check the path and try again",
		Code:    "FILE001",
	}},
	{fs.ErrPermission, UserMessage{
		Message: "Permission denied",
		Action:  "Check that the file or directory is readable and writable",
		Code:    "FILE004",
	}},
	{ErrTooManyRequests, UserMessage{
		Message: "The generator is busy with other requests",
		Action:  "Please wait a moment and try again",
		Code:    "GEN001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Request fewer rows or try again later",
		Code:    "REQ002",
	}},
	{ErrInvalidParam, UserMessage{
		Message: "A request parameter is invalid",
		Action:  "Check rows is a whole number and format is csv or json",
		Code:    "REQ003",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors from libraries that do not expose sentinels.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"parse error on line", UserMessage{
		Message: "The CSV file could not be parsed",
		Action:  "Ensure the file is comma-separated with a header row and consistent columns",
		Code:    "FILE002",
	}},
	{"wrong number of fields", UserMessage{
		Message: "The CSV file has rows of different widths",
		Action:  "Ensure every row has as many fields as the header",
		Code:    "FILE002",
	}},
	{"parquet", UserMessage{
		Message: "The Parquet file could not be read",
		Action:  "Check that the file is a valid Parquet file",
		Code:    "FILE003",
	}},
	{"no database is configured", UserMessage{
		Message: "A database is required but none is configured",
		Action:  "Set DATABASE_URL, or use a file path instead of pg:<table>",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Request fewer rows or try again later",
		Code:    "DB006",
	}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
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

// NewUserError maps err; nil in, nil out.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
