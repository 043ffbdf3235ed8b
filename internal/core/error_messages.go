// # Error Codes Reference
//
// Technical errors are mapped to user-friendly messages with a code that
// can be quoted to support. Sentinel errors are matched first with
// errors.Is; everything else falls back to case-insensitive substring
// patterns on the error text.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this key already exists
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "violates foreign key", "foreign key constraint"
//
//	DB004 - No connection: Unable to connect to database
//	        Sentinel: db.ErrNotConnected. Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset", "conn closed"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout", "context deadline exceeded"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
//	DB008 - Session busy: Another request holds the session
//	        Sentinel: ErrBusy
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Already exists: Sentinel ErrAlreadyExists
//	REC002 - Not found: Sentinel ErrNotFound
//	REC003 - Not implemented: Sentinel ErrNotImplemented
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: Patterns "invalid input syntax for type date",
//	         "date/time field value out of range"
//	VAL002 - Invalid number: Patterns "invalid input syntax for type integer",
//	         "invalid input syntax for type numeric"
//	VAL003 - Missing key: Sentinel ErrInvalidInput
//	VAL004 - Invalid value: Sentinels ErrUnknownEntity, ErrUnknownFormat.
//	         Patterns: "violates check constraint"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Patterns "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the
// original technical error.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/rezz/internal/db"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages are checked with errors.Is before any pattern.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrAlreadyExists, UserMessage{
		Message: "A record with this key already exists",
		Action:  "Use a different key or update the existing record",
		Code:    "REC001",
	}},
	{ErrNotFound, UserMessage{
		Message: "Record not found",
		Action:  "Check the key and try again",
		Code:    "REC002",
	}},
	{ErrNotImplemented, UserMessage{
		Message: "Import is not supported yet",
		Action:  "Create records individually through the API",
		Code:    "REC003",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "A required key is missing",
		Action:  "Provide the record's identifying field",
		Code:    "VAL003",
	}},
	{ErrUnknownEntity, UserMessage{
		Message: "Unknown record type",
		Action:  "Use applications, listings or resumes",
		Code:    "VAL004",
	}},
	{ErrUnknownFormat, UserMessage{
		Message: "Unknown export format",
		Action:  "Use json or csv",
		Code:    "VAL004",
	}},
	{ErrBusy, UserMessage{
		Message: "The database is busy with another request",
		Action:  "Please try again in a few moments",
		Code:    "DB008",
	}},
	{db.ErrNotConnected, UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages. The first match wins, so specific patterns come first.
var errorPatterns = []errorPattern{
	// Constraint errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Use a different key or update the existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for an existing record with the same value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for an existing record with the same value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Create the parent record first",
			Code:    "DB003",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Create the parent record first",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "Value is not in the allowed range",
			Action:  "Check the allowed values for this field",
			Code:    "VAL004",
		},
	},

	// Connection errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "conn closed",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Validation errors reported by the server
	{
		pattern: "invalid input syntax for type date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "date/time field value out of range",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid input syntax for type integer",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use whole numbers without separators",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid input syntax for type numeric",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Remove currency symbols and use standard decimal format",
			Code:    "VAL002",
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

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Sentinels win over text patterns; ERR000 is the fallback.
//
// Example:
//
//	err := fmt.Errorf("create application APP_1: %w", ErrAlreadyExists)
//	msg := MapError(err)
//	// msg.Code == "REC001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
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

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
