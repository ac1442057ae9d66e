package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDatabaseUnavailable is returned when an operation needs the database
// but the service was built without one.
var ErrDatabaseUnavailable = errors.New("database not configured")

// UserMessage is a user-friendly rendering of a technical error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// Patterns are matched in order against the lowercased error text, so more
// specific patterns come first.
var errorPatterns = []errorPattern{
	// Registry (TBL)
	{
		pattern: "unknown table",
		msg: UserMessage{
			Message: "This table is not part of the finance registry",
			Action:  "Use one of: transactions, bankStatements, employeesDaily, holidays",
			Code:    "TBL001",
		},
	},
	{
		pattern: "registry is sealed",
		msg: UserMessage{
			Message: "The table registry cannot be changed at runtime",
			Action:  "Edit the table definitions and redeploy",
			Code:    "TBL002",
		},
	},

	// Database (DB)
	{
		pattern: "database not configured",
		msg: UserMessage{
			Message: "No database connection is configured",
			Action:  "Set DATABASE_URL and restart the service",
			Code:    "DB001",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The table was not found in the database",
			Action:  "Run the schema check to see which tables are missing",
			Code:    "DB002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The database user cannot read this table",
			Action:  "Grant SELECT on the finance tables to the service role",
			Code:    "DB003",
		},
	},
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
		pattern: "too many concurrent queries",
		msg: UserMessage{
			Message: "The database is busy",
			Action:  "Please try again in a few seconds",
			Code:    "DB006",
		},
	},

	// Configuration (CFG)
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "The service configuration is invalid",
			Action:  "Check the environment variables listed in the server log",
			Code:    "CFG001",
		},
	},
	{
		pattern: "required environment variable",
		msg: UserMessage{
			Message: "A required setting is missing",
			Action:  "Check the environment variables listed in the server log",
			Code:    "CFG002",
		},
	},

	// Request lifecycle (REQ)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns the zero UserMessage for a nil error and ERR000 when nothing matches.
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

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
