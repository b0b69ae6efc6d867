package engine

// errors.go maps technical errors onto user-friendly messages with stable
// support codes. Operators quote the code when reporting a problem, which
// makes diagnosis much faster than forwarding raw error text.
//
// Code groups:
//
//	TPL001-TPL099  template resolution and validation
//	FILE001-FILE099 input file handling
//	DB001-DB099    embedded database problems
//	GEN001         fallback for unclassified errors

import (
	"errors"
	"strings"

	"github.com/frescosur/conversor/internal/layout"
)

// UserMessage is a user-facing rendition of an error: what went wrong, what
// the operator can do about it, and a code for support reference.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// errorPattern matches substrings of technical error text to a user message.
type errorPattern struct {
	patterns []string
	msg      UserMessage
}

var errorPatterns = []errorPattern{
	{
		patterns: []string{"unsupported file type", "unsupported format"},
		msg: UserMessage{
			Code:    "FILE001",
			Message: "This file type is not supported",
			Action:  "Upload an Excel (.xlsx), CSV, or text-based PDF file",
		},
	},
	{
		patterns: []string{"file too large"},
		msg: UserMessage{
			Code:    "FILE002",
			Message: "The file exceeds the maximum allowed size",
			Action:  "Split the file or raise the configured limit",
		},
	},
	{
		patterns: []string{"no table found", "no data rows", "no sheets"},
		msg: UserMessage{
			Code:    "FILE003",
			Message: "No tabular data was found in the file",
			Action:  "Check that the file has a header row followed by data rows",
		},
	},
	{
		patterns: []string{"scanned images", "no text"},
		msg: UserMessage{
			Code:    "FILE004",
			Message: "The PDF contains no extractable text",
			Action:  "Scanned PDFs are not supported; request a text-based export",
		},
	},
	{
		patterns: []string{"database is locked", "bad connection", "unable to open database"},
		msg: UserMessage{
			Code:    "DB001",
			Message: "The local database is unavailable",
			Action:  "Close other instances of the application and try again",
		},
	},
	{
		// Store lookups wrap their sentinel into "...: not found". Template
		// misses never reach here; errors.Is classifies them first.
		patterns: []string{"not found"},
		msg: UserMessage{
			Code:    "DB002",
			Message: "The requested record does not exist",
			Action:  "Refresh the list; the record may have been deleted",
		},
	},
}

// MapError converts a technical error into a UserMessage. Template errors are
// classified via errors.Is; everything else falls back to substring patterns
// and finally a generic message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Code: "GEN001", Message: "Unknown error"}
	}

	switch {
	case errors.Is(err, layout.ErrNotFound):
		return UserMessage{
			Code:    "TPL001",
			Message: "No layout template is registered for this client",
			Action:  "Ask an administrator to configure the client's layout",
		}
	case errors.Is(err, layout.ErrInvalid):
		return UserMessage{
			Code:    "TPL002",
			Message: "The client's layout template is invalid",
			Action:  "Ask an administrator to review and fix the layout definition",
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		for _, pat := range p.patterns {
			if strings.Contains(text, pat) {
				return p.msg
			}
		}
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "An unexpected error occurred",
		Action:  "Try again; if the problem persists, quote code GEN001 to support",
	}
}
