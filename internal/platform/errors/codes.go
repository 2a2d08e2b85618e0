package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Game errors
	CodeGameNotFound           Code = "GAME_NOT_FOUND"
	CodeGameAlreadyDecided     Code = "GAME_ALREADY_DECIDED"
	CodeNotYourTurn            Code = "NOT_YOUR_TURN"
	CodeIndexOutOfRange        Code = "OPTION_INDEX_OUT_OF_RANGE"
	CodeMustAddFirst           Code = "MUST_ADD_FIRST"
	CodeMustSelectInstead      Code = "MUST_SELECT_INSTEAD"
	CodeInvalidSelection       Code = "INVALID_SELECTION"
	CodeNotAdmin               Code = "NOT_ADMIN"
	CodeAlreadyWatcher         Code = "ALREADY_WATCHER"
	CodeCannotRemoveLastPlayer Code = "CANNOT_REMOVE_LAST_PLAYER"

	// Storage errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeDuplicateKey Code = "DUPLICATE_KEY"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeIndexOutOfRange,
		CodeInvalidSelection:
		return http.StatusBadRequest

	// Forbidden - caller lacks standing for the operation
	case CodeNotYourTurn,
		CodeNotAdmin:
		return http.StatusForbidden

	// Conflict - game state does not allow the operation
	case CodeGameAlreadyDecided,
		CodeMustAddFirst,
		CodeMustSelectInstead,
		CodeAlreadyWatcher,
		CodeCannotRemoveLastPlayer,
		CodeDuplicateKey:
		return http.StatusConflict

	// Not found - resource does not exist
	case CodeGameNotFound,
		CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
