package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeGameNotFound           = "GAME_NOT_FOUND"
	CodeGameAlreadyDecided     = "GAME_ALREADY_DECIDED"
	CodeNotYourTurn            = "NOT_YOUR_TURN"
	CodeIndexOutOfRange        = "OPTION_INDEX_OUT_OF_RANGE"
	CodeMustAddFirst           = "MUST_ADD_FIRST"
	CodeMustSelectInstead      = "MUST_SELECT_INSTEAD"
	CodeInvalidSelection       = "INVALID_SELECTION"
	CodeNotAdmin               = "NOT_ADMIN"
	CodeAlreadyWatcher         = "ALREADY_WATCHER"
	CodeCannotRemoveLastPlayer = "CANNOT_REMOVE_LAST_PLAYER"
	CodeNotFound               = "NOT_FOUND"
	CodeDuplicateKey           = "DUPLICATE_KEY"
)

// enUS holds the base-locale message templates.
var enUS = map[Code]string{
	CodeGameNotFound:           "That game does not exist.",
	CodeGameAlreadyDecided:     "This game is already decided.",
	CodeNotYourTurn:            "It is not your turn.",
	CodeIndexOutOfRange:        "There is no option {{.index}}.",
	CodeMustAddFirst:           "Everyone has to add an option first.",
	CodeMustSelectInstead:      "That is the last option. Pick it!",
	CodeInvalidSelection:       "You can only pick when a single option remains.",
	CodeNotAdmin:               "Only the game admin can do that.",
	CodeAlreadyWatcher:         "They are already watching.",
	CodeCannotRemoveLastPlayer: "A game needs at least one player.",
	CodeNotFound:               "Not found.",
	CodeDuplicateKey:           "That already exists.",
}
