package types

// ConfirmationRequest represents a request for user confirmation before a
// destructive step
type ConfirmationRequest struct {
	// ID is a unique identifier for this confirmation within the operation
	ID string

	// Title is a brief, user-friendly title describing what needs confirmation
	Title string

	// Description provides detailed information about what will happen
	Description string

	// Items lists specific paths or objects that will be affected
	Items []string

	// Default indicates the default response if user just presses enter
	// true = default to "yes", false = default to "no"
	Default bool
}

// ChoiceRequest asks the user to pick exactly one of Options
type ChoiceRequest struct {
	ID      string
	Title   string
	Options []string

	// Default is the index selected when the user just presses enter
	Default int
}

// Prompter collects explicit decisions from the user. Implementations
// must return an error, not a guess, when no answer could be read.
type Prompter interface {
	Confirm(req ConfirmationRequest) (bool, error)
	Choose(req ChoiceRequest) (int, error)
}

// DeclineAll is a Prompter that never confirms and always picks the default.
type DeclineAll struct{}

func (DeclineAll) Confirm(ConfirmationRequest) (bool, error) { return false, nil }

func (DeclineAll) Choose(req ChoiceRequest) (int, error) { return req.Default, nil }
