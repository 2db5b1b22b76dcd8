package keyboard

import "errors"

// Telegram Bot API keyboard geometry limits.
const (
	MinWidth   = 1
	MaxWidth   = 8
	MaxButtons = 100
)

var (
	// ErrWidth reports a row width outside [MinWidth, MaxWidth].
	ErrWidth = errors.New("keyboard: invalid row width")

	// ErrButtonKind reports a button whose shape does not fit the
	// builder's keyboard kind (e.g. a contact button in an inline grid).
	ErrButtonKind = errors.New("keyboard: button kind mismatch")

	// ErrBuilderKind reports an attach between builders of different kinds.
	ErrBuilderKind = errors.New("keyboard: builder kind mismatch")

	// ErrTooManyButtons reports a grid growing past MaxButtons.
	ErrTooManyButtons = errors.New("keyboard: too many buttons")
)
