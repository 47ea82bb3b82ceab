package pick

import "errors"

var (
	// ErrPickNotFound is returned when an overall pick number is outside the board.
	ErrPickNotFound = errors.New("pick not found")
	// ErrPickAlreadyResolved is returned when a player is already set on the pick.
	ErrPickAlreadyResolved = errors.New("pick already resolved")
)
