package player

import "errors"

// ErrInvalidPlayer is returned when a stored player fails validation
var ErrInvalidPlayer = errors.New("invalid player")
