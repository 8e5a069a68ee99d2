package game

import "errors"

// ErrInvalidConfiguration is returned when a game cannot be created with the
// requested parameters. It is the only error surfaced at creation time;
// everything after setup is recovered in-game and logged instead.
var ErrInvalidConfiguration = errors.New("invalid game configuration")
