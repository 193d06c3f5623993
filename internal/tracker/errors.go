package tracker

import "errors"

// ErrUnauthorized is returned when a task operation is attempted without a
// session token. The operation never reaches the network.
var ErrUnauthorized = errors.New("not logged in")
