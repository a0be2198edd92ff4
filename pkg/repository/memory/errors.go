package memory

import "github.com/m-mizutani/goerr/v2"

// ErrClosed is returned when the store is used after Close
var ErrClosed = goerr.New("memory store is closed")
