package utils

import "errors"

// ErrConfiguration marks deployment defects such as missing store credentials or a
// missing database handle. Callers fail fast on it and never retry.
var ErrConfiguration = errors.New("configuration error")
