package frodopir

import "errors"

// ErrDimensionMismatch is returned when a query or response vector's
// length disagrees with the dimensions recorded in Parameters (spec §7).
var ErrDimensionMismatch = errors.New("frodopir: dimension mismatch")

// ErrParamsAlreadyUsed is returned when Query or Parse is called on a
// Session that has already been consumed (spec §4.F/§4.H, session
// one-shotness).
var ErrParamsAlreadyUsed = errors.New("frodopir: session already used")
