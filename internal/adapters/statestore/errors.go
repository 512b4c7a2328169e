package statestore

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrNoPath      = errors.New("state path must not be empty")
	ErrEncodeState = errors.New("encode state failed")
	ErrDecodeState = errors.New("decode state failed")
	ErrReadState   = errors.New("read state failed")
	ErrWriteState  = errors.New("write state failed")
)
