/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork     = errors.New("trivia api unavailable")
	ErrTooFewClues = fmt.Errorf("%w: not enough clues", ErrNetwork)
	ErrIndex       = errors.New("cell out of range")
	ErrNoBoard     = errors.New("no board ready")
)

// NetworkError describes a failed or malformed trivia API call.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
