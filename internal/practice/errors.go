package practice

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode   = errors.New("practice: unknown mode")
	ErrWrongView     = errors.New("practice: action not available from the current view")
	ErrInvalidConfig = errors.New("practice: invalid custom quiz configuration")
	ErrUnknownOption = errors.New("practice: unknown answer option")
	ErrOutOfRange    = errors.New("practice: question number out of range")
	ErrEmptyBank     = errors.New("practice: question bank is empty")

	// ErrDisabled marks actions whose control is disabled in the current state.
	ErrDisabled = errors.New("action disabled")

	ErrNoMode         = fmt.Errorf("%w: select a test mode first", ErrDisabled)
	ErrNoCategory     = fmt.Errorf("%w: select at least one category to start a custom quiz", ErrDisabled)
	ErrCustomConfig   = fmt.Errorf("%w: configure the custom quiz before starting", ErrDisabled)
	ErrAnswerRequired = fmt.Errorf("%w: answer the current question before continuing", ErrDisabled)
	ErrAnswerLocked   = fmt.Errorf("%w: the answer is locked once feedback is shown", ErrDisabled)
)
