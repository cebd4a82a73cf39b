package services

import (
	stderrors "errors"

	"github.com/vytor/nclexnav/internal/errors"
	"github.com/vytor/nclexnav/internal/practice"
)

// practiceError translates session errors into application errors.
func practiceError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, practice.ErrDisabled):
		return errors.NewActionDisabledError(err)
	case stderrors.Is(err, practice.ErrWrongView):
		return errors.NewConflictError(err.Error(), err)
	case stderrors.Is(err, practice.ErrUnknownMode),
		stderrors.Is(err, practice.ErrInvalidConfig),
		stderrors.Is(err, practice.ErrUnknownOption),
		stderrors.Is(err, practice.ErrOutOfRange):
		return errors.NewBadRequestError(err.Error())
	}
	return errors.NewInternalError(err)
}
