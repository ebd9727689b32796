package errors

import "errors"

var (
	ErrInvalid    = errors.New("invalid")
	ErrStorage    = errors.New("storage failure")
	ErrEstimation = errors.New("length estimation failed")
	ErrSampling   = errors.New("weighted sampling failed")
)

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsEstimation(err error) bool {
	return errors.Is(err, ErrEstimation)
}
