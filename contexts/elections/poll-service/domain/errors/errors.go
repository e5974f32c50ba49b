package errors

import "errors"

var (
	ErrInvalidPollInput        = errors.New("invalid poll input")
	ErrInvalidCandidateInput   = errors.New("invalid candidate input")
	ErrTooFewCandidates        = errors.New("poll requires at least two candidates")
	ErrActiveOrDraftPollExists = errors.New("creator already has an active or draft poll")
	ErrPollNotFound            = errors.New("poll not found")
	ErrCandidateNotFound       = errors.New("candidate not found")
	ErrNotPollOwner            = errors.New("actor does not own this poll")
	ErrPollAlreadyActive       = errors.New("poll is already active")
	ErrPollNotActive           = errors.New("poll is not active")
)
