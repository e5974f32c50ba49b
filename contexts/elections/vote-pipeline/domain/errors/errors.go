package errors

import "errors"

var (
	ErrInvalidVoteInput   = errors.New("invalid vote input")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrCandidateNotInPoll = errors.New("candidate does not belong to poll")
	ErrPollNotFound       = errors.New("poll not found")
	ErrNoActivePoll       = errors.New("no active poll")
	ErrPollNotActive      = errors.New("poll is not active")
	ErrDuplicateVote      = errors.New("email has already voted")
	ErrQueueUnavailable   = errors.New("vote queue is unavailable")
	ErrStatusNotFound     = errors.New("vote status not found")
)
