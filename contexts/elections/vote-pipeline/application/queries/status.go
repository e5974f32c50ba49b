package queries

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"
)

// StatusView is what the status endpoint returns. Tracking-id lookups carry
// the full submission record; email lookups carry only email and status.
type StatusView struct {
	TrackingID  string
	PollID      string
	CandidateID string
	Email       string
	Status      entities.SubmissionStatus
}

// StatusUseCase lets a client poll what happened to its vote. Entries expire
// after a bounded TTL; callers must not assume indefinite availability.
type StatusUseCase struct {
	Statuses ports.StatusStore
	Queue    ports.VoteQueue
	Stats    ports.StatsCounter
	Clock    ports.Clock
	Workers  int
}

// Status resolves identifier as a tracking id when it parses as a UUID and
// as a voter email otherwise.
func (uc StatusUseCase) Status(ctx context.Context, identifier string) (StatusView, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return StatusView{}, domainerrors.ErrStatusNotFound
	}

	if _, err := uuid.Parse(identifier); err == nil {
		submission, found, err := uc.Statuses.GetByTrackingID(ctx, identifier)
		if err != nil {
			return StatusView{}, err
		}
		if !found {
			return StatusView{}, domainerrors.ErrStatusNotFound
		}
		return StatusView{
			TrackingID:  submission.TrackingID,
			PollID:      submission.PollID,
			CandidateID: submission.CandidateID,
			Email:       submission.Email,
			Status:      submission.Status,
		}, nil
	}

	email := strings.ToLower(identifier)
	status, found, err := uc.Statuses.GetEmailStatus(ctx, email)
	if err != nil {
		return StatusView{}, err
	}
	if !found {
		return StatusView{}, domainerrors.ErrStatusNotFound
	}
	return StatusView{Email: email, Status: status}, nil
}

// QueueStats reports queue depth and the rough processed-today figure for
// monitoring dashboards.
func (uc StatusUseCase) QueueStats(ctx context.Context) (entities.QueueStats, error) {
	depth, err := uc.Queue.Depth(ctx)
	if err != nil {
		return entities.QueueStats{}, err
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	processed, err := uc.Stats.ProcessedToday(ctx, now)
	if err != nil {
		return entities.QueueStats{}, err
	}
	workers := uc.Workers
	if workers <= 0 {
		workers = 1
	}
	return entities.QueueStats{
		QueueLength:    depth,
		ProcessedToday: processed,
		QueueWorkers:   workers,
	}, nil
}
