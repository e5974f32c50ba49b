package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"votehub/contexts/elections/poll-service/domain/entities"
	domainerrors "votehub/contexts/elections/poll-service/domain/errors"
	"votehub/contexts/elections/poll-service/ports"

	"gorm.io/gorm"
)

// Repository is the gorm-backed poll and candidate store. It owns the polls
// and candidates tables; the votes table belongs to the vote pipeline and is
// only touched here to cascade deletes.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePollWithCandidates(ctx context.Context, poll entities.Poll, candidates []entities.Candidate) error {
	pollRow := pollModelFromEntity(poll)
	candidateRows := make([]candidateModel, 0, len(candidates))
	for _, candidate := range candidates {
		candidateRows = append(candidateRows, candidateModelFromEntity(candidate))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pollRow).Error; err != nil {
			return err
		}
		if len(candidateRows) == 0 {
			return nil
		}
		return tx.Create(&candidateRows).Error
	})
	if err != nil {
		return r.logError("poll_repo_create_poll_failed", err, "poll_id", pollRow.ID)
	}
	return nil
}

func (r *Repository) GetPoll(ctx context.Context, pollID string) (entities.Poll, error) {
	var row pollModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(pollID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Poll{}, domainerrors.ErrPollNotFound
		}
		return entities.Poll{}, r.logError("poll_repo_get_poll_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPolls(ctx context.Context) ([]entities.Poll, error) {
	var rows []pollModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("poll_repo_list_polls_failed", err)
	}
	polls := make([]entities.Poll, 0, len(rows))
	for _, row := range rows {
		polls = append(polls, row.toEntity())
	}
	return polls, nil
}

func (r *Repository) HasInFlightPoll(ctx context.Context, creatorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&pollModel{}).
		Where("created_by = ?", strings.TrimSpace(creatorID)).
		Where("is_active = ? OR was_started = ?", true, false).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("poll_repo_in_flight_check_failed", err, "creator_id", strings.TrimSpace(creatorID))
	}
	return count > 0, nil
}

func (r *Repository) SetPollState(ctx context.Context, pollID string, isActive bool, wasStarted bool) error {
	result := r.db.WithContext(ctx).
		Model(&pollModel{}).
		Where("id = ?", strings.TrimSpace(pollID)).
		Updates(map[string]any{
			"is_active":   isActive,
			"was_started": wasStarted,
		})
	if result.Error != nil {
		return r.logError("poll_repo_set_state_failed", result.Error, "poll_id", strings.TrimSpace(pollID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPollNotFound
	}
	return nil
}

// DeletePoll removes the poll row together with its candidates and votes in
// one transaction; no orphan rows survive.
func (r *Repository) DeletePoll(ctx context.Context, pollID string) error {
	pollID = strings.TrimSpace(pollID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM votes WHERE poll_id = ?", pollID).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollID).Delete(&candidateModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", pollID).Delete(&pollModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPollNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrPollNotFound) {
			return err
		}
		return r.logError("poll_repo_delete_poll_failed", err, "poll_id", pollID)
	}
	return nil
}

func (r *Repository) AddCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("poll_repo_add_candidate_failed", err, "candidate_id", row.ID)
	}
	return nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"name":        row.Name,
			"description": row.Description,
			"photo_url":   row.PhotoURL,
		})
	if result.Error != nil {
		return r.logError("poll_repo_update_candidate_failed", result.Error, "candidate_id", row.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) RemoveCandidate(ctx context.Context, candidateID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		Delete(&candidateModel{})
	if result.Error != nil {
		return r.logError("poll_repo_remove_candidate_failed", result.Error, "candidate_id", strings.TrimSpace(candidateID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("poll_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidatesByPoll(ctx context.Context, pollID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("poll_repo_list_candidates_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return toEntities(rows), nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("poll_repo_list_all_candidates_failed", err)
	}
	return toEntities(rows), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "elections/poll-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("poll repository operation failed", fields...)
	return err
}

type pollModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Title      string    `gorm:"column:title"`
	IsActive   bool      `gorm:"column:is_active"`
	WasStarted bool      `gorm:"column:was_started"`
	CreatedBy  string    `gorm:"column:created_by"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (pollModel) TableName() string {
	return "polls"
}

func (m pollModel) toEntity() entities.Poll {
	return entities.Poll{
		PollID:     m.ID,
		Title:      m.Title,
		IsActive:   m.IsActive,
		WasStarted: m.WasStarted,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
}

func pollModelFromEntity(poll entities.Poll) pollModel {
	return pollModel{
		ID:         poll.PollID,
		Title:      poll.Title,
		IsActive:   poll.IsActive,
		WasStarted: poll.WasStarted,
		CreatedBy:  poll.CreatedBy,
		CreatedAt:  poll.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PollID      string    `gorm:"column:poll_id"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	PhotoURL    string    `gorm:"column:photo_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		PollID:      m.PollID,
		Name:        m.Name,
		Description: m.Description,
		PhotoURL:    m.PhotoURL,
		CreatedAt:   m.CreatedAt,
	}
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		ID:          candidate.CandidateID,
		PollID:      candidate.PollID,
		Name:        candidate.Name,
		Description: candidate.Description,
		PhotoURL:    candidate.PhotoURL,
		CreatedAt:   candidate.CreatedAt.UTC(),
	}
}

func toEntities(rows []candidateModel) []entities.Candidate {
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

var _ ports.PollRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
