package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"votehub/contexts/elections/vote-pipeline/domain/entities"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository is the gorm-backed vote ledger plus the poll/candidate
// read-model projections the pipeline consults. The unique index on
// (poll_id, email) in the votes table is the deduplication authority.
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

// InsertVote appends one ledger row inside a transaction scoped to just the
// insert. Constraint violations come back as a typed outcome, not an error:
// callers never inspect SQLSTATE themselves.
func (r *Repository) InsertVote(ctx context.Context, vote entities.Vote) (ports.InsertOutcome, error) {
	row := voteModelFromEntity(vote)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ports.InsertConflictDuplicate, nil
		}
		return ports.InsertTransient, r.logError("pipeline_repo_insert_vote_failed", err,
			"vote_id", row.ID,
			"poll_id", row.PollID,
		)
	}
	return ports.Inserted, nil
}

func (r *Repository) HasVoted(ctx context.Context, pollID string, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("pipeline_repo_has_voted_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return count > 0, nil
}

func (r *Repository) CountByCandidate(ctx context.Context, pollID string) (map[string]int64, error) {
	type countRow struct {
		CandidateID string `gorm:"column:candidate_id"`
		Votes       int64  `gorm:"column:votes"`
	}
	tx := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Select("candidate_id, COUNT(*) AS votes").
		Group("candidate_id")
	if strings.TrimSpace(pollID) != "" {
		tx = tx.Where("poll_id = ?", strings.TrimSpace(pollID))
	}
	var rows []countRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, r.logError("pipeline_repo_count_by_candidate_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CandidateID] = row.Votes
	}
	return counts, nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (ports.CandidateProjection, error) {
	var row candidateProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CandidateProjection{}, domainerrors.ErrCandidateNotFound
		}
		return ports.CandidateProjection{}, r.logError("pipeline_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) ListCandidatesByPoll(ctx context.Context, pollID string) ([]ports.CandidateProjection, error) {
	var rows []candidateProjectionModel
	err := r.db.WithContext(ctx).
		Where("poll_id = ?", strings.TrimSpace(pollID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("pipeline_repo_list_candidates_failed", err, "poll_id", strings.TrimSpace(pollID))
	}
	return toProjections(rows), nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]ports.CandidateProjection, error) {
	var rows []candidateProjectionModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("pipeline_repo_list_all_candidates_failed", err)
	}
	return toProjections(rows), nil
}

func (r *Repository) GetPoll(ctx context.Context, pollID string) (ports.PollProjection, error) {
	var row pollProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(pollID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PollProjection{}, domainerrors.ErrPollNotFound
		}
		return ports.PollProjection{}, r.logError("pipeline_repo_get_poll_failed", err,
			"poll_id", strings.TrimSpace(pollID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) GetActivePoll(ctx context.Context) (ports.PollProjection, error) {
	var row pollProjectionModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PollProjection{}, domainerrors.ErrNoActivePoll
		}
		return ports.PollProjection{}, r.logError("pipeline_repo_get_active_poll_failed", err)
	}
	return row.toProjection(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "elections/vote-pipeline",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote pipeline repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PollID      string    `gorm:"column:poll_id;uniqueIndex:ux_votes_poll_email,priority:1"`
	CandidateID string    `gorm:"column:candidate_id"`
	Email       string    `gorm:"column:email;uniqueIndex:ux_votes_poll_email,priority:2"`
	VotedAt     time.Time `gorm:"column:voted_at"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:          strings.TrimSpace(vote.VoteID),
		PollID:      strings.TrimSpace(vote.PollID),
		CandidateID: strings.TrimSpace(vote.CandidateID),
		Email:       strings.ToLower(strings.TrimSpace(vote.Email)),
		VotedAt:     vote.VotedAt.UTC(),
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.VotedAt.IsZero() {
		row.VotedAt = time.Now().UTC()
	}
	return row
}

type candidateProjectionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	PollID    string    `gorm:"column:poll_id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (candidateProjectionModel) TableName() string {
	return "candidates"
}

func (m candidateProjectionModel) toProjection() ports.CandidateProjection {
	return ports.CandidateProjection{
		CandidateID: m.ID,
		PollID:      m.PollID,
		Name:        m.Name,
	}
}

type pollProjectionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Title     string    `gorm:"column:title"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (pollProjectionModel) TableName() string {
	return "polls"
}

func (m pollProjectionModel) toProjection() ports.PollProjection {
	return ports.PollProjection{
		PollID:   m.ID,
		Title:    m.Title,
		IsActive: m.IsActive,
	}
}

func toProjections(rows []candidateProjectionModel) []ports.CandidateProjection {
	items := make([]ports.CandidateProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProjection())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// SystemClock and UUIDGenerator are the production implementations of the
// pipeline's clock and id ports.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.VoteLedger = (*Repository)(nil)
var _ ports.CandidateDirectory = (*Repository)(nil)
var _ ports.PollDirectory = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
