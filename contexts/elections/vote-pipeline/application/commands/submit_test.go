package commands

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	cacheadapter "votehub/contexts/elections/vote-pipeline/adapters/cache"
	memoryadapter "votehub/contexts/elections/vote-pipeline/adapters/memory"
	domainerrors "votehub/contexts/elections/vote-pipeline/domain/errors"
	"votehub/contexts/elections/vote-pipeline/domain/entities"
	"votehub/contexts/elections/vote-pipeline/ports"
	platformcache "votehub/internal/platform/cache"
)

type recordingQueue struct {
	tasks   []entities.VoteTask
	failErr error
}

func (q *recordingQueue) EnqueueVote(_ context.Context, task entities.VoteTask) error {
	if q.failErr != nil {
		return q.failErr
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) Depth(_ context.Context) (int, error) {
	return len(q.tasks), nil
}

func newSubmitFixture(t *testing.T) (SubmitUseCase, *memoryadapter.Store, *cacheadapter.Store, *recordingQueue) {
	t.Helper()
	store := memoryadapter.NewStore()
	store.SeedPoll(ports.PollProjection{PollID: "poll-1", Title: "Best mascot", IsActive: true})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-1", PollID: "poll-1", Name: "Gopher"})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-2", PollID: "poll-1", Name: "Ferris"})

	cacheStore := cacheadapter.NewStore(platformcache.New(slog.Default()))
	queue := &recordingQueue{}
	uc := SubmitUseCase{
		Candidates: store,
		Polls:      store,
		Guard:      cacheStore,
		Queue:      queue,
		Statuses:   cacheStore,
		Clock:      memoryadapter.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		IDGen:      &memoryadapter.SequenceIDGenerator{},
	}
	return uc, store, cacheStore, queue
}

func TestSubmitVoteQueuesTask(t *testing.T) {
	uc, _, cacheStore, queue := newSubmitFixture(t)

	result, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "Voter@Example.COM",
		CandidateID: "cand-1",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Status != entities.SubmissionStatusQueued {
		t.Fatalf("expected queued status, got %s", result.Status)
	}
	if result.TrackingID == "" {
		t.Fatal("expected a tracking id")
	}
	if len(queue.tasks) != 1 {
		t.Fatalf("expected 1 queued task, got %d", len(queue.tasks))
	}
	if queue.tasks[0].Email != "voter@example.com" {
		t.Fatalf("expected normalized email, got %s", queue.tasks[0].Email)
	}

	marked, err := cacheStore.Check(context.Background(), "poll-1", "voter@example.com")
	if err != nil {
		t.Fatalf("guard check failed: %v", err)
	}
	if !marked {
		t.Fatal("expected guard to be marked after submit")
	}

	submission, found, err := cacheStore.GetByTrackingID(context.Background(), result.TrackingID)
	if err != nil || !found {
		t.Fatalf("expected status record, found=%v err=%v", found, err)
	}
	if submission.Status != entities.SubmissionStatusQueued {
		t.Fatalf("expected queued submission record, got %s", submission.Status)
	}
}

func TestSubmitVoteDuplicateRejectedWithoutEnqueue(t *testing.T) {
	uc, _, _, queue := newSubmitFixture(t)

	if _, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "voter@example.com",
		CandidateID: "cand-2",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected duplicate vote error, got %v", err)
	}
	if len(queue.tasks) != 1 {
		t.Fatalf("duplicate submit must not enqueue, got %d tasks", len(queue.tasks))
	}
}

func TestSubmitVoteSameEmailDifferentPolls(t *testing.T) {
	uc, store, _, queue := newSubmitFixture(t)
	store.SeedPoll(ports.PollProjection{PollID: "poll-2", Title: "Best editor", IsActive: true})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-3", PollID: "poll-2", Name: "Vim"})

	for _, pollID := range []string{"poll-1", "poll-2"} {
		candidateID := "cand-1"
		if pollID == "poll-2" {
			candidateID = "cand-3"
		}
		if _, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
			PollID:      pollID,
			Email:       "voter@example.com",
			CandidateID: candidateID,
		}); err != nil {
			t.Fatalf("submit to %s failed: %v", pollID, err)
		}
	}
	if len(queue.tasks) != 2 {
		t.Fatalf("expected one task per poll, got %d", len(queue.tasks))
	}
}

func TestSubmitVoteValidation(t *testing.T) {
	uc, store, _, _ := newSubmitFixture(t)
	store.SeedPoll(ports.PollProjection{PollID: "poll-closed", Title: "Closed", IsActive: false})
	store.SeedCandidate(ports.CandidateProjection{CandidateID: "cand-closed", PollID: "poll-closed", Name: "Gone"})

	cases := []struct {
		name string
		cmd  SubmitVoteCommand
		want error
	}{
		{
			name: "malformed email",
			cmd:  SubmitVoteCommand{PollID: "poll-1", Email: "not-an-email", CandidateID: "cand-1"},
			want: domainerrors.ErrInvalidEmail,
		},
		{
			name: "unknown candidate",
			cmd:  SubmitVoteCommand{PollID: "poll-1", Email: "a@b.co", CandidateID: "cand-nope"},
			want: domainerrors.ErrCandidateNotFound,
		},
		{
			name: "candidate from another poll",
			cmd:  SubmitVoteCommand{PollID: "poll-1", Email: "a@b.co", CandidateID: "cand-closed"},
			want: domainerrors.ErrCandidateNotInPoll,
		},
		{
			name: "inactive poll",
			cmd:  SubmitVoteCommand{PollID: "poll-closed", Email: "a@b.co", CandidateID: "cand-closed"},
			want: domainerrors.ErrPollNotActive,
		},
		{
			name: "unknown poll",
			cmd:  SubmitVoteCommand{PollID: "poll-missing", Email: "a@b.co", CandidateID: "cand-1"},
			want: domainerrors.ErrPollNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.SubmitVote(context.Background(), tc.cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitVoteEnqueueFailureRollsBackGuard(t *testing.T) {
	uc, _, cacheStore, queue := newSubmitFixture(t)
	queue.failErr = errors.New("broker down")

	_, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	})
	if !errors.Is(err, domainerrors.ErrQueueUnavailable) {
		t.Fatalf("expected queue unavailable, got %v", err)
	}

	marked, err := cacheStore.Check(context.Background(), "poll-1", "voter@example.com")
	if err != nil {
		t.Fatalf("guard check failed: %v", err)
	}
	if marked {
		t.Fatal("guard mark must be rolled back after enqueue failure")
	}
	if _, found, err := cacheStore.GetEmailStatus(context.Background(), "voter@example.com"); err != nil || found {
		t.Fatalf("status record must be rolled back after enqueue failure, found=%v err=%v", found, err)
	}

	queue.failErr = nil
	if _, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	}); err != nil {
		t.Fatalf("resubmit after rollback failed: %v", err)
	}
}

// completingQueue finishes the task inline, standing in for a consumer that
// wins the race with the submitter.
type completingQueue struct {
	statuses *cacheadapter.Store
}

func (q *completingQueue) EnqueueVote(ctx context.Context, task entities.VoteTask) error {
	submission, found, err := q.statuses.GetByTrackingID(ctx, task.TrackingID)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("status record not visible at enqueue time")
	}
	submission.Status = entities.SubmissionStatusCompleted
	return q.statuses.PutSubmission(ctx, submission)
}

func (q *completingQueue) Depth(_ context.Context) (int, error) {
	return 0, nil
}

func TestSubmitVoteCannotRevertFastConsumerStatus(t *testing.T) {
	uc, _, cacheStore, _ := newSubmitFixture(t)
	uc.Queue = &completingQueue{statuses: cacheStore}

	result, err := uc.SubmitVote(context.Background(), SubmitVoteCommand{
		PollID:      "poll-1",
		Email:       "voter@example.com",
		CandidateID: "cand-1",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	submission, found, err := cacheStore.GetByTrackingID(context.Background(), result.TrackingID)
	if err != nil || !found {
		t.Fatalf("expected status record, found=%v err=%v", found, err)
	}
	if submission.Status != entities.SubmissionStatusCompleted {
		t.Fatalf("terminal status must survive the submit, got %s", submission.Status)
	}
}

func TestSubmitLegacyVoteResolvesActivePoll(t *testing.T) {
	uc, _, _, queue := newSubmitFixture(t)

	result, err := uc.SubmitLegacyVote(context.Background(), SubmitLegacyVoteCommand{
		Email:       "legacy@example.com",
		CandidateID: "cand-2",
	})
	if err != nil {
		t.Fatalf("legacy submit failed: %v", err)
	}
	if result.PollID != "poll-1" {
		t.Fatalf("expected active poll resolution, got %s", result.PollID)
	}
	if len(queue.tasks) != 1 || queue.tasks[0].PollID != "poll-1" {
		t.Fatal("expected legacy task routed to the active poll")
	}
}

func TestSubmitLegacyVoteNoActivePoll(t *testing.T) {
	store := memoryadapter.NewStore()
	store.SeedPoll(ports.PollProjection{PollID: "poll-1", Title: "Closed", IsActive: false})
	uc := SubmitUseCase{
		Candidates: store,
		Polls:      store,
		Guard:      cacheadapter.NewStore(platformcache.New(slog.Default())),
		Queue:      &recordingQueue{},
		Statuses:   cacheadapter.NewStore(platformcache.New(slog.Default())),
		IDGen:      &memoryadapter.SequenceIDGenerator{},
	}

	_, err := uc.SubmitLegacyVote(context.Background(), SubmitLegacyVoteCommand{
		Email:       "legacy@example.com",
		CandidateID: "cand-1",
	})
	if !errors.Is(err, domainerrors.ErrNoActivePoll) {
		t.Fatalf("expected no active poll error, got %v", err)
	}
}
