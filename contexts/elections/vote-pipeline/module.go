package votepipeline

import (
	"log/slog"

	cacheadapter "votehub/contexts/elections/vote-pipeline/adapters/cache"
	httpadapter "votehub/contexts/elections/vote-pipeline/adapters/http"
	memoryadapter "votehub/contexts/elections/vote-pipeline/adapters/memory"
	taskqueueadapter "votehub/contexts/elections/vote-pipeline/adapters/taskqueue"
	"votehub/contexts/elections/vote-pipeline/application/commands"
	"votehub/contexts/elections/vote-pipeline/application/queries"
	"votehub/contexts/elections/vote-pipeline/application/workers"
	"votehub/contexts/elections/vote-pipeline/ports"
	platformcache "votehub/internal/platform/cache"
	platformqueue "votehub/internal/platform/queue"
)

type Module struct {
	Handler   httpadapter.Handler
	Recorder  workers.VoteRecorder
	Refresher workers.ResultsRefresher

	// Test-only wiring populated by NewInMemoryModule.
	Store *memoryadapter.Store
	Queue *platformqueue.Queue
}

type Dependencies struct {
	Ledger     ports.VoteLedger
	Candidates ports.CandidateDirectory
	Polls      ports.PollDirectory
	Guard      ports.DuplicateGuard
	Queue      ports.VoteQueue
	Statuses   ports.StatusStore
	Results    ports.ResultsCache
	Stats      ports.StatsCounter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Workers    int
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submit := commands.SubmitUseCase{
		Candidates: deps.Candidates,
		Polls:      deps.Polls,
		Guard:      deps.Guard,
		Queue:      deps.Queue,
		Statuses:   deps.Statuses,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	results := queries.ResultsUseCase{
		Ledger:     deps.Ledger,
		Candidates: deps.Candidates,
		Polls:      deps.Polls,
		Results:    deps.Results,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	status := queries.StatusUseCase{
		Statuses: deps.Statuses,
		Queue:    deps.Queue,
		Stats:    deps.Stats,
		Clock:    deps.Clock,
		Workers:  deps.Workers,
	}
	recorder := workers.VoteRecorder{
		Ledger:     deps.Ledger,
		Candidates: deps.Candidates,
		Results:    deps.Results,
		Statuses:   deps.Statuses,
		Stats:      deps.Stats,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	refresher := workers.ResultsRefresher{
		Ledger:     deps.Ledger,
		Candidates: deps.Candidates,
		Polls:      deps.Polls,
		Results:    deps.Results,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Submit:  submit,
			Results: results,
			Status:  status,
		},
		Recorder:  recorder,
		Refresher: refresher,
	}
}

// NewInMemoryModule wires the pipeline over the in-memory ledger, the real
// cache adapter, and a private bounded queue. Tests drain the queue
// synchronously instead of running consumer goroutines.
func NewInMemoryModule(clock ports.Clock, logger *slog.Logger) Module {
	store := memoryadapter.NewStore()
	cacheStore := cacheadapter.NewStore(platformcache.New(logger))
	queue := platformqueue.New(0, logger)

	module := NewModule(Dependencies{
		Ledger:     store,
		Candidates: store,
		Polls:      store,
		Guard:      cacheStore,
		Queue:      taskqueueadapter.NewVoteQueue(queue),
		Statuses:   cacheStore,
		Results:    cacheStore,
		Stats:      cacheStore,
		Clock:      clock,
		IDGen:      &memoryadapter.SequenceIDGenerator{},
		Workers:    1,
		Logger:     logger,
	})
	module.Store = store
	module.Queue = queue
	return module
}
