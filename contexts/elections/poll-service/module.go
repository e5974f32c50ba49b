package pollservice

import (
	"log/slog"

	httpadapter "votehub/contexts/elections/poll-service/adapters/http"
	memoryadapter "votehub/contexts/elections/poll-service/adapters/memory"
	"votehub/contexts/elections/poll-service/application/commands"
	"votehub/contexts/elections/poll-service/application/queries"
	"votehub/contexts/elections/poll-service/ports"
)

type Module struct {
	Handler httpadapter.Handler

	// Test-only wiring populated by NewInMemoryModule.
	Store *memoryadapter.Store
}

type Dependencies struct {
	Polls      ports.PollRepository
	Candidates ports.CandidateRepository
	Votes      ports.VoteCounter
	Results    ports.ResultsInvalidator
	Listing    ports.ListingCache
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createPoll := commands.CreatePollUseCase{
		Polls:  deps.Polls,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	lifecycle := commands.LifecycleUseCase{
		Polls:   deps.Polls,
		Results: deps.Results,
		Listing: deps.Listing,
		Logger:  deps.Logger,
	}
	candidates := commands.CandidateUseCase{
		Polls:      deps.Polls,
		Candidates: deps.Candidates,
		Results:    deps.Results,
		Listing:    deps.Listing,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	listPolls := queries.ListPollsUseCase{
		Polls:  deps.Polls,
		Logger: deps.Logger,
	}
	getPoll := queries.GetPollUseCase{
		Polls:      deps.Polls,
		Candidates: deps.Candidates,
		Votes:      deps.Votes,
		Logger:     deps.Logger,
	}
	listCandidates := queries.ListCandidatesUseCase{
		Candidates: deps.Candidates,
		Listing:    deps.Listing,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreatePoll:     createPoll,
			Lifecycle:      lifecycle,
			Candidates:     candidates,
			ListPolls:      listPolls,
			GetPoll:        getPoll,
			ListCandidates: listCandidates,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memoryadapter.NewStore()
	module := NewModule(Dependencies{
		Polls:      store,
		Candidates: store,
		Votes:      store,
		Results:    store,
		Listing:    store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
