package registrationservice

import (
	"log/slog"
	"time"

	httpadapter "eduvote/contexts/identity-access/registration-service/adapters/http"
	"eduvote/contexts/identity-access/registration-service/adapters/memory"
	"eduvote/contexts/identity-access/registration-service/application/commands"
	"eduvote/contexts/identity-access/registration-service/application/queries"
	"eduvote/contexts/identity-access/registration-service/ports"
	"eduvote/internal/platform/metrics"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Voters          ports.VoterRepository
	Hasher          ports.PasswordHasher
	Sessions        ports.SessionIssuer
	Mailer          ports.Mailer
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	TokenGen        ports.VerificationTokenGenerator
	VerificationTTL time.Duration
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerUseCase := commands.RegisterUseCase{
		Voters:          deps.Voters,
		Hasher:          deps.Hasher,
		Mailer:          deps.Mailer,
		Clock:           deps.Clock,
		IDGen:           deps.IDGen,
		TokenGen:        deps.TokenGen,
		VerificationTTL: deps.VerificationTTL,
		Logger:          deps.Logger,
	}
	verifyUseCase := commands.VerifyUseCase{
		Voters: deps.Voters,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	loginUseCase := commands.LoginUseCase{
		Voters:   deps.Voters,
		Hasher:   deps.Hasher,
		Sessions: deps.Sessions,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	eligibilityUseCase := queries.EligibilityUseCase{
		Clock: deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Register:    registerUseCase,
			Verify:      verifyUseCase,
			Login:       loginUseCase,
			Eligibility: eligibilityUseCase,
			Metrics:     deps.Metrics,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(hasher ports.PasswordHasher, sessions ports.SessionIssuer, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Voters:   store,
		Hasher:   hasher,
		Sessions: sessions,
		Mailer:   store,
		Clock:    store,
		IDGen:    store,
		TokenGen: store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
