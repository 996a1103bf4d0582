package identityservice

import (
	"log/slog"
	"time"

	httpadapter "faas/contexts/identity-access/identity-service/adapters/http"
	"faas/contexts/identity-access/identity-service/adapters/memory"
	tokenadapter "faas/contexts/identity-access/identity-service/adapters/token"
	"faas/contexts/identity-access/identity-service/application/queries"
	"faas/contexts/identity-access/identity-service/domain/entities"
	"faas/contexts/identity-access/identity-service/ports"
	"faas/internal/shared/identity"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Users         ports.UserDirectory
	JWTSecret     []byte
	TokenLifespan time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	issuer := tokenadapter.JWTResolver{
		Secret:   deps.JWTSecret,
		Users:    deps.Users,
		Lifespan: deps.TokenLifespan,
	}
	resolveIdentity := queries.ResolveIdentityUseCase{
		Demo:     tokenadapter.DemoResolver{Prefix: queries.DemoTokenPrefix, Users: deps.Users},
		Verified: issuer,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ResolveIdentity: resolveIdentity,
			Issuer:          issuer,
			Logger:          deps.Logger,
		},
	}
}

// NewInMemoryModule seeds a directory suitable for tests and demo runs.
func NewInMemoryModule(seed []entities.User, logger *slog.Logger) Module {
	if seed == nil {
		seed = DefaultDemoUsers()
	}
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Users:     store,
		JWTSecret: []byte("faas-demo-secret"),
		Logger:    logger,
	})
	module.Store = store
	return module
}

func DefaultDemoUsers() []entities.User {
	return []entities.User{
		{UserID: "user-encoder-1", Username: "encoder1", FullName: "Elena Cruz", Role: identity.RoleEncoder},
		{UserID: "user-encoder-2", Username: "encoder2", FullName: "Marco Reyes", Role: identity.RoleEncoder},
		{UserID: "user-approver-1", Username: "approver1", FullName: "Diana Santos", Role: identity.RoleApprover},
		{UserID: "user-admin-1", Username: "admin1", FullName: "Ramon Villanueva", Role: identity.RoleAdministrator},
	}
}
