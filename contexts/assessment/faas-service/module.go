package faasservice

import (
	"log/slog"

	"faas/contexts/assessment/faas-service/adapters/excel"
	httpadapter "faas/contexts/assessment/faas-service/adapters/http"
	"faas/contexts/assessment/faas-service/adapters/memory"
	"faas/contexts/assessment/faas-service/application/commands"
	"faas/contexts/assessment/faas-service/application/queries"
	"faas/contexts/assessment/faas-service/application/workers"
	"faas/contexts/assessment/faas-service/domain/entities"
	"faas/contexts/assessment/faas-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.ErasureRelay
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Ledger     ports.HistoryLedger
	Outbox     ports.ErasureOutbox
	Publisher  ports.EventPublisher
	Renderer   ports.WorkbookRenderer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	if deps.Renderer == nil {
		deps.Renderer = excel.NewRenderer()
	}

	createRecord := commands.CreateRecordUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	updateRecord := commands.UpdateRecordUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	reviewRecord := commands.ReviewRecordUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	deleteDraft := commands.DeleteDraftUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	eraseHistory := commands.EraseHistoryUseCase{
		Ledger: deps.Ledger,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Logger:     deps.Logger,
	}
	exportRecord := queries.ExportRecordUseCase{
		Repository: deps.Repository,
		Ledger:     deps.Ledger,
		Renderer:   deps.Renderer,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateRecord: createRecord,
			UpdateRecord: updateRecord,
			ReviewRecord: reviewRecord,
			DeleteDraft:  deleteDraft,
			EraseHistory: eraseHistory,
			Queries:      queryUseCase,
			Export:       exportRecord,
			Logger:       deps.Logger,
		},
		Relay: workers.ErasureRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.FaasRecord, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Ledger:     store,
		Outbox:     store,
		Publisher:  publisher,
		Renderer:   excel.NewRenderer(),
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
