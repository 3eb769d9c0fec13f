// Package app wires repositories, services and HTTP handlers together for the commands.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/cache"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	contactStore "github.com/MrJamesThe3rd/dealdesk/internal/contact/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/database"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	estimateStore "github.com/MrJamesThe3rd/dealdesk/internal/estimate/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	dealdeskHttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
	contactHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/contact"
	estimateHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/estimate"
	exportHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/export"
	orderHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/order"
	pipelineHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/pipeline"
	publicHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/public"
	searchHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/search"
	sessionHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/session"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/memstore"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	orderStore "github.com/MrJamesThe3rd/dealdesk/internal/order/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	pipelineStore "github.com/MrJamesThe3rd/dealdesk/internal/pipeline/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/reconcile"
	"github.com/MrJamesThe3rd/dealdesk/internal/search"
)

type Repositories struct {
	Estimates estimate.Repository
	Orders    order.Repository
	Board     pipeline.Repository
	Contacts  contact.Repository
}

func MemoryRepositories() Repositories {
	return Repositories{
		Estimates: memstore.NewEstimates(),
		Orders:    memstore.NewOrders(),
		Board:     memstore.NewBoard(),
		Contacts:  memstore.NewContacts(),
	}
}

func PostgresRepositories(db *sql.DB) Repositories {
	return Repositories{
		Estimates: estimateStore.New(db),
		Orders:    orderStore.New(db),
		Board:     pipelineStore.New(db),
		Contacts:  contactStore.New(db),
	}
}

// Open builds the repositories selected by cfg. The returned function releases the database
// and Redis connections.
func Open(ctx context.Context, cfg *config.Config) (Repositories, func(), error) {
	if cfg.App.Store == config.StoreMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		return MemoryRepositories(), func() {}, nil
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return Repositories{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Repositories{}, nil, err
		}
	}

	repos := PostgresRepositories(db)
	closers := []func() error{db.Close}

	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			slog.Warn("redis unavailable, pipeline cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			repos.Board = pipelineStore.NewCached(repos.Board, client, cfg.Redis.BoardTTL)
			closers = append(closers, client.Close)
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Error("failed to close connection", "error", err)
			}
		}
	}

	return repos, closeAll, nil
}

type Services struct {
	Estimates  *estimate.Service
	Orders     *order.Service
	Pipeline   *pipeline.Service
	Contacts   *contact.Service
	Importer   *importer.Service
	Export     *export.Service
	Search     *search.Service
	Reconciler *reconcile.Reconciler
}

func NewServices(repos Repositories) *Services {
	var (
		pipelineService = pipeline.NewService(repos.Board, repos.Orders)
		orderService    = order.NewService(repos.Orders, pipelineService)
		contactService  = contact.NewService(repos.Contacts)
		estimateService = estimate.NewService(repos.Estimates, orderService, pipelineService, contactService)
	)

	return &Services{
		Estimates:  estimateService,
		Orders:     orderService,
		Pipeline:   pipelineService,
		Contacts:   contactService,
		Importer:   importer.NewService(),
		Export:     export.NewService(contactService, estimateService, orderService),
		Search:     search.NewService(contactService, estimateService, orderService),
		Reconciler: reconcile.New(estimateService, repos.Orders, orderService, pipelineService),
	}
}

// Router builds the API handler. A nil manager leaves the operator routes open.
func (s *Services) Router(m *auth.Manager, opts dealdeskHttp.Options) http.Handler {
	opts.Auth = m

	return dealdeskHttp.New(dealdeskHttp.Handlers{
		Session:   sessionHandler.NewHandler(m, opts.Production),
		Estimates: estimateHandler.NewHandler(s.Estimates),
		Orders:    orderHandler.NewHandler(s.Orders),
		Pipeline:  pipelineHandler.NewHandler(s.Pipeline),
		Contacts:  contactHandler.NewHandler(s.Contacts, s.Importer),
		Search:    searchHandler.NewHandler(s.Search),
		Export:    exportHandler.NewHandler(s.Export),
		Public:    publicHandler.NewHandler(s.Estimates),
	}, opts)
}
