package app

import (
	"context"

	"github.com/co2tracker/co2tracker/internal/auth"
	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/event_bus"
	"github.com/co2tracker/co2tracker/internal/publisher"
	"github.com/co2tracker/co2tracker/internal/storage"
	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/co2tracker/co2tracker/pkg/catalog"
	"github.com/co2tracker/co2tracker/pkg/emission"
	"github.com/co2tracker/co2tracker/pkg/footprint"
	"github.com/co2tracker/co2tracker/pkg/global_co2"
	"github.com/co2tracker/co2tracker/pkg/stats"
	"github.com/co2tracker/co2tracker/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock       utils.Clock
	EventBus    *event_bus.EventBus
	Publisher   *publisher.Publisher
	Tokens      *auth.TokenIssuer
	PhotoStore  storage.PhotoStorage
	Provider    emission.Provider
	UserService user.Service
	UserHandler *user.Handler

	CatalogService *catalog.ServiceImpl
	CatalogHandler *catalog.Handler

	FootprintService *footprint.ServiceImpl
	FootprintHandler *footprint.Handler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	GlobalCO2Service *global_co2.ServiceImpl
	GlobalCO2Handler *global_co2.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	mqttPublisher, err := publisher.New(cfg.Mqtt)
	if err != nil {
		return nil, err
	}
	mqttPublisher.Register(deps.EventBus)
	deps.Publisher = mqttPublisher

	photoStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		mqttPublisher.Close()
		return nil, err
	}
	deps.PhotoStore = photoStore

	deps.Tokens = auth.NewTokenIssuer(cfg.Auth, deps.Clock)
	deps.UserService = user.NewUserService(user.NewUserRepo(db), deps.PhotoStore)
	deps.UserHandler = user.NewHandler(deps.UserService, deps.Tokens)

	deps.CatalogService = catalog.NewService(catalog.NewRepository(db))
	deps.CatalogHandler = catalog.NewHandler(deps.CatalogService)

	deps.Provider = emission.NewRapidApiProvider(cfg.RapidApi)
	deps.FootprintService = footprint.NewService(footprint.NewRepository(db), deps.Provider, deps.CatalogService, deps.EventBus, deps.Clock)
	deps.FootprintHandler = footprint.NewHandler(deps.FootprintService)

	deps.StatsService = stats.NewStatsServiceImpl(stats.NewRepository(db), cfg.Footprint.WeekLimitKg, deps.Clock)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer)

	deps.GlobalCO2Service = NewGlobalCO2Service(db, cfg, deps.Clock)
	deps.GlobalCO2Handler = global_co2.NewHandler(deps.GlobalCO2Service)

	return deps, nil
}

// NewGlobalCO2Service is shared with the refresh-global command.
func NewGlobalCO2Service(db *pgxpool.Pool, cfg config.Application, clock utils.Clock) *global_co2.ServiceImpl {
	return global_co2.NewService(global_co2.NewRepository(db), global_co2.NewRapidApiClient(cfg.RapidApi), clock)
}
