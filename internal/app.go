// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "tradein-settlement/internal/api"
	"tradein-settlement/internal/api/handler"
	"tradein-settlement/internal/auth"
	"tradein-settlement/internal/config"
	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/market"
	"tradein-settlement/internal/payment"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/repository/postgres"
	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"
	"tradein-settlement/pkg/keylock"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository   repository.UserRepository
	WalletRepository repository.WalletRepository

	// Collaborators
	Oracle   service.PriceOracle
	Gateways map[domain.PaymentMethod]payment.Gateway
	Auth     *auth.Service

	// Services
	WalletService     service.WalletService
	OrderService      service.OrderService
	WithdrawalService service.WithdrawalService
	DepositService    service.DepositService
	AssetService      service.AssetService

	// HTTP API
	HTTPHandler http.Handler
	Limiter     *router.IPRateLimiter

	provider market.Provider
}

// Option customizes an Application before Initialize.
type Option func(*Application)

// WithMarketProvider replaces the configured market data provider.
func WithMarketProvider(p market.Provider) Option {
	return func(app *Application) { app.provider = p }
}

// WithPaymentGateway registers or replaces the gateway used for method.
func WithPaymentGateway(method domain.PaymentMethod, g payment.Gateway) Option {
	return func(app *Application) {
		if app.Gateways == nil {
			app.Gateways = make(map[domain.PaymentMethod]payment.Gateway)
		}
		app.Gateways[method] = g
	}
}

// NewApplication creates a new Application instance.
func NewApplication(opts ...Option) *Application {
	app := &Application{}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(util.LogConfig{Level: cfg.Log.Level, File: cfg.Log.File})
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.WalletRepository = postgres.NewWalletRepository()
	entryRepo := postgres.NewWalletTransactionRepository()
	assetRepo := postgres.NewAssetRepository()
	orderRepo := postgres.NewOrderRepository()
	withdrawalRepo := postgres.NewWithdrawalRepository()
	paymentRepo := postgres.NewPaymentOrderRepository()
	coinRepo := postgres.NewCoinRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. External collaborators
	if app.provider == nil {
		app.provider = newProvider(cfg.Market)
	}
	oracle := market.NewOracle(app.provider, coinRepo, app.DB, cfg.Market.Timeout)
	app.Oracle = oracle
	app.Gateways = mergeGateways(cfg.Payment, app.Gateways)
	app.Auth = auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, app.UserRepository, app.DB)

	// 6. Initialize Services
	tx := db.NewTxFuncs(app.DB)
	locks := keylock.New()
	ledger := service.NewWalletLedger(app.WalletRepository, entryRepo, cfg.Settlement.LegacyFundsCheck)
	book := service.NewPositionBook(assetRepo, cfg.Settlement.DustThreshold)

	app.WalletService = service.NewWalletService(tx, app.DB, app.UserRepository, ledger, locks)
	app.OrderService = service.NewOrderService(tx, app.DB, orderRepo, ledger, book, oracle, locks)
	app.WithdrawalService = service.NewWithdrawalService(tx, app.DB, withdrawalRepo, ledger, locks)
	app.DepositService = service.NewDepositService(tx, app.DB, paymentRepo, ledger, app.Gateways, locks, cfg.Payment.Timeout)
	app.AssetService = service.NewAssetService(app.DB, book)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Orders:      handler.NewOrderHandler(app.OrderService, app.Logger),
		Assets:      handler.NewAssetHandler(app.AssetService, app.Logger),
		Wallet:      handler.NewWalletHandler(app.WalletService, app.Logger),
		Payments:    handler.NewPaymentHandler(app.DepositService, app.Logger),
		Withdrawals: handler.NewWithdrawalHandler(app.WithdrawalService, app.Logger),
		Coins:       handler.NewCoinHandler(oracle, app.Logger),
	}
	app.Limiter = router.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	app.HTTPHandler = router.NewRouter(handlers, app.Auth, app.Limiter, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

func newProvider(cfg config.MarketConfig) market.Provider {
	if cfg.Provider == config.ProviderBinance {
		return market.NewBinanceProvider(cfg.APIKey, cfg.BinanceSecretKey, cfg.BaseURL, market.ParseSymbolMap(cfg.BinanceSymbols))
	}
	return market.NewCoinGeckoClient(cfg.BaseURL, cfg.APIKey, cfg.RequestsPerMinute)
}

// mergeGateways builds the configured gateways; entries in overrides win.
func mergeGateways(cfg config.PaymentConfig, overrides map[domain.PaymentMethod]payment.Gateway) map[domain.PaymentMethod]payment.Gateway {
	gateways := make(map[domain.PaymentMethod]payment.Gateway)
	if cfg.MidtransServerKey != "" {
		gateways[domain.PaymentMethodMidtrans] = payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction)
	}
	if cfg.SandboxEnabled {
		gateways[domain.PaymentMethodSandbox] = payment.SandboxGateway{}
	}
	for method, g := range overrides {
		gateways[method] = g
	}
	return gateways
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
