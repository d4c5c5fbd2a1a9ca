// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tradein-settlement/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Orders      *handler.OrderHandler
	Assets      *handler.AssetHandler
	Wallet      *handler.WalletHandler
	Payments    *handler.PaymentHandler
	Withdrawals *handler.WithdrawalHandler
	Coins       *handler.CoinHandler
}

// NewRouter sets up and returns a new HTTP router. limiter may be nil.
func NewRouter(h Handlers, authn Authenticator, limiter *IPRateLimiter, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	if limiter != nil {
		r.Use(limiter.Middleware(logger))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireUser(authn, logger))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/pay", h.Orders.PayOrder)
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{orderID}", h.Orders.GetOrder)
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", h.Assets.ListAssets)
			r.Get("/{assetID}", h.Assets.GetAsset)
			r.Get("/coin/{coinID}/user", h.Assets.GetAssetForCoin)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", h.Wallet.GetWallet)
			r.Get("/transactions", h.Wallet.GetTransactionHistory)
			r.Put("/deposit", h.Payments.ConfirmDeposit)
			r.Put("/{walletID}/transfer", h.Wallet.Transfer)
		})

		r.Post("/payment/{method}/amount/{amount}", h.Payments.CreatePayment)

		r.Route("/withdrawal", func(r chi.Router) {
			r.Get("/", h.Withdrawals.History)
			r.Post("/{amount}", h.Withdrawals.Request)
		})

		r.Route("/coins", func(r chi.Router) {
			r.Get("/", h.Coins.ListCoins)
			r.Get("/{coinID}", h.Coins.GetCoin)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(logger))
			r.Get("/withdrawal", h.Withdrawals.ListAll)
			r.Patch("/withdrawal/{id}/proceed/{accept}", h.Withdrawals.Proceed)
		})
	})

	return r
}
