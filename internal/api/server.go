package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/tokenboard-backend/internal/media"
	"github.com/kjannette/tokenboard-backend/internal/notifications"
	"github.com/kjannette/tokenboard-backend/internal/repository"
)

// maxUploadBytes caps the in-memory portion of a token image upload.
const maxUploadBytes = 10 << 20

type Server struct {
	pool       *pgxpool.Pool
	tokenRepo  *repository.TokenRepo
	priceRepo  *repository.PriceRepo
	txRepo     *repository.TransactionRepo
	uploader   media.Uploader
	notify     *notifications.Sender
	httpServer *http.Server
}

func NewServer(pool *pgxpool.Pool, uploader media.Uploader, notify *notifications.Sender, port int, corsOrigin string) *Server {
	s := &Server{
		pool:      pool,
		tokenRepo: repository.NewTokenRepo(pool),
		priceRepo: repository.NewPriceRepo(pool),
		txRepo:    repository.NewTransactionRepo(pool),
		uploader:  uploader,
		notify:    notify,
	}

	mux := http.NewServeMux()

	// Token routes
	mux.HandleFunc("POST /api/tokens", s.handleCreateToken)
	mux.HandleFunc("GET /api/tokens", s.handleListTokens)
	mux.HandleFunc("GET /api/tokens/address/{tokenAddress}", s.handleTokenByAddress)

	// Price routes
	mux.HandleFunc("POST /api/price", s.handleStorePrice)
	mux.HandleFunc("GET /api/price/{tokenAddress}", s.handlePriceHistory)

	// Transaction routes
	mux.HandleFunc("POST /api/transactions", s.handleStoreTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleTransactionsByToken)

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := corsMiddleware(mux, corsOrigin)

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// no WriteTimeout: a token creation blocks on the media host for
		// as long as the upload takes
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] Server running on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// --- middleware ---

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, msg)
}
