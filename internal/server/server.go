package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/server/middleware"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/config"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/transport"
)

const (
	shutdownTimeout   = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

var (
	errCycled   = errors.New("connection cycled by new connection")
	errShutdown = errors.New("graceful shutdown")
)

type App struct {
	logger       *slog.Logger
	stateManager state.Manager
	hub          *hub.Hub
	eventRouter  *router.EventRouter
	wg           sync.WaitGroup
	http         *http.Server
	config       *config.Config

	ctx context.Context
}

func NewApp(ctx context.Context, logger *slog.Logger, cfg *config.Config, stateManager state.Manager, h *hub.Hub) (*App, error) {
	rate, err := router.ParseRate(cfg.Transport.RateLimit)
	if err != nil {
		return nil, err
	}

	app := &App{
		logger:       logger.With(slog.String("component", "server")),
		stateManager: stateManager,
		hub:          h,
		eventRouter:  router.NewEventRouter(logger, stateManager, h, rate),
		config:       cfg,
		ctx:          ctx,
	}

	app.http = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: app.routes(),
		BaseContext: func(net.Listener) context.Context {
			return app.ctx
		},
	}
	return app, nil
}

// Handler exposes the route tree, mostly for tests.
func (a *App) Handler() http.Handler {
	return a.http.Handler
}

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/stats", a.statsHandler)

	cycler := func(ip string) {
		oldest, found := a.stateManager.FindOldestIPConnection(ip)
		if found {
			a.logger.Info("cycling connection: closing oldest", slog.String("ip", ip), slog.String("connID", oldest.ID.String()))
			oldest.Transport.Close(errCycled)
		}
	}
	r.Handle("/ws/{channel}", middleware.Chain(http.HandlerFunc(a.upgradeHandler),
		middleware.RequestMetadataMiddleware(),
		middleware.NewRequestLogger(a.logger),
		middleware.NewConnectionLimiter(a.logger, a.stateManager.GetIPConnectionCount, cycler, a.config.Server.ConnectionLimit),
		middleware.NewAuthMiddleware(a.logger, a.config.Server.Auth),
	))
	return r
}

func (a *App) statsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.stateManager.Stats()); err != nil {
		a.logger.Error("failed to encode stats", slog.Any("error", err))
	}
}

func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", slog.String("addr", a.http.Addr))
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-a.ctx.Done():
	}
	return a.Shutdown()
}

func (a *App) upgradeHandler(w http.ResponseWriter, r *http.Request) {
	reqMeta, ok := middleware.ReqMetadataFrom(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	channel := reqMeta.Channel
	if !channel.Valid() {
		http.NotFound(w, r)
		return
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		a.logger.Error("failed to accept websocket connection", slog.Any("error", err))
		return
	}

	conn := transport.NewConnection(
		r.Context(),
		&a.wg,
		wsConn,
		transport.ConnectionConfig{
			ReadTimeout:   a.config.Transport.ReadTimeout,
			WriteTimeout:  a.config.Transport.WriteTimeout,
			SendQueueSize: a.config.Transport.SendQueueSize,
		},
		a.logger,
	)
	connLogger := a.logger.With(
		slog.String("connID", conn.ID().String()),
		slog.String("remoteAddr", reqMeta.IP),
		slog.String("channel", string(channel)),
	)

	if _, err := a.stateManager.RegisterConnection(conn, channel, reqMeta.IP, reqMeta.UserID); err != nil {
		connLogger.Error("failed to register connection state", slog.Any("error", err))
		wsConn.Close(websocket.StatusInternalError, "")
		return
	}

	conn.SetOnMessageHandler(a.eventRouter.HandleMessage)
	conn.SetOnCloseHandler(func(id uuid.UUID, err error) {
		connLogger.Debug("deregistering connection", slog.Any("reason", err))
		ctx, cancel := context.WithTimeout(context.WithoutCancel(a.ctx), disconnectTimeout)
		defer cancel()
		a.hub.Disconnect(ctx, id)
		a.eventRouter.Forget(id)
	})

	connLogger.Info("connection established")
	conn.Run()
	<-conn.Done()
}

// Shutdown stops accepting upgrades, closes every live socket and waits for
// their cleanup.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		return err
	}

	conns := a.stateManager.AllConnections()
	a.logger.Info("closing active connections", slog.Int("count", len(conns)))
	for _, conn := range conns {
		conn.Transport.Close(errShutdown)
	}

	a.wg.Wait()
	a.logger.Info("server shut down gracefully")
	return nil
}
