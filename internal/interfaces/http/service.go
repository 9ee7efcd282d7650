package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/application"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
	"github.com/tdex-network/tdex-vault/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Address string

	VaultSvc  application.VaultService
	PubSubSvc application.PubSubService
	AuthSvc   application.AuthService

	ProgramID          domain.Address
	Rent               domain.Rent
	EnableFaucet       bool
	CORSAllowedOrigins []string
	BuildData          ports.BuildData
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.VaultSvc == nil {
		return fmt.Errorf("missing vault service")
	}
	if o.PubSubSvc == nil {
		return fmt.Errorf("missing pubsub service")
	}
	if o.AuthSvc == nil {
		return fmt.Errorf("missing auth service")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the HTTP interface exposing the vault instructions and
// read models as a JSON API, plus the live event stream and the metrics.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           newRouter(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http: server stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("http: failed to gracefully stop server")
	}
	log.Debug("stopped http interface")
}

func newRouter(opts ServiceOpts) http.Handler {
	h := &handler{
		vaultSvc:  opts.VaultSvc,
		pubsubSvc: opts.PubSubSvc,
		authSvc:   opts.AuthSvc,
		info: newInfoResponse(
			opts.ProgramID, opts.Rent, opts.EnableFaucet, opts.BuildData,
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.CORSAllowedOrigins),
		},
	}

	router := httprouter.New()
	router.GET("/v1/info", h.getInfo)

	router.POST("/v1/vault/initialize", h.initializeVault)
	router.POST("/v1/vault/deposit", h.deposit)
	router.POST("/v1/vault/withdraw", h.withdraw)
	router.POST("/v1/vault/lock", h.setVaultLock)
	router.GET("/v1/vault/:address", h.getVault)
	router.GET("/v1/vault/:address/events", h.listVaultEvents)
	router.GET("/v1/authority/:address/vault", h.getVaultByAuthority)
	router.GET("/v1/accounts/:address", h.getAccount)

	router.GET("/v1/events", h.listEvents)
	router.GET("/v1/events/stream", h.streamEvents)

	router.POST("/v1/webhooks", h.addWebhook)
	router.GET("/v1/webhooks", h.listWebhooks)
	router.DELETE("/v1/webhooks/:id", h.removeWebhook)

	if opts.EnableFaucet {
		router.POST("/v1/faucet", h.airdrop)
	}

	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			"NOT_FOUND", http.StatusText(http.StatusNotFound),
		})
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log.Errorf("http: recovered from panic on %s %s: %v", r.Method, r.URL.Path, v)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			"INTERNAL", http.StatusText(http.StatusInternalServerError),
		})
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(withLogger(router))
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowedOrigins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
