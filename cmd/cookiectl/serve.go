package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cookiemiddleware "github.com/auth0/go-cookie-middleware"
	"github.com/auth0/go-cookie-middleware/config"
)

// demoVariables are reported by the demo handler.
var demoVariables = []string{
	cookiemiddleware.VarSecureCookie,
	cookiemiddleware.VarSecureCookieDigest,
	cookiemiddleware.VarSecureCookieExpires,
	cookiemiddleware.VarRecaptchaChallenge,
	cookiemiddleware.VarRecaptchaResponse,
}

func buildServeCmd() *cobra.Command {
	var (
		configFile   string
		addr         string
		cookieName   string
		requireValid bool
		debug        bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server reporting the variables of each request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			scope := &config.Scope{}
			if configFile != "" {
				scope, err = config.LoadFile(configFile)
				if err != nil {
					return err
				}
			}

			registry := prometheus.NewRegistry()
			handler, err := newServeHandler(scope, registry, logger, cookieName, requireValid)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return run(cmd.Context(), srv, logger)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&cookieName, "cookie", "auth", "name of the cookie set by /login")
	cmd.Flags().BoolVar(&requireValid, "require-valid", false, "reject requests without a valid cookie, except /login and /metrics")
	cmd.Flags().BoolVar(&debug, "debug", false, "debug logging")

	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newServeHandler wires the demo routes:
//
//	/metrics  Prometheus metrics of the middleware
//	/login    sets a freshly issued cookie
//	/         reports the variables as JSON
func newServeHandler(
	scope *config.Scope,
	registry *prometheus.Registry,
	logger *zap.Logger,
	cookieName string,
	requireValid bool,
) (http.Handler, error) {
	m, err := cookiemiddleware.New(
		cookiemiddleware.WithConfig(scope),
		cookiemiddleware.WithRequireValid(requireValid),
		cookiemiddleware.WithLogger(cookiemiddleware.NewZapLogger(logger)),
		cookiemiddleware.WithMetrics(cookiemiddleware.NewPrometheusMetrics(registry)),
	)
	if err != nil {
		return nil, err
	}

	// /login never enforces, a client without a cookie has to get one there.
	login, err := cookiemiddleware.New(
		cookiemiddleware.WithConfig(scope),
		cookiemiddleware.WithLogger(cookiemiddleware.NewZapLogger(logger)),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/login", login.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := cookiemiddleware.IssueCookie(w, r, http.Cookie{
			Name:     cookieName,
			Path:     "/",
			HttpOnly: true,
		})
		if errors.Is(err, cookiemiddleware.ErrNotIssuable) {
			http.Error(w, "secure_cookie_md5 is not configured", http.StatusNotImplemented)
			return
		}
		if err != nil {
			logger.Error("issuing cookie", zap.Error(err))
			http.Error(w, "issuing cookie failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})))
	mux.Handle("/", m.Handler(http.HandlerFunc(reportVariables)))

	return mux, nil
}

func reportVariables(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]*string, len(demoVariables))
	for _, name := range demoVariables {
		v, err := cookiemiddleware.Get(r, name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if v.Found {
			s := v.String()
			out[name] = &s
		} else {
			out[name] = nil
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func run(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
