package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/remiges-tech/amountwords/config"
	"github.com/remiges-tech/amountwords/logger"
	"github.com/remiges-tech/amountwords/metrics"
	"github.com/remiges-tech/amountwords/router"
	"github.com/remiges-tech/amountwords/service"
	"github.com/remiges-tech/amountwords/tokenstore"
	"github.com/remiges-tech/amountwords/webservices/convert"
	"github.com/remiges-tech/amountwords/webservices/install"
	"github.com/remiges-tech/amountwords/wscutils"
	"github.com/remiges-tech/logharbour/logharbour"
)

const appName = "amount2words"

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("amount2words: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	configSource := fs.String("configSource", "env", "The configuration system to use (env, file or rigel)")
	configFilePath := fs.String("configFile", "./config.json", "The path to the configuration file")
	envPrefix := fs.String("envPrefix", "", "Prefix of the environment variables")
	etcdEndpoints := fs.String("etcdEndpoints", "localhost:2379", "Comma-separated etcd endpoints of the Rigel store")
	rigelModule := fs.String("rigelModule", "server", "Rigel module name")
	rigelVersion := fs.Int("rigelVersion", 1, "Rigel schema version")
	rigelConfigName := fs.String("configName", "default", "The name of the Rigel configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var cs config.Config
	switch *configSource {
	case "env":
		cs = &config.Env{Prefix: *envPrefix}
	case "file":
		cs = &config.File{ConfigFilePath: *configFilePath}
	case "rigel":
		r, err := config.NewRigel(strings.Split(*etcdEndpoints, ","), appName, *rigelModule, *rigelVersion, *rigelConfigName)
		if err != nil {
			return err
		}
		cs = r
	default:
		return fmt.Errorf("unknown configuration system: %s", *configSource)
	}

	cfg, err := config.LoadApp(cs)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	lh := logger.New(appName, cfg.Env, stdout)

	if cfg.ErrorTypesFile != "" {
		if err := loadErrorTypes(cfg.ErrorTypesFile); err != nil {
			return err
		}
	}

	store, closeStore, err := newTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPrometheusMetrics(reg)
	metrics.RegisterConversionMetrics(m)

	if logger.IsProduction(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg, lh, m, store)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lh.Info().LogActivity("starting server", map[string]any{
			"env":         cfg.Env,
			"port":        cfg.Port,
			"token_store": cfg.TokenStore,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lh.Info().LogActivity("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// newRouter builds the gin engine with the middleware chain and every route.
func newRouter(cfg config.AppConfig, lh *logharbour.Logger, m *metrics.PrometheusMetrics, store tokenstore.Store) *gin.Engine {
	r := gin.New()
	r.Use(router.RequestID())
	r.Use(router.LogRequest(router.NewLogHarbourAdapter(lh)))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		wscutils.SendSuccessResponse(c, wscutils.NewSuccessResponse(map[string]string{"status": "ok"}))
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	s := service.NewService(r).
		WithLogHarbour(lh).
		WithMetrics(m).
		WithDependency(install.TokenStoreKey, store)

	// The timeout applies to the service routes only.
	api := s.CreateGroup("")
	api.Group.Use(router.Timeout(cfg.RequestTimeout()))
	api.RegisterRoute(http.MethodPost, "/install", install.HandleInstallRequest)
	api.RegisterRoute(http.MethodPost, "/api/v1/amount2words", convert.HandleAmountRequest)
	api.RegisterRoute(http.MethodPost, "/bizproc/amount2words", convert.HandleBizprocRequest)

	return r
}

func loadErrorTypes(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open error types: %w", err)
	}
	defer f.Close()
	return wscutils.LoadErrorTypes(f)
}

// newTokenStore opens the token store selected by cfg.TokenStore. The
// returned func releases it.
func newTokenStore(ctx context.Context, cfg config.AppConfig) (tokenstore.Store, func(), error) {
	switch cfg.TokenStore {
	case "redis":
		s := tokenstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := s.Client.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := tokenstore.NewPGStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return tokenstore.NewFileStore(cfg.TokensFile), func() {}, nil
	}
}
