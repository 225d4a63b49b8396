package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awnumar/memguard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"zomesigner/internal/app"
	"zomesigner/internal/crypto"
	"zomesigner/internal/keystore"
	"zomesigner/internal/keystore/ipc"
	"zomesigner/internal/keystore/memkeystore"
	"zomesigner/internal/metrics"
	"zomesigner/internal/util/log"
)

func main() {
	memguard.CatchInterrupt()
	defer memguard.Purge()

	var configPath, address, metricsAddr, passphrase string
	root := &cobra.Command{
		Use:          "devkeystore",
		Short:        "Serve an in-memory keystore for development",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.KeystoreURL = address
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}
			if err := app.InitLogging(cfg); err != nil {
				return err
			}
			if passphrase == "" {
				passphrase = os.Getenv("ZOMESIGNER_PASSPHRASE")
			}
			if passphrase == "" {
				return errors.New("keystore passphrase required (-p or $ZOMESIGNER_PASSPHRASE)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, crypto.NewSecretFromString(passphrase))
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "config file (default ~/.zomesigner/config.yaml)")
	root.Flags().StringVar(&address, "listen", "", "keystore address to serve (default keystore_url)")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics listen address (default metrics_addr)")
	root.Flags().StringVarP(&passphrase, "passphrase", "p", "", "keystore passphrase clients must present")

	if err := root.Execute(); err != nil {
		memguard.SafeExit(1)
	}
}

func serve(ctx context.Context, cfg app.Config, passphrase *memguard.LockedBuffer) error {
	store := memkeystore.New()
	defer store.Destroy()

	srv := ipc.NewServer(store, passphrase)
	l, err := listen(cfg.KeystoreURL)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		hs := &http.Server{Addr: cfg.MetricsAddr, Handler: withAccessLog(mux), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Infof("devkeystore: metrics on http://%s/metrics", cfg.MetricsAddr)
			if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("devkeystore: metrics server failed")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = hs.Shutdown(sctx)
		}()
	}

	log.Infof("devkeystore: serving keystore on %s", cfg.KeystoreURL)
	err = srv.Serve(ctx, l)
	log.Info("devkeystore: stopped")
	return err
}

func listen(address string) (net.Listener, error) {
	u, err := keystore.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if u.Scheme == keystore.SchemeUnix {
		if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "devkeystore: remove stale socket")
		}
		l, err := net.Listen("unix", u.Path)
		if err != nil {
			return nil, errors.Wrap(err, "devkeystore: listen")
		}
		if err := os.Chmod(u.Path, 0o600); err != nil {
			l.Close()
			return nil, errors.Wrap(err, "devkeystore: chmod socket")
		}
		return l, nil
	}
	l, err := net.Listen("tcp", u.Host)
	return l, errors.Wrap(err, "devkeystore: listen")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("devkeystore: http")
	})
}
