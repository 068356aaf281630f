// @title           Fileport API
// @version         1.0
// @description     File hosting with per-user storage quotas.
// @host            localhost:8080
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name fileport_session
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fileport/internal/api"
	"fileport/internal/auth"
	"fileport/internal/config"
	"fileport/internal/database"
	"fileport/internal/quota"
	"fileport/internal/session"
	"fileport/internal/storage"
	"fileport/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/jaevor/go-nanoid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "fileport/docs"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "fileport",
		Short:         "File server with per-user storage quotas",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return fmt.Errorf("cannot load configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		log.Fatalf("Cannot bind flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.PIDFile != "" {
		if err := os.WriteFile(cfg.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
			log.Printf("WARN: Cannot write pid file %s: %v", cfg.PIDFile, err)
		} else {
			defer os.Remove(cfg.PIDFile)
		}
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("cannot initialize storage: %w", err)
	}
	log.Printf("Files are stored in: %s", localStorage.BasePath())

	snapshot, closeSnapshot, err := openSnapshotter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSnapshot()

	users := database.NewUserStore(snapshot)
	if err := users.LoadAll(ctx); err != nil {
		return fmt.Errorf("cannot load users: %w", err)
	}
	log.Printf("Loaded %d users", users.Count())

	if cfg.Session.Secret == "" {
		gen, err := gonanoid.Standard(48)
		if err != nil {
			return err
		}
		cfg.Session.Secret = gen()
		log.Printf("WARN: session.secret is not set, using a random one; sessions will not survive a restart")
	}

	sessions, err := session.NewManager(cfg.Session.TTL)
	if err != nil {
		return fmt.Errorf("cannot create session manager: %w", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	accountant := quota.NewAccountant(localStorage)
	accountant.Notify(wsHub)
	client := auth.NewClient(cfg.Auth.ServerURL, cfg.Auth.AppID, cfg.Auth.AppSecret, cfg.Auth.RedirectURI, cfg.Auth.Timeout)
	authService := auth.NewService(client, users, accountant, auth.ServiceConfig{
		DefaultQuota:     cfg.Quota.DefaultBytes,
		ReconcileOnLogin: cfg.Quota.ReconcileOnLogin,
	})

	server := api.NewServer(cfg, users, localStorage, authService, sessions, wsHub)

	go sweepSessions(ctx, sessions)
	if cfg.Quota.ReconcileInterval > 0 {
		go reconcileUsage(ctx, cfg.Quota.ReconcileInterval, accountant, users)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cannot start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openSnapshotter picks the user snapshot backend. The returned close func is
// always safe to call.
func openSnapshotter(ctx context.Context, cfg *config.Config) (database.Snapshotter, func(), error) {
	switch cfg.Users.Backend {
	case "", "file":
		log.Printf("Users are persisted to %s", cfg.Users.SnapshotPath)
		return database.NewFileSnapshotter(afero.NewOsFs(), cfg.Users.SnapshotPath), func() {}, nil
	case "postgres":
		dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot connect to database: %w", err)
		}
		if err := dbpool.Ping(ctx); err != nil {
			dbpool.Close()
			return nil, nil, fmt.Errorf("cannot ping database: %w", err)
		}
		log.Println("Connected to database")

		snapshot, err := database.NewPostgresSnapshotter(ctx, database.NewStore(dbpool))
		if err != nil {
			dbpool.Close()
			return nil, nil, err
		}
		return snapshot, dbpool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown users.backend %q", cfg.Users.Backend)
	}
}

func sweepSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Printf("Expired %d sessions", n)
			}
		}
	}
}

// reconcileUsage periodically resets every recorded usage counter to the
// live size of the user's directory.
func reconcileUsage(ctx context.Context, interval time.Duration, accountant *quota.Accountant, users *database.UserStore) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seen := make(map[string]bool)
			for _, user := range users.All() {
				if seen[user.UserID] {
					continue
				}
				seen[user.UserID] = true
				if _, err := accountant.Reconcile(ctx, users, user); err != nil {
					log.Printf("WARN: Cannot reconcile usage of user %s: %v", user.UserID, err)
				}
			}
		}
	}
}
