package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hnrobert/edupulse/internal/accounts"
	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/config"
	"github.com/hnrobert/edupulse/internal/datafs"
	"github.com/hnrobert/edupulse/internal/logger"
	"github.com/hnrobert/edupulse/internal/server"
	"github.com/hnrobert/edupulse/internal/stats"
	"github.com/hnrobert/edupulse/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "gen-secret" {
		s, err := auth.NewRandomSecretB64(32)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(s)
		return
	}

	if err := run(); err != nil {
		logger.Error("%v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.LogDir); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := accounts.New(st, cfg.Secret)
	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, st, svc); err != nil {
			return err
		}
	}

	app := server.NewApp(server.Options{
		Accounts:       svc,
		Stats:          stats.NewReporter(st),
		Store:          st,
		StatsAdminOnly: cfg.StatsAccess == config.StatsAdmin,
	})
	if cfg.StatsAccess == config.StatsPublic {
		logger.Warn("GET /api/admin/stats is public; set EDUPULSE_STATS_ACCESS=admin to require an admin token")
	}

	logger.Info("edupulse listening on %s (store=%s, data=%s)", cfg.ListenAddr, cfg.Store, cfg.DataDir)
	return server.New(server.Config{ListenAddr: cfg.ListenAddr}, app).Run(ctx)
}

func openStore(cfg config.Config) (store.Store, func(), error) {
	dir, err := datafs.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Store {
	case config.StoreSQLite:
		path, err := dir.Path(datafs.SQLiteFile)
		if err != nil {
			return nil, nil, err
		}
		sq, err := store.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return sq, func() { _ = sq.Close() }, nil
	default:
		path, err := dir.Path(datafs.DocumentFile)
		if err != nil {
			return nil, nil, err
		}
		fs := store.NewFileStore(path)
		if err := fs.Ensure(); err != nil {
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
		return fs, func() {}, nil
	}
}

func applySeed(ctx context.Context, path string, st store.Store, svc *accounts.Service) error {
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}
	if seed.SchoolName != "" || seed.Notice != "" {
		err := st.Update(ctx, func(doc *store.Document) error {
			if seed.SchoolName != "" {
				doc.Settings.SchoolName = seed.SchoolName
			}
			if seed.Notice != "" {
				doc.Settings.Notice = seed.Notice
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("apply seed settings: %w", err)
		}
	}

	admins := make([]accounts.SeedAdmin, 0, len(seed.Admins))
	for _, a := range seed.Admins {
		admins = append(admins, accounts.SeedAdmin{Email: a.Email, Name: a.Name, Password: a.Password, PasswordHash: a.PasswordHash})
	}
	created, err := svc.EnsureAdmins(ctx, admins)
	if err != nil {
		return fmt.Errorf("seed admins: %w", err)
	}
	if created > 0 {
		logger.Info("Seeded %d admin account(s) from %s", created, path)
	}
	return nil
}
