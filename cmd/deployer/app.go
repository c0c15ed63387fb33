package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/contract-deployer/internal/chain"
	"github.com/rxtech-lab/contract-deployer/internal/compiler"
	"github.com/rxtech-lab/contract-deployer/internal/config"
	"github.com/rxtech-lab/contract-deployer/internal/hooks"
	"github.com/rxtech-lab/contract-deployer/internal/logger"
	"github.com/rxtech-lab/contract-deployer/internal/secrets"
	"github.com/rxtech-lab/contract-deployer/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const databaseURLVar = "DATABASE_URL"

// app carries flags and the state shared by every command.
type app struct {
	configPath string
	network    string
	dbPath     string
	logLevel   string
	envFile    string
	timeout    time.Duration

	out    io.Writer
	errOut io.Writer

	log     *zap.Logger
	secrets secrets.Store
	cfg     *config.Config

	dial func(ctx context.Context, profile config.NetworkProfile) (chain.Backend, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		log:    zap.NewNop(),
		dial: func(ctx context.Context, profile config.NetworkProfile) (chain.Backend, error) {
			client, err := chain.Dial(ctx, profile)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".deployer", "deployments.db")
	}
	return filepath.Join(home, ".deployer", "deployments.db")
}

// setup runs before every command: logger, secrets, configuration.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	log, err := logger.NewWithWriter(a.logLevel, a.errOut)
	if err != nil {
		return err
	}
	a.log = log

	store, err := secrets.NewEnvStore(a.envFile)
	if err != nil {
		return err
	}
	a.secrets = store

	cfg, err := config.Load(a.configPath, store)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// withTimeout bounds deployment commands by --timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// openDB uses postgres when DATABASE_URL is set and sqlite otherwise.
func (a *app) openDB() (services.DBService, error) {
	url, err := a.secrets.Get(databaseURLVar)
	switch {
	case err == nil:
		a.log.Debug("using postgres deployment records")
		return services.NewPostgresDBService(url)
	case errors.Is(err, secrets.ErrNotFound):
		a.log.Debug("using sqlite deployment records", zap.String("path", a.dbPath))
		return services.NewSqliteDBService(a.dbPath)
	default:
		return nil, err
	}
}

// session is an open network connection plus the deployer bound to it.
type session struct {
	deployer *chain.Deployer
	db       services.DBService
	backend  chain.Backend
}

func (s *session) Close() {
	if closer, ok := s.backend.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// openSession connects to --network and builds a deployer sending from the
// network's first account.
func (a *app) openSession(ctx context.Context) (*session, error) {
	profile, err := a.cfg.Network(a.network)
	if err != nil {
		return nil, err
	}
	keys, err := a.cfg.Accounts(a.network, a.secrets)
	if err != nil {
		return nil, err
	}
	signer, err := chain.NewSigner(keys[0])
	if err != nil {
		return nil, fmt.Errorf("account of %s: %w", a.network, err)
	}

	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	records := services.NewDeploymentService(db.GetDB())
	hookService := services.NewHookService()
	if err := hookService.AddHook(hooks.NewDeploymentRecordHook(records)); err != nil {
		_ = db.Close()
		return nil, err
	}

	backend, err := a.dial(ctx, profile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	runID := uuid.New().String()
	deployer, err := chain.NewDeployer(ctx, backend, profile, signer,
		chain.WithArtifacts(compiler.NewFileStore(a.cfg.Paths.Artifacts)),
		chain.WithRecords(records, hookService),
		chain.WithRunID(runID),
		chain.WithLogger(a.log.With(zap.String("run", runID))),
	)
	s := &session{deployer: deployer, db: db, backend: backend}
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
