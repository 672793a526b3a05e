package commands

import (
	"go.uber.org/zap"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/logging"
	"tableflip.dev/tokenbar/pkg/store"
)

// env is what every data command needs: the config, the resolved wallet
// address and a service over the configured store.
type env struct {
	cfg     store.Config
	address string
	svc     *app.Service
	log     *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	addr, err := address.Resolve(cfg.Address())
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogFile(), false)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg, store.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		address: addr,
		svc:     &app.Service{Persistence: p, Log: log},
		log:     log,
	}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
}
