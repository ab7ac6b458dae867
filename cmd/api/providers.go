package main

import (
	"context"
	"os"

	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"

	"github.com/Mutu-s/MonFair-sub001/internal/chain"
	"github.com/Mutu-s/MonFair-sub001/internal/config"
	"github.com/Mutu-s/MonFair-sub001/internal/handlers"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
	"github.com/Mutu-s/MonFair-sub001/internal/vrf"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func provideLogger(i do.Injector) (*logrus.Logger, error) {
	return newLogger(do.MustInvoke[*config.Config](i)), nil
}

func provideChainClient(i do.Injector) (*chain.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return chain.Dial(context.Background(), cfg.RPCURL, cfg.RPCTimeout)
}

func provideVerifier(i do.Injector) (*vrf.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logrus.Logger](i)

	opts := []vrf.Option{
		vrf.WithLogger(log.WithField("component", "vrf")),
		vrf.WithBlockInterval(cfg.BlockInterval),
	}
	if !cfg.HasProvider() {
		log.Warn("RPC_URL not set, verifying without block data")
		return vrf.NewVerifier(nil, opts...), nil
	}

	client, err := do.Invoke[*chain.Client](i)
	if err != nil {
		return nil, err
	}
	return vrf.NewVerifier(client, opts...), nil
}

func provideRedis(i do.Injector) (*services.RedisService, error) {
	return services.NewRedisService(context.Background(), do.MustInvoke[*config.Config](i))
}

func provideJWT(i do.Injector) (*services.JWTService, error) {
	return services.NewJWTService(do.MustInvoke[*config.Config](i)), nil
}

func provideWebSocket(i do.Injector) (*handlers.WebSocketHandler, error) {
	log := do.MustInvoke[*logrus.Logger](i)
	return handlers.NewWebSocketHandler(log.WithField("component", "ws")), nil
}

func provideVerifyHandler(i do.Injector) (*handlers.VerifyHandler, error) {
	log := do.MustInvoke[*logrus.Logger](i)

	redisService, err := do.Invoke[*services.RedisService](i)
	if err != nil {
		return nil, err
	}
	verifier, err := do.Invoke[*vrf.Verifier](i)
	if err != nil {
		return nil, err
	}
	wsHandler, err := do.Invoke[*handlers.WebSocketHandler](i)
	if err != nil {
		return nil, err
	}

	return handlers.NewVerifyHandler(verifier, redisService, wsHandler, log.WithField("component", "http")), nil
}
