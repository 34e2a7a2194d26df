package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"felt/internal/app"
	"felt/internal/config"
	"felt/internal/local"
	"felt/internal/ports"
	"felt/internal/ports/nakama"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "felt:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	zl, err := buildZap(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	log := ports.NewZapLogger(zl.Sugar())

	signer, err := buildSigner(cfg)
	if err != nil {
		return err
	}

	if cfg.Tiers.File != "" {
		if err := config.LoadBetTiers(cfg.Tiers.File); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, cleanup, err := buildService(ctx, cfg, log, signer)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Register(ctx, cfg.Player.Name); err != nil {
		return err
	}
	if err := svc.Resync(ctx); err != nil {
		log.Warn("initial resync failed: %v", err)
	}
	log.Info("at the table as %s with %d chips (base stake %d)",
		svc.PlayerName(), svc.Chips(), config.BaseBet(cfg.Tiers.Default))

	svc.SetOnChange(func() {
		st := svc.State()
		log.Debug("table update: game=%s stage=%s message=%q", st.Game, st.Stage, st.Message)
	})

	ticker := time.NewTicker(cfg.Poll.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := svc.PollBalance(ctx); err != nil {
				log.Warn("balance poll failed: %v", err)
			}
		}
	}
}

// buildService wires the configured engine behind the session service. The
// returned cleanup tears the engine down.
func buildService(ctx context.Context, cfg config.Config, log ports.Logger, signer ports.Signer) (*app.Service, func(), error) {
	if cfg.Engine == "remote" {
		client := nakama.NewClient(log, cfg.Server.URL, cfg.Server.Key)
		socket := nakama.NewSocket(log)
		eng := nakama.NewEngine(log, client, socket, cfg.Player.DeviceID, cfg.Player.Name)
		svc := app.NewService(log, eng, eng, signer, nil)
		eng.SetEventHandler(svc.HandleEvent)
		eng.SetOnReconnect(func() {
			rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := svc.Resync(rctx); err != nil {
				log.Warn("resync after reconnect failed: %v", err)
			}
		})
		if err := eng.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		return svc, socket.Close, nil
	}

	eng := local.NewEngine(log, nil)
	svc := app.NewService(log, eng, eng, signer, nil)
	eng.SetEventHandler(svc.HandleEvent)
	return svc, eng.Close, nil
}

// buildSigner loads the configured seed or generates an ephemeral key, which
// the engine will treat as a brand-new player.
func buildSigner(cfg config.Config) (ports.Signer, error) {
	seed, err := cfg.SeedBytes()
	if err != nil {
		return nil, err
	}
	if seed == nil {
		_, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, err
		}
		return ports.NewEd25519Signer(priv)
	}
	return ports.NewEd25519SignerFromSeed(seed)
}

func buildZap(mode string) (*zap.Logger, error) {
	if mode == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
