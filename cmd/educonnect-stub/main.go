package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/stubserver"
	"github.com/noah-isme/educonnect/pkg/config"
	"github.com/noah-isme/educonnect/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := stubserver.New(stubserver.Config{
		JWTSecret:      cfg.Stub.JWTSecret,
		TokenTTL:       cfg.Stub.TokenTTL,
		OTPTTL:         cfg.Stub.OTPTTL,
		OTPMode:        cfg.OTP.Mode,
		AllowedOrigins: cfg.Stub.AllowedOrigins,
	}, metrics.NewMetricsService(), logr)
	if err := srv.SeedDemo(); err != nil {
		logr.Sugar().Fatalw("seeding failed", "error", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logr.Sugar().Infow("stub backend starting", "addr", addr, "otp_mode", cfg.OTP.Mode)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
