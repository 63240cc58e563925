package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/vestra-shop/internal/app"
	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"
)

var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key"}

func main() {
	mode := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	fmt.Println("\033[36m\033[1mVestra API\033[0m \033[2mfashion storefront backend\033[0m")

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()
	defer func() { _ = logger.Z().Sync() }()

	if _, err := app.ParseMode(*mode); err != nil {
		log.Fatalw("invalid_run_mode", "error", err)
	}
	if err := checkSecret(cfg); err != nil {
		log.Fatalw("jwt_secret_rejected", "error", err)
	}
	if err := openDatabase(cfg.Database); err != nil {
		log.Fatalw("database_init_failed", "driver", cfg.Database.Driver, "error", err)
	}
	ensureBootstrapAdmin()

	err := app.Run(app.Options{
		Config:  cfg,
		Logger:  log,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    *mode,
	})
	if err != nil {
		log.Fatalw("server_exit", "error", err)
	}
}

// checkSecret release 模式下拒绝弱密钥，其余模式只告警
func checkSecret(cfg *config.Config) error {
	if !isWeakSecret(cfg.JWT.SecretKey) {
		return nil
	}
	if cfg.Server.Mode == "release" {
		return fmt.Errorf("jwt secret is weak or still the default value")
	}
	logger.Warnw("jwt_secret_weak", "hint", "use the identity provider's signing secret")
	return nil
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

func openDatabase(cfg config.DatabaseConfig) error {
	if err := models.InitDB(cfg.Driver, cfg.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return err
	}
	return models.AutoMigrate()
}

// ensureBootstrapAdmin VESTRA_ADMIN_USER_ID 对应身份服务中的用户 ID，首次部署时提升为管理员
func ensureBootstrapAdmin() {
	raw := strings.TrimSpace(os.Getenv("VESTRA_ADMIN_USER_ID"))
	if raw == "" {
		return
	}
	adminID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || adminID == 0 {
		logger.Warnw("bootstrap_admin_invalid_id", "value", raw)
		return
	}
	if err := models.InitDefaultAdmin(uint(adminID), os.Getenv("VESTRA_ADMIN_EMAIL")); err != nil {
		logger.Warnw("bootstrap_admin_failed", "user_id", adminID, "error", err)
		return
	}
	logger.Infow("bootstrap_admin_ready", "user_id", adminID)
}
