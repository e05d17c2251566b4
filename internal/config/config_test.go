package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/carebridge/carebridge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"CAREBRIDGE_CONFIG",
		"CAREBRIDGE_ADDR",
		"CAREBRIDGE_LOG_LEVEL",
		"CAREBRIDGE_QUEUE_SIZE",
		"CAREBRIDGE_WORKER_COUNT",
		"CAREBRIDGE_MAX_UPCOMING_LIMIT",
		"CAREBRIDGE_DB_PATH",
		"CAREBRIDGE_REMINDER_SPEC",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.MaxUpcomingLimit, convey.ShouldEqual, 100)
				convey.So(cfg.DBPath, convey.ShouldBeEmpty)
				convey.So(cfg.ReminderSpec, convey.ShouldEqual, "0 7 * * *")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("CAREBRIDGE_ADDR", ":8080")
			_ = os.Setenv("CAREBRIDGE_QUEUE_SIZE", "500")
			_ = os.Setenv("CAREBRIDGE_DB_PATH", "/tmp/care.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/care.db")
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yaml := "addr: \":7070\"\nreminder_spec: \"30 6 * * *\"\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("CAREBRIDGE_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.ReminderSpec, convey.ShouldEqual, "30 6 * * *")
			})
		})

		convey.Convey("When env contradicts the file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("CAREBRIDGE_CONFIG", path)
			_ = os.Setenv("CAREBRIDGE_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("CAREBRIDGE_ADDR", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("CAREBRIDGE_CONFIG", "/nonexistent/config.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}
