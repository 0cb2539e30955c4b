package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fitcheck/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"FITCHECK_CONFIG",
	"FITCHECK_ADDR",
	"FITCHECK_QUEUE_SIZE",
	"FITCHECK_WORKER_COUNT",
	"FITCHECK_DEDUPE_SIZE",
	"FITCHECK_STORE_DRIVER",
	"FITCHECK_DATABASE_URL",
	"FITCHECK_BOTTOM_REUSE_LIMIT",
	"FITCHECK_WEARER_NAME",
	"FITCHECK_TIMEZONE",
	"FITCHECK_SEED_WARDROBE",
	"FITCHECK_RANDOM_SEED",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "fitcheck-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WearQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096)
				convey.So(cfg.BottomReuseLimit, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FITCHECK_ADDR", ":8080")
			_ = os.Setenv("FITCHECK_QUEUE_SIZE", "64")
			_ = os.Setenv("FITCHECK_WORKER_COUNT", "2")
			_ = os.Setenv("FITCHECK_BOTTOM_REUSE_LIMIT", "0")
			_ = os.Setenv("FITCHECK_WEARER_NAME", "Sam")
			_ = os.Setenv("FITCHECK_RANDOM_SEED", "7")
			_ = os.Setenv("FITCHECK_SEED_WARDROBE", "false")
			_ = os.Setenv("FITCHECK_STORE_DRIVER", "MEMORY")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WearQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.BottomReuseLimit, convey.ShouldEqual, 0)
				convey.So(cfg.WearerName, convey.ShouldEqual, "Sam")
				convey.So(cfg.RandomSeed, convey.ShouldEqual, 7)
				convey.So(cfg.SeedWardrobe, convey.ShouldBeFalse)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
queue_size: 300
worker_count: 4
timezone: "America/New_York"
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FITCHECK_CONFIG", tmpFile)
			_ = os.Setenv("FITCHECK_WORKER_COUNT", "8")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")      // From file
				convey.So(cfg.WearQueueSize, convey.ShouldEqual, 300) // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)     // Overridden by env
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096)   // From defaults
				convey.So(cfg.Location().String(), convey.ShouldEqual, "America/New_York")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FITCHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FITCHECK_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FITCHECK_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the postgres driver has no database url", func() {
			_ = os.Setenv("FITCHECK_STORE_DRIVER", "postgres")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FITCHECK_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
