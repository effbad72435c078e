package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/erdostom/openskill/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults should come back unchanged", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.Model, ShouldEqual, "plackett_luce")
		})
	})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OPENSKILL_ADDR", ":7070")
	t.Setenv("OPENSKILL_MODEL", "bradley_terry_full")
	t.Setenv("OPENSKILL_QUEUE_SIZE", "123")
	t.Setenv("OPENSKILL_LIMIT_SIGMA", "true")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the env values should win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.Model, ShouldEqual, "bradley_terry_full")
			So(cfg.MatchQueueSize, ShouldEqual, 123)
			So(cfg.LimitSigma, ShouldBeTrue)
		})
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\nmodel: thurstone_mosteller_part\nwindow_size: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENSKILL_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the file values should apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.Model, ShouldEqual, "thurstone_mosteller_part")
			So(cfg.WindowSize, ShouldEqual, 2)
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENSKILL_CONFIG", path)
	t.Setenv("OPENSKILL_ADDR", ":5050")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env should beat the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("OPENSKILL_CONFIG", "/nonexistent/config.yaml")

	Convey("Given a missing config file", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with a load error", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestLoadRejectsUnknownModel(t *testing.T) {
	t.Setenv("OPENSKILL_MODEL", "elo")

	Convey("Given an unknown model name", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation should fail", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("OPENSKILL_SIGMA", "-1")

	Convey("Given a non-positive sigma", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation should fail", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestLoadRejectsZeroWindow(t *testing.T) {
	t.Setenv("OPENSKILL_WINDOW_SIZE", "0")

	Convey("Given a zero window size", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation should fail", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
