package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/pongbox/games/pong"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind    string
	port    int
	prefix  string
	profile bool
	tlsCert string
	tlsKey  string
	verbose bool
	version bool

	fieldWidth   float64
	fieldHeight  float64
	racketWidth  float64
	racketHeight float64
	ballSize     float64
	ballSpeed    float64
	racketSpeed  float64
	tick         time.Duration
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if err := c.field().Validate(); err != nil {
		return fmt.Errorf("invalid field: %w", err)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) field() pong.Field {
	return pong.Field{
		Width:        c.fieldWidth,
		Height:       c.fieldHeight,
		RacketWidth:  c.racketWidth,
		RacketHeight: c.racketHeight,
		BallSize:     c.ballSize,
		BallSpeed:    c.ballSpeed,
		RacketSpeed:  c.racketSpeed,
		Tick:         c.tick,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PONGBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "pongbox",
		Short:         "Two-player Pong on one keyboard, served to the browser.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: PONGBOX_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: PONGBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: PONGBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: PONGBOX_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: PONGBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: PONGBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: PONGBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: PONGBOX_VERSION)")

	fs.Float64Var(&cfg.fieldWidth, "field-width", pong.DefaultFieldWidth, "playing field width (env: PONGBOX_FIELD_WIDTH)")
	fs.Float64Var(&cfg.fieldHeight, "field-height", pong.DefaultFieldHeight, "playing field height (env: PONGBOX_FIELD_HEIGHT)")
	fs.Float64Var(&cfg.racketWidth, "racket-width", pong.DefaultRacketWidth, "racket width (env: PONGBOX_RACKET_WIDTH)")
	fs.Float64Var(&cfg.racketHeight, "racket-height", pong.DefaultRacketHeight, "racket height (env: PONGBOX_RACKET_HEIGHT)")
	fs.Float64Var(&cfg.ballSize, "ball-size", pong.DefaultBallSize, "ball size (env: PONGBOX_BALL_SIZE)")
	fs.Float64Var(&cfg.ballSpeed, "ball-speed", pong.DefaultBallSpeed, "ball movement per tick, per axis (env: PONGBOX_BALL_SPEED)")
	fs.Float64Var(&cfg.racketSpeed, "racket-speed", pong.DefaultRacketSpeed, "racket movement per key press (env: PONGBOX_RACKET_SPEED)")
	fs.DurationVar(&cfg.tick, "tick", pong.DefaultTick, "simulation tick period (env: PONGBOX_TICK)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("pongbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
