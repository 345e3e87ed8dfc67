package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	account  string
	bind     string
	cellSize int
	originX  int
	originY  int
	pageSize int
	port     int
	profile  bool
	server   string
	sse      bool
	timeout  time.Duration
	verbose  bool
}

func (c *Config) validate() error {
	u, err := url.Parse(c.server)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid server URL (must be http(s)://host[:port]): %q", c.server)
	}
	if c.cellSize < 1 {
		return errors.New("cell size must be at least 1 pixel")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.pageSize < 1 {
		return errors.New("page size must be at least 1")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GOBAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "goban",
		Short:         "A terminal client for an omok/baduk rule server.",
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.validate()
		},
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8000", "rule server base URL (env: GOBAN_SERVER)")
	fs.StringVarP(&cfg.account, "account", "a", "", "connection identifier, random when empty (env: GOBAN_ACCOUNT)")
	fs.IntVar(&cfg.cellSize, "cell-size", 40, "pixels per board cell for pointer mapping (env: GOBAN_CELL_SIZE)")
	fs.IntVar(&cfg.originX, "origin-x", 20, "pixel X of the first intersection (env: GOBAN_ORIGIN_X)")
	fs.IntVar(&cfg.originY, "origin-y", 20, "pixel Y of the first intersection (env: GOBAN_ORIGIN_Y)")
	fs.BoolVar(&cfg.sse, "sse", false, "subscribe over SSE instead of WebSocket (env: GOBAN_SSE)")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "timeout for snapshot and move requests (env: GOBAN_TIMEOUT)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: GOBAN_VERBOSE)")

	roomsCmd := &cobra.Command{
		Use:   "rooms [page]",
		Short: "List the rooms the server is hosting.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRooms(cmd.Context(), cfg, args)
		},
	}
	roomsCmd.Flags().IntVar(&cfg.pageSize, "page-size", 5, "rooms per page (env: GOBAN_PAGE_SIZE)")

	watchCmd := &cobra.Command{
		Use:   "watch <room>",
		Short: "Spectate a room, printing the board as it changes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cfg, args[0])
		},
	}

	playCmd := &cobra.Command{
		Use:   "play <room>",
		Short: "Join a room: place stones and chat from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), cfg, args[0])
		},
	}

	qrCmd := &cobra.Command{
		Use:   "qr <room> [file]",
		Short: "Write a PNG QR code linking to a room.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQR(cfg, args)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve <room>",
		Short: "Serve a local read-only web view of a room.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveViewer(cmd.Context(), cfg, args[0])
		},
	}
	serveCmd.Flags().StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind to (env: GOBAN_BIND)")
	serveCmd.Flags().IntVarP(&cfg.port, "port", "p", 8081, "port to listen on (env: GOBAN_PORT)")
	serveCmd.Flags().BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: GOBAN_PROFILE)")

	cmd.AddCommand(roomsCmd, watchCmd, playCmd, qrCmd, serveCmd)

	for _, set := range []*pflag.FlagSet{
		cmd.PersistentFlags(),
		roomsCmd.Flags(),
		serveCmd.Flags(),
	} {
		set.VisitAll(func(f *pflag.Flag) {
			_ = v.BindPFlag(f.Name, f)
			_ = v.BindEnv(f.Name)
			if !f.Changed && v.IsSet(f.Name) {
				_ = set.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
			}
		})
	}

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("goban v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
