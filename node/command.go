package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ringsync/go-ringsync/archive"
	"github.com/ringsync/go-ringsync/cmd"
	"github.com/ringsync/go-ringsync/config"
	"github.com/ringsync/go-ringsync/config/presets"
	"github.com/ringsync/go-ringsync/entry"
	"github.com/ringsync/go-ringsync/log"
)

// GetCommand returns the root command of the ringsync executable.
func GetCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ringsync",
		Short:        "replicate windows and streams between peers",
		SilenceUsage: true,
	}
	root.AddCommand(nodeCommand(), dumpCommand(), &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Printf("%s (%s %s)\n", cmd.Version, cmd.Branch, cmd.Commit)
		},
	})
	return root
}

func nodeCommand() *cobra.Command {
	conf := config.DefaultConfig()
	var configPath *string
	c := &cobra.Command{
		Use:   "node",
		Short: "start node",
		RunE: func(c *cobra.Command, args []string) error {
			if err := configure(c, *configPath, &conf); err != nil {
				return err
			}
			app, err := NewApp(&conf)
			if err != nil {
				return err
			}

			// os.Interrupt for all systems, syscall.SIGTERM is mainly for docker.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := os.MkdirAll(app.Config.DataDir(), 0o700); err != nil {
				return fmt.Errorf("ensure folders exist: %w", err)
			}
			if err := app.Lock(); err != nil {
				return fmt.Errorf("getting exclusive file lock: %w", err)
			}
			defer app.Unlock()
			defer app.Cleanup()

			if err := app.Initialize(ctx); err != nil {
				return fmt.Errorf("initializing app: %w", err)
			}
			// This blocks until the context is finished or until an error is produced
			return app.Start(ctx)
		},
	}
	configPath = cmd.AddFlags(c.PersistentFlags(), &conf)
	return c
}

// configure loads the preset and the config file into conf and applies the flags on top.
func configure(c *cobra.Command, configPath string, conf *config.Config) error {
	if err := loadConfig(conf, conf.Preset, configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// apply CLI args to config
	if err := c.ParseFlags(os.Args[1:]); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// loadConfig loads config and preset (if provided) into the provided config.
// It first loads the preset and then overrides it with values from the config file.
func loadConfig(cfg *config.Config, preset, path string) error {
	v := viper.New()
	if err := config.LoadConfig(path, v); err != nil {
		return err
	}
	if len(preset) == 0 && v.IsSet("main.preset") {
		preset = v.GetString("main.preset")
	}
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
		cfg.Preset = preset
	}
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithZeroFields(),
		WithErrorUnused(),
	}
	if err := v.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

func WithZeroFields() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ZeroFields = true
	}
}

func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}

func dumpCommand() *cobra.Command {
	defaults := config.DefaultConfig()
	var (
		dir      string
		out      string
		instance uint32
		decode   bool
	)
	c := &cobra.Command{
		Use:   "dump",
		Short: "export the archived history of a window",
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := log.New(defaults.LOGGING, log.WithWriter(c.ErrOrStderr()))
			if err != nil {
				return err
			}
			a, err := archive.Open(dir, archive.WithLogger(logger.Named(log.ArchiveLogger)))
			if err != nil {
				return err
			}
			defer a.Close()
			if !c.Flags().Changed("instance") {
				instances, err := a.Instances()
				if err != nil {
					return err
				}
				for _, id := range instances {
					meta, err := a.GetMeta(id)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.OutOrStdout(), "%d\tcapacity=%d\tentry-size=%d\n", id, meta.Capacity, meta.EntrySize)
				}
				return nil
			}
			if out == "" {
				out = fmt.Sprintf("window-%d.bin", instance)
			}
			return dump(c, afero.NewOsFs(), a, instance, out, decode)
		},
	}
	c.Flags().StringVar(&dir, "archive", defaults.ArchiveDir(), "archive directory")
	c.Flags().StringVarP(&out, "out", "o", "", "file to write the history to")
	c.Flags().Uint32VarP(&instance, "instance", "i", 0, "window to export, all windows are listed if not set")
	c.Flags().BoolVar(&decode, "decode", false, "print the game events of the history")
	return c
}

func dump(c *cobra.Command, fs afero.Fs, a *archive.Archive, instance uint32, out string, decode bool) error {
	meta, err := a.GetMeta(instance)
	if err != nil {
		return err
	}
	holes, err := a.Export(fs, out, instance)
	if err != nil {
		return err
	}
	w := c.OutOrStdout()
	for _, hole := range holes {
		fmt.Fprintf(w, "hole\t%d\t%d\n", hole.Start, hole.End)
	}
	if !decode {
		return nil
	}
	if meta.EntrySize != GameEventSize {
		return fmt.Errorf("window %d has entries of %d bytes, not game events", instance, meta.EntrySize)
	}
	h, err := a.History(instance)
	if err != nil {
		return err
	}
	padding, events, err := entry.Split[GameEvent](h.Data)
	if err != nil {
		return err
	}
	if len(padding) > 0 {
		fmt.Fprintf(w, "padding\t%d\n", len(padding))
	}
	for _, ev := range events {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\trank=%d\tcount=%d\n", ev.Seq, ev.Player, ev.Action, ev.Target, ev.Rank, ev.Count)
	}
	return nil
}
