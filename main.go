// Package main provides the entry point for the sayline CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/sayline/internal/audio"
	"github.com/dgnsrekt/sayline/internal/cache"
	"github.com/dgnsrekt/sayline/internal/queue"
	"github.com/dgnsrekt/sayline/internal/speaker"
	"github.com/dgnsrekt/sayline/tts"
	"github.com/dgnsrekt/sayline/tts/engines"
	"github.com/dgnsrekt/sayline/utils"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	// demoLines is what sayline speaks when given nothing else.
	demoLines = []string{
		"Hello, this is a live speaking text printer.",
		"This tool prints and speaks text continuously.",
		"You can pass your own lines with the text flag, or pipe them in.",
		"Thanks for trying the demo!",
	}

	configFile string
	engineName string
	voice      string
	rateWPM    int
	volume     float64
	continuous bool
	outputPath string
	followPath string
	textItems  []string
	interval   string
	noCache    bool
	quiet      bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "sayline [TEXT...]",
		Short: "Print lines of text and speak them aloud",
		Long: paragraph(fmt.Sprintf(
			"\n%s lines of text and %s them with a local, offline TTS engine. Lines come from arguments, repeated --text flags, stdin, or a followed file.",
			keyword("Print"), keyword("speak"))),
		Example: paragraph("sayline --text 'hello' --text 'world'\ntail -f app.log | sayline --continuous\nsayline --output out.wav 'hello'"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// validateOptions pulls config values from Viper and checks them before
// any engine or audio device is touched.
func validateOptions(cmd *cobra.Command) error {
	engineName = viper.GetString("engine")
	voice = viper.GetString("voice")
	rateWPM = viper.GetInt("rate")
	volume = viper.GetFloat64("volume")
	noCache = !viper.GetBool("cache_enabled")
	if cmd.Flags().Changed("no-cache") {
		noCache, _ = cmd.Flags().GetBool("no-cache")
	}

	if _, err := tts.ValidateEngineSelection(engineName); err != nil {
		return err
	}

	if outputPath != "" {
		outputPath = utils.ExpandPath(outputPath)
		if !utils.IsWAVPath(outputPath) {
			return fmt.Errorf("%w: %q (only .wav is supported)", tts.ErrInvalidOutput, filepath.Ext(outputPath))
		}
		if dir := filepath.Dir(outputPath); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("output directory not accessible: %w", err)
			}
		}
	}

	if followPath != "" && !continuous {
		return errors.New("--follow requires --continuous")
	}
	if followPath != "" {
		followPath = utils.ExpandPath(followPath)
		if _, err := os.Stat(followPath); err != nil {
			return fmt.Errorf("follow target not accessible: %w", err)
		}
	}

	if _, err := parseInterval(); err != nil {
		return err
	}

	return nil
}

// buildTTSConfig assembles the engine configuration from viper, env, and
// flags. Flags win over env, env wins over the config file.
func buildTTSConfig() (tts.Config, error) {
	cfg := tts.DefaultConfig()

	// Engine-specific sections come from the YAML config file via viper.
	cfg.Espeak.Binary = viper.GetString("espeak.binary")
	if v := viper.GetString("espeak.voice"); v != "" {
		cfg.Espeak.Voice = v
	}
	if d := viper.GetDuration("espeak.timeout"); d > 0 {
		cfg.Espeak.Timeout = d
	}
	if b := viper.GetString("piper.binary"); b != "" {
		cfg.Piper.Binary = b
	}
	cfg.Piper.ModelPath = utils.ExpandPath(viper.GetString("piper.model_path"))
	cfg.Piper.ConfigPath = utils.ExpandPath(viper.GetString("piper.config_path"))
	if sr := viper.GetInt("piper.sample_rate"); sr > 0 {
		cfg.Piper.SampleRate = sr
	}
	if d := viper.GetDuration("piper.timeout"); d > 0 {
		cfg.Piper.Timeout = d
	}

	// Environment overrides (SAYLINE_TTS_*).
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	// CLI flags override everything.
	cfg.Engine = engineName
	cfg.Voice = voice
	cfg.Rate = rateWPM
	cfg.Volume = volume
	cfg.CacheEnabled = !noCache
	if dir := viper.GetString("cache_dir"); dir != "" {
		cfg.CacheDir = utils.ExpandPath(dir)
	}
	if mb := viper.GetInt("cache_max_mb"); mb > 0 {
		cfg.CacheMaxMB = mb
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseInterval() (interval time.Duration, err error) {
	raw := viper.GetString("interval")
	if raw == "" {
		return 0, nil
	}
	interval, err = time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --interval: %w", err)
	}
	if interval < 0 {
		return 0, errors.New("invalid --interval: must not be negative")
	}
	return interval, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// gatherItems resolves the one-shot input list: --text flags first, then
// positional arguments, in the order given.
func gatherItems(args []string) []string {
	items := make([]string, 0, len(textItems)+len(args))
	for _, t := range textItems {
		if strings.TrimSpace(t) != "" {
			items = append(items, t)
		}
	}
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			items = append(items, a)
		}
	}
	return items
}

func execute(cmd *cobra.Command, args []string) error {
	ttsCfg, err := buildTTSConfig()
	if err != nil {
		return err
	}

	interval, err := parseInterval()
	if err != nil {
		return err
	}

	engine, err := engines.New(ttsCfg)
	if err != nil {
		return err
	}

	var diskCache *cache.DiskCache
	if ttsCfg.CacheEnabled && outputPath == "" {
		dir := ttsCfg.CacheDir
		if dir == "" {
			scope := gap.NewScope(gap.User, "sayline")
			if cacheDir, err := scope.CacheDir(); err == nil {
				dir = filepath.Join(cacheDir, "audio")
			}
		}
		if dir != "" {
			diskCache, err = cache.New(dir, int64(ttsCfg.CacheMaxMB)*1024*1024)
			if err != nil {
				log.Warn("audio cache disabled", "error", err)
				diskCache = nil
			}
		}
	}
	if diskCache != nil {
		defer diskCache.Close() //nolint:errcheck
	}

	player := audio.NewOtoPlayer()
	defer player.Close() //nolint:errcheck

	lifecycle := speaker.NewLifecycle(context.Background())
	defer lifecycle.Shutdown()

	q := queue.New(64)
	worker := speaker.NewWorker(engine, player, diskCache, q, speaker.Config{
		Engine:     ttsCfg.EngineSettings(),
		OutputPath: outputPath,
		Interval:   interval,
		Echo:       !quiet,
		Out:        os.Stdout,
		Style:      lineStyle(),
	})

	// Wire the item source. The worker always runs in its own goroutine;
	// the main goroutine only feeds it and waits.
	ctx := lifecycle.Context()
	piped, err := stdinIsPipe()
	if err != nil {
		return err
	}

	switch {
	case continuous && followPath != "":
		go func() {
			if err := speaker.FeedFile(ctx, q, followPath); err != nil {
				log.Error("follow source failed", "error", err)
			}
		}()
	case continuous:
		go func() {
			if err := speaker.FeedReader(ctx, q, os.Stdin); err != nil {
				log.Error("stdin source failed", "error", err)
			}
		}()
	case piped && len(gatherItems(args)) == 0:
		go func() {
			if err := speaker.FeedReader(ctx, q, os.Stdin); err != nil {
				log.Error("stdin source failed", "error", err)
			}
		}()
	default:
		items := gatherItems(args)
		if len(items) == 0 {
			items = demoLines
		}
		go speaker.FeedSlice(q, items)
	}

	if err := worker.Run(ctx); err != nil {
		return err
	}

	stats := worker.Stats()
	log.Debug("run complete", "spoken", stats.Spoken, "saved", stats.Saved, "skipped", stats.Skipped)
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "espeak", "TTS engine (espeak, piper, mock)")
	rootCmd.Flags().StringVar(&voice, "voice", "", "voice identifier, engine-specific")
	rootCmd.Flags().IntVarP(&rateWPM, "rate", "r", 175, "speech rate in words per minute")
	rootCmd.Flags().Float64VarP(&volume, "volume", "v", 1.0, "volume level (0.0 to 1.0)")
	rootCmd.Flags().BoolVarP(&continuous, "continuous", "c", false, "keep consuming lines until interrupted")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "render audio to a WAV file instead of playing it")
	rootCmd.Flags().StringVarP(&followPath, "follow", "f", "", "follow a file for appended lines (requires --continuous)")
	rootCmd.Flags().StringArrayVarP(&textItems, "text", "t", nil, "a line to speak; repeatable")
	rootCmd.Flags().StringVarP(&interval, "interval", "i", "500ms", "pause between items")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the synthesized audio cache")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print items before speaking them")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("interval", rootCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))

	viper.SetDefault("engine", "espeak")
	viper.SetDefault("rate", 175)
	viper.SetDefault("volume", 1.0)
	viper.SetDefault("interval", "500ms")
	viper.SetDefault("cache_enabled", true)
	viper.SetDefault("cache_max_mb", 100)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "sayline")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "sayline")}, dirs...)
	}

	if c := os.Getenv("SAYLINE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("sayline")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("sayline")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "sayline.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
