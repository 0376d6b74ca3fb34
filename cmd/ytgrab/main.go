package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/r3labs/diff/v3"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elyasbromand/ytgrab"
	"github.com/elyasbromand/ytgrab/internal/backend"
	"github.com/elyasbromand/ytgrab/internal/config"
	"github.com/elyasbromand/ytgrab/internal/history"
	"github.com/elyasbromand/ytgrab/internal/session"
)

const lowSpaceThreshold = 1 << 30 // 1 GiB

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.RedirectStdLog(logger)
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err.Error())
	}

	app := &cli.App{
		Name:  "ytgrab",
		Usage: "fetch video/audio/subtitle content via yt-dlp",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Value:   cfg.DestDir,
				Usage:   "save downloaded files to `DIR`",
			},
			&cli.StringFlag{
				Name:    "quality",
				Aliases: []string{"q"},
				Value:   cfg.Quality,
				Usage:   "quality selector: best, 1080p, 720p, 480p, 360p, audio, subs",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Value:   cfg.Strategy,
				Usage:   "download strategy: standard, aggressive",
			},
			&cli.StringFlag{
				Name:  "items",
				Usage: "collection items to fetch: a range (1-10) or a list (1,3,5)",
			},
			&cli.BoolFlag{
				Name:  "archive",
				Usage: "skip items already recorded in the download archive",
			},
			&cli.BoolFlag{
				Name:  "single",
				Usage: "strip the list component and fetch only the single item",
			},
			&cli.BoolFlag{
				Name:  "probe-only",
				Usage: "print metadata without downloading",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log backend output and state changes",
			},
			&cli.StringFlag{
				Name:  "backend",
				Value: cfg.Backend,
				Usage: "extraction tool executable `NAME`",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one URL argument", 2)
			}
			return fetch(ctx, c, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "list recent runs recorded for a destination",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Value:   cfg.DestDir,
						Usage:   "destination `DIR` whose history to list",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "maximum number of entries",
					},
				},
				Action: func(c *cli.Context) error {
					return listHistory(c, cfg)
				},
			},
		},
		HideHelpCommand: true,
	}

	result := make(chan error, 1)
	go func() { result <- app.Run(os.Args) }()

	select {
	case err = <-result:
	case <-ctx.Done():
		stop()
		err = <-result
	}
	if err != nil {
		logger.Fatal(err.Error())
	}
}

func fetch(ctx context.Context, c *cli.Context, cfg config.Config) error {
	if c.Bool("verbose") {
		setLevel(zapcore.DebugLevel)
	}
	logger := zap.S()

	runner := backend.NewRunner(c.String("backend"))
	version, err := runner.Version(ctx)
	if err != nil {
		logger.Errorf("%v (install it with: pip install yt-dlp --upgrade)", err)
		return cli.Exit("backend not available", 1)
	}
	logger.Infof("yt-dlp version %s", version)

	target, err := ytgrab.Classify(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.Bool("single") && target.IsCollection() {
		target = target.WithoutList()
		logger.Infof("collection component stripped: %s", target.URL)
	}

	prober := backend.NewProber(runner)
	md := prober.Probe(ctx, target)
	printMetadata(logger, target, md)
	if c.Bool("probe-only") {
		return nil
	}

	destDir := c.String("target")
	checkFreeSpace(logger, destDir)

	quality, err := ytgrab.ParseQuality(c.String("quality"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	strategy, err := ytgrab.ParseStrategy(c.String("strategy"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	builder := ytgrab.NewPlanBuilder().
		WithTarget(target).
		WithQuality(quality).
		WithStrategy(strategy).
		WithDestination(destDir)
	if target.IsCollection() {
		selection, err := collectionSelection(c, cfg, destDir)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		builder = builder.WithSelection(selection)
	} else if c.String("items") != "" || c.Bool("archive") {
		logger.Warn("--items and --archive only apply to playlists, ignoring")
	}
	plan, err := builder.Build()
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	run := session.NewRun(plan, runner)
	events := run.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watchEvents(logger, events, c.Bool("verbose"))
	}()

	outcome := run.Execute(ctx)
	wg.Wait()

	recordHistory(logger, cfg, run.State(), md)

	logger.Infof("result: %s", outcome)
	if !outcome.OK() {
		return cli.Exit("download failed", 1)
	}
	return nil
}

// collectionSelection maps the CLI flags onto a CollectionSelection.
func collectionSelection(c *cli.Context, cfg config.Config, destDir string) (ytgrab.CollectionSelection, error) {
	if items := c.String("items"); items != "" {
		return ytgrab.ParseItems(items)
	}
	if c.Bool("archive") {
		return ytgrab.SelectSkipCompleted(filepath.Join(destDir, cfg.ArchiveFilename)), nil
	}
	return ytgrab.SelectAll(), nil
}

func watchEvents(logger *zap.SugaredLogger, events <-chan session.Event, verbose bool) {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	for event := range events {
		switch e := event.(type) {
		case session.RunStarted:
			logger.Infof("downloading %s", e.State.URL)
		case session.RunUpdated:
			_ = bar.Set(int(e.NewState.Progress))
			if verbose {
				changes, err := diff.Diff(e.OldState, e.NewState)
				if err != nil {
					logger.Errorf("failed to diff old and new run state: %v", err)
					continue
				}
				for _, change := range changes {
					logger.Debugf("%v: %#v -> %#v", change.Path, change.From, change.To)
				}
			}
		case session.RunLog:
			if verbose {
				logger.Debug(e.Line)
			}
		case session.RunFinished:
			_ = bar.Finish()
		}
	}
}

func printMetadata(logger *zap.SugaredLogger, target ytgrab.Target, md ytgrab.Metadata) {
	if md.IsPlaceholder() {
		logger.Warn("could not fetch metadata (download may still work)")
		return
	}
	logger.Infof("title: %s", md.Title)
	if target.IsCollection() {
		if md.ItemCount == ytgrab.ItemCountUnknown {
			logger.Info("items: unknown")
		} else {
			logger.Infof("items: %d", md.ItemCount)
		}
		return
	}
	logger.Infof("channel: %s", md.Uploader)
	logger.Infof("duration: %s", ytgrab.FormatDuration(md.Duration))
	logger.Infof("views: %s", ytgrab.FormatViews(md.Views))
}

func checkFreeSpace(logger *zap.SugaredLogger, destDir string) {
	usage, err := disk.Usage(destDir)
	if err != nil {
		logger.Debugf("could not check free space on %s: %v", destDir, err)
		return
	}
	if usage.Free < lowSpaceThreshold {
		logger.Warnf("low free space on %s: %.1f MB", destDir, float64(usage.Free)/(1<<20))
	}
}

func recordHistory(logger *zap.SugaredLogger, cfg config.Config, state session.RunState, md ytgrab.Metadata) {
	store, err := history.Open(filepath.Join(state.DestDir, cfg.HistoryFilename))
	if err != nil {
		logger.Warnf("could not open history store: %v", err)
		return
	}
	defer store.Close()
	title := md.Title
	if md.IsPlaceholder() {
		title = ""
	}
	entry := history.Entry{
		ID:         string(state.ID),
		URL:        state.URL,
		Title:      title,
		DestDir:    state.DestDir,
		Status:     string(state.Status),
		ExitCode:   state.ExitCode,
		FinishedAt: time.Now(),
	}
	if err := store.Record(entry); err != nil {
		logger.Warnf("could not record run history: %v", err)
	}
}

func listHistory(c *cli.Context, cfg config.Config) error {
	store, err := history.Open(filepath.Join(c.String("target"), cfg.HistoryFilename))
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not open history store: %v", err), 1)
	}
	defer store.Close()
	entries, err := store.Recent(c.Int("limit"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if len(entries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.URL
		}
		fmt.Printf("%s  %-20s  %s\n", e.FinishedAt.Local().Format("2006-01-02 15:04"), e.Status, title)
	}
	return nil
}

func setLevel(level zapcore.Level) {
	// The global logger was built from a development config; rebuilding with
	// a lower level keeps RedirectStdLog and ReplaceGlobals wiring intact.
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	if logger, err := zapConfig.Build(); err == nil {
		zap.RedirectStdLog(logger)
		zap.ReplaceGlobals(logger)
	}
}
