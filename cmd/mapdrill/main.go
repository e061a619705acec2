// Command mapdrill is a terminal front end for the drill library: answer
// prompts by typing the item name.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/mapdrill/internal/catalog"
	"github.com/conorfennell/mapdrill/internal/challenge"
	"github.com/conorfennell/mapdrill/internal/config"
	"github.com/conorfennell/mapdrill/internal/session"
	"github.com/conorfennell/mapdrill/internal/storage"
)

func main() {
	def := config.Default()
	flags := pflag.NewFlagSet("mapdrill", pflag.ExitOnError)
	configFile := flags.String("config", "", "Path to a yaml config file")
	flags.String("db", def.DB, "Path to the sqlite database file")
	flags.String("catalog.file", "", "Path to a yaml catalog of items")
	flags.String("catalog.git.url", "", "Git URL of a data repo holding the catalog")
	flags.Duration("delay", def.Delay, "Pause before the next prompt")
	daily := flags.Bool("daily", false, "Play today's daily challenge instead of drilling")
	reset := flags.Bool("reset", false, "Clear all scheduling state and exit")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DB)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *reset {
		if err := db.Reset(); err != nil {
			slog.Error("failed to reset", "error", err)
			os.Exit(1)
		}
		fmt.Println("All scheduling state cleared.")
		return
	}

	items, err := resolveCatalog(cfg)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog loaded", "items", len(items))

	if *daily {
		if err := runDaily(db, items); err != nil {
			slog.Error("daily challenge failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runDrill(db, items, cfg); err != nil {
		slog.Error("drill session failed", "error", err)
		os.Exit(1)
	}
}

func resolveCatalog(cfg config.Config) ([]string, error) {
	var provider catalog.Provider
	if cfg.Catalog.File != "" {
		provider = catalog.FileProvider{Path: cfg.Catalog.File}
	} else {
		provider = catalog.GitProvider{
			URL:       cfg.Catalog.Git.URL,
			LocalPath: cfg.Catalog.Git.Path,
			ItemsFile: cfg.Catalog.Git.Items,
		}
	}
	return provider.ListItems()
}

func runDrill(db *storage.DB, items []string, cfg config.Config) error {
	deviceID, err := db.DeviceID()
	if err != nil {
		return err
	}

	sessCfg := session.Config{
		Cards:        db,
		Catalog:      items,
		DeviceID:     deviceID,
		AdvanceDelay: cfg.Delay,
		OnPrompt: func(p session.Prompt) {
			fmt.Printf("\nWhere is %s?\n> ", p.ItemID)
		},
	}
	if cfg.Telemetry {
		sessCfg.Events = db
	}
	ctrl, err := session.New(sessCfg)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if _, err := ctrl.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		if answer == "quit" {
			break
		}
		out, err := ctrl.Answer(answer, 0)
		switch {
		case errors.Is(err, session.ErrNoActivePrompt):
			continue // answer arrived during the inter-prompt pause
		case err != nil:
			return err
		}
		fmt.Println(out.Message)
		if out.LevelUp {
			fmt.Println("Level up!")
		}
	}

	progress, err := ctrl.Progress()
	if err != nil {
		return err
	}
	fmt.Printf("\nProgress: %d due, %d scheduled, %d never seen of %d items.\n",
		progress.Due, progress.NotDue, progress.NeverLearned, progress.Total)
	return scanner.Err()
}

func runDaily(db *storage.DB, items []string) error {
	mgr := challenge.NewManager(db, items, nil)
	run, err := mgr.StartRun()
	if errors.Is(err, challenge.ErrAlreadyCompleted) {
		fmt.Println("Today's challenge is already completed. Come back tomorrow!")
		return nil
	}
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		slot := run.Current()
		fmt.Printf("\n[%d/%d] Find %s (difficulty %d)\n> ",
			run.Index()+1, challenge.SlotCount, slot.ItemID, slot.DifficultyLevel)
		start := time.Now()
		if !scanner.Scan() {
			return scanner.Err()
		}
		elapsed := time.Since(start).Milliseconds()
		answer := strings.TrimSpace(scanner.Text())

		done, err := run.RecordResult(answer == slot.ItemID, elapsed)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	fmt.Printf("\nFinal score: %d (total time %.1fs)\n",
		run.TotalScore(), float64(run.TotalTimeMs())/1000)
	return nil
}
