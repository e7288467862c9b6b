package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/darwin256/comick-uploader/pkg/app"
	"github.com/darwin256/comick-uploader/pkg/comick"
	"github.com/darwin256/comick-uploader/pkg/config"
	"github.com/darwin256/comick-uploader/pkg/data"
	"github.com/darwin256/comick-uploader/pkg/scanner"
	"github.com/darwin256/comick-uploader/pkg/services"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [comic-slug]",
	Short: "Upload every chapter folder under a directory",
	Long:  "Scan a directory of chapter folders (\"12\", \"12.5\", \"12 - Title\") and upload them to the given comic, several chapters in parallel",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]
		cfg := loadConfig()

		dir := stringFlag(cmd, "dir", cfg.ChaptersDir)
		cookies := stringFlag(cmd, "cookies", cfg.CookiesFile)
		language := stringFlag(cmd, "language", cfg.Language)
		failedFile := stringFlag(cmd, "failed-file", cfg.FailedFile)
		threads := intFlag(cmd, "threads", cfg.Threads)
		timer := intFlag(cmd, "timer", cfg.Timer)
		volume, _ := cmd.Flags().GetString("volume")
		official, _ := cmd.Flags().GetBool("official")
		groupIDs, _ := cmd.Flags().GetStringSlice("group")
		noTUI, _ := cmd.Flags().GetBool("no-tui")

		if _, ok := comick.Languages[language]; !ok {
			cobra.CheckErr(fmt.Errorf("unsupported language code %q", language))
		}
		if timer < 0 || timer > 4 {
			cobra.CheckErr(fmt.Errorf("timer must be between 0 and 4 hours, got %d", timer))
		}
		if err := validateVolume(volume); err != nil {
			cobra.CheckErr(err)
		}
		if official && len(groupIDs) > 0 {
			cobra.CheckErr(fmt.Errorf("--official and --group are mutually exclusive"))
		}
		group := data.Unofficial()
		switch {
		case official:
			group = data.Official()
		case len(groupIDs) > 0:
			group = data.Named(groupIDs)
		}

		session, err := comick.NewSession(cookies)
		if err != nil {
			cobra.CheckErr(err)
		}
		client := comick.NewClient(session, cfg.APIBaseURL, cfg.UploadBaseURL)

		comic, err := client.GetComic(slug)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to validate comic %q: %w", slug, err))
		}
		fmt.Printf("✅ Comic found: %s\n", comic.Title)

		result, err := scanner.Scan(dir)
		if err != nil {
			cobra.CheckErr(err)
		}
		for _, skipped := range result.Skipped {
			fmt.Printf("⚠️  Chapter folder '%s' has no supported images, skipping\n", skipped)
		}
		fmt.Printf("📚 Found %d chapters in %s\n", len(result.Keys), dir)
		for _, key := range result.Keys {
			chapter := result.Chapters[key]
			if chapter.Title != "" {
				fmt.Printf("  - Chapter %s - %s (%d pages)\n", chapter.Number, chapter.Title, len(chapter.Pages))
			} else {
				fmt.Printf("  - Chapter %s (%d pages)\n", chapter.Number, len(chapter.Pages))
			}
		}

		uploader := services.NewUploader(client, services.Options{
			Slug:     slug,
			Language: language,
			Volume:   volume,
			Timer:    timer,
			Group:    group,
			Workers:  threads,
		})
		aggregator := services.NewResultAggregator()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		outcomesCh := make(chan []data.UploadOutcome, 1)
		go func() {
			outcomesCh <- uploader.Run(ctx, result.Chapters)
		}()

		if noTUI {
			printEvents(uploader.Events())
		} else {
			if err := app.Run(result.Keys, uploader.Events()); err != nil {
				cobra.CheckErr(err)
			}
			// ctrl+c quits the board before the run ends; stop the engine
			// and drain the remaining events so the workers can finish.
			cancel()
			for range uploader.Events() {
			}
		}

		outcomes := <-outcomesCh
		for _, outcome := range outcomes {
			aggregator.Record(outcome)
		}

		fmt.Printf("\n🎉 All operations complete: %s\n", aggregator.Summary())
		if skipped := aggregator.Skipped(); len(skipped) > 0 {
			fmt.Printf("🟡 %d chapters already existed on the site\n", len(skipped))
		}
		if failed := aggregator.Failed(); len(failed) > 0 {
			fmt.Printf("⚠️  %d chapters failed after all retries:\n", len(failed))
			for _, key := range failed {
				fmt.Printf("  - %s: %s\n", key, aggregator.FailureCause(key))
			}
			if err := aggregator.WriteFailed(failedFile); err != nil {
				fmt.Printf("⚠️  %v\n", err)
			} else {
				fmt.Printf("📝 Failed chapter list saved to %s\n", failedFile)
			}
		}

		recordJournal(cfg, result.Chapters, outcomes)
	},
}

// validateVolume accepts an empty value or a positive whole number.
func validateVolume(volume string) error {
	if volume == "" {
		return nil
	}
	if v, err := strconv.Atoi(volume); err != nil || v <= 0 {
		return fmt.Errorf("volume must be a positive whole number, got %q", volume)
	}
	return nil
}

// printEvents is the plain fallback when the TUI is disabled.
func printEvents(events <-chan services.ProgressEvent) {
	for event := range events {
		fmt.Printf("  %s: %s (%3.0f%%)\n", event.Key, event.Status, event.Progress*100)
	}
}

// recordJournal appends every outcome to the upload journal. Journal
// problems are reported but never change the run's accounting.
func recordJournal(cfg config.Config, chapters map[string]*data.Chapter, outcomes []data.UploadOutcome) {
	repo, err := data.NewRepository(cfg.JournalPath)
	if err != nil {
		fmt.Printf("⚠️  Could not open upload journal: %v\n", err)
		return
	}
	defer repo.Close()

	for _, outcome := range outcomes {
		if err := repo.RecordOutcome(chapters[outcome.Key], outcome); err != nil {
			fmt.Printf("⚠️  Could not record %s in journal: %v\n", outcome.Key, err)
		}
	}
}

func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) || fallback == "" {
		value, _ := cmd.Flags().GetString(name)
		return value
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		value, _ := cmd.Flags().GetInt(name)
		return value
	}
	return fallback
}

func init() {
	uploadCmd.Flags().StringP("dir", "d", "chapters", "directory holding the chapter folders")
	uploadCmd.Flags().StringP("language", "l", "en", "language code (e.g. en, fr, pt-br)")
	uploadCmd.Flags().String("volume", "", "volume number for this batch")
	uploadCmd.Flags().Int("timer", 0, "release delay in hours (0-4)")
	uploadCmd.Flags().IntP("threads", "t", 3, "parallel chapter uploads (1-10)")
	uploadCmd.Flags().Bool("official", false, "upload as the official release")
	uploadCmd.Flags().StringSlice("group", nil, "scanlation group ID (repeatable)")
	uploadCmd.Flags().String("cookies", "cookies.txt", "JSON cookie export for the login session")
	uploadCmd.Flags().String("failed-file", "failed.txt", "where to write the failed chapter list")
	uploadCmd.Flags().Bool("no-tui", false, "plain line output instead of the live board")
}
