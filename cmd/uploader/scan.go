package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darwin256/comick-uploader/pkg/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Dry run: list the chapters a directory would upload",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := loadConfig().ChaptersDir
		if len(args) == 1 {
			dir = args[0]
		}

		result, err := scanner.Scan(dir)
		if err != nil {
			cobra.CheckErr(err)
		}

		for _, skipped := range result.Skipped {
			fmt.Printf("⚠️  '%s' has no supported images, would be skipped\n", skipped)
		}
		fmt.Printf("📚 %d chapters in %s:\n", len(result.Keys), dir)
		for _, key := range result.Keys {
			chapter := result.Chapters[key]
			title := ""
			if chapter.Title != "" {
				title = " - " + chapter.Title
			}
			fmt.Printf("  %-20s number=%s%s pages=%d\n", key, chapter.Number, title, len(chapter.Pages))
		}
	},
}
