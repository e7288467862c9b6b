package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darwin256/comick-uploader/pkg/data"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent upload outcomes from the journal",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		cfg := loadConfig()

		repo, err := data.NewRepository(cfg.JournalPath)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to open journal: %w", err))
		}
		defer repo.Close()

		records, err := repo.History(limit)
		if err != nil {
			cobra.CheckErr(err)
		}
		if len(records) == 0 {
			fmt.Println("No uploads recorded yet.")
			return
		}

		for _, rec := range records {
			line := fmt.Sprintf("%s  %-20s %-10s", rec.UploadedAt.Format("2006-01-02 15:04"), rec.ChapterKey, rec.Outcome)
			if rec.Error != "" {
				line += "  " + rec.Error
			}
			fmt.Println(line)
		}
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum rows to show")
}
