package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darwin256/comick-uploader/pkg/comick"
)

var groupsCmd = &cobra.Command{
	Use:   "groups [query]",
	Short: "Search scanlation groups to find IDs for --group",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		cfg := loadConfig()

		client := comick.NewClient(nil, cfg.APIBaseURL, cfg.UploadBaseURL)
		groups, err := client.SearchGroups(query)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("group search failed: %w", err))
		}
		if len(groups) == 0 {
			fmt.Println("❌ No groups found.")
			return
		}

		fmt.Printf("🔍 %d groups matching '%s':\n", len(groups), query)
		for _, group := range groups {
			fmt.Printf("  %-40s %s\n", group.Name, group.ID)
		}
	},
}
