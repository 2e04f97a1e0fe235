package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/storage"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a user's dreams, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.validateFormat(); err != nil {
				return err
			}
			if username == "" {
				return fmt.Errorf("--user is required")
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			s, err := storage.OpenDreamStore(cmd.Context(), cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			dreams, err := s.ListDreams(cmd.Context(), username)
			if err != nil {
				return err
			}

			entries := make([]models.DreamEntry, 0, len(dreams))
			for i := range dreams {
				entries = append(entries, dreams[i].Entry())
			}

			if root.format == "json" {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(w, "No dreams logged by %s.\n", username)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "#%d  %s  [%s]\n  %s\n\n", e.ID, e.CreatedAt, e.Mood, e.DreamText)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "Username whose journal to list")
	return cmd
}
