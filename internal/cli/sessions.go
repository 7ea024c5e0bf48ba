package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calyptra/squadrun/internal/workspace"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "list the sessions logged for the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, _ := cmd.Flags().GetString("project")

			sessions, err := workspace.ListSessions(projectDir)
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Println(styleDim.Render("no sessions logged yet"))
				return nil
			}

			for _, session := range sessions {
				fmt.Println(styleName.Render(session))
			}
			return nil
		},
	}
}
