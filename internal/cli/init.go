package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calyptra/squadrun/internal/workspace"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [prompt]",
		Short: "scaffold a project directory for a squad",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, _ := cmd.Flags().GetString("project")
			prompt := strings.TrimSpace(strings.Join(args, " "))

			if err := workspace.Create(projectDir, prompt); err != nil {
				return err
			}

			fmt.Println(styleSuccess.Render("project scaffolded") + " " + styleDim.Render(projectDir))
			if prompt == "" {
				fmt.Println(styleDim.Render("edit prompt.txt before running a session"))
			}
			return nil
		},
	}

	return initCmd
}
