package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calyptra/squadrun/internal/config/profiles"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "list the built-in squad profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range profiles.BuiltinNames() {
				profile, err := profiles.Load("", name)
				if err != nil {
					return err
				}

				roles := make([]string, 0, len(profile.Agents))
				for _, agent := range profile.Agents {
					roles = append(roles, agent.Type)
				}

				fmt.Println(styleName.Render(name) + " " +
					styleDim.Render(fmt.Sprintf("(%s; %d rounds, reflection every %d)",
						strings.Join(roles, ", "),
						profile.Workflow.Rounds,
						profile.Workflow.ReflectionFrequency)))
			}
			return nil
		},
	}
}
