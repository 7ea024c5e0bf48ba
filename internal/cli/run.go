package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/calyptra/squadrun/internal/budget"
	"github.com/calyptra/squadrun/internal/config/profiles"
	"github.com/calyptra/squadrun/internal/orchestrator"
	"github.com/calyptra/squadrun/internal/providers"
	"github.com/calyptra/squadrun/internal/recovery"
	"github.com/calyptra/squadrun/internal/squad"
	"github.com/calyptra/squadrun/internal/telemetry"
	"github.com/calyptra/squadrun/internal/workspace"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a squad session against the project",
		RunE:  runSession,
	}

	runCmd.Flags().StringP("profile", "p", "mvp-team", "squad profile to run")
	runCmd.Flags().Int("rounds", 0, "override the profile's round count")
	runCmd.Flags().String("model", "", "override the configured model")
	runCmd.Flags().Bool("no-reflect", false, "skip reflection phases")

	return runCmd
}

func runSession(cmd *cobra.Command, args []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	projectDir, _ := cmd.Flags().GetString("project")
	profileName, _ := cmd.Flags().GetString("profile")
	roundsOverride, _ := cmd.Flags().GetInt("rounds")
	modelOverride, _ := cmd.Flags().GetString("model")
	noReflect, _ := cmd.Flags().GetBool("no-reflect")

	project, err := workspace.Open(projectDir)
	if err != nil {
		fmt.Println(styledError(err.Error(), "scaffold a project with: squadrun init"))
		return err
	}

	if err := profiles.EnsureDefault(app.Config.ProfileDir); err != nil {
		slog.Warn("default profiles not written", "dir", app.Config.ProfileDir, "error", err)
	}

	profile, err := profiles.Load(app.Config.ProfileDir, profileName)
	if err != nil {
		return err
	}

	rounds := profile.Workflow.Rounds
	if roundsOverride > 0 {
		rounds = roundsOverride
	}

	model := app.Config.LLM.Model
	if modelOverride != "" {
		model = modelOverride
	}

	provider := providers.FromConfig(app.Config.LLM)
	usage := budget.NewUsageTracker(model)

	progress := telemetry.NewSessionProgress()
	dispatcher := telemetry.NewDispatcher(0, telemetry.NewConsoleSink(os.Stdout), progress)
	defer dispatcher.Close()

	roster, err := squad.BuildRoster(profile, provider, model, nil, usage)
	if err != nil {
		return err
	}

	policy := recovery.NewPolicy(app.Config.Retry.MaxRetries, time.Duration(app.Config.Retry.BaseDelaySeconds)*time.Second)
	policy.OnAttempt = func(attempt int, class recovery.Classification, delay time.Duration, err error) {
		if delay > 0 {
			slog.Warn("dispatch attempt failed, retrying",
				"attempt", attempt+1, "class", class, "retry_in", delay, "error", err)
		}
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Group:               squad.NewRoundRobinGroup(roster, dispatcher),
		Project:             project,
		Budget:              budget.NewManager(app.Config.Budget.ContextCeiling),
		Policy:              policy,
		Emitter:             dispatcher,
		Usage:               usage,
		TotalRounds:         rounds,
		ReflectionFrequency: profile.Workflow.ReflectionFrequency,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styleHeading.Render("squad session") + " " +
		styleName.Render(profile.Name) + " " +
		styleDim.Render(fmt.Sprintf("(%d rounds, model %s)", rounds, model)))

	var runErr error
	for round := 1; round <= rounds; round++ {
		if _, err := orch.RunRound(ctx, round, !noReflect); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println(styleWarning.Render("session cancelled"))
				break
			}

			var fatal *recovery.FatalError
			if errors.As(err, &fatal) {
				fmt.Println(styledError("session stopped: "+fatal.Remediation, fatal.Err.Error()))
			}
			runErr = err
			break
		}
	}

	// Flush buffered events before the summary so output stays ordered.
	dispatcher.Close()
	printSessionReport(orch.FinalSummary())

	return runErr
}

func printSessionReport(report orchestrator.SessionReport) {
	fmt.Println()
	fmt.Println(styleHeading.Render("session " + string(report.SessionID)))
	fmt.Printf("  rounds completed: %d\n", report.RoundsCompleted)
	fmt.Printf("  messages: %d\n", report.Messages)

	if report.Usage.CallsMade > 0 {
		fmt.Printf("  tokens: %d over %d calls %s\n",
			report.Usage.TotalTokens,
			report.Usage.CallsMade,
			styleDim.Render(fmt.Sprintf("(est. $%.4f, %s)", report.Usage.EstimatedCostUSD, report.Usage.Model)))
	}

	if len(report.Files) == 0 {
		fmt.Println("  workspace: " + styleDim.Render("empty"))
		return
	}

	fmt.Printf("  workspace: %d files\n", len(report.Files))
	for _, file := range report.Files {
		fmt.Println("    " + styleSuccess.Render(file))
	}
}
