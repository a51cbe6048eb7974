package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"leansim/internal/app"
	"leansim/internal/cli"
	"leansim/internal/config"
	"leansim/internal/db"
	"leansim/internal/domain"
	"leansim/internal/engine"
	"leansim/internal/migrate"
	"leansim/internal/repo"
)

var rootCmd = &cobra.Command{
	Use:   "leansim",
	Short: "Leansim CLI",
	Long: `Leansim estimates project duration and value-adding share under uncertain delays.
Core concepts:
- Project definition: a YAML task list with dependencies; importable into the workspace or passed with --file.
- Value-added task: its full duration counts as productive and is never delayed.
- Delay factor / probability: optional extra random duration on non-value-adding tasks.
- Lean improvement: a scenario factor in [0,1] that scales delays down (1 eliminates them).
- simulate: one randomized run with the detailed schedule.
- montecarlo: many independent runs aggregated into mean/min/max statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("LEANSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local-user", "actor identifier")
	rootCmd.PersistentFlags().String("project", "", "stored project id")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
}

func registerCommands() {
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(montecarloCmd())
	rootCmd.AddCommand(projectCmd())
	rootCmd.AddCommand(logCmd())
}

func simulateCmd() *cobra.Command {
	var file string
	var improvement string
	var seed int64
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one randomized schedule computation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), file, func(def *config.Project) error {
				e := engine.New(def)
				schedule, res, err := e.SimulateProject(cli.ParseLeanImprovement(improvement), seed)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"schedule": schedule, "result": res})
				}
				printSchedule(schedule)
				fmt.Println()
				fmt.Println("Project summary:")
				fmt.Printf("Total project duration: %.2f days\n", res.TotalDuration)
				fmt.Printf("Total value-added time: %.2f days\n", res.TotalValueAdded)
				fmt.Printf("Efficiency (value-added / total duration): %.2f%%\n", res.Efficiency)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "project definition file (bypasses the workspace store)")
	cmd.Flags().StringVar(&improvement, "lean-improvement", "0", "lean improvement factor in [0,1]; invalid values clamp to 0")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	return cmd
}

func montecarloCmd() *cobra.Command {
	var file string
	var simulations string
	var improvement string
	var seed int64
	var workers int
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Aggregate many randomized runs into summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd.Context(), file, func(def *config.Project) error {
				e := engine.New(def)
				e.Workers = workers
				n := cli.ParseSimulations(simulations)
				stats, err := e.RunMonteCarlo(n, cli.ParseLeanImprovement(improvement), seed)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(stats)
				}
				fmt.Println("Monte Carlo simulation")
				fmt.Printf("Simulations: %d\n", stats.Simulations)
				fmt.Printf("Mean project duration: %.2f days\n", stats.MeanDuration)
				fmt.Printf("Mean value-added time: %.2f days\n", stats.MeanValueAdded)
				fmt.Printf("Efficiency (value-added / total duration): %.2f%%\n", stats.Efficiency)
				fmt.Printf("Minimum duration: %.2f days\n", stats.MinDuration)
				fmt.Printf("Maximum duration: %.2f days\n", stats.MaxDuration)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "project definition file (bypasses the workspace store)")
	cmd.Flags().StringVar(&simulations, "simulations", "", fmt.Sprintf("number of simulations (default %d on parse failure)", cli.DefaultSimulations))
	cmd.Flags().StringVar(&improvement, "lean-improvement", "0", "lean improvement factor in [0,1]; invalid values clamp to 0")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = serial)")
	return cmd
}

func projectCmd() *cobra.Command {
	prj := &cobra.Command{
		Use:   "project",
		Short: "Manage stored project definitions",
		Long:  "Project definitions live in the workspace database. Only definitions are stored; simulation results are recomputed on demand.",
	}
	prj.AddCommand(projectImportCmd())
	prj.AddCommand(projectListCmd())
	prj.AddCommand(projectShowCmd())
	prj.AddCommand(projectDeleteCmd())
	prj.AddCommand(projectInitCmd())
	return prj
}

func projectImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a project definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				def, err := config.FromFile(file)
				if err != nil {
					return err
				}
				p, err := r.ImportProject(ctx, def, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(p)
				}
				fmt.Printf("Imported project %s (%s) with %d tasks\n", p.ID, p.Name, p.TaskCount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "project definition file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func projectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListProjects(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Tasks", "Created"})
				for _, p := range items {
					tw.AppendRow(table.Row{p.ID, p.Name, p.TaskCount, p.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a stored project definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				def, err := r.GetProjectDefinition(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(def)
				}
				fmt.Printf("Project: %s (%s)\n", def.Project.Name, def.Project.ID)
				if def.Project.Description != "" {
					fmt.Println(def.Project.Description)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Task", "Base (days)", "Value-added", "Delay factor", "Delay prob.", "Depends on"})
				for _, t := range def.Tasks {
					tw.AppendRow(table.Row{t.ID, t.BaseDuration, yesNo(t.ValueAdded), t.DelayFactor, t.DelayProbability, strings.Join(t.DependsOn, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func projectDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a stored project definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				if err := r.DeleteProject(ctx, args[0], viper.GetString("actor-id")); err != nil {
					return err
				}
				fmt.Printf("Deleted project %s\n", args[0])
				return nil
			})
		},
	}
}

func projectInitCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the reference project definition to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.WriteFile(out, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote reference project definition to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "leansim.yml", "output path")
	return cmd
}

func logCmd() *cobra.Command {
	log := &cobra.Command{Use: "log", Short: "Inspect the workspace event log"}
	log.AddCommand(logTailCmd())
	return log
}

func logTailCmd() *cobra.Command {
	var n int
	var f repo.EventFilters
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				events, err := r.ListEvents(ctx, f, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(events)
				}
				for _, e := range events {
					fmt.Printf("%s %s %s/%s %s %s\n", e.TS, e.Type, e.EntityKind, e.EntityID, e.ActorID, e.Payload)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&f.Type, "type", "", "event type filter")
	cmd.Flags().StringVar(&f.EntityKind, "entity-kind", "", "entity kind")
	cmd.Flags().StringVar(&f.EntityID, "entity-id", "", "entity id")
	return cmd
}

// --- helpers ---

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

// withProject resolves the project definition for a simulation command. A
// --file definition never touches the database.
func withProject(ctx context.Context, file string, fn func(*config.Project) error) error {
	if file != "" {
		def, err := config.FromFile(file)
		if err != nil {
			return err
		}
		return fn(def)
	}
	return withRepo(ctx, func(ctx context.Context, r repo.Repo) error {
		def, err := app.ResolveProject(ctx, "", viper.GetString("project"), r)
		if err != nil {
			return err
		}
		return fn(def)
	})
}

func printSchedule(schedule domain.Schedule) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Task", "Start (days)", "Finish (days)", "Real duration", "Base duration", "Value-added"})
	for _, e := range schedule {
		tw.AppendRow(table.Row{
			e.TaskID,
			fmt.Sprintf("%.2f", e.Start),
			fmt.Sprintf("%.2f", e.Finish),
			fmt.Sprintf("%.2f", e.RealizedDuration),
			fmt.Sprintf("%.2f", e.BaseDuration),
			yesNo(e.ValueAdded),
		})
	}
	tw.Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
