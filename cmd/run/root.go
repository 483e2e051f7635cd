package run

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ValentinKolb/dSync/cmd/util"
	"github.com/ValentinKolb/dSync/lib/recipes"
	"github.com/ValentinKolb/dSync/lib/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	w *worker.Worker

	// RunCommands represents the command group running programs with the sync recipes
	RunCommands = &cobra.Command{
		Use:   "run",
		Short: "Run a command once for all workers",
		Long: `Run a command with one of the sync recipes.

The command is identified by --name (default: the command line). Its result
is shared through the coordinator: if it failed in another worker, the run
fails here as well without running the command again.`,
		PersistentPreRunE: setupRunClient,
		PersistentPostRun: func(*cobra.Command, []string) { util.FinishWorker(w) },
	}

	setupOnceCmd = &cobra.Command{
		Use:   "setup-once -- [command] [args...]",
		Short: "Run the command once per position (--position) across all workers",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRecipes(func(ctx context.Context, r *recipes.Recipes, name string, env worker.Env) error {
			return r.RunSetupOnce(ctx, name, nil, env.Position)
		}),
	}

	onlyOnceCmd = &cobra.Command{
		Use:   "only-once -- [command] [args...]",
		Short: "Run the command once across all workers",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRecipes(func(ctx context.Context, r *recipes.Recipes, name string, _ worker.Env) error {
			return r.RunOnlyOnce(ctx, name, nil)
		}),
	}

	teardownOnceCmd = &cobra.Command{
		Use:   "teardown-once -- [command] [args...]",
		Short: "Run the command once after every worker passed --last-level",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRecipes(func(ctx context.Context, r *recipes.Recipes, name string, env worker.Env) error {
			return r.RunTeardownOnce(ctx, name, nil, env.Position, env.LastLevel, queueIndex(env))
		}),
	}

	lastProcessCmd = &cobra.Command{
		Use:   "last-process -- [command] [args...]",
		Short: "Run the command in the last worker after all others finished",
		Args:  cobra.MinimumNArgs(1),
		RunE: withRecipes(func(ctx context.Context, r *recipes.Recipes, name string, env worker.Env) error {
			return r.RunOnLastProcess(ctx, name, nil, env.IsLast, queueIndex(env))
		}),
	}
)

func init() {
	cobra.OnInitialize(util.InitClientConfig)

	RunCommands.AddCommand(setupOnceCmd, onlyOnceCmd, teardownOnceCmd, lastProcessCmd)
	util.SetupWorkerCommand(RunCommands)

	RunCommands.PersistentFlags().String("name", "", util.WrapString("Name identifying the command across workers (default: the command line)"))
}

func setupRunClient(cmd *cobra.Command, _ []string) (err error) {
	w, err = util.PrepareWorker(cmd)
	return err
}

// withRecipes runs fn with recipes that execute argv for the keyword name
func withRecipes(fn func(ctx context.Context, r *recipes.Recipes, name string, env worker.Env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, argv []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		name := viper.GetString("name")
		if name == "" {
			name = strings.Join(argv, " ")
		}

		// the keyword name identifies the command, argv is what runs
		exec := recipes.NewExecRunner()
		runner := recipes.FuncRunner{
			name: func(ctx context.Context, _ ...string) error {
				return exec.RunKeyword(ctx, argv[0], argv[1:]...)
			},
		}
		return fn(ctx, recipes.New(w, runner), name, w.Env())
	}
}

func queueIndex(env worker.Env) int {
	if env.QueueIndex == nil {
		return 0
	}
	return *env.QueueIndex
}
