package main

import (
	"encoding/json"
	"fmt"

	"gochance/adapters/tables"
	"gochance/app"
	"gochance/domain/weighted"
	"gochance/internal"
	"gochance/internal/config"
	"gochance/internal/errors"
	"gochance/internal/sampler"

	"github.com/spf13/cobra"
)

// seedFlags holds the seeding flags shared by draw and simulate
type seedFlags struct {
	seed       int64
	seedString string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Numeric seed for a reproducible sequence")
	cmd.Flags().StringVar(&f.seedString, "seed-string", "", "String seed, hashed with 64-bit FNV-1a")
}

// build picks the seed: --seed-string, then --seed, then SAMPLER_SEED_STRING,
// then SAMPLER_SEED, then process entropy.
func (f *seedFlags) build(cmd *cobra.Command, env *cliEnv) *sampler.Sampler {
	cfg := env.cfg
	opts := []sampler.Option{sampler.WithEpsilon(cfg.Sampler.Epsilon), sampler.WithLogger(env.logger)}
	switch {
	case f.seedString != "":
		return sampler.NewFromString(f.seedString, opts...)
	case cmd.Flags().Changed("seed"):
		return sampler.NewSeeded(f.seed, opts...)
	case cfg.Sampler.SeedString != "":
		return sampler.NewFromString(cfg.Sampler.SeedString, opts...)
	case cfg.Sampler.HasSeed:
		return sampler.NewSeeded(cfg.Sampler.Seed, opts...)
	default:
		return sampler.New(opts...)
	}
}

// cliEnv holds what the table commands share. It is filled in by their
// PreRunE, so help, usage and completion never read the environment.
type cliEnv struct {
	load func() (*config.Config, error)

	cfg    *config.Config
	logger *internal.Logger
	loader *tables.Loader
}

func (env *cliEnv) setup(cmd *cobra.Command, args []string) error {
	cfg, err := env.load()
	if err != nil {
		return err
	}
	env.cfg = cfg
	env.logger = internal.NewLoggerTo(cfg.LogLevel, cmd.ErrOrStderr())
	env.loader = tables.NewLoader(env.logger)
	return nil
}

func newRootCmd(load func() (*config.Config, error)) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gochance",
		Short:         "Weighted random draws from probability tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	env := &cliEnv{load: load}
	rootCmd.AddCommand(
		newCheckCmd(env),
		newDrawCmd(env),
		newSimulateCmd(env),
	)
	return rootCmd
}

func newCheckCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "check [table]",
		Short: "Validate a probability table",
		Long: `Load a table and verify that its weights form a distribution.

Example: gochance check loot.yaml`,
		Args:    cobra.ExactArgs(1),
		PreRunE: env.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := env.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			kind, err := table.Kind()
			if err != nil {
				return err
			}

			// A draw validates weights and groups exactly as sampling does.
			s := sampler.NewSeeded(0, sampler.WithEpsilon(env.cfg.Sampler.Epsilon))
			if kind == weighted.KindGrouped {
				_, err = sampler.SampleGrouped(s, table.Grouped())
			} else {
				_, err = sampler.SampleFlat(s, table.Flat())
			}
			if err != nil {
				return errors.Wrapf(err, "table %q is not a valid distribution", table.Name)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s table, %d entries, weight sum %.9g\n",
				table.Name, kind, len(table.Entries), table.TotalWeight())
			return nil
		},
	}
}

func newDrawCmd(env *cliEnv) *cobra.Command {
	var seeds seedFlags
	var count int

	cmd := &cobra.Command{
		Use:   "draw [table]",
		Short: "Draw outcomes from a probability table",
		Long: `Draw one or more outcomes, one per line.

Example: gochance draw loot.yaml -n 10 --seed 12345`,
		Args:    cobra.ExactArgs(1),
		PreRunE: env.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := env.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			kind, err := table.Kind()
			if err != nil {
				return err
			}

			s := seeds.build(cmd, env)
			var draws []string
			if kind == weighted.KindGrouped {
				draws, err = sampler.SampleGroupedN(s, table.Grouped(), count)
			} else {
				draws, err = sampler.SampleFlatN(s, table.Flat(), count)
			}
			if err != nil {
				return errors.Wrapf(err, "drawing from %q", table.Name)
			}

			for _, d := range draws {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	seeds.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of draws")
	return cmd
}

func newSimulateCmd(env *cliEnv) *cobra.Command {
	var seeds seedFlags
	var draws, workers int
	var alpha float64

	cmd := &cobra.Command{
		Use:   "simulate [table]",
		Short: "Draw many times and test the frequencies against the weights",
		Long: `Run a concurrent simulation and print a JSON report with a chi-square
goodness-of-fit test. Exits non-zero when the observed frequencies are
inconsistent with the table at the chosen significance level.

Example: gochance simulate loot.yaml --draws 1000000 --workers 8 --seed 7`,
		Args:    cobra.ExactArgs(1),
		PreRunE: env.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := env.loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			req := app.SimulationRequest{
				Table:   table,
				Draws:   env.cfg.Simulation.Draws,
				Workers: env.cfg.Simulation.Workers,
				Alpha:   env.cfg.Simulation.Alpha,
			}
			if cmd.Flags().Changed("draws") {
				req.Draws = draws
			}
			if cmd.Flags().Changed("workers") {
				req.Workers = workers
			}
			if cmd.Flags().Changed("alpha") {
				req.Alpha = alpha
			}

			service := app.NewSimulationService(seeds.build(cmd, env), env.logger)
			result, err := service.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
			if !result.Passed {
				return fmt.Errorf("simulation %s: observed frequencies do not match table %q (p=%.4g)",
					result.RunID, table.Name, result.Fit.PValue)
			}
			return nil
		},
	}

	seeds.register(cmd)
	cmd.Flags().IntVar(&draws, "draws", 0, "Total number of draws (default SIM_DRAWS)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers sharing the sampler (default SIM_WORKERS)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance level of the goodness-of-fit test (default SIM_ALPHA)")
	return cmd
}
