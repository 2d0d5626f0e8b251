package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"configen/internal/logger"
	"configen/internal/manifest"
	"configen/internal/pipeline"
	"configen/internal/settings"
)

var errFailed = errors.New("generation failed")

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen MANIFEST...",
		Short: "Generate config structs for the targets of one or more manifests",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGen,
	}

	flags := cmd.Flags()
	flags.Bool("strict", false, "fail on warnings")
	flags.Bool("check", false, "compare with the files on disk instead of writing")
	flags.String("out", "", "output directory, overriding the manifest")
	flags.Int("parallel", settings.Default().Parallel, "manifests processed concurrently")
	flags.Bool("dump", false, "log every built schema at debug level")

	return cmd
}

func runGen(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log := logger.NewLogger(&logger.Config{
		Level:  logger.Level(s.LogLevel),
		Output: cmd.ErrOrStderr(),
		JSON:   s.LogJSON,
	})
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	manifests := make([]*manifest.Manifest, 0, len(args))

	for _, path := range args {
		m, err := manifest.LoadFile(path)
		if err != nil {
			return err
		}

		manifests = append(manifests, m)
	}

	if s.OutputDir != "" && len(manifests) > 1 {
		return errors.New("--out cannot be combined with several manifests")
	}

	results, err := pipeline.RunAll(ctx, manifests, pipeline.Options{
		Strict:    s.Strict,
		Check:     s.Check,
		Dump:      s.Dump,
		OutputDir: s.OutputDir,
	}, s.Parallel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, res := range results {
		for _, d := range res.Drift {
			fmt.Fprint(out, d.Diff)
		}

		log.Info("manifest done",
			"manifest", res.Manifest,
			"files", len(res.Files),
			"errors", len(res.Diagnostics.Errors),
			"warnings", len(res.Diagnostics.Warnings))
	}

	if pipeline.Failed(results, s.Strict) {
		return errFailed
	}

	return nil
}
