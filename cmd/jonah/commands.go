package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tgagor/jonah/pkg/builder"
	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/collection"
	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/source"
	"github.com/tgagor/jonah/pkg/util"
)

func buildFlags(c *cobra.Command, flags *config.Flags) {
	c.Flags().StringVar(&flags.Image, "image", config.DefaultImage, "Name of the image built for every project")
	c.Flags().StringVar(&flags.Container, "container", "", "Name of the build container, anonymous when empty")
	c.Flags().StringVar(&flags.WorkDir, "work-dir", config.DefaultWorkDir(), "Directory git sources are cloned into")
	c.Flags().BoolVar(&flags.EchoCommands, "echo-commands", true, "Print every docker and git command before running it")
}

func newProjectCmd(flags *config.Flags) *cobra.Command {
	c := &cobra.Command{
		Use:   "project <config> <out>",
		Short: "Build a single project and extract its exports into <out>",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			log.Info().Str("config", args[0]).Str("out", args[1]).Msg("Building project")
			b := builder.New(newExecutor(*flags), *flags)
			if _, err := b.Run(c.Context(), args[0], args[1]); err != nil {
				return err
			}
			return nil
		},
	}
	buildFlags(c, flags)
	return c
}

func newCollectionCmd(flags *config.Flags) *cobra.Command {
	c := &cobra.Command{
		Use:   "collection <config> <out>",
		Short: "Build every project of a collection into <out>/<out_path>",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			log.Info().Str("config", args[0]).Msg("Loading")
			coll, err := config.LoadCollection(args[0])
			if err != nil {
				return err
			}

			exec := newExecutor(*flags)
			reports, err := collection.Run(
				c.Context(), coll, args[1], flags.WorkDir,
				source.NewResolver(exec, flags.WorkDir),
				builder.New(exec, *flags),
			)
			collection.Summary(reports)
			return err
		},
	}
	buildFlags(c, flags)
	return c
}

func newCleanCmd(flags *config.Flags) *cobra.Command {
	c := &cobra.Command{
		Use:   "clean",
		Short: "Remove cloned sources and the build image",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := util.RemoveDir(flags.WorkDir); err != nil {
				return err
			}

			rm := cmd.New("docker").Arg("image", "rm", "-f", flags.Image)
			res, err := newExecutor(*flags).Execute(c.Context(), rm)
			if err == nil && !res.Success() {
				log.Warn().Int("code", res.ExitCode).Str("stderr", res.Stderr).Str("image", flags.Image).Msg("Image not removed")
			}
			util.WarnOnError(err, "Image not removed")
			return nil
		},
	}
	c.Flags().StringVar(&flags.WorkDir, "work-dir", config.DefaultWorkDir(), "Directory git sources are cloned into")
	c.Flags().StringVar(&flags.Image, "image", config.DefaultImage, "Name of the build image to remove")
	return c
}
