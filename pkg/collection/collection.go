// Package collection builds every project of a collection descriptor, one
// after another, in the order they are declared.
package collection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tgagor/jonah/pkg/builder"
	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/source"
)

// Resolver locates a project's build file.
type Resolver interface {
	Resolve(ctx context.Context, ref config.ProjectRef, gitBase string, seen source.Seen) (source.Resolved, error)
}

// Builder builds a single project.
type Builder interface {
	Run(ctx context.Context, buildFile, outDir string) (*builder.Report, error)
}

// Run validates the collection, then resolves and builds each project into
// outputRoot/<out_path>. The first failing project stops the run; artifacts of
// projects built before it stay in place.
func Run(ctx context.Context, coll *config.Collection, outputRoot, workDir string, resolver Resolver, b Builder) ([]*builder.Report, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}

	seen := source.Seen{}
	reports := make([]*builder.Report, 0, len(coll.Projects))

	for i, ref := range coll.Projects {
		paths := ref.Paths()
		log.Info().Int("project", i+1).Int("of", len(coll.Projects)).Str("build_file", paths.BuildFile).Str("out", paths.OutPath).Msg("Processing")

		resolved, err := resolver.Resolve(ctx, ref, coll.GitBase, seen)
		if err != nil {
			log.Error().Err(err).Str("build_file", paths.BuildFile).Msg("Resolving failed, check error above. Exiting.")
			return reports, err
		}

		report, err := b.Run(ctx, resolved.BuildFile, filepath.Join(outputRoot, paths.OutPath))
		if err != nil {
			log.Error().Err(err).Str("build_file", resolved.BuildFile).Msg("Building failed, check error above. Exiting.")
			return reports, fmt.Errorf("project %s: %w", paths.OutPath, err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// Summary logs what every project produced.
func Summary(reports []*builder.Report) {
	warnings := 0
	for _, r := range reports {
		warnings += len(r.Warnings)
		ev := log.Info()
		if len(r.Warnings) > 0 {
			ev = log.Warn()
		}
		ev.Str("out", r.OutDir).Int("exported", len(r.Exported)).Int("warnings", len(r.Warnings)).Msg("Project")
	}
	log.Info().Int("projects", len(reports)).Int("warnings", warnings).Msg("Collection complete")
}
