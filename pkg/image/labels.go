package image

import (
	"fmt"
	"maps"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/source"
)

// Follow:
// https://github.com/opencontainers/image-spec/blob/main/annotations.md
func OCILabels(rev source.Revision, created time.Time) map[string]string {
	labels := map[string]string{}

	labels["org.opencontainers.image.created"] = created.Format(time.RFC3339)
	if rev.Origin != "" {
		labels["org.opencontainers.image.source"] = rev.Origin
	}
	if rev.Commit != "" {
		labels["org.opencontainers.image.revision"] = rev.Commit
	}
	if rev.Branch != "" {
		labels["org.opencontainers.image.branch"] = rev.Branch
	}

	log.Debug().Interface("labels", labels).Msg("Adding OCI")
	return labels
}

// ConfigSet is the data labels and build args are templated with.
func ConfigSet(imageName, outDir string, rev source.Revision) map[string]interface{} {
	return map[string]interface{}{
		"image":    imageName,
		"output":   outDir,
		"source":   rev.Origin,
		"revision": rev.Commit,
		"branch":   rev.Branch,
		"env":      EnvVariables(),
	}
}

// From builds the image request for a project descriptor. OCI labels come
// first so the descriptor can override them.
func From(name string, project *config.Project, contextDir string, configSet map[string]interface{}, rev source.Revision) (*Image, error) {
	labels, err := TemplateMap(project.Labels, configSet)
	if err != nil {
		return nil, fmt.Errorf("templating labels: %w", err)
	}
	args, err := TemplateMap(project.BuildArgs, configSet)
	if err != nil {
		return nil, fmt.Errorf("templating build args: %w", err)
	}

	all := OCILabels(rev, time.Now())
	maps.Copy(all, labels)

	img := New(name).
		SetDockerfile(project.Docker).
		SetBuildContextDir(contextDir).
		AddLabels(all).
		AddArgs(args)
	return img, nil
}
