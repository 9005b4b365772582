package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/config"
	"github.com/tgagor/jonah/pkg/image"
	"github.com/tgagor/jonah/pkg/source"
)

// Builder builds one project: it builds the image, creates a container from it,
// copies the exports out and removes the container again.
type Builder struct {
	Exec      cmd.Executor
	Image     string
	Container string
	// ReportSize inspects the freshly built image and logs its size.
	ReportSize bool
}

func New(exec cmd.Executor, flags config.Flags) *Builder {
	name := flags.Image
	if name == "" {
		name = config.DefaultImage
	}
	return &Builder{
		Exec:       exec,
		Image:      name,
		Container:  flags.Container,
		ReportSize: flags.Verbose,
	}
}

// Report describes a finished project build.
type Report struct {
	BuildFile   string
	OutDir      string
	ContainerID string
	Exported    []string
	Warnings    []error
}

func (r *Report) warn(err error) {
	log.Warn().Err(err).Msg("Continuing")
	r.Warnings = append(r.Warnings, err)
}

// Run builds the project described by buildFile and extracts its exports into
// outDir. Loading, preparing, building and creating the container must succeed;
// failed copies and a failed container removal end up in Report.Warnings.
func (b *Builder) Run(ctx context.Context, buildFile, outDir string) (*Report, error) {
	report := &Report{BuildFile: buildFile, OutDir: outDir}

	log.Debug().Str("stage", Load.String()).Str("file", buildFile).Msg("Running stage")
	project, err := config.LoadProject(buildFile)
	if err != nil {
		return report, err
	}
	log.Debug().Interface("project", project).Msg("Loaded")

	log.Debug().Str("stage", Prepare.String()).Str("dir", outDir).Msg("Running stage")
	if err := prepare(outDir, project.CreateHostDirs); err != nil {
		return report, err
	}

	log.Debug().Str("stage", Build.String()).Msg("Running stage")
	if err := b.build(ctx, buildFile, outDir, project); err != nil {
		return report, err
	}

	log.Debug().Str("stage", Create.String()).Msg("Running stage")
	id, err := b.create(ctx)
	if err != nil {
		return report, err
	}
	report.ContainerID = id

	log.Debug().Str("stage", Extract.String()).Int("exports", len(project.Exports)).Msg("Running stage")
	for _, export := range project.Exports {
		destination := filepath.Join(outDir, export.Name)
		if err := b.extract(ctx, id, export.Path, destination); err != nil {
			report.warn(err)
			continue
		}
		report.Exported = append(report.Exported, destination)
	}

	log.Debug().Str("stage", Teardown.String()).Msg("Running stage")
	if err := b.remove(ctx, id); err != nil {
		report.warn(err)
	}

	log.Info().Str("out", outDir).Int("exported", len(report.Exported)).Int("warnings", len(report.Warnings)).Msg("✅ Build and extraction complete")
	return report, nil
}

func prepare(outDir string, hostDirs []string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, dir := range hostDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(outDir, dir)
		}
		log.Debug().Str("dir", dir).Msg("Creating host directory")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating host directory: %w", err)
		}
	}
	return nil
}

func (b *Builder) build(ctx context.Context, buildFile, outDir string, project *config.Project) error {
	// relative paths inside the Dockerfile resolve against the build file's directory
	contextDir, err := filepath.Abs(filepath.Dir(buildFile))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	rev, err := source.ReadRevision(contextDir)
	if err != nil {
		log.Warn().Err(err).Msg("Not being able to read git repo metadata. Skipping.")
	}

	img, err := image.From(b.Image, project, contextDir, image.ConfigSet(b.Image, outDir, rev), rev)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfig, err)
	}

	log.Info().Str("image", img.String()).Str("context", contextDir).Str("dockerfile", img.Dockerfile).Msg("🛠️  Building")
	c := img.BuildCmd()
	res, err := b.Exec.Execute(ctx, c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if !res.Success() {
		log.Error().Str("image", img.String()).Int("code", res.ExitCode).Msg("❌ Docker build failed")
		return fmt.Errorf("%w: %s", ErrBuild, describe(c, res))
	}

	if b.ReportSize {
		b.logSize(ctx)
	}
	return nil
}

func (b *Builder) create(ctx context.Context) (string, error) {
	c := cmd.New("docker").Arg("create")
	if b.Container != "" {
		c.Arg("--name", b.Container)
	}
	c.Arg(b.Image)

	log.Info().Str("image", b.Image).Msg("🚀 Creating container")
	res, err := b.Exec.Execute(ctx, c)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContainer, err)
	}
	if !res.Success() {
		log.Error().Str("image", b.Image).Int("code", res.ExitCode).Msg("❌ Failed to create the container")
		return "", fmt.Errorf("%w: %s", ErrContainer, describe(c, res))
	}

	id := strings.TrimSpace(res.Stdout)
	if id == "" {
		return "", fmt.Errorf("%w: %s printed no container id", ErrContainer, c.String())
	}
	log.Debug().Str("container", id).Msg("Created")
	return id, nil
}

func (b *Builder) extract(ctx context.Context, id, path, destination string) error {
	log.Info().Str("from", path).Str("to", destination).Msg("📦 Extracting")
	c := cmd.New("docker").Arg("cp", id+":"+path, destination)

	res, err := b.Exec.Execute(ctx, c)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrExtract, path, err)
	}
	if !res.Success() {
		return fmt.Errorf("%w %s: %s", ErrExtract, path, describe(c, res))
	}
	return nil
}

func (b *Builder) remove(ctx context.Context, id string) error {
	log.Info().Str("container", id).Msg("🧹 Cleaning up")
	c := cmd.New("docker").Arg("rm", id)

	res, err := b.Exec.Execute(ctx, c)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrTeardown, id, err)
	}
	if !res.Success() {
		return fmt.Errorf("%w %s: %s", ErrTeardown, id, describe(c, res))
	}
	return nil
}

func describe(c *cmd.Cmd, res cmd.Result) string {
	msg := fmt.Sprintf("%s exited with code %d", c.String(), res.ExitCode)
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}
