package builder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tgagor/jonah/pkg/cmd"
	"github.com/tgagor/jonah/pkg/util"
)

type DockerInspect []struct {
	Id     string `json:"Id"`
	Size   uint64 `json:"Size"`
	Config struct {
		Labels map[string]string `json:"Labels"`
	} `json:"Config"`
}

func InspectImage(ctx context.Context, exec cmd.Executor, image string) (DockerInspect, error) {
	c := cmd.New("docker").Arg("image", "inspect").Arg("--format").Arg("json").Arg(image)
	res, err := exec.Execute(ctx, c)
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, fmt.Errorf("%s exited with code %d", c.String(), res.ExitCode)
	}

	var inspect DockerInspect
	log.Trace().Str("output", res.Stdout).Msg("Inspect output")
	if err := json.Unmarshal([]byte(res.Stdout), &inspect); err != nil {
		return nil, fmt.Errorf("parsing inspect output: %w", err)
	}
	return inspect, nil
}

func (b *Builder) logSize(ctx context.Context) {
	inspect, err := InspectImage(ctx, b.Exec, b.Image)
	if err != nil || len(inspect) == 0 {
		log.Debug().Err(err).Str("image", b.Image).Msg("Could not inspect")
		return
	}
	log.Info().Str("image", b.Image).Str("id", inspect[0].Id).Str("size", util.ByteCountIEC(inspect[0].Size)).Msg("Built")
}
