package image

import (
	"os"
	"strings"
)

func EnvVariables() map[string]string {
	env := map[string]string{}

	for _, item := range os.Environ() {
		name, val, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		env[name] = val
	}

	return env
}
