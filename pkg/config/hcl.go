package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

func decodeHCL(data []byte, filename string, v any) error {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return diags
	}
	if diags := gohcl.DecodeBody(file.Body, evalContext(), v); diags.HasErrors() {
		return diags
	}
	return nil
}

// evalContext exposes the process environment as `env.NAME` so descriptors
// can pick up things like registry hosts without hardcoding them.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, item := range os.Environ() {
		name, val, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(val)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
