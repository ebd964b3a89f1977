// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package defaults supplies the baseline configuration that cloud
// settings are layered on.
package defaults

import (
	_ "embed"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns a new copy of the baseline configuration.
func Defaults() map[string]interface{} {
	attrs, err := parse(defaultsYAML)
	if err != nil {
		// The embedded document is part of the build.
		panic(err)
	}
	return attrs
}

func parse(data []byte) (map[string]interface{}, error) {
	attrs := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, errors.Annotate(err, "parsing defaults")
	}
	return attrs, nil
}

// Merge returns a new configuration holding base overlaid with each of
// overrides in turn. Nested mappings are replaced, not merged. None of
// the arguments are modified.
func Merge(base map[string]interface{}, overrides ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base))
	for k, v := range base {
		result[k] = v
	}
	for _, o := range overrides {
		for k, v := range o {
			result[k] = v
		}
	}
	return result
}

// Apply returns config layered over the baseline configuration.
func Apply(config map[string]interface{}) map[string]interface{} {
	return Merge(Defaults(), config)
}
