// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import "github.com/juju/errors"

const (
	// ConfigurationError is raised when a session is requested from a
	// cloud config that carries no auth plugin.
	ConfigurationError = errors.ConstError("configuration error")

	// UnsupportedService is raised when a legacy client is requested
	// for a service with no known constructor argument shape.
	UnsupportedService = errors.ConstError("unsupported service")
)
