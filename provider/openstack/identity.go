// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"net/url"
	"path"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/version/v2"
)

// identityClientVersion returns the major identity API version named by
// the last path segment of authURL. It returns -1 when the URL carries no
// path, and 0 with an error when the URL or its version part is invalid.
func identityClientVersion(authURL string) (int, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if u.Path == authURL {
		// Not a URL with a scheme and host, e.g. "keystone.foo".
		return 0, errors.NotValidf("auth url %q", authURL)
	}
	if u.Path == "" || u.Path == "/" {
		return -1, nil
	}

	// The last path segment names the version, e.g.
	// https://keystone.foo:443/v3/ or https://host.foo/identity/v3
	urlpath, tail := path.Split(strings.ToLower(u.Path))
	if tail == "" && len(urlpath) > 2 {
		_, tail = path.Split(strings.TrimRight(urlpath, "/"))
	}
	logger.Tracef("identity version segment of %s: %q", authURL, tail)
	if len(tail) < 2 || tail[0] != 'v' {
		return 0, errors.NotValidf("version part of identity url %s", authURL)
	}
	major, _, err := version.ParseMajorMinor(tail[1:])
	if err != nil {
		return 0, errors.NotValidf("version part of identity url %s", authURL)
	}
	return major, nil
}

// identityAPIMajor parses a configured identity API version such as "3",
// "2.0" or "v3".
func identityAPIMajor(apiVersion string) (int, error) {
	major, _, err := version.ParseMajorMinor(strings.TrimPrefix(strings.ToLower(apiVersion), "v"))
	if err != nil {
		return 0, errors.NotValidf("identity API version %q", apiVersion)
	}
	return major, nil
}
