// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import (
	"time"

	"github.com/juju/errors"
)

// AuthInterface is the interface marker asking a session for the
// endpoint of the identity service that issued its token, rather than
// a catalog entry.
const AuthInterface = "auth"

// EndpointFilter selects one endpoint from a session's catalog.
type EndpointFilter struct {
	Interface   string
	RegionName  string
	ServiceType string
	ServiceName string
}

// Session is an authenticated connection to a cloud.
type Session interface {
	// Endpoint returns the URL matching filter, or "" when the
	// catalog has no such entry.
	Endpoint(filter EndpointFilter) (string, error)

	// Token returns the session's auth token.
	Token() (string, error)
}

// SessionParams holds everything needed to construct a Session.
type SessionParams struct {
	// Auth is the cloud config's auth plugin.
	Auth interface{}

	// Verify holds the TLS arguments.
	Verify VerifyArgs

	// Timeout is the API timeout, or zero when none is configured.
	Timeout time.Duration
}

// NewSessionFunc constructs a Session.
type NewSessionFunc func(SessionParams) (Session, error)

// SessionParams returns the parameters GetSession passes to the
// session constructor.
func (c *CloudConfig) SessionParams() (SessionParams, error) {
	if c.authPlugin == nil {
		return SessionParams{}, errors.WithType(
			errors.New("no valid auth was given"), ConfigurationError)
	}
	return SessionParams{
		Auth:    c.authPlugin,
		Verify:  c.RequestsVerifyArgs(),
		Timeout: c.APITimeout(),
	}, nil
}

// GetSession returns a new session for the cloud. Nothing is cached:
// each call constructs a new session.
func (c *CloudConfig) GetSession() (Session, error) {
	params, err := c.SessionParams()
	if err != nil {
		return nil, err
	}
	if c.newSession == nil {
		return nil, errors.NotSupportedf("session construction for cloud %q", c.name)
	}
	logger.Debugf("creating session for cloud %q region %q (verify=%t, timeout=%v)",
		c.name, c.region, params.Verify.Verify, params.Timeout)
	session, err := c.newSession(params)
	if err != nil {
		return nil, errors.Annotatef(err, "creating session for cloud %q", c.name)
	}
	return session, nil
}
