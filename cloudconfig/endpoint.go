// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import "github.com/juju/errors"

const identityService = "identity"

// SessionEndpoint returns the endpoint of service. A directly configured
// endpoint is returned without creating a session; otherwise a session
// is created and asked for the endpoint. An endpoint missing from the
// catalog is returned as "" without error.
func (c *CloudConfig) SessionEndpoint(service string) (string, error) {
	if endpoint := c.Endpoint(service); endpoint != "" {
		return endpoint, nil
	}
	session, err := c.GetSession()
	if err != nil {
		return "", errors.Trace(err)
	}
	return c.catalogEndpoint(session, service)
}

// sessionEndpoint returns the configured endpoint of service, or asks
// session for it.
func (c *CloudConfig) sessionEndpoint(session Session, service string) (string, error) {
	if endpoint := c.Endpoint(service); endpoint != "" {
		return endpoint, nil
	}
	return c.catalogEndpoint(session, service)
}

// catalogEndpoint asks session for the endpoint of service. The
// identity endpoint comes from the auth plugin, since the identity
// service issued the session.
func (c *CloudConfig) catalogEndpoint(session Session, service string) (string, error) {
	filter := EndpointFilter{Interface: AuthInterface}
	if service != identityService {
		filter = EndpointFilter{
			Interface:   c.Interface(service),
			RegionName:  c.RegionName(service),
			ServiceType: c.ServiceType(service),
			ServiceName: c.ServiceName(service),
		}
	}
	endpoint, err := session.Endpoint(filter)
	if err != nil {
		return "", errors.Annotatef(err, "getting %s endpoint", service)
	}
	if endpoint == "" {
		logger.Debugf("no %s endpoint found for cloud %q", service, c.name)
	}
	return endpoint, nil
}
