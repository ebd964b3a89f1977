// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"github.com/go-goose/goose/v5/client"
	gooseerrors "github.com/go-goose/goose/v5/errors"
	"github.com/go-goose/goose/v5/identity"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/clientconfig/cloudconfig"
)

var logger = loggo.GetLogger("juju.clientconfig.provider.openstack")

// gooseClient is the part of client.AuthenticatingClient used by a
// session.
type gooseClient interface {
	Authenticate() error
	Token() string
	EndpointsForRegion(region string) identity.ServiceURLs
}

var _ gooseClient = (client.AuthenticatingClient)(nil)

// newGooseClient returns an unauthenticated goose client for the plugin,
// honouring the TLS verification arguments.
var newGooseClient = func(plugin *AuthPlugin, verify cloudconfig.VerifyArgs) (gooseClient, error) {
	cred := plugin.Credentials
	switch {
	case verify.Verify && verify.CACert == "" && verify.Cert == "":
		return client.NewClient(&cred, plugin.Mode, nil), nil
	case !verify.Verify && verify.Cert == "":
		return client.NewNonValidatingClient(&cred, plugin.Mode, nil), nil
	}
	cfg, err := tlsConfig(verify)
	if err != nil {
		return nil, errors.Trace(err)
	}
	c, err := client.NewClientTLSConfig(&cred, plugin.Mode, nil, cfg)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return c, nil
}

// SessionFactoryConfig holds the dependencies of a SessionFactory.
type SessionFactoryConfig struct {
	Clock clock.Clock

	// Collector, if set, records authentication attempts.
	Collector *SessionCollector
}

// Validate returns an error if the config cannot be used to make a
// SessionFactory.
func (config SessionFactoryConfig) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// SessionFactory makes authenticated goose sessions.
type SessionFactory struct {
	config SessionFactoryConfig
}

// NewSessionFactory returns a SessionFactory using the given config.
func NewSessionFactory(config SessionFactoryConfig) (*SessionFactory, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &SessionFactory{config: config}, nil
}

// NewSession implements cloudconfig.NewSessionFunc. The auth plugin
// must be an *AuthPlugin. The session is authenticated before it is
// returned; a non-zero params.Timeout bounds the authentication.
func (f *SessionFactory) NewSession(params cloudconfig.SessionParams) (cloudconfig.Session, error) {
	plugin, ok := params.Auth.(*AuthPlugin)
	if !ok || plugin == nil {
		return nil, errors.NotValidf("auth plugin %T", params.Auth)
	}
	c, err := newGooseClient(plugin, params.Verify)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Debugf("authenticating %v", plugin)
	if err := f.authenticate(c, params); err != nil {
		return nil, errors.Trace(err)
	}
	return &gooseSession{
		client: c,
		cred:   plugin.Credentials,
	}, nil
}

func (f *SessionFactory) authenticate(c gooseClient, params cloudconfig.SessionParams) error {
	start := f.config.Clock.Now()
	if params.Timeout <= 0 {
		err := authenticateClient(c)
		f.config.Collector.observe(resultOf(err), f.config.Clock.Now().Sub(start))
		return err
	}

	result := make(chan error, 1)
	go func() {
		result <- authenticateClient(c)
	}()
	select {
	case err := <-result:
		f.config.Collector.observe(resultOf(err), f.config.Clock.Now().Sub(start))
		return err
	case <-f.config.Clock.After(params.Timeout):
		f.config.Collector.observe(resultTimeout, params.Timeout)
		return errors.Timeoutf("authentication after %v", params.Timeout)
	}
}

func resultOf(err error) string {
	if err != nil {
		return resultFailure
	}
	return resultSuccess
}

type authenticator interface {
	Authenticate() error
}

func authenticateClient(auth authenticator) error {
	err := auth.Authenticate()
	if err == nil {
		return nil
	}
	// Keep the raw error for debugging but give the user a
	// readable message.
	logger.Debugf("Authenticate() failed: %v", err)
	if gooseerrors.IsUnauthorised(err) {
		return errors.NewUnauthorized(err, "authentication failed: "+
			"please ensure the credentials are correct, a common mistake "+
			"is to specify the wrong project name")
	}
	return errors.Annotate(err, "authentication failed")
}

// gooseSession is a cloudconfig.Session backed by an authenticated goose
// client.
type gooseSession struct {
	client gooseClient
	cred   identity.Credentials
}

// Endpoint is part of the cloudconfig.Session interface. The goose
// service catalog is keyed by service type and region only.
func (s *gooseSession) Endpoint(filter cloudconfig.EndpointFilter) (string, error) {
	if filter.Interface == cloudconfig.AuthInterface {
		return s.cred.URL, nil
	}
	region := filter.RegionName
	if region == "" {
		region = s.cred.Region
	}
	endpoint, ok := s.client.EndpointsForRegion(region)[filter.ServiceType]
	if !ok {
		logger.Debugf("no %q endpoint in region %q", filter.ServiceType, region)
		return "", nil
	}
	return endpoint, nil
}

// Token is part of the cloudconfig.Session interface.
func (s *gooseSession) Token() (string, error) {
	token := s.client.Token()
	if token == "" {
		return "", errors.NotFoundf("session token")
	}
	return token, nil
}

// NewSession is a cloudconfig.NewSessionFunc using the wall clock and
// recording no metrics.
func NewSession(params cloudconfig.SessionParams) (cloudconfig.Session, error) {
	factory := &SessionFactory{config: SessionFactoryConfig{Clock: clock.WallClock}}
	return factory.NewSession(params)
}

// NewCloudConfig returns a CloudConfig whose sessions are goose
// sessions. When no auth plugin option is given the plugin is built
// from the configuration with AuthPluginFromConfig; a configuration
// that does not describe valid auth yields a CloudConfig without one,
// whose GetSession reports the configuration error.
func NewCloudConfig(name, region string, config map[string]interface{}, opts ...cloudconfig.Option) *cloudconfig.CloudConfig {
	opts = append([]cloudconfig.Option{cloudconfig.WithSessionFunc(NewSession)}, opts...)
	cc := cloudconfig.New(name, region, config, opts...)
	if cc.AuthPlugin() != nil {
		return cc
	}
	plugin, err := AuthPluginFromConfig(cc)
	if err != nil {
		logger.Debugf("no auth plugin for cloud %q: %v", name, err)
		return cc
	}
	return cloudconfig.New(name, region, cc.Config(), append(opts, cloudconfig.WithAuthPlugin(plugin))...)
}
