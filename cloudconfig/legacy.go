// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import (
	"regexp"
	"time"

	"github.com/juju/errors"
)

// Service names with a legacy client argument shape.
const (
	ObjectStoreService = "object-store"
	ImageService       = "image"
	NetworkService     = "network"
	ComputeService     = "compute"
	IdentityService    = identityService
)

const (
	objectStoreAuthVersion = "2.0"
	defaultIdentityVersion = "2.0"
	neutronOnlyVersion     = "2.0"
)

// ClientArgs is the argument record for a legacy client constructor. It
// is implemented only by the types in this package: *ObjectStoreArgs,
// *ImageArgs, *CatalogArgs and *IdentityArgs.
type ClientArgs interface {
	// Service returns the service name the record was built for.
	Service() string

	clientArgs()
}

// ObjectStoreOptions is the options mapping passed to the object store
// client.
type ObjectStoreOptions struct {
	AuthToken        string
	RegionName       string
	ObjectStorageURL string
}

// ObjectStoreArgs are the arguments of the object store client, which
// is handed a pre-authenticated token and URL instead of a session.
type ObjectStoreArgs struct {
	PreAuthToken string
	PreAuthURL   string
	AuthVersion  string
	Options      ObjectStoreOptions

	// Timeout is zero unless an API timeout is configured.
	Timeout time.Duration
}

// ImageArgs are the arguments of the image client.
type ImageArgs struct {
	APIVersion  string
	ServiceName string
	Endpoint    string
	RegionName  string
	Interface   string
	Session     Session
	ServiceType string
}

// CatalogArgs are the arguments of the compute and network clients,
// which find their own endpoint in the session's catalog.
type CatalogArgs struct {
	ServiceKey   string
	APIVersion   string
	EndpointType string
	RegionName   string
	ServiceType  string
	Session      Session
	ServiceName  string
}

// IdentityArgs are the arguments of the identity client.
type IdentityArgs struct {
	APIVersion   string
	Endpoint     string
	EndpointType string
	RegionName   string
	ServiceType  string
	Session      Session
	ServiceName  string
}

// Service is part of the ClientArgs interface.
func (*ObjectStoreArgs) Service() string { return ObjectStoreService }

// Service is part of the ClientArgs interface.
func (*ImageArgs) Service() string { return ImageService }

// Service is part of the ClientArgs interface.
func (a *CatalogArgs) Service() string { return a.ServiceKey }

// Service is part of the ClientArgs interface.
func (*IdentityArgs) Service() string { return IdentityService }

func (*ObjectStoreArgs) clientArgs() {}
func (*ImageArgs) clientArgs() {}
func (*CatalogArgs) clientArgs() {}
func (*IdentityArgs) clientArgs() {}

// serviceFacts holds everything resolved for one legacy client.
type serviceFacts struct {
	service     string
	apiVersion  string
	endpoint    string
	regionName  string
	iface       string
	serviceType string
	serviceName string
	session     Session
	timeout     time.Duration
}

type argsBuilder func(serviceFacts) (ClientArgs, error)

var legacyArgsBuilders = map[string]argsBuilder{
	ObjectStoreService: objectStoreArgs,
	ImageService:       imageArgs,
	NetworkService:     catalogArgs,
	ComputeService:     catalogArgs,
	IdentityService:    identityArgs,
}

// LegacyClientArgs resolves the configuration of service and projects
// it into the argument record its legacy client expects. A session is
// created for each call. Legacy clients are given the cloud region;
// a per-service region only affects endpoint discovery.
func (c *CloudConfig) LegacyClientArgs(service string) (ClientArgs, error) {
	build, ok := legacyArgsBuilders[service]
	if !ok {
		return nil, errors.WithType(
			errors.Errorf("no legacy client for service %q", service), UnsupportedService)
	}
	session, err := c.GetSession()
	if err != nil {
		return nil, errors.Trace(err)
	}
	endpoint, err := c.sessionEndpoint(session, service)
	if err != nil {
		return nil, errors.Trace(err)
	}
	facts := serviceFacts{
		service:     service,
		apiVersion:  c.APIVersion(service),
		endpoint:    endpoint,
		regionName:  c.region,
		iface:       c.Interface(service),
		serviceType: c.ServiceType(service),
		serviceName: c.ServiceName(service),
		session:     session,
		timeout:     c.APITimeout(),
	}
	logger.Tracef("legacy %s client for cloud %q: version %q, endpoint %q, interface %q",
		service, c.name, facts.apiVersion, facts.endpoint, facts.iface)
	return build(facts)
}

// GetLegacyClient builds the legacy client of service with newClient.
// The argument record passed to newClient is one of the ClientArgs
// implementations, selected by service.
func GetLegacyClient[T any](c *CloudConfig, service string, newClient func(ClientArgs) (T, error)) (T, error) {
	var zero T
	args, err := c.LegacyClientArgs(service)
	if err != nil {
		return zero, errors.Trace(err)
	}
	client, err := newClient(args)
	if err != nil {
		return zero, errors.Annotatef(err, "creating %s client", service)
	}
	return client, nil
}

func objectStoreArgs(f serviceFacts) (ClientArgs, error) {
	token, err := f.session.Token()
	if err != nil {
		return nil, errors.Annotate(err, "getting auth token")
	}
	return &ObjectStoreArgs{
		PreAuthToken: token,
		PreAuthURL:   f.endpoint,
		AuthVersion:  objectStoreAuthVersion,
		Options: ObjectStoreOptions{
			AuthToken:        token,
			RegionName:       f.regionName,
			ObjectStorageURL: f.endpoint,
		},
		Timeout: f.timeout,
	}, nil
}

// versionSuffix matches a trailing API version path segment.
var versionSuffix = regexp.MustCompile(`/v\d+(\.\d+)*/?$`)

func imageArgs(f serviceFacts) (ClientArgs, error) {
	return &ImageArgs{
		APIVersion:  f.apiVersion,
		ServiceName: f.serviceName,
		Endpoint:    versionSuffix.ReplaceAllString(f.endpoint, ""),
		RegionName:  f.regionName,
		Interface:   f.iface,
		Session:     f.session,
		ServiceType: f.serviceType,
	}, nil
}

func catalogArgs(f serviceFacts) (ClientArgs, error) {
	version := f.apiVersion
	if f.service == NetworkService && (version == "" || majorVersion(version) == "2") {
		version = neutronOnlyVersion
	}
	return &CatalogArgs{
		ServiceKey:   f.service,
		APIVersion:   version,
		EndpointType: f.iface,
		RegionName:   f.regionName,
		ServiceType:  f.serviceType,
		Session:      f.session,
		ServiceName:  f.serviceName,
	}, nil
}

func identityArgs(f serviceFacts) (ClientArgs, error) {
	version := f.apiVersion
	if version == "" {
		version = defaultIdentityVersion
	}
	return &IdentityArgs{
		APIVersion:   version,
		Endpoint:     f.endpoint,
		EndpointType: f.iface,
		RegionName:   f.regionName,
		ServiceType:  f.serviceType,
		Session:      f.session,
		ServiceName:  f.serviceName,
	}, nil
}
