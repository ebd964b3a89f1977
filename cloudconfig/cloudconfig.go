// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cloudconfig resolves the per-service connection parameters of a
// single named OpenStack cloud and region, and uses them to construct
// sessions and the argument records expected by legacy service clients.
package cloudconfig

import (
	"reflect"
	"sort"
	"strings"

	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("juju.clientconfig.cloudconfig")

// prefix is carried by keys sourced from OS_* environment variables.
const prefix = "os_"

// CloudConfig holds the configuration of one cloud in one region.
//
// The configuration mapping is never copied: callers holding the map
// returned by Config may change it, and every getter observes the
// change on its next call.
type CloudConfig struct {
	name       string
	region     string
	config     map[string]interface{}
	forceIPv4  bool
	authPlugin interface{}
	newSession NewSessionFunc
}

// Option configures optional parts of a CloudConfig.
type Option func(*CloudConfig)

// WithAuthPlugin sets the opaque auth plugin handed to the session
// constructor.
func WithAuthPlugin(plugin interface{}) Option {
	return func(c *CloudConfig) {
		c.authPlugin = plugin
	}
}

// WithForceIPv4 records whether IPv4 should be used exclusively.
func WithForceIPv4(force bool) Option {
	return func(c *CloudConfig) {
		c.forceIPv4 = force
	}
}

// WithSessionFunc sets the function used by GetSession to build a
// session from the resolved parameters.
func WithSessionFunc(f NewSessionFunc) Option {
	return func(c *CloudConfig) {
		c.newSession = f
	}
}

// New returns a CloudConfig for the named cloud and region. A nil
// config is treated as empty.
func New(name, region string, config map[string]interface{}, opts ...Option) *CloudConfig {
	if config == nil {
		config = make(map[string]interface{})
	}
	c := &CloudConfig{
		name:   name,
		region: region,
		config: config,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the cloud name.
func (c *CloudConfig) Name() string {
	return c.name
}

// Region returns the cloud region.
func (c *CloudConfig) Region() string {
	return c.region
}

// ForceIPv4 reports whether IPv4 should be used exclusively.
func (c *CloudConfig) ForceIPv4() bool {
	return c.forceIPv4
}

// AuthPlugin returns the auth plugin, or nil if none was supplied.
func (c *CloudConfig) AuthPlugin() interface{} {
	return c.authPlugin
}

// Config returns the underlying configuration mapping.
func (c *CloudConfig) Config() map[string]interface{} {
	return c.config
}

// Contains reports whether key is present in the configuration.
func (c *CloudConfig) Contains(key string) bool {
	_, ok := c.config[key]
	return ok
}

// Keys returns the configuration keys in sorted order.
func (c *CloudConfig) Keys() []string {
	keys := make([]string, 0, len(c.config))
	for k := range c.config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up an arbitrary configuration attribute. A leading "os_" is
// removed from key before the lookup, so "os_region_name" and
// "region_name" both find a "region_name" entry, while an entry stored
// as "os_region_name" is never found. Dashes in stored keys match
// underscores in key.
func (c *CloudConfig) Get(key string) (interface{}, bool) {
	key = strings.TrimPrefix(key, prefix)
	if v, ok := c.config[key]; ok {
		return v, true
	}
	for k, v := range c.config {
		if strings.ReplaceAll(k, "-", "_") == key {
			return v, true
		}
	}
	return nil, false
}

// Equal reports whether c and other describe the same cloud, region
// and configuration. Auth plugins and session constructors are not
// compared.
func (c *CloudConfig) Equal(other *CloudConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.name == other.name &&
		c.region == other.region &&
		reflect.DeepEqual(c.config, other.config)
}
