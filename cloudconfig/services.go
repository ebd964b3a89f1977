// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/juju/collections/set"
)

const (
	apiVersionFacet  = "api_version"
	endpointFacet    = "endpoint"
	interfaceFacet   = "interface"
	regionNameFacet  = "region_name"
	serviceNameFacet = "service_name"
	serviceTypeFacet = "service_type"

	defaultInterface = "public"
	apiTimeoutKey    = "api_timeout"
	authKey          = "auth"
)

// serviceFacets are the key suffixes that name a service.
var serviceFacets = []string{
	apiVersionFacet,
	endpointFacet,
	interfaceFacet,
	regionNameFacet,
	serviceNameFacet,
	serviceTypeFacet,
}

// serviceKey returns the configuration key holding facet for service.
func serviceKey(service, facet string) string {
	return strings.ReplaceAll(service, "-", "_") + "_" + facet
}

// lookupString returns the string form of the value stored under key.
func (c *CloudConfig) lookupString(key string) (string, bool) {
	v, ok := c.config[key]
	if !ok || v == nil {
		return "", false
	}
	s := scalarString(v)
	return s, s != ""
}

func scalarString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// APIVersion returns the configured API version of service, or "".
func (c *CloudConfig) APIVersion(service string) string {
	v, _ := c.lookupString(serviceKey(service, apiVersionFacet))
	return v
}

// Interface returns the catalog interface to use for service. A
// per-service setting wins over the global "interface" key, which in
// turn wins over "public". An empty service yields the global answer.
func (c *CloudConfig) Interface(service string) string {
	if service != "" {
		if v, ok := c.lookupString(serviceKey(service, interfaceFacet)); ok {
			return v
		}
	}
	if v, ok := c.lookupString(interfaceFacet); ok {
		return v
	}
	return defaultInterface
}

// RegionName returns the region to use for service, falling back to
// the cloud region.
func (c *CloudConfig) RegionName(service string) string {
	if service != "" {
		if v, ok := c.lookupString(serviceKey(service, regionNameFacet)); ok {
			return v
		}
	}
	return c.region
}

// ServiceType returns the catalog service type of service.
//
// Block storage registered a distinct catalog type for each major API
// version after the first, so an unconfigured volume service type
// follows the volume API version: "2" gives "volumev2".
func (c *CloudConfig) ServiceType(service string) string {
	if v, ok := c.lookupString(serviceKey(service, serviceTypeFacet)); ok {
		return v
	}
	if service == "volume" {
		if major := majorVersion(c.APIVersion(service)); major != "" && major != "1" {
			return service + "v" + major
		}
	}
	return service
}

func majorVersion(version string) string {
	major, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	return major
}

// ServiceName returns the configured catalog service name of service,
// or "".
func (c *CloudConfig) ServiceName(service string) string {
	v, _ := c.lookupString(serviceKey(service, serviceNameFacet))
	return v
}

// Endpoint returns the endpoint configured directly for service, or ""
// when the endpoint has to be discovered from the catalog.
func (c *CloudConfig) Endpoint(service string) string {
	v, _ := c.lookupString(serviceKey(service, endpointFacet))
	return v
}

// AuthArgs returns a copy of the "auth" section of the configuration.
func (c *CloudConfig) AuthArgs() map[string]interface{} {
	result := make(map[string]interface{})
	switch auth := c.config[authKey].(type) {
	case map[string]interface{}:
		for k, v := range auth {
			result[k] = v
		}
	case map[interface{}]interface{}:
		for k, v := range auth {
			result[fmt.Sprint(k)] = v
		}
	case map[string]string:
		for k, v := range auth {
			result[k] = v
		}
	}
	return result
}

// Services returns the sorted names of every service that has at least
// one per-service key in the configuration. Names are returned in key
// form, so "object-store" is reported as "object_store". As with Get, a
// leading "os_" is not part of the service name.
func (c *CloudConfig) Services() []string {
	services := set.NewStrings()
	for key := range c.config {
		for _, facet := range serviceFacets {
			name, ok := strings.CutSuffix(strings.TrimPrefix(key, prefix), "_"+facet)
			if ok && name != "" {
				services.Add(name)
				break
			}
		}
	}
	return services.SortedValues()
}

// APITimeout returns the configured API timeout, or zero when none is
// configured.
func (c *CloudConfig) APITimeout() time.Duration {
	var seconds float64
	switch v := c.config[apiTimeoutKey].(type) {
	case int:
		seconds = float64(v)
	case int64:
		seconds = float64(v)
	case float64:
		seconds = v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Debugf("ignoring invalid %s %q", apiTimeoutKey, v)
			return 0
		}
		seconds = f
	default:
		return 0
	}
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
