// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack_test

import (
	"github.com/go-goose/goose/v5/identity"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/clientconfig/cloudconfig"
	"github.com/juju/clientconfig/provider/openstack"
)

type credentialsSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&credentialsSuite{})

func passwordArgs(authURL string) map[string]interface{} {
	return map[string]interface{}{
		"auth_url":     authURL,
		"username":     "bob",
		"password":     "dobbs",
		"project_name": "gary",
	}
}

func (s *credentialsSuite) TestAuthSchemaHidesSecrets(c *gc.C) {
	fields := openstack.AuthSchema()
	c.Check(fields[openstack.AttrPassword].Secret, jc.IsTrue)
	c.Check(fields[openstack.AttrSecretKey].Secret, jc.IsTrue)
	c.Check(fields[openstack.AttrUsername].Secret, jc.IsFalse)
}

func (s *credentialsSuite) TestPasswordV2(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		AuthType: openstack.PasswordAuthType,
		Args:     passwordArgs("https://keystone.example.com:5000/v2.0"),
		Region:   "region-al",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPass)
	c.Assert(plugin.Credentials, jc.DeepEquals, identity.Credentials{
		URL:        "https://keystone.example.com:5000/v2.0",
		User:       "bob",
		Secrets:    "dobbs",
		Region:     "region-al",
		TenantName: "gary",
		Version:    2,
	})
}

func (s *credentialsSuite) TestPasswordDefaultAuthType(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		Args: passwordArgs("https://keystone.example.com:5000/"),
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPass)
}

func (s *credentialsSuite) TestPasswordV3FromAPIVersion(c *gc.C) {
	for i, apiVersion := range []string{"3", "3.0", "v3"} {
		c.Logf("test %d: %q", i, apiVersion)
		plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
			Args:               passwordArgs("https://keystone.example.com:5000/"),
			IdentityAPIVersion: apiVersion,
		})
		c.Assert(err, jc.ErrorIsNil)
		c.Check(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
		c.Check(plugin.Credentials.Version, gc.Equals, 3)
	}
}

func (s *credentialsSuite) TestPasswordV3FromDomain(c *gc.C) {
	for i, attr := range []string{
		openstack.AttrDomainName,
		openstack.AttrUserDomainName,
		openstack.AttrProjectDomainName,
	} {
		c.Logf("test %d: %s", i, attr)
		args := passwordArgs("https://keystone.example.com:5000/")
		args[attr] = "default"
		plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
			Args:               args,
			IdentityAPIVersion: "2.0",
		})
		c.Assert(err, jc.ErrorIsNil)
		c.Check(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
	}
}

func (s *credentialsSuite) TestPasswordV3FromAuthURL(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		Args: passwordArgs("https://sharedhost.example.com/identity/v3/"),
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
}

func (s *credentialsSuite) TestPasswordUnversionedAuthURL(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		Args: passwordArgs("https://keystone.example.com/identity"),
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPass)
}

func (s *credentialsSuite) TestExplicitPasswordVersions(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		AuthType: openstack.V2PasswordAuthType,
		Args:     passwordArgs("https://keystone.example.com/v3"),
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(plugin.Mode, gc.Equals, identity.AuthUserPass)
	c.Check(plugin.Credentials.Version, gc.Equals, 2)

	plugin, err = openstack.NewAuthPlugin(openstack.AuthParams{
		AuthType: openstack.V3PasswordAuthType,
		Args:     passwordArgs("https://keystone.example.com/v2.0"),
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
	c.Check(plugin.Credentials.Version, gc.Equals, 3)
}

func (s *credentialsSuite) TestTenantAliases(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		Args: map[string]interface{}{
			"auth_url":    "https://keystone.example.com/v2.0",
			"username":    "bob",
			"password":    "dobbs",
			"tenant_name": "gary",
			"tenant_id":   "1234",
		},
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(plugin.Credentials.TenantName, gc.Equals, "gary")
	c.Check(plugin.Credentials.TenantID, gc.Equals, "1234")
}

func (s *credentialsSuite) TestAccessKey(c *gc.C) {
	plugin, err := openstack.NewAuthPlugin(openstack.AuthParams{
		AuthType: openstack.AccessKeyAuthType,
		Args: map[string]interface{}{
			"auth_url":    "https://keystone.example.com/v2.0",
			"access_key":  "key",
			"secret_key":  "secret",
			"tenant_name": "gary",
		},
		Region: "east",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthKeyPair)
	c.Assert(plugin.Credentials, jc.DeepEquals, identity.Credentials{
		URL:        "https://keystone.example.com/v2.0",
		User:       "key",
		Secrets:    "secret",
		Region:     "east",
		TenantName: "gary",
	})
}

func (s *credentialsSuite) TestInvalidAuth(c *gc.C) {
	for i, test := range []struct {
		params openstack.AuthParams
		err    string
	}{{
		params: openstack.AuthParams{Args: map[string]interface{}{"username": "bob", "password": "dobbs"}},
		err:    "missing auth_url not valid",
	}, {
		params: openstack.AuthParams{Args: map[string]interface{}{"auth_url": "https://keystone.example.com/v3", "username": "bob"}},
		err:    "password auth without username and password not valid",
	}, {
		params: openstack.AuthParams{
			AuthType: openstack.AccessKeyAuthType,
			Args:     map[string]interface{}{"auth_url": "https://keystone.example.com/v3", "access_key": "key"},
		},
		err: "access_key auth without access_key and secret_key not valid",
	}, {
		params: openstack.AuthParams{AuthType: "token", Args: passwordArgs("https://keystone.example.com/v3")},
		err:    `auth type "token" not valid`,
	}, {
		params: openstack.AuthParams{Args: passwordArgs("https://keystone.example.com/v3"), IdentityAPIVersion: "three"},
		err:    `identity API version "three" not valid`,
	}, {
		params: openstack.AuthParams{Args: map[string]interface{}{"auth_url": "https://keystone.example.com/v3", "username": 42}},
		err:    "auth arguments: .*",
	}} {
		c.Logf("test %d: %s", i, test.err)
		_, err := openstack.NewAuthPlugin(test.params)
		c.Check(err, jc.ErrorIs, errors.NotValid)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}

func (s *credentialsSuite) TestAuthPluginFromConfig(c *gc.C) {
	cc := cloudconfig.New("test1", "region-al", map[string]interface{}{
		"auth_type":            "password",
		"identity_api_version": "3",
		"auth":                 passwordArgs("https://keystone.example.com:5000/"),
	})
	plugin, err := openstack.AuthPluginFromConfig(cc)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
	c.Assert(plugin.Credentials.Region, gc.Equals, "region-al")
	c.Assert(plugin.Credentials.User, gc.Equals, "bob")
}

func (s *credentialsSuite) TestAuthPluginFromConfigYAMLAuthMap(c *gc.C) {
	cc := cloudconfig.New("test1", "region-al", map[string]interface{}{
		"auth": map[interface{}]interface{}{
			"auth_url": "https://keystone.example.com/v2.0",
			"username": "bob",
			"password": "dobbs",
		},
	})
	plugin, err := openstack.AuthPluginFromConfig(cc)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPass)
}

func (s *credentialsSuite) TestAuthPluginFromConfigInvalid(c *gc.C) {
	cc := cloudconfig.New("test1", "region-al", map[string]interface{}{})
	_, err := openstack.AuthPluginFromConfig(cc)
	c.Assert(err, jc.ErrorIs, errors.NotValid)
	c.Assert(err, gc.ErrorMatches, `auth for cloud "test1": missing auth_url not valid`)
}

func (s *credentialsSuite) TestAuthPluginFromEnvNotFound(c *gc.C) {
	// No environment variables set, so no credentials should be found.
	_, err := openstack.AuthPluginFromEnv()
	c.Assert(err, jc.ErrorIs, errors.NotFound)
}

func (s *credentialsSuite) TestAuthPluginFromEnvUserPass(c *gc.C) {
	s.PatchEnvironment("OS_AUTH_URL", "https://keystone.example.com:5000/v2.0")
	s.PatchEnvironment("OS_TENANT_NAME", "gary")
	s.PatchEnvironment("OS_USERNAME", "bob")
	s.PatchEnvironment("OS_PASSWORD", "dobbs")
	s.PatchEnvironment("OS_REGION_NAME", "west")

	plugin, err := openstack.AuthPluginFromEnv()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPass)
	c.Check(plugin.Credentials.URL, gc.Equals, "https://keystone.example.com:5000/v2.0")
	c.Check(plugin.Credentials.User, gc.Equals, "bob")
	c.Check(plugin.Credentials.Secrets, gc.Equals, "dobbs")
	c.Check(plugin.Credentials.TenantName, gc.Equals, "gary")
	c.Check(plugin.Credentials.Region, gc.Equals, "west")
}

func (s *credentialsSuite) TestAuthPluginFromEnvIdentityVersion(c *gc.C) {
	s.PatchEnvironment("OS_AUTH_URL", "https://keystone.example.com:5000/")
	s.PatchEnvironment("OS_USERNAME", "bob")
	s.PatchEnvironment("OS_PASSWORD", "dobbs")
	s.PatchEnvironment("OS_IDENTITY_API_VERSION", "3")

	plugin, err := openstack.AuthPluginFromEnv()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthUserPassV3)
}

func (s *credentialsSuite) TestAuthPluginFromEnvAccessKey(c *gc.C) {
	s.PatchEnvironment("OS_AUTH_URL", "https://keystone.example.com:5000/v2.0")
	s.PatchEnvironment("OS_TENANT_NAME", "gary")
	s.PatchEnvironment("OS_ACCESS_KEY", "key-id")
	s.PatchEnvironment("OS_SECRET_KEY", "secret-access-key")
	s.PatchEnvironment("OS_REGION_NAME", "east")

	plugin, err := openstack.AuthPluginFromEnv()
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(plugin.Mode, gc.Equals, identity.AuthKeyPair)
	c.Check(plugin.Credentials.User, gc.Equals, "key-id")
	c.Check(plugin.Credentials.Secrets, gc.Equals, "secret-access-key")
	c.Check(plugin.Credentials.Region, gc.Equals, "east")
}

func (s *credentialsSuite) TestAuthPluginFromEnvMissingPassword(c *gc.C) {
	s.PatchEnvironment("OS_AUTH_URL", "https://keystone.example.com:5000/v2.0")
	s.PatchEnvironment("OS_USERNAME", "bob")

	_, err := openstack.AuthPluginFromEnv()
	c.Assert(err, jc.ErrorIs, errors.NotFound)
}

func (s *credentialsSuite) TestAuthPluginFromEnvInvalidIdentityVersion(c *gc.C) {
	s.PatchEnvironment("OS_AUTH_URL", "https://keystone.example.com:5000/")
	s.PatchEnvironment("OS_USERNAME", "bob")
	s.PatchEnvironment("OS_PASSWORD", "dobbs")
	s.PatchEnvironment("OS_IDENTITY_API_VERSION", "three")

	_, err := openstack.AuthPluginFromEnv()
	c.Assert(err, gc.ErrorMatches, `reading OS_\* credentials: .*`)
}
