// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"fmt"
	"os"

	"github.com/go-goose/goose/v5/identity"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/juju/environschema.v1"

	"github.com/juju/clientconfig/cloudconfig"
)

// Auth types understood by NewAuthPlugin.
const (
	PasswordAuthType   = "password"
	V2PasswordAuthType = "v2password"
	V3PasswordAuthType = "v3password"
	AccessKeyAuthType  = "access_key"
)

// Attributes of the "auth" sub-mapping.
const (
	AttrAuthURL           = "auth_url"
	AttrUsername          = "username"
	AttrPassword          = "password"
	AttrProjectName       = "project_name"
	AttrTenantName        = "tenant_name"
	AttrProjectID         = "project_id"
	AttrTenantID          = "tenant_id"
	AttrUserDomainName    = "user_domain_name"
	AttrProjectDomainName = "project_domain_name"
	AttrDomainName        = "domain_name"
	AttrAccessKey         = "access_key"
	AttrSecretKey         = "secret_key"
)

var authSchema = environschema.Fields{
	AttrAuthURL: {
		Description: "The URL of the identity service.",
		Type:        environschema.Tstring,
	},
	AttrUsername: {
		Description: "The user name.",
		Type:        environschema.Tstring,
	},
	AttrPassword: {
		Description: "The password for the user.",
		Type:        environschema.Tstring,
		Secret:      true,
	},
	AttrProjectName: {
		Description: "The name of the project to scope to.",
		Type:        environschema.Tstring,
	},
	AttrTenantName: {
		Description: "The name of the tenant to scope to.",
		Type:        environschema.Tstring,
	},
	AttrProjectID: {
		Description: "The ID of the project to scope to.",
		Type:        environschema.Tstring,
	},
	AttrTenantID: {
		Description: "The ID of the tenant to scope to.",
		Type:        environschema.Tstring,
	},
	AttrUserDomainName: {
		Description: "The domain of the user.",
		Type:        environschema.Tstring,
	},
	AttrProjectDomainName: {
		Description: "The domain of the project.",
		Type:        environschema.Tstring,
	},
	AttrDomainName: {
		Description: "The domain for both user and project.",
		Type:        environschema.Tstring,
	},
	AttrAccessKey: {
		Description: "The access key.",
		Type:        environschema.Tstring,
	},
	AttrSecretKey: {
		Description: "The secret key.",
		Type:        environschema.Tstring,
		Secret:      true,
	},
}

var authDefaults = func() schema.Defaults {
	defaults := make(schema.Defaults)
	for name := range authSchema {
		defaults[name] = schema.Omit
	}
	return defaults
}()

var authFields = func() schema.Fields {
	fs, _, err := authSchema.ValidationSchema()
	if err != nil {
		panic(err)
	}
	return fs
}()

// AuthSchema returns the schema of the "auth" sub-mapping.
func AuthSchema() environschema.Fields {
	return authSchema
}

// authArgs is the decoded form of a validated "auth" sub-mapping.
type authArgs struct {
	AuthURL           string `mapstructure:"auth_url"`
	Username          string `mapstructure:"username"`
	Password          string `mapstructure:"password"`
	ProjectName       string `mapstructure:"project_name"`
	TenantName        string `mapstructure:"tenant_name"`
	ProjectID         string `mapstructure:"project_id"`
	TenantID          string `mapstructure:"tenant_id"`
	UserDomainName    string `mapstructure:"user_domain_name"`
	ProjectDomainName string `mapstructure:"project_domain_name"`
	DomainName        string `mapstructure:"domain_name"`
	AccessKey         string `mapstructure:"access_key"`
	SecretKey         string `mapstructure:"secret_key"`
}

func parseAuthArgs(args map[string]interface{}) (authArgs, error) {
	var parsed authArgs
	coerced, err := schema.FieldMap(authFields, authDefaults).Coerce(args, nil)
	if err != nil {
		return parsed, errors.NewNotValid(err, "auth arguments")
	}
	if err := mapstructure.Decode(coerced, &parsed); err != nil {
		return parsed, errors.NewNotValid(err, "auth arguments")
	}
	return parsed, nil
}

// AuthPlugin holds goose credentials and the mode used to
// authenticate them. It is the auth plugin carried by a
// cloudconfig.CloudConfig and consumed by NewSession.
type AuthPlugin struct {
	Credentials identity.Credentials
	Mode        identity.AuthMode
}

// String implements fmt.Stringer without exposing secrets.
func (p *AuthPlugin) String() string {
	return fmt.Sprintf("%v auth for %q at %s", p.Mode, p.Credentials.User, p.Credentials.URL)
}

// AuthParams holds the arguments to NewAuthPlugin.
type AuthParams struct {
	// AuthType is one of the *AuthType constants. Empty means
	// PasswordAuthType.
	AuthType string

	// Args is the "auth" sub-mapping.
	Args map[string]interface{}

	// Region is the region the credentials are scoped to.
	Region string

	// IdentityAPIVersion, if set, is the configured identity API
	// version. A major version of 3 or more selects v3 password auth.
	IdentityAPIVersion string
}

// NewAuthPlugin validates the auth arguments and returns the
// corresponding goose credentials and auth mode.
func NewAuthPlugin(params AuthParams) (*AuthPlugin, error) {
	args, err := parseAuthArgs(params.Args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if args.AuthURL == "" {
		return nil, errors.NotValidf("missing %s", AttrAuthURL)
	}
	cred := identity.Credentials{
		URL:           args.AuthURL,
		Region:        params.Region,
		TenantName:    firstNonEmpty(args.ProjectName, args.TenantName),
		TenantID:      firstNonEmpty(args.ProjectID, args.TenantID),
		UserDomain:    args.UserDomainName,
		ProjectDomain: args.ProjectDomainName,
		Domain:        args.DomainName,
	}

	var mode identity.AuthMode
	switch params.AuthType {
	case PasswordAuthType, "":
		var major int
		if params.IdentityAPIVersion != "" {
			if major, err = identityAPIMajor(params.IdentityAPIVersion); err != nil {
				return nil, errors.Trace(err)
			}
		}
		mode = passwordAuthMode(cred, major)
	case V2PasswordAuthType:
		mode = identity.AuthUserPass
	case V3PasswordAuthType:
		mode = identity.AuthUserPassV3
	case AccessKeyAuthType:
		if args.AccessKey == "" || args.SecretKey == "" {
			return nil, errors.NotValidf("%s auth without %s and %s", AccessKeyAuthType, AttrAccessKey, AttrSecretKey)
		}
		cred.User = args.AccessKey
		cred.Secrets = args.SecretKey
		return &AuthPlugin{Credentials: cred, Mode: identity.AuthKeyPair}, nil
	default:
		return nil, errors.NotValidf("auth type %q", params.AuthType)
	}

	if args.Username == "" || args.Password == "" {
		return nil, errors.NotValidf("password auth without %s and %s", AttrUsername, AttrPassword)
	}
	cred.User = args.Username
	cred.Secrets = args.Password
	cred.Version = 2
	if mode == identity.AuthUserPassV3 {
		cred.Version = 3
	}
	return &AuthPlugin{Credentials: cred, Mode: mode}, nil
}

// passwordAuthMode picks v3 password auth when the configured identity
// major version asks for it, when any domain is named, or when the auth
// URL names a v3 endpoint. A zero major version means none is
// configured.
func passwordAuthMode(cred identity.Credentials, major int) identity.AuthMode {
	if major >= 3 {
		return identity.AuthUserPassV3
	}
	if cred.Domain != "" || cred.UserDomain != "" || cred.ProjectDomain != "" {
		return identity.AuthUserPassV3
	}
	urlVersion, err := identityClientVersion(cred.URL)
	if err != nil {
		logger.Debugf("cannot infer identity version from %s: %v", cred.URL, err)
	} else if urlVersion >= 3 {
		return identity.AuthUserPassV3
	}
	return identity.AuthUserPass
}

// AuthPluginFromConfig builds the auth plugin described by the cloud
// configuration: its auth_type, its auth sub-mapping, the identity API
// version and the cloud region.
func AuthPluginFromConfig(cc *cloudconfig.CloudConfig) (*AuthPlugin, error) {
	var authType string
	if v, ok := cc.Get("auth_type"); ok && v != nil {
		authType = fmt.Sprint(v)
	}
	plugin, err := NewAuthPlugin(AuthParams{
		AuthType:           authType,
		Args:               cc.AuthArgs(),
		Region:             cc.Region(),
		IdentityAPIVersion: cc.APIVersion(cloudconfig.IdentityService),
	})
	if err != nil {
		return nil, errors.Annotatef(err, "auth for cloud %q", cc.Name())
	}
	return plugin, nil
}

// AuthPluginFromEnv builds an auth plugin from the OS_* environment
// variables. Access key auth is used when OS_ACCESS_KEY is set.
func AuthPluginFromEnv() (*AuthPlugin, error) {
	env, err := identity.CredentialsFromEnv()
	if err != nil {
		return nil, errors.Annotate(err, "reading OS_* credentials")
	}
	cred := identity.Credentials{
		URL:           env.URL,
		User:          env.User,
		Secrets:       env.Secrets,
		Region:        env.Region,
		TenantName:    env.TenantName,
		TenantID:      env.TenantID,
		UserDomain:    env.UserDomain,
		ProjectDomain: env.ProjectDomain,
		Domain:        env.Domain,
	}
	if cred.URL == "" {
		return nil, errors.NotFoundf("OS_AUTH_URL environment variable")
	}
	if accessKey := os.Getenv("OS_ACCESS_KEY"); accessKey != "" {
		cred.User = accessKey
		cred.Secrets = os.Getenv("OS_SECRET_KEY")
		return &AuthPlugin{Credentials: cred, Mode: identity.AuthKeyPair}, nil
	}
	if cred.User == "" || cred.Secrets == "" {
		return nil, errors.NotFoundf("OS_USERNAME and OS_PASSWORD environment variables")
	}
	// goose has already parsed OS_IDENTITY_API_VERSION.
	mode := passwordAuthMode(cred, env.Version)
	cred.Version = 2
	if mode == identity.AuthUserPassV3 {
		cred.Version = 3
	}
	return &AuthPlugin{Credentials: cred, Mode: mode}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
