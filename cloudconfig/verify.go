// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cloudconfig

import "strconv"

const (
	verifyKey = "verify"
	cacertKey = "cacert"
	certKey   = "cert"
	keyKey    = "key"
)

// VerifyArgs holds the TLS arguments for a session.
type VerifyArgs struct {
	// Verify is false when server certificates must not be verified.
	Verify bool

	// CACert is the path of the CA bundle to verify against. It is
	// only set when Verify is true.
	CACert string

	// Cert is the path of the client certificate, if any.
	Cert string

	// Key is the path of the client certificate key. It is only set
	// when Cert is set.
	Key string
}

// RequestsVerifyArgs derives the TLS verification and client
// certificate arguments from the "verify", "cacert", "cert" and "key"
// configuration entries.
func (c *CloudConfig) RequestsVerifyArgs() VerifyArgs {
	var args VerifyArgs
	args.Verify = c.verify()
	if args.Verify {
		args.CACert, _ = c.lookupString(cacertKey)
	}
	if cert, ok := c.lookupString(certKey); ok {
		args.Cert = cert
		args.Key, _ = c.lookupString(keyKey)
	}
	return args
}

func (c *CloudConfig) verify() bool {
	switch v := c.config[verifyKey].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return true
}
