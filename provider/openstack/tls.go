// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"

	"github.com/juju/clientconfig/cloudconfig"
)

// tlsConfig builds the client TLS configuration described by verify. The
// CA bundle and client certificate paths may start with "~".
func tlsConfig(verify cloudconfig.VerifyArgs) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !verify.Verify,
	}
	if verify.CACert != "" {
		caPath, err := utils.NormalizePath(verify.CACert)
		if err != nil {
			return nil, errors.Trace(err)
		}
		pem, err := os.ReadFile(caPath)
		if err != nil {
			return nil, errors.Annotate(err, "reading CA certificate")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.NotValidf("CA certificate %q", verify.CACert)
		}
		cfg.RootCAs = pool
	}
	if verify.Cert != "" {
		certPath, err := utils.NormalizePath(verify.Cert)
		if err != nil {
			return nil, errors.Trace(err)
		}
		// Without a key file the certificate file holds both.
		keyPath := certPath
		if verify.Key != "" {
			if keyPath, err = utils.NormalizePath(verify.Key); err != nil {
				return nil, errors.Trace(err)
			}
		}
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			return nil, errors.Annotate(err, "loading client certificate")
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
