// Package config loads client configuration from YAML files and applies it
// to a ClientBuilder. File configuration is a convenience surface for tools;
// all validation still happens in Build.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pushnet/pushgate/pkg/auth"
	"github.com/pushnet/pushgate/pkg/client"
)

// File mirrors the YAML client configuration document.
type File struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Credentials struct {
		// PKCS#12 container for TLS-based authentication.
		P12File     string `yaml:"p12_file"`
		P12Password string `yaml:"p12_password"`

		// PKCS#8 signing key for token-based authentication.
		SigningKeyFile  string        `yaml:"signing_key_file"`
		KeyID           string        `yaml:"key_id"`
		TeamID          string        `yaml:"team_id"`
		TokenExpiration time.Duration `yaml:"token_expiration"`
	} `yaml:"credentials"`

	Trust struct {
		PEMFile string `yaml:"pem_file"`
	} `yaml:"trust"`

	Policy struct {
		ConnectTimeout          time.Duration `yaml:"connect_timeout"`
		IdlePingInterval        time.Duration `yaml:"idle_ping_interval"`
		GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
		ConcurrentConnections   int           `yaml:"concurrent_connections"`
	} `yaml:"policy"`
}

// Load reads and parses a YAML client configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// ApplyTo transfers the file's settings onto a builder. Signing keys are
// loaded here because the builder carries parsed keys; PKCS#12 containers are
// handed over as paths and stay untouched until Build. Unset fields leave the
// builder's defaults in place.
func (f *File) ApplyTo(b *client.ClientBuilder) error {
	if f.Server.Host != "" {
		if f.Server.Port != 0 {
			b.WithServerPort(f.Server.Host, f.Server.Port)
		} else {
			b.WithServer(f.Server.Host)
		}
	}

	if f.Credentials.P12File != "" {
		b.WithCredentialsFromP12File(f.Credentials.P12File, f.Credentials.P12Password)
	}

	if f.Credentials.SigningKeyFile != "" {
		key, err := auth.LoadSigningKeyFromFile(f.Credentials.SigningKeyFile, f.Credentials.KeyID, f.Credentials.TeamID)
		if err != nil {
			return err
		}
		b.WithSigningKey(key)
	}
	if f.Credentials.TokenExpiration != 0 {
		b.WithTokenExpiration(f.Credentials.TokenExpiration)
	}

	if f.Trust.PEMFile != "" {
		b.WithTrustedCertificatesFromPEMFile(f.Trust.PEMFile)
	}

	if f.Policy.ConnectTimeout != 0 {
		b.WithConnectionTimeout(f.Policy.ConnectTimeout)
	}
	if f.Policy.IdlePingInterval != 0 {
		b.WithIdlePingInterval(f.Policy.IdlePingInterval)
	}
	if f.Policy.GracefulShutdownTimeout != 0 {
		b.WithGracefulShutdownTimeout(f.Policy.GracefulShutdownTimeout)
	}
	if f.Policy.ConcurrentConnections != 0 {
		b.WithConcurrentConnections(f.Policy.ConcurrentConnections)
	}

	return nil
}

// MaterialPaths returns the on-disk material files referenced by the
// configuration, for use with the cert package's change watcher.
func (f *File) MaterialPaths() []string {
	var paths []string
	for _, p := range []string{f.Credentials.P12File, f.Credentials.SigningKeyFile, f.Trust.PEMFile} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
