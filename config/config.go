/* cups4j - Client configuration: target URL, default user, and credentials.
 *
 * See LICENSE for license terms and conditions
 */

// Package config loads the client's configuration surface: target URL,
// default user, and credentials (spec §6).
package config

import (
	"fmt"
	"os/user"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultHost and DefaultPort are the process-wide defaults named in
// spec §9. The default user is not a constant: Default() (and so Load())
// resolves it from the OS identity when the Config is built, and a
// Client reads it from its Config rather than per call.
const (
	DefaultHost = "localhost"
	DefaultPort = 631
)

// Config is the client's configuration surface. Values supplied
// programmatically always take priority over anything loaded from an
// INI file (callers overwrite fields on the struct ini.v1 returned).
type Config struct {
	Host     string
	Port     int
	Scheme   string // "http" or "https"; defaults to "http"
	BasePath string // e.g. "/printers/LaserJet"; defaults to "/"

	User string // value of requesting-user-name when not overridden per call

	CredentialsUser     string
	CredentialsPassword string
}

// Default returns a Config pointed at the local CUPS server, with User
// resolved from the OS identity (falling back to "anonymous").
func Default() Config {
	return Config{
		Host:   DefaultHost,
		Port:   DefaultPort,
		Scheme: "http",
		User:   defaultUser(),
	}
}

func defaultUser() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "anonymous"
	}
	return u.Username
}

// Load reads a [client] section from an INI file at path, via
// gopkg.in/ini.v1, overlaying it onto Default(). Recognized keys: host,
// port, scheme, base-path, user, credentials-user, credentials-password.
func Load(path string) (Config, error) {
	cfg := Default()

	inifile, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
	}

	section, err := inifile.GetSection("client")
	if err != nil {
		// No [client] section: the defaults stand.
		return cfg, nil
	}

	if key, _ := section.GetKey("host"); key != nil {
		cfg.Host = key.String()
	}
	if key, _ := section.GetKey("port"); key != nil {
		if port, err := key.Int(); err == nil {
			cfg.Port = port
		} else {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if key, _ := section.GetKey("scheme"); key != nil {
		cfg.Scheme = key.String()
	}
	if key, _ := section.GetKey("base-path"); key != nil {
		cfg.BasePath = key.String()
	}
	if key, _ := section.GetKey("user"); key != nil {
		cfg.User = key.String()
	}
	if key, _ := section.GetKey("credentials-user"); key != nil {
		cfg.CredentialsUser = key.String()
	}
	if key, _ := section.GetKey("credentials-password"); key != nil {
		cfg.CredentialsPassword = key.String()
	}

	return cfg, nil
}

// BaseURL returns the scheme://host:port prefix this Config points at.
// It never includes BasePath; use TargetURL for the full request target.
func (c Config) BaseURL() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "http"
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, port)
}

// TargetURL returns BaseURL with BasePath appended, normalized to carry
// a single trailing slash. This is the request target server-scoped
// operations (Get-Printers, Get-Default) use.
func (c Config) TargetURL() string {
	return c.BaseURL() + normalizeBasePath(c.BasePath) + "/"
}

// ResolvePath resolves path against the configured base path: an
// absolute URI (one naming a scheme) is returned verbatim, and a
// relative path is appended after BasePath.
func (c Config) ResolvePath(path string) string {
	if isAbsoluteURI(path) {
		return path
	}
	path = strings.TrimPrefix(path, "/")
	return c.BaseURL() + normalizeBasePath(c.BasePath) + "/" + path
}

// normalizeBasePath strips a trailing slash and ensures a leading one,
// treating "" and "/" alike as "no base path".
func normalizeBasePath(basePath string) string {
	basePath = strings.Trim(basePath, "/")
	if basePath == "" {
		return ""
	}
	return "/" + basePath
}

func isAbsoluteURI(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0
		case '/':
			return false
		}
	}
	return false
}
