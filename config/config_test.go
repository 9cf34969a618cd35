/* cups4j - Tests for configuration loading and URL resolution.
 *
 * See LICENSE for license terms and conditions
 */

package config

import (
	"io/ioutil"
	"os"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Scheme != "http" {
		t.Errorf("Scheme = %q, want %q", cfg.Scheme, "http")
	}
	if cfg.User == "" {
		t.Errorf("User resolved to empty string")
	}
}

func TestBaseURL(t *testing.T) {
	cfg := Config{Host: "printserver", Port: 8631, Scheme: "https"}
	if got, want := cfg.BaseURL(), "https://printserver:8631"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}

func TestBaseURLDefaultsOnZeroPort(t *testing.T) {
	cfg := Config{Host: "localhost"}
	if got, want := cfg.BaseURL(), "http://localhost:631"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}

func TestTargetURLDefaultBasePath(t *testing.T) {
	cfg := Config{Host: "printserver", Port: 631, Scheme: "http"}
	if got, want := cfg.TargetURL(), "http://printserver:631/"; got != want {
		t.Errorf("TargetURL() = %q, want %q", got, want)
	}
}

func TestTargetURL(t *testing.T) {
	for _, basePath := range []string{"/printers/LaserJet", "printers/LaserJet", "/printers/LaserJet/"} {
		cfg := Config{Host: "printserver", Port: 631, Scheme: "http", BasePath: basePath}
		if got, want := cfg.TargetURL(), "http://printserver:631/printers/LaserJet/"; got != want {
			t.Errorf("TargetURL() with BasePath %q = %q, want %q", basePath, got, want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	cfg := Config{Host: "printserver", Port: 631, Scheme: "http", BasePath: "/printers/LaserJet"}

	if got, want := cfg.ResolvePath("/ipp/print"), "http://printserver:631/printers/LaserJet/ipp/print"; got != want {
		t.Errorf("ResolvePath(relative) = %q, want %q", got, want)
	}

	abs := "ipp://elsewhere:631/printers/other"
	if got := cfg.ResolvePath(abs); got != abs {
		t.Errorf("ResolvePath(absolute) = %q, want %q unchanged", got, abs)
	}
}

func TestLoad(t *testing.T) {
	f, err := ioutil.TempFile("", "cups4j-config-*.ini")
	if err != nil {
		t.Fatalf("TempFile: %s", err)
	}
	defer os.Remove(f.Name())

	ini := `[client]
host = printserver.example.com
port = 9631
scheme = https
base-path = /printers/LaserJet
user = alice
credentials-user = alice
credentials-password = secret
`
	if _, err := f.WriteString(ini); err != nil {
		t.Fatalf("writing fixture: %s", err)
	}
	f.Close()

	cfg, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	if cfg.Host != "printserver.example.com" {
		t.Errorf("Host = %q, want %q", cfg.Host, "printserver.example.com")
	}
	if cfg.Port != 9631 {
		t.Errorf("Port = %d, want 9631", cfg.Port)
	}
	if cfg.Scheme != "https" {
		t.Errorf("Scheme = %q, want %q", cfg.Scheme, "https")
	}
	if cfg.BasePath != "/printers/LaserJet" {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, "/printers/LaserJet")
	}
	if cfg.User != "alice" {
		t.Errorf("User = %q, want %q", cfg.User, "alice")
	}
	if cfg.CredentialsUser != "alice" || cfg.CredentialsPassword != "secret" {
		t.Errorf("credentials = %q/%q, want alice/secret", cfg.CredentialsUser, cfg.CredentialsPassword)
	}
}

func TestLoadMissingSectionFallsBackToDefaults(t *testing.T) {
	f, err := ioutil.TempFile("", "cups4j-config-*.ini")
	if err != nil {
		t.Fatalf("TempFile: %s", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString("[other]\nkey = value\n"); err != nil {
		t.Fatalf("writing fixture: %s", err)
	}
	f.Close()

	cfg, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %s", err)
	}
	if cfg.Host != DefaultHost || cfg.Port != DefaultPort {
		t.Errorf("Load with no [client] section = %+v, want defaults", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/cups4j.ini"); err == nil {
		t.Fatalf("Load on a missing file: expected an error")
	}
}
