package wifi

import "fmt"

// Bounds imposed by the radio firmware's fixed-size credential buffers.
const (
	maxSSIDLen       = 32
	minPassphraseLen = 8
	maxPassphraseLen = 64
)

// Credentials holds the network name and passphrase baked in at build time.
type Credentials struct {
	SSID       string
	Passphrase string
}

// ConfigError reports a credential that cannot be represented in the radio's
// bounded string buffers. It is returned before any radio operation runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wifi config: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the credentials against the radio's buffer limits.
func (c Credentials) Validate() error {
	if c.SSID == "" {
		return &ConfigError{Field: "ssid", Reason: "must not be empty"}
	}
	if len(c.SSID) > maxSSIDLen {
		return &ConfigError{
			Field:  "ssid",
			Reason: fmt.Sprintf("%d bytes exceeds %d byte limit", len(c.SSID), maxSSIDLen),
		}
	}
	if len(c.Passphrase) > maxPassphraseLen {
		return &ConfigError{
			Field:  "passphrase",
			Reason: fmt.Sprintf("%d bytes exceeds %d byte limit", len(c.Passphrase), maxPassphraseLen),
		}
	}
	// A WPA2-PSK passphrase is at least 8 characters; an empty passphrase
	// would mean an open network, which this firmware does not do.
	if len(c.Passphrase) < minPassphraseLen {
		return &ConfigError{
			Field:  "passphrase",
			Reason: fmt.Sprintf("shorter than %d bytes", minPassphraseLen),
		}
	}
	return nil
}

// clientConfig spells out every field of the radio configuration so nothing
// silently inherits a driver default.
func (c Credentials) clientConfig() Config {
	return Config{
		SSID:           c.SSID,
		Passphrase:     c.Passphrase,
		AuthMethod:     AuthWPA2Personal,
		ConnectTimeout: connectTimeout,
	}
}
