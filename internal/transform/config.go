package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AppConfig is the declarative replacement for the old executable
// app/config.js. Field order here is the field order in the emitted JSON.
type AppConfig struct {
	BasePlugins []string `json:"basePlugins"`
	Port        int      `json:"port"`
	ServiceName string   `json:"serviceName"`
}

// DefaultPort is used when a legacy config declares no port.
const DefaultPort = 3000

// DefaultServiceName is the last-resort service name.
const DefaultServiceName = "Your service name"

var (
	serviceNamePattern = regexp.MustCompile(`serviceName\s*:\s*['"]([^'"]*)['"]`)
	portPattern        = regexp.MustCompile(`port\s*:\s*(\d+)`)
)

// ConvertConfig turns a legacy executable app/config.js into the declarative
// app/config.json content. The semantic fields (service name, port, enabled
// extensions) are carried over; everything else in the old file was
// executable plumbing the kit now provides and is discarded. fallbackName is
// used to derive a service name when the legacy config declares none,
// typically the manifest's package name.
func ConvertConfig(legacy []byte, fallbackName string) ([]byte, error) {
	if !bytes.Contains(legacy, []byte("module.exports")) {
		return nil, fmt.Errorf("config.js does not look like a kit configuration (no module.exports)")
	}

	cfg := AppConfig{
		BasePlugins: []string{"govuk-prototype-kit"},
		Port:        DefaultPort,
		ServiceName: deriveServiceName("", fallbackName),
	}

	if m := serviceNamePattern.FindSubmatch(legacy); m != nil {
		cfg.ServiceName = deriveServiceName(string(m[1]), fallbackName)
	}
	if m := portPattern.FindSubmatch(legacy); m != nil {
		port, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return nil, fmt.Errorf("parsing port from config.js: %w", err)
		}
		cfg.Port = port
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config.json: %w", err)
	}
	return append(out, '\n'), nil
}

// deriveServiceName picks the declared name, else humanizes the package
// name, else falls back to the default.
func deriveServiceName(declared, packageName string) string {
	if declared != "" {
		return declared
	}
	if packageName != "" {
		name := strings.NewReplacer("-", " ", "_", " ").Replace(packageName)
		name = strings.Join(strings.Fields(name), " ")
		if name != "" {
			return strings.ToUpper(name[:1]) + name[1:]
		}
	}
	return DefaultServiceName
}
