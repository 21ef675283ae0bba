package apns

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	productionHost  = "api.push.apple.com"
	developmentHost = "api.sandbox.push.apple.com"

	defaultPort   = 443
	alternatePort = 2197
)

// Endpoint is the APNs host and port a client talks to.
type Endpoint struct {
	Host string
	Port int
}

// Production is the default APNs endpoint.
func Production() Endpoint {
	return Endpoint{Host: productionHost, Port: defaultPort}
}

// ProductionAlternate is the production endpoint on the alternate port 2197,
// for networks that block 443.
func ProductionAlternate() Endpoint {
	return Endpoint{Host: productionHost, Port: alternatePort}
}

// Development is the sandbox endpoint used by development builds.
func Development() Endpoint {
	return Endpoint{Host: developmentHost, Port: defaultPort}
}

// DevelopmentAlternate is the sandbox endpoint on the alternate port 2197.
func DevelopmentAlternate() Endpoint {
	return Endpoint{Host: developmentHost, Port: alternatePort}
}

// ParseEndpoint parses a canonical "host:port" string.
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, ok := strings.Cut(s, ":")
	if !ok || host == "" || strings.Contains(portStr, ":") {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: want host:port", s)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid endpoint port %q", portStr)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// String returns the canonical "host:port" form.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// baseURL is the https origin requests are sent to.
func (e Endpoint) baseURL() string {
	return fmt.Sprintf("https://%s:%d", e.Host, e.Port)
}
