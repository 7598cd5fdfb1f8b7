package endpoint

import (
	"net"
	"strconv"
	"strings"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
	PlatformOther   Platform = "other"
)

// ParsePlatform maps user input to a Platform; unknown names are PlatformOther.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios", "mobile-ios":
		return PlatformIOS
	case "android", "mobile-android":
		return PlatformAndroid
	case "web", "browser":
		return PlatformWeb
	default:
		return PlatformOther
	}
}

type Environment string

const (
	EnvironmentAny       Environment = ""
	EnvironmentSimulator Environment = "simulator"
	EnvironmentDevice    Environment = "device"
)

type HostKind int

const (
	HostLocalhost HostKind = iota
	HostLAN
)

// Rule matches a platform and environment to a host. An empty Platform or
// EnvironmentAny matches everything.
type Rule struct {
	Platform    Platform
	Environment Environment
	Host        HostKind
}

func (r Rule) matches(p Platform, env Environment) bool {
	if r.Platform != "" && r.Platform != p {
		return false
	}
	return r.Environment == EnvironmentAny || r.Environment == env
}

// DefaultRules: simulators and browsers reach the backend on localhost,
// everything else over the LAN.
var DefaultRules = []Rule{
	{Platform: PlatformIOS, Environment: EnvironmentSimulator, Host: HostLocalhost},
	{Platform: PlatformIOS, Environment: EnvironmentDevice, Host: HostLAN},
	{Platform: PlatformAndroid, Host: HostLAN},
	{Platform: PlatformWeb, Host: HostLocalhost},
	{Host: HostLAN},
}

const (
	DefaultPort  = 8000
	DefaultLanIP = "172.20.10.7"
	localhost    = "localhost"
)

// Resolver computes the default base URL. It has no state beyond its
// settings and is safe for concurrent use.
type Resolver struct {
	Rules []Rule
	LanIP string
	Port  int
}

// NewResolver uses DefaultRules. Empty lanIP and non-positive port fall back
// to DefaultLanIP and DefaultPort.
func NewResolver(lanIP string, port int) *Resolver {
	if lanIP == "" {
		lanIP = DefaultLanIP
	}
	if port <= 0 || port > maxPort {
		port = DefaultPort
	}
	return &Resolver{Rules: DefaultRules, LanIP: lanIP, Port: port}
}

// ResolveDefault returns the base URL of the first rule matching platform and
// simulator. With no matching rule the LAN host is used.
func (r *Resolver) ResolveDefault(platform Platform, simulator bool) string {
	env := EnvironmentDevice
	if simulator {
		env = EnvironmentSimulator
	}

	host := HostLAN
	for _, rule := range r.Rules {
		if rule.matches(platform, env) {
			host = rule.Host
			break
		}
	}

	if host == HostLocalhost {
		return buildURL(localhost, r.Port)
	}
	return buildURL(r.LanIP, r.Port)
}

func buildURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}
