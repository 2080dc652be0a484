package api

import (
	"net"
	"net/url"
	"strings"
)

const (
	localAPIPort  = "8001"
	localPagePort = "8000"
	defaultBase   = "http://localhost:" + localAPIPort
)

// ResolveAPIBase picks the API base URL. A non-empty override wins. Otherwise
// the base is inferred from the page origin: local hosts serving the page on
// 8000 (or no port) talk to the API on 8001, any other host keeps its own
// scheme, host and port.
func ResolveAPIBase(override, origin string) string {
	if o := strings.TrimSpace(override); o != "" {
		return strings.TrimRight(o, "/")
	}

	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "file" || u.Host == "" {
		return defaultBase
	}

	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		port := u.Port()
		if port == "" || port == localPagePort {
			port = localAPIPort
		}
		return u.Scheme + "://" + net.JoinHostPort(host, port)
	}
	return u.Scheme + "://" + u.Host
}
