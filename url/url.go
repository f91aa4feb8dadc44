package url

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Parse parses a download URL and checks that it is absolute with a scheme and host.
// The scheme is not restricted here; the HTTP client rejects what it cannot fetch.
// Internationalized host names are converted to their ASCII (punycode) form.
func Parse(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	if parsedURL.Scheme == "" {
		return nil, fmt.Errorf("invalid url %q: no scheme supplied", rawURL)
	}

	if parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid url %q: no host supplied", rawURL)
	}

	host, err := asciiHost(parsedURL.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid url host %q: %w", parsedURL.Host, err)
	}
	parsedURL.Host = host

	return parsedURL, nil
}

// asciiHost converts the hostname part of host (which may carry a port) to ASCII.
func asciiHost(host string) (string, error) {
	hostname, port, err := net.SplitHostPort(host)
	if err != nil {
		hostname, port = host, ""
	}

	if strings.HasPrefix(hostname, "[") || net.ParseIP(strings.Trim(hostname, "[]")) != nil {
		return host, nil
	}

	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return "", err
	}

	if port != "" {
		return net.JoinHostPort(ascii, port), nil
	}
	return ascii, nil
}

// ValidateNotPrivate checks if a host (hostname or hostname:port) resolves to a private or loopback IP address.
// Link-local addresses (169.254.0.0/16 and fe80::/10) are blocked too, which covers
// cloud metadata endpoints.
func ValidateNotPrivate(host string) error {
	hostname, _, err := net.SplitHostPort(host)
	if err != nil {
		hostname = host
	}

	hostname = strings.Trim(hostname, "[]")

	if ip := net.ParseIP(hostname); ip != nil {
		return checkIP(hostname, ip)
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return nil
	}

	for _, resolvedIP := range ips {
		if err := checkIP(hostname, resolvedIP); err != nil {
			return fmt.Errorf("url resolves to a blocked address: %w", err)
		}
	}

	return nil
}

func checkIP(hostname string, ip net.IP) error {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return fmt.Errorf("requests to private IP addresses are not allowed: %s (%s)", hostname, ip)
	}
	if isLinkLocal(ip) {
		return fmt.Errorf("requests to link-local addresses are not allowed: %s (%s)", hostname, ip)
	}
	return nil
}

func isLinkLocal(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 169 && ip4[1] == 254
	}
	return len(ip) == 16 && ip[0] == 0xfe && (ip[1]&0xc0) == 0x80
}
