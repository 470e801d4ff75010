package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the number of redirects followed before giving up.
const maxRedirects = 10

var (
	// errTooManyRedirects is returned by the redirect policy of NewHTTPClient.
	errTooManyRedirects = errors.New("too many redirects")

	// ErrInvalidProxy is returned for a proxy URL that is not
	// socks5://host:port or http(s)://host:port.
	ErrInvalidProxy = errors.New("invalid proxy: use socks5://host:port or http://host:port")
)

// NewHTTPClient returns an http.Client suitable for crawling.
// It bounds each request by timeout and stops after maxRedirects hops.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
	}
}

// NewProxyClient is NewHTTPClient routed through a proxy. socks5:// URLs
// dial through a SOCKS5 proxy; http:// and https:// URLs use an HTTP proxy.
// An empty proxyURL returns NewHTTPClient(timeout).
func NewProxyClient(timeout time.Duration, proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return NewHTTPClient(timeout), nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil || !isValidProxyAddress(u.Host) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, proxyURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default

	switch u.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if u.User != nil {
			password, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: password}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, proxyURL)
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
	}, nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d hops at %s", errTooManyRedirects, len(via), req.URL)
	}
	return nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
// Dialers without context support are cancelled by closing the
// connection once it arrives.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case <-ctx.Done():
			go func() {
				if r := <-resultCh; r.conn != nil {
					_ = r.conn.Close()
				}
			}()
			return nil, ctx.Err()
		case r := <-resultCh:
			return r.conn, r.err
		}
	}
}

// isValidProxyAddress checks for a non-empty host and a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
