package mail

import (
	"context"
	"crypto/tls"
	"net"
)

// DialThrough points d at addr whatever the configured host and port, and
// trusts roots from tc during TLS handshakes.
func DialThrough(d *WireDriver, addr string, tc *tls.Config) *WireDriver {
	var dialer net.Dialer
	d.dial = func(ctx context.Context, network, _ string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	d.tlsConfig = tc
	return d
}
