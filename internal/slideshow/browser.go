package slideshow

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// uconn lets net/http2 read the negotiated state off a utls connection.
type uconn struct {
	*utls.UConn
}

func (c *uconn) ConnectionState() tls.ConnectionState {
	cs := c.UConn.ConnectionState()
	return tls.ConnectionState{
		Version:                    cs.Version,
		HandshakeComplete:          cs.HandshakeComplete,
		CipherSuite:                cs.CipherSuite,
		NegotiatedProtocol:         cs.NegotiatedProtocol,
		NegotiatedProtocolIsMutual: cs.NegotiatedProtocolIsMutual,
		ServerName:                 cs.ServerName,
		PeerCertificates:           cs.PeerCertificates,
		VerifiedChains:             cs.VerifiedChains,
	}
}

// newBrowserClient returns a client whose TLS handshake looks like Firefox,
// for article pages that reject Go's default fingerprint.
func newBrowserClient(dialer *net.Dialer, timeout time.Duration, allowPrivate bool) *http.Client {
	dial := guardedDialContext(dialer, allowPrivate)
	return &http.Client{
		Timeout: timeout,
		Transport: &browserTransport{
			dial: dial,
			h1:   &http.Transport{DialContext: dial},
			h2:   &http2.Transport{},
		},
	}
}

type browserTransport struct {
	dial    func(context.Context, string, string) (net.Conn, error)
	h1      *http.Transport
	h2      *http2.Transport
	rootCAs *x509.CertPool // nil uses the system pool
}

// connBody closes the per-request connection along with the body.
type connBody struct {
	io.ReadCloser
	conn io.Closer
}

func (b *connBody) Close() error {
	err := b.ReadCloser.Close()
	b.conn.Close()
	return err
}

func (bt *browserTransport) dialTLS(ctx context.Context, addr string) (net.Conn, string, error) {
	raw, err := bt.dial(ctx, "tcp", addr)
	if err != nil {
		return nil, "", err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn := utls.UClient(raw, &utls.Config{ServerName: host, RootCAs: bt.rootCAs}, utls.HelloFirefox_120)
	if err := conn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, "", err
	}

	return &uconn{conn}, conn.ConnectionState().NegotiatedProtocol, nil
}

func (bt *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return bt.h1.RoundTrip(req)
	}

	addr := req.URL.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "443")
	}

	conn, proto, err := bt.dialTLS(req.Context(), addr)
	if err != nil {
		return nil, err
	}

	if proto == "h2" {
		cc, err := bt.h2.NewClientConn(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		resp, err := cc.RoundTrip(req)
		if err != nil {
			cc.Close()
			return nil, err
		}
		resp.Body = &connBody{ReadCloser: resp.Body, conn: cc}
		return resp, nil
	}

	oneShot := &http.Transport{
		DialTLSContext: func(context.Context, string, string) (net.Conn, error) {
			return conn, nil
		},
		DisableKeepAlives: true,
	}
	resp, err := oneShot.RoundTrip(req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return resp, nil
}
