// Package network redirects plain HTTP requests that reach the TLS port to
// their https:// URL.
package network

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// tlsHandshake is the record type byte that opens every TLS ClientHello.
const tlsHandshake = 0x16

// AutoHttpsConn answers a plaintext HTTP request with a redirect to HTTPS
// and closes the connection. TLS traffic passes through untouched.
type AutoHttpsConn struct {
	net.Conn

	reader    *bufio.Reader
	checkOnce sync.Once
	plainHTTP bool
}

func NewAutoHttpsConn(conn net.Conn) net.Conn {
	return &AutoHttpsConn{
		Conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (c *AutoHttpsConn) check() {
	first, err := c.reader.Peek(1)
	if err != nil || first[0] == tlsHandshake {
		return
	}
	c.plainHTTP = true

	request, err := http.ReadRequest(c.reader)
	if err != nil {
		_ = c.Conn.Close()
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", fmt.Sprintf("https://%s%s", request.Host, request.RequestURI))
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
}

func (c *AutoHttpsConn) Read(buf []byte) (int, error) {
	c.checkOnce.Do(c.check)
	if c.plainHTTP {
		return 0, net.ErrClosed
	}
	return c.reader.Read(buf)
}
