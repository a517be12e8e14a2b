//go:build !unix

package socket

import "net"

func makeSocketPair() (net.Conn, net.Conn, error) {
	first, second := net.Pipe()
	return first, second, nil
}

func setNonblocking(net.Conn, bool) error {
	return nil
}
