//go:build unix

package socket

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func makeSocketPair() (net.Conn, net.Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}

	first, err := fdConn(fds[0], "loopback-first")
	if err != nil {
		_ = unix.Close(fds[1])
		return nil, nil, err
	}
	second, err := fdConn(fds[1], "loopback-second")
	if err != nil {
		_ = first.Close()
		return nil, nil, err
	}
	return first, second, nil
}

// fdConn 接管 fd 并包装为 net.Conn（net.FileConn 会复制 fd，原 fd 随 os.File 关闭）
func fdConn(fd int, name string) (net.Conn, error) {
	unix.CloseOnExec(fd)
	f := os.NewFile(uintptr(fd), name)
	defer f.Close()

	conn, err := net.FileConn(f)
	if err != nil {
		return nil, fmt.Errorf("wrap %s: %w", name, err)
	}
	return conn, nil
}

func setNonblocking(conn net.Conn, on bool) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return fmt.Errorf("syscall conn: %w", err)
	}

	var opErr error
	if err := raw.Control(func(fd uintptr) {
		opErr = unix.SetNonblock(int(fd), on)
	}); err != nil {
		return err
	}
	if opErr != nil {
		return fmt.Errorf("set nonblock: %w", opErr)
	}
	return nil
}
