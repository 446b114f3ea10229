//go:build unix

package sockopt

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// BufferSizes reads SO_RCVBUF and SO_SNDBUF back from the socket, so a
// configured buffer size is observable after the kernel has adjusted it
// (Linux, for one, doubles the requested value).
func BufferSizes(conn syscall.Conn) (recv, send int, err error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, 0, fmt.Errorf("sockopt: raw connection: %w", err)
	}

	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		recv, ctrlErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF)
		if ctrlErr != nil {
			return
		}
		send, ctrlErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF)
	})
	if err == nil {
		err = ctrlErr
	}
	if err != nil {
		return 0, 0, fmt.Errorf("sockopt: getsockopt: %w", err)
	}
	return recv, send, nil
}
