package fetch

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// StatusError reports a response other than 200 OK. It is never recovered
// from the cache.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to load resource: the server responded with a status of %s %s", e.Status, e.URL)
}

// IsConnectivityError reports whether err means the archive host could not
// be reached: connection reset or refused, unreachable network, failed DNS
// lookup, or a timeout.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNRESET,
		syscall.ECONNREFUSED,
		syscall.ECONNABORTED,
		syscall.ENETUNREACH,
		syscall.EHOSTUNREACH,
		syscall.ETIMEDOUT,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
