// Package netutil selects listen addresses for the backend binaries.
package netutil

import (
	"errors"
	"fmt"
	"net"
)

// SelectBindAddr returns the preferred address when it can be listened on,
// otherwise the first free candidate. Without auto fallback a busy preferred
// address is an error.
func SelectBindAddr(preferred string, candidates []string, autoFallback bool) (string, error) {
	if preferred != "" {
		free, err := available(preferred)
		if err != nil {
			return "", err
		}
		if free {
			return preferred, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("netutil: preferred bind address in use: %s", preferred)
		}
	}

	for _, addr := range candidates {
		free, err := available(addr)
		if err != nil {
			return "", err
		}
		if free {
			return addr, nil
		}
	}
	return "", errors.New("netutil: no available bind addresses")
}

func available(addr string) (bool, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false, nil
	}
	if closeErr := ln.Close(); closeErr != nil {
		return false, closeErr
	}
	return true, nil
}
