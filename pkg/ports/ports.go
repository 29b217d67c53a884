// Package ports provides port availability probing for the HTTP transport.
package ports

import (
	"fmt"
	"net"
)

const maxProbes = 100

// FindAvailablePort returns startPort when it is free, otherwise the first
// free port above it, probing sequentially.
func FindAvailablePort(startPort int) (int, error) {
	if startPort < 1 || startPort > 65535 {
		return 0, fmt.Errorf("port %d out of range", startPort)
	}
	for port := startPort; port <= 65535 && port < startPort+maxProbes; port++ {
		if isPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found in range %d-%d", startPort, startPort+maxProbes-1)
}

// isPortAvailable checks if a port is available by attempting to listen on it
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	defer listener.Close()
	return true
}
