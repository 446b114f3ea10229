// Package machine collects a snapshot of the local host's network
// identity: hostname, primary IP, and per-interface addresses.
package machine

import (
	"fmt"
	"net"
	"os"
)

// Info is one machine-information snapshot.
type Info struct {
	Hostname   string
	IPAddress  string
	Interfaces map[string][]string
}

// Collect gathers the snapshot. The primary IP is the first non-loopback
// unicast address found; an all-loopback host reports 127.0.0.1.
func Collect() (*Info, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("machine: hostname: %w", err)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("machine: interfaces: %w", err)
	}

	info := &Info{
		Hostname:   hostname,
		IPAddress:  "127.0.0.1",
		Interfaces: make(map[string][]string, len(ifaces)),
	}

	primaryFound := false
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			info.Interfaces[iface.Name] = append(info.Interfaces[iface.Name], addr.String())

			if primaryFound {
				continue
			}
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.IsLoopback() {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				info.IPAddress = ip4.String()
				primaryFound = true
			}
		}
	}

	return info, nil
}
