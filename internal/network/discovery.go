// Package network provides the client side of the daemon protocol:
// WebSocket and UDP event transports plus LAN discovery of running
// daemons.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DiscoveredDaemon represents a keytap daemon found on the network
type DiscoveredDaemon struct {
	IP      string `json:"ip"`
	Port    int    `json:"port"`
	Layout  string `json:"layout,omitempty"`
	Clients int    `json:"clients"`
}

// GetLocalIP returns the primary local IP address
func GetLocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// ScanLAN scans the local /24 subnet for keytap daemons listening on port.
func ScanLAN(port int) ([]DiscoveredDaemon, error) {
	localIP, err := GetLocalIP()
	if err != nil {
		return nil, fmt.Errorf("failed to get local IP: %w", err)
	}

	parts := strings.Split(localIP, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid IP address format: %s", localIP)
	}

	subnet := fmt.Sprintf("%s.%s.%s", parts[0], parts[1], parts[2])

	var daemons []DiscoveredDaemon
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Scan IPs 1-254 in the subnet
	for i := 1; i <= 254; i++ {
		wg.Add(1)
		go func(hostNum int) {
			defer wg.Done()

			ip := fmt.Sprintf("%s.%d", subnet, hostNum)
			if ip == localIP {
				return
			}

			if d, ok := probeDaemon(ip, port); ok {
				mu.Lock()
				daemons = append(daemons, d)
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()
	return daemons, nil
}

// probeDaemon checks if a host is running the keytap daemon API
func probeDaemon(ip string, port int) (DiscoveredDaemon, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	healthURL := fmt.Sprintf("http://%s:%d/health", ip, port)
	req, err := http.NewRequestWithContext(ctx, "GET", healthURL, nil)
	if err != nil {
		return DiscoveredDaemon{}, false
	}

	client := &http.Client{Timeout: 500 * time.Millisecond}

	resp, err := client.Do(req)
	if err != nil {
		return DiscoveredDaemon{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DiscoveredDaemon{}, false
	}

	// Enrich with status if the endpoint answers
	statusURL := fmt.Sprintf("http://%s:%d/api/status", ip, port)
	req, err = http.NewRequestWithContext(ctx, "GET", statusURL, nil)
	if err != nil {
		return DiscoveredDaemon{IP: ip, Port: port}, true
	}

	resp, err = client.Do(req)
	if err != nil {
		return DiscoveredDaemon{IP: ip, Port: port}, true
	}
	defer resp.Body.Close()

	var status struct {
		Layout  string `json:"layout"`
		Clients int    `json:"clients"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err == nil {
		return DiscoveredDaemon{
			IP:      ip,
			Port:    port,
			Layout:  status.Layout,
			Clients: status.Clients,
		}, true
	}

	return DiscoveredDaemon{IP: ip, Port: port}, true
}

// GetLocalIPs returns all available local IPv4 addresses
func GetLocalIPs() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var ips []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue // interface down
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue // loopback interface
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			ip = ip.To4()
			if ip == nil {
				continue // not an ipv4 address
			}
			ips = append(ips, ip.String())
		}
	}
	return ips, nil
}
