package util

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackpal/gateway"
)

// get network interface net associated with ip
func ipNetByIP(ip net.IP) (*net.IPNet, error) {
	interfaces, err := net.Interfaces()

	if err != nil {
		return nil, err
	}

	for _, iface := range interfaces {
		addrs, err := iface.Addrs()

		if err != nil {
			continue
		}

		for _, addr := range addrs {
			_, ipnet, err := net.ParseCIDR(addr.String())

			if err != nil {
				continue
			}

			if ipnet.Contains(ip) {
				return ipnet, nil
			}
		}
	}

	return nil, errors.New("failed to find IPNet")
}

// DetectCidr returns the cidr block for the preferred outbound network
// of this machine
func DetectCidr() (string, error) {
	gw, err := gateway.DiscoverGateway()

	if err != nil {
		return "", err
	}

	// udp doesn't make a full connection and will find the default ip
	// that traffic will use if say 2 are configured (wired and wireless)
	conn, err := net.Dial("udp", net.JoinHostPort(gw.String(), "80"))

	if err != nil {
		return "", err
	}

	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	ipnet, err := ipNetByIP(localAddr.IP)

	if err != nil {
		return "", err
	}

	ones, _ := ipnet.Mask.Size()

	network := localAddr.IP.Mask(ipnet.Mask)

	return fmt.Sprintf("%s/%d", network, ones), nil
}
