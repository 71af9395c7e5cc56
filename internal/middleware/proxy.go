package middleware

import (
	"fmt"
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// TrustedProxies configures how c.RealIP() resolves the client address.
// With no CIDRs the direct peer address is used. Otherwise X-Forwarded-For
// is honored only for hops inside the given ranges, which keeps per-IP rate
// limiting accurate behind a reverse proxy.
func TrustedProxies(e *echo.Echo, cidrs []string) error {
	if len(cidrs) == 0 {
		e.IPExtractor = echo.ExtractIPDirect()
		return nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			return fmt.Errorf("parsing trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(network))
	}
	e.IPExtractor = echo.ExtractIPFromXFFHeader(opts...)
	return nil
}
