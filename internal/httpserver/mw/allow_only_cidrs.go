package mw

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// AllowOnlyCIDRS lets through only clients whose IP (see ClientIP) falls in
// one of the allowed prefixes. Bare addresses are accepted as single-host
// prefixes. An empty list is a passthrough. Entries that do not parse are
// skipped; when none parse every request is rejected.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		log.Debug("AllowOnlyCIDRS: empty allow list, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	prefixes := parsePrefixes(allowed, log)
	log.Debugf("AllowOnlyCIDRS: initialized with %d rules, trustProxy=%v", len(prefixes), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)
			if !containsIP(prefixes, ip) {
				log.Debugf("AllowOnlyCIDRS: IP %s REJECTED", ip)
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parsePrefixes(entries []string, log logger.Logger) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if p, err := netip.ParsePrefix(e); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			a = a.Unmap()
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		log.Warnf("AllowOnlyCIDRS: ignoring invalid entry %q", e)
	}
	return prefixes
}

func containsIP(prefixes []netip.Prefix, ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
