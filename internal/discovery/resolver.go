// File: backend/internal/discovery/resolver.go
package discovery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// Resolver pre-screens guessed domains with a DNS A-record lookup before any
// HTTP probe is spent on them. A definite NXDOMAIN rules a guess out; any
// resolver failure is inconclusive and the guess proceeds to the HTTP probe.
type Resolver struct {
	servers []string
	client  *dns.Client
}

// NewResolver takes resolver addresses in host:port form. With none
// configured, Resolves is always inconclusive-positive and screening is
// effectively disabled.
func NewResolver(servers []string, queryTimeout time.Duration) *Resolver {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		if !strings.Contains(s, ":") {
			s = s + ":53"
		}
		normalized = append(normalized, s)
	}
	return &Resolver{
		servers: normalized,
		client:  &dns.Client{Timeout: queryTimeout},
	}
}

// Resolves reports whether domain has at least one A record. The second
// return value indicates whether the answer is definitive.
func (r *Resolver) Resolves(ctx context.Context, domain string) (resolves bool, definitive bool) {
	if len(r.servers) == 0 {
		return true, false
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	for _, server := range r.servers {
		reply, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			log.Printf("WARN: Discovery: DNS query for %s via %s failed: %v", domain, server, err)
			continue
		}
		switch reply.Rcode {
		case dns.RcodeSuccess:
			if len(reply.Answer) > 0 {
				return true, true
			}
			// NOERROR with no A answer is inconclusive; the HTTP probe decides.
			continue
		case dns.RcodeNameError:
			return false, true
		default:
			log.Printf("WARN: Discovery: DNS query for %s via %s returned RCODE %s", domain, server, dns.RcodeToString[reply.Rcode])
		}
	}
	return true, false
}

// String describes the resolver set for logging.
func (r *Resolver) String() string {
	if len(r.servers) == 0 {
		return "disabled"
	}
	return fmt.Sprintf("resolvers=%s", strings.Join(r.servers, ","))
}
