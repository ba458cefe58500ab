package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// dnsClient is the seam the Transport exchanges messages through,
// grounded on the teacher's nameserver.go dnsClient interface; it lets
// tests substitute a fake without opening real sockets.
type dnsClient interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// clientFactory builds a dnsClient for a given protocol ("udp" or "tcp").
// Overridable per ValidatorContext for tests (newClient); otherwise builds a
// dns.Client with the configured QueryTimeout.
func (vc *ValidatorContext) clientFactory(protocol string) dnsClient {
	if vc.newClient != nil {
		return vc.newClient(protocol)
	}
	return &dns.Client{Net: protocol, Timeout: vc.cfg.QueryTimeout}
}

// query issues a single DNSSEC-OK query for (name, qtype) against
// serverAddress (host:port), over UDP first and falling back to TCP if the
// UDP exchange fails or its response is truncated, per spec §4.1. A
// non-zero rcode returns a query error at once, without the TCP attempt. Grounded on the teacher's
// nameserver.go exchange(), trimmed of the nameserver-pool retry/metrics
// machinery: this Transport always targets one explicit address.
//
// recursionDesired must be false for authoritative nameservers (DS/DNSKEY
// queries, root bootstrap) and true for queries routed through the
// recursive resolver (see queryViaResolver) — a recursive resolver given
// RD=0 will not recurse for uncached names and answers with nothing useful.
func (vc *ValidatorContext) query(ctx context.Context, name string, qtype uint16, serverAddress string, recursionDesired bool) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = recursionDesired
	m.SetEdns0(4096, true)

	var lastErr error

	for _, protocol := range []string{"udp", "tcp"} {
		client := vc.clientFactory(protocol)

		resp, _, err := client.ExchangeContext(ctx, m, serverAddress)
		vc.metrics.observeQuery(protocol)

		if err != nil {
			lastErr = err
			continue
		}
		if resp == nil {
			lastErr = fmt.Errorf("nil response")
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			return nil, wrapProbeError(KindQueryError, ErrQueryFailed,
				"%s query for %s against %s returned %s", TypeToString(qtype), name, serverAddress, dns.RcodeToString[resp.Rcode])
		}
		if resp.Truncated {
			lastErr = nil
			continue
		}
		return resp, nil
	}

	vc.metrics.observeTimeout()
	return nil, wrapProbeError(KindTimeout, ErrTimeout,
		"%s query for %s against %s: %v", TypeToString(qtype), name, serverAddress, lastErr)
}

// queryViaResolver is the convenience form used by internal helpers (SOA,
// A lookups) that query the configured recursive resolver rather than a
// specific authoritative nameserver, per spec §4.1. Recursion must stay on:
// the resolver otherwise returns only what it already has cached.
func (vc *ValidatorContext) queryViaResolver(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	return vc.query(ctx, name, qtype, vc.cfg.RecursiveResolver, true)
}

// TypeToString renders a DNS rdtype for log lines and reason strings.
// Grounded on the teacher's functions.go TypeToString, delegating to
// miekg/dns's own type-name table instead of duplicating it.
func TypeToString(rrtype uint16) string {
	if name, ok := dns.TypeToString[rrtype]; ok {
		return name
	}
	return "UNKNOWN"
}
