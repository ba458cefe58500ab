package chain

import (
	"context"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soaResponse(t *testing.T, owner string) *dns.Msg {
	if t != nil {
		t.Helper()
	}
	rr, err := dns.NewRR(owner + " 3600 IN SOA ns1." + owner + " hostmaster." + owner + " 1 2 3 4 5")
	if err != nil {
		panic(err)
	}
	msg := new(dns.Msg)
	msg.Answer = []dns.RR{rr}
	return msg
}

func TestSplit_ReturnsRootmostKnownZoneFirstAndCachesExistence(t *testing.T) {
	vc := newTestContext(map[string]func(dns.Question) *dns.Msg{
		"example.com.|SOA": func(dns.Question) *dns.Msg { return soaResponse(t, "example.com.") },
		"com.|SOA":         func(dns.Question) *dns.Msg { return soaResponse(t, "com.") },
	})

	zones, err := vc.split(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "com.", zones[0].Name)
	assert.Equal(t, "example.com.", zones[1].Name)

	assert.NotNil(t, vc.existingZones.get("example.com."))
}

func TestSplit_NeverQueriesTheRootLabel(t *testing.T) {
	// No ".|SOA" entry at all: split must never probe the root, since it
	// is bootstrapped separately by ValidateRootZone.
	vc := newTestContext(map[string]func(dns.Question) *dns.Msg{
		"example.com.|SOA": func(dns.Question) *dns.Msg { return soaResponse(t, "example.com.") },
		"com.|SOA":         func(dns.Question) *dns.Msg { return soaResponse(t, "com.") },
	})

	zones, err := vc.split(context.Background(), "example.com")
	require.NoError(t, err)
	for _, z := range zones {
		assert.NotEqual(t, ".", z.Name)
	}
}

func TestSplit_SkipsSuffixWithMismatchedSOAOwner(t *testing.T) {
	// foo.example.com has no zone cut of its own: its SOA query returns
	// the enclosing zone's SOA, whose owner doesn't match the candidate.
	vc := newTestContext(map[string]func(dns.Question) *dns.Msg{
		"foo.example.com.|SOA": func(dns.Question) *dns.Msg { return soaResponse(t, "example.com.") },
		"example.com.|SOA":     func(dns.Question) *dns.Msg { return soaResponse(t, "example.com.") },
		"com.|SOA":             func(dns.Question) *dns.Msg { return soaResponse(t, "com.") },
	})

	zones, err := vc.split(context.Background(), "foo.example.com")
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "example.com.", zones[1].Name)
	assert.True(t, vc.nonexistingZones.contains("foo.example.com."))
}

func TestSplit_PropagatesQueryErrorForUndelegatedName(t *testing.T) {
	vc := newTestContext(map[string]func(dns.Question) *dns.Msg{
		// "invalid." and the full name both NXDOMAIN (no entry in the map).
	})

	_, err := vc.split(context.Background(), "this-domain-does-not-exist-xyz.invalid")
	require.Error(t, err)
	assert.Equal(t, KindQueryError, ClassifyError(err))
}

func TestSplit_ReusesCachedZoneWithoutRequerying(t *testing.T) {
	calls := 0
	vc := newTestContext(nil)
	vc.newClient = func(string) dnsClient {
		return &fakeDNSClient{answer: func(m *dns.Msg) (*dns.Msg, error) {
			calls++
			resp := new(dns.Msg)
			resp.SetReply(m)
			resp.Answer = soaResponse(nil, dns.CanonicalName(m.Question[0].Name)).Answer
			return resp, nil
		}}
	}

	_, err := vc.split(context.Background(), "example.com")
	require.NoError(t, err)
	firstCalls := calls

	_, err = vc.split(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, firstCalls, calls, "second split of the same name must hit the cache, not requery")
}
