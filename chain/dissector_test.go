package chain

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	assert.NoError(t, err)
	return rr
}

func TestGetFrom_FindsFirstMatch(t *testing.T) {
	section := []dns.RR{
		mustRR(t, "example.com. 300 IN A 192.0.2.1"),
		mustRR(t, "example.com. 300 IN A 192.0.2.2"),
	}

	rs := getFrom(section, "example.com.", dns.TypeA, CoversNone)
	assert.NotNil(t, rs)
	assert.Len(t, rs.RRs, 2)
	assert.Equal(t, "example.com.", rs.Owner)
}

func TestGetFrom_NoMatchReturnsNil(t *testing.T) {
	section := []dns.RR{mustRR(t, "example.com. 300 IN A 192.0.2.1")}
	rs := getFrom(section, "example.com.", dns.TypeAAAA, CoversNone)
	assert.Nil(t, rs)
}

func TestFindSigned_SplitsCoveredTypeFromRRSIG(t *testing.T) {
	msg := new(dns.Msg)
	msg.Answer = []dns.RR{
		mustRR(t, "example.com. 300 IN DNSKEY 257 3 8 AwEAAag="),
		mustRR(t, "example.com. 300 IN RRSIG DNSKEY 8 2 300 20300101000000 20240101000000 12345 example.com. ZmFrZXNpZw=="),
		mustRR(t, "example.com. 300 IN RRSIG SOA 8 2 300 20300101000000 20240101000000 12345 example.com. ZmFrZXNpZw=="),
	}

	signed := findSigned(msg, "example.com.", dns.TypeDNSKEY)
	assert.True(t, signed.HasSet())
	assert.True(t, signed.HasSig())
	assert.Len(t, signed.Sig.RRs, 1)

	sig := extractRecords[*dns.RRSIG](signed.Sig.RRs)[0]
	assert.Equal(t, dns.TypeDNSKEY, sig.TypeCovered)
}

func TestExtractRecords_FiltersByConcreteType(t *testing.T) {
	rr := []dns.RR{
		mustRR(t, "example.com. 300 IN A 192.0.2.1"),
		mustRR(t, "example.com. 300 IN AAAA ::1"),
	}
	a := extractRecords[*dns.A](rr)
	assert.Len(t, a, 1)
}
