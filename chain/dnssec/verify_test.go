package dnssec

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func mustA(owner string) dns.RR {
	rr, err := dns.NewRR(owner + " 300 IN A 192.0.2.1")
	if err != nil {
		panic(err)
	}
	return rr
}

func TestVerifyRRSIG_AcceptsValidSignatureFromMatchingKey(t *testing.T) {
	key := newTestKey("example.com.", 257)
	rrset := []dns.RR{mustA("example.com.")}
	sig := key.sign(rrset)

	ok := VerifyRRSIG(rrset, []*dns.RRSIG{sig}, "example.com.", []*dns.DNSKEY{key.key})
	assert.True(t, ok)
}

func TestVerifyRRSIG_RejectsExpiredSignature(t *testing.T) {
	key := newTestKey("example.com.", 257)
	rrset := []dns.RR{mustA("example.com.")}
	sig := key.expiredSig(rrset)

	ok := VerifyRRSIG(rrset, []*dns.RRSIG{sig}, "example.com.", []*dns.DNSKEY{key.key})
	assert.False(t, ok)
}

func TestVerifyRRSIG_RejectsWrongKey(t *testing.T) {
	signing := newTestKey("example.com.", 257)
	other := newTestKey("example.com.", 257)
	rrset := []dns.RR{mustA("example.com.")}
	sig := signing.sign(rrset)

	ok := VerifyRRSIG(rrset, []*dns.RRSIG{sig}, "example.com.", []*dns.DNSKEY{other.key})
	assert.False(t, ok)
}

func TestVerifyRRSIG_RejectsSignerNameMismatch(t *testing.T) {
	key := newTestKey("example.com.", 257)
	rrset := []dns.RR{mustA("example.com.")}
	sig := key.sign(rrset)

	ok := VerifyRRSIG(rrset, []*dns.RRSIG{sig}, "other.com.", []*dns.DNSKEY{key.key})
	assert.False(t, ok)
}

func TestVerifyRRSIG_EmptyInputsReturnFalse(t *testing.T) {
	assert.False(t, VerifyRRSIG(nil, nil, "example.com.", nil))
}
