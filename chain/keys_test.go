package chain

import (
	"crypto/ecdsa"
	"time"

	"github.com/miekg/dns"
)

// testKey bundles a generated ECDSA DNSKEY with its private key, grounded
// on the teacher's dnssec/setup_test.go testEcKey/sign fixtures; duplicated
// here rather than imported since chain/dnssec keeps its own unexported
// copy and this package has no reason to depend on dnssec's test files.
type testKey struct {
	key    *dns.DNSKEY
	signer *ecdsa.PrivateKey
}

func newTestKey(owner string, flags uint16) *testKey {
	dnskey := &dns.DNSKEY{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(owner),
			Rrtype: dns.TypeDNSKEY,
			Class:  dns.ClassINET,
			Ttl:    300,
		},
		Flags:     flags,
		Protocol:  3,
		Algorithm: dns.ECDSAP256SHA256,
	}
	secret, err := dnskey.Generate(256)
	if err != nil {
		panic(err)
	}
	signer, _ := secret.(*ecdsa.PrivateKey)
	return &testKey{key: dnskey, signer: signer}
}

func (k *testKey) sign(rrset []dns.RR) *dns.RRSIG {
	rrsig := &dns.RRSIG{
		Hdr:        dns.RR_Header{},
		Inception:  uint32(time.Now().Add(-24 * time.Hour).Unix()),
		Expiration: uint32(time.Now().Add(24 * time.Hour).Unix()),
		KeyTag:     k.key.KeyTag(),
		SignerName: k.key.Header().Name,
		Algorithm:  k.key.Algorithm,
	}
	if err := rrsig.Sign(k.signer, rrset); err != nil {
		panic(err)
	}
	return rrsig
}
