// Package dnssec implements the Cryptographic Verifier and
// Insecure-Delegation Prover: RRSIG verification, DS computation, NSEC3
// owner-name hashing, and NSEC/NSEC3 denial-of-existence proofs.
//
// Grounded on the teacher's dnssec/authenticate_rrset.go signature loop
// and dnssec/verify_dnskey.go DS-matching pattern, trimmed to the
// boolean-returning contract the core spec requires (no RFC4035
// wildcard/NODATA proof machinery, no streaming authenticator).
package dnssec

import (
	"time"

	"github.com/miekg/dns"
)

// VerifyRRSIG reports whether at least one DNSKEY in candidateKeys
// produced at least one RRSIG in rrsigs covering rrset, respecting each
// RRSIG's validity window and matching algorithm/key-tag/signer-name. It
// never returns an error: a cryptographic failure and a clean "no match"
// are indistinguishable to callers, and both should demote a single flag
// without unwinding (spec §4.4, §9).
func VerifyRRSIG(rrset []dns.RR, rrsigs []*dns.RRSIG, signingZoneName string, candidateKeys []*dns.DNSKEY) bool {
	if len(rrset) == 0 || len(rrsigs) == 0 || len(candidateKeys) == 0 {
		return false
	}

	signingZoneName = dns.CanonicalName(signingZoneName)

	for _, rrsig := range rrsigs {
		if dns.CanonicalName(rrsig.SignerName) != signingZoneName {
			continue
		}
		if !rrsig.ValidityPeriod(time.Now()) {
			continue
		}

		for _, key := range candidateKeys {
			if key.Algorithm != rrsig.Algorithm || key.KeyTag() != rrsig.KeyTag {
				continue
			}
			if dns.CanonicalName(key.Header().Name) != dns.CanonicalName(rrsig.SignerName) {
				continue
			}
			if err := rrsig.Verify(key, rrset); err == nil {
				return true
			}
		}
	}

	return false
}
