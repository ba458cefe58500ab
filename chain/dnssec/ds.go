package dnssec

import (
	"strings"

	"github.com/miekg/dns"
)

// MakeDS computes the canonical DS record for dnskey under digestAlgorithm
// (spec §4.4's make_ds). Grounded on the teacher's verify_dnskey.go use of
// (*dns.DNSKEY).ToDS.
func MakeDS(dnskey *dns.DNSKEY, digestAlgorithm uint8) *dns.DS {
	return dnskey.ToDS(digestAlgorithm)
}

// DSMatchesAnyKey reports whether ds matches the DS computed from any key
// in dnskeys under ds's own digest algorithm, per spec §4.6 step 8: the
// iteration is over the full key set, not only SEP-flagged keys, because
// some zones non-conformingly reference ZSKs from the parent's DS (spec
// §8 property 6).
func DSMatchesAnyKey(ds *dns.DS, dnskeys []*dns.DNSKEY) bool {
	if ds == nil {
		return false
	}
	for _, key := range dnskeys {
		candidate := MakeDS(key, ds.DigestType)
		if candidate == nil {
			continue
		}
		if candidate.KeyTag == ds.KeyTag && candidate.Algorithm == ds.Algorithm && strings.EqualFold(candidate.Digest, ds.Digest) {
			return true
		}
	}
	return false
}
