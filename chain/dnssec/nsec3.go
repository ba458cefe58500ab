package dnssec

import (
	"strings"

	"github.com/miekg/dns"
)

// NSEC3Hash computes the base32hex owner-name hash for ownerName under the
// given NSEC3 algorithm, salt and iteration count (spec §4.4's
// nsec3_hash). Grounded on miekg/dns's dns.HashName, the same primitive
// (*dns.NSEC3).Match uses internally; exposed directly here since the
// Insecure-Delegation Prover needs the raw hash to compare against an
// NSEC3 owner label explicitly (spec §4.5 step 2b/2c), not just a
// yes/no match.
func NSEC3Hash(ownerName string, salt string, iterations uint16, algorithm uint8) string {
	return strings.ToUpper(dns.HashName(dns.Fqdn(ownerName), algorithm, iterations, salt))
}
