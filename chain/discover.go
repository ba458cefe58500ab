package chain

import (
	"context"
	"strings"

	"github.com/miekg/dns"
)

// split produces the ordered sequence of existing zone cuts from the root
// down to the deepest ancestor of domain that owns an SOA, per spec §4.3.
// Grounded directly on original_source/.../dnssec.py:split and
// is_valid_zone; the suffix-walk technique (dns.Split on canonical labels)
// is the teacher's idiom from domain.go, generalized to existence-testing
// rather than iterative-delegation cursoring.
func (vc *ValidatorContext) split(ctx context.Context, domain string) ([]*Zone, error) {
	fqdn := dns.CanonicalName(domain)

	// Labels, root excluded; dns.Split gives us the start index of each
	// label within fqdn, which we use to build suffixes root-ward.
	indexes := dns.Split(fqdn)

	// Candidate names, longest (the input name) first. The root itself is
	// never a candidate here: spec §4.3 bootstraps it once via
	// ValidateRootZone before any chain validation, so split never issues
	// a query for "." (grounded on original_source/.../dnssec.py's split,
	// whose suffix loop stops before the empty label).
	candidates := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		candidates = append(candidates, fqdn[idx:])
	}

	zones := make([]*Zone, 0, len(candidates))

	for _, name := range candidates {
		if vc.nonexistingZones.contains(name) {
			continue
		}
		if z := vc.existingZones.get(name); z != nil {
			zones = append(zones, z)
			continue
		}

		z, err := vc.probeZoneExistence(ctx, name)
		if err != nil {
			return nil, err
		}
		if z == nil {
			vc.nonexistingZones.add(name)
			continue
		}

		z = vc.existingZones.addIfAbsent(z)
		zones = append(zones, z)
	}

	// zones was accumulated longest-name-first; reverse to root-first.
	for i, j := 0, len(zones)-1; i < j; i, j = i+1, j-1 {
		zones[i], zones[j] = zones[j], zones[i]
	}

	return zones, nil
}

// probeZoneExistence issues a SOA query for name via the recursive
// resolver and, if the SOA owner matches name exactly, returns a new Zone
// stub carrying that SOA. A nil, nil return (no error) means the SOA
// answered but its owner didn't match name exactly, so name is not a zone
// cut. Any transport error, or an answer with no SOA RRset at all,
// propagates and terminates discovery (spec §4.3's edge case: "a SOA
// response missing its answer RRset raises a MissingResource error");
// grounded on original_source/.../dnssec.py's is_valid_zone, which does
// not catch query()'s exceptions itself.
func (vc *ValidatorContext) probeZoneExistence(ctx context.Context, name string) (*Zone, error) {
	resp, err := vc.queryViaResolver(ctx, name, dns.TypeSOA)
	if err != nil {
		return nil, err
	}

	// No owner filter here: a non-apex name is routinely answered with the
	// enclosing zone's SOA (in the answer or authority section), and that
	// owner mismatch is exactly how we tell "not a zone cut" apart from
	// "no SOA anywhere in the response".
	signed := findSigned(resp, "", dns.TypeSOA)
	if !signed.HasSet() {
		return nil, newProbeError(KindMissingResource, "no SOA answer for %s", name)
	}

	soas := extractRecords[*dns.SOA](signed.Set.RRs)
	if len(soas) == 0 || !namesEqual(soas[0].Header().Name, name) {
		return nil, nil
	}

	parent := parentName(name)

	return &Zone{
		Name:   dns.CanonicalName(name),
		Parent: parent,
		SOA:    signed,
	}, nil
}

// parentName returns the zone name one label up from name, or the root.
func parentName(name string) string {
	name = dns.CanonicalName(name)
	if name == "." {
		return "."
	}
	idx := dns.Split(name)
	if len(idx) <= 1 {
		return "."
	}
	return name[idx[1]:]
}

// normalizeDomain ensures a trailing root label is present before any
// comparison or query, per spec §4.3's edge case and §6's input contract.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	return dns.CanonicalName(domain)
}
