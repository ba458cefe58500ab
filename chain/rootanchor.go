package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakobod/dnssecprobe/chain/dnssec"
	"github.com/miekg/dns"
	anchors "github.com/nsmithuk/dnssec-root-anchors-go/anchors"
)

// RootTrustAnchors is the compiled-in set of IANA root KSK digests (key
// tags 19036 and 20326, both SHA-256). Grounded directly on the teacher's
// dnssec/config.go, which sources this from the same library rather than
// hard-coding the digest strings as the Python original does.
var RootTrustAnchors = anchors.GetValid()

// ValidateRootZone is the Root Anchor bootstrap (spec §4.10): idempotent,
// must be called once per process before any ValidateChain. It queries
// the root DNSKEY set from the configured root-server address,
// self-validates the DNSKEY RRSIG, and requires that at least one key's
// SHA-256 DS digest matches a compiled-in anchor. Failure is fatal to the
// process: no chain validation can proceed without a validated root.
func (vc *ValidatorContext) ValidateRootZone(ctx context.Context) error {
	if vc.root != nil {
		return nil
	}

	resp, err := vc.query(ctx, ".", dns.TypeDNSKEY, vc.cfg.RootServer, false)
	if err != nil {
		return fmt.Errorf("%w: querying root DNSKEY: %w", ErrBadRootAnchors, err)
	}

	signed := findSigned(resp, ".", dns.TypeDNSKEY)
	if !signed.HasSet() {
		return fmt.Errorf("%w: no DNSKEY answer from root server", ErrBadRootAnchors)
	}

	dnskeys := extractRecords[*dns.DNSKEY](signed.Set.RRs)
	if len(dnskeys) == 0 {
		return fmt.Errorf("%w: root DNSKEY set is empty", ErrBadRootAnchors)
	}

	if signed.HasSig() {
		sigs := extractRecords[*dns.RRSIG](signed.Sig.RRs)
		if !dnssec.VerifyRRSIG(signed.Set.RRs, sigs, ".", dnskeys) {
			return fmt.Errorf("%w: root DNSKEY self-signature did not validate", ErrBadRootAnchors)
		}
	} else {
		return fmt.Errorf("%w: no RRSIG covering the root DNSKEY set", ErrBadRootAnchors)
	}

	matched := false
	for _, key := range dnskeys {
		ds := dnssec.MakeDS(key, dns.SHA256)
		if ds == nil {
			continue
		}
		for _, anchor := range RootTrustAnchors {
			if ds.KeyTag == anchor.KeyTag && ds.Algorithm == anchor.Algorithm && strings.EqualFold(ds.Digest, anchor.Digest) {
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}
	if !matched {
		return fmt.Errorf("%w: no root DNSKEY digest matches a compiled-in anchor", ErrBadRootAnchors)
	}

	vc.root = &Zone{
		Name:   ".",
		Parent: ".",
		DNSKEY: signed,
		NS:     vc.cfg.RootServer,
	}

	return nil
}
