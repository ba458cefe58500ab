// Package chain implements the DNSSEC chain-of-trust prober: discovering
// the zone cuts that exist for a domain, authenticating each zone's keying
// material against its parent, and classifying the result for bulk
// statistical analysis.
package chain

import (
	"github.com/miekg/dns"
)

// CoversNone is the sentinel Covers value for a RecordSet that is not an
// RRSIG set (or carries no covered-type filter).
const CoversNone uint16 = 0

// RecordSet is an immutable, wire-preserving set of records sharing an
// owner name and type, as produced by the Dissector. Covers is the
// signed-over type for an RRSIG set, or CoversNone for anything else.
type RecordSet struct {
	Owner  string
	Type   uint16
	Covers uint16
	RRs    []dns.RR
}

func (r *RecordSet) Empty() bool {
	return r == nil || len(r.RRs) == 0
}

// SignedRRSet pairs a RecordSet with the RecordSet of RRSIGs covering it.
// Either half may be absent.
type SignedRRSet struct {
	Set *RecordSet
	Sig *RecordSet
}

func (s *SignedRRSet) HasSet() bool {
	return s != nil && !s.Set.Empty()
}

func (s *SignedRRSet) HasSig() bool {
	return s != nil && !s.Sig.Empty()
}

// Zone is created once per zone name the first time it is proven to exist,
// and is shared by reference thereafter. It is populated in stages: the
// Zone Discoverer produces a stub with Name/Parent/SOA; the Per-Zone
// Validator later fills NS and DNSKEY.
type Zone struct {
	Name   string
	Parent string

	SOA    *SignedRRSet
	DNSKEY *SignedRRSet

	// NS is the resolved authoritative nameserver address used to query
	// this zone directly (host:port form, ready for net.Dial).
	NS string
}

// ValidationState is the fixed classification taxonomy a ZoneReport or
// ChainReport is tagged with. It models spec.md's tagged-variant error
// classification as a total, closed set of string values.
type ValidationState string

const (
	StatePending             ValidationState = "PENDING"
	StateValidated           ValidationState = "VALIDATED"
	StateUnsecured           ValidationState = "UNSECURED"
	StateTimeout             ValidationState = "TIMEOUT"
	StateQueryError          ValidationState = "QUERY_ERROR"
	StateMissingResource     ValidationState = "MISSING_RESOURCE"
	StateWeirdStuffHappened  ValidationState = "WEIRD_STUFF_HAPPENED"
	StateOther               ValidationState = "OTHER"
)

// ZoneReport is the evidence gathered while validating a single zone cut.
type ZoneReport struct {
	Name            string          `json:"name"`
	ValidationState ValidationState `json:"validation_state"`
	Reason          *string         `json:"reason"`

	HasDNSKEY   bool `json:"has_dnskey"`
	HasDS       bool `json:"has_ds"`
	ValidDNSKEY bool `json:"valid_dnskey"`
	ValidDS     bool `json:"valid_ds"`
	ValidSOA    bool `json:"valid_soa"`

	NumKSK int `json:"num_ksk"`
	NumZSK int `json:"num_zsk"`

	Validated bool `json:"validated"`
}

// ChainReport is produced once per ValidateChain call.
type ChainReport struct {
	Name            string          `json:"name"`
	ValidationState ValidationState `json:"validation_state"`
	Reason          *string         `json:"reason"`
	Zones           []*ZoneReport   `json:"zones"`
}

func reason(s string) *string {
	return &s
}
