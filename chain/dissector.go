package chain

import "github.com/miekg/dns"

// extractRecords filters rr down to those of the concrete type T, exactly
// the teacher's functions.go generic helper.
func extractRecords[T dns.RR](rr []dns.RR) []T {
	result := make([]T, 0, len(rr))
	for _, record := range rr {
		if typed, ok := record.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func recordsOfTypeExist(rr []dns.RR, t uint16) bool {
	for _, record := range rr {
		if record.Header().Rrtype == t {
			return true
		}
	}
	return false
}

func extractRecordsOfType(rr []dns.RR, t uint16) []dns.RR {
	result := make([]dns.RR, 0, len(rr))
	for _, record := range rr {
		if record.Header().Rrtype == t {
			result = append(result, record)
		}
	}
	return result
}

func namesEqual(a, b string) bool {
	return dns.CanonicalName(a) == dns.CanonicalName(b)
}

// rrsigsCovering returns the RRSIGs among rr whose TypeCovered matches t.
func rrsigsCovering(rr []dns.RR, t uint16) []*dns.RRSIG {
	sigs := extractRecords[*dns.RRSIG](rr)
	result := make([]*dns.RRSIG, 0, len(sigs))
	for _, sig := range sigs {
		if sig.TypeCovered == t {
			result = append(result, sig)
		}
	}
	return result
}

// getFrom scans a single section and returns the first matching RecordSet
// for (rdtype, coveredType), per spec §4.2. For non-RRSIG queries pass
// CoversNone for coveredType; it is then ignored.
func getFrom(section []dns.RR, owner string, rdtype, coveredType uint16) *RecordSet {
	sets := getAllFrom(section, owner, rdtype, coveredType)
	if len(sets) == 0 {
		return nil
	}
	return sets[0]
}

// getAllFrom scans a single section and returns every matching record as a
// single RecordSet whose Owner is the first match's name. Records are not
// split by owner: with an empty owner filter, matches of different owners
// end up in the same set.
func getAllFrom(section []dns.RR, owner string, rdtype, coveredType uint16) []*RecordSet {
	var matches []dns.RR
	for _, rr := range section {
		if rr.Header().Rrtype != rdtype {
			continue
		}
		if owner != "" && !namesEqual(rr.Header().Name, owner) {
			continue
		}
		if rdtype == dns.TypeRRSIG {
			sig, ok := rr.(*dns.RRSIG)
			if !ok || (coveredType != CoversNone && sig.TypeCovered != coveredType) {
				continue
			}
		}
		matches = append(matches, rr)
	}
	if len(matches) == 0 {
		return nil
	}
	return []*RecordSet{{
		Owner:  matches[0].Header().Name,
		Type:   rdtype,
		Covers: coveredType,
		RRs:    matches,
	}}
}

// findInMessage scans answer, then authority, then additional, in order,
// returning the first match across all three sections (spec §4.2).
func findInMessage(msg *dns.Msg, owner string, rdtype, coveredType uint16) *RecordSet {
	for _, section := range [][]dns.RR{msg.Answer, msg.Ns, msg.Extra} {
		if rs := getFrom(section, owner, rdtype, coveredType); rs != nil {
			return rs
		}
	}
	return nil
}

// findSigned locates both the RecordSet of rdtype and its covering RRSIG
// RecordSet across a message's sections.
func findSigned(msg *dns.Msg, owner string, rdtype uint16) *SignedRRSet {
	set := findInMessage(msg, owner, rdtype, CoversNone)
	sig := findInMessage(msg, owner, dns.TypeRRSIG, rdtype)
	if set == nil && sig == nil {
		return nil
	}
	return &SignedRRSet{Set: set, Sig: sig}
}
