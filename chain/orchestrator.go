package chain

import "context"

// ValidateChain is the Chain Orchestrator (spec §4.7), the top-level
// entry point: discovers the zone sequence, walks it reusing the
// validated-zones cache, and aggregates ZoneReports into a ChainReport
// whose overall state is demoted the first time any zone fails.
//
// Grounded on original_source/.../dnssec.py:validate_chain for the
// demote-once logic (mirroring datatypes.py's ValidationResult.from_zone_info)
// and on the teacher's zones.go cache-reuse pattern for walking a
// pre-discovered sequence of zones.
func (vc *ValidatorContext) ValidateChain(ctx context.Context, domain string) *ChainReport {
	trace := NewTrace()
	domain = normalizeDomain(domain)

	report := &ChainReport{
		Name:            domain,
		ValidationState: StateValidated,
		Zones:           make([]*ZoneReport, 0),
	}

	Info(trace.String() + ": validating " + domain)

	if vc.root == nil {
		demote(report, failReport(&ZoneReport{Name: "."}, newProbeError(KindOther, "root zone has not been bootstrapped; call ValidateRootZone first")))
		vc.metrics.observeChainOutcome(report.ValidationState)
		return report
	}

	zones, err := vc.split(ctx, domain)
	if err != nil {
		demote(report, failReport(&ZoneReport{Name: domain}, err))
		vc.metrics.observeChainOutcome(report.ValidationState)
		return report
	}

	parent := vc.root
	demoted := false

	for _, z := range zones {
		var zr *ZoneReport
		if cachedZone, cachedReport, ok := vc.validatedZones.get(z.Name); ok {
			z, zr = cachedZone, cachedReport
		} else {
			z, zr = vc.validateZone(ctx, z, parent)
			vc.validatedZones.store(z, zr)
		}

		report.Zones = append(report.Zones, zr)

		if !demoted && zr.ValidationState != StateValidated {
			demote(report, zr)
			demoted = true
		}

		// An UNSECURED zone terminates the walk: descendants below a
		// proven-insecure delegation are not explored (spec §9, Open
		// Questions resolution).
		if zr.ValidationState == StateUnsecured {
			break
		}

		parent = z
	}

	vc.metrics.observeChainOutcome(report.ValidationState)
	return report
}

func demote(report *ChainReport, zr *ZoneReport) {
	report.ValidationState = zr.ValidationState
	report.Reason = zr.Reason
}
