package ooo

// queryIssue is Stage 4: each Instruction Queue lane is asked, via a
// CAM scan, for its oldest-by-scan-order ready entry. One independent
// reservation station per execute lane, so lanes never compete for the
// same wake-up/select hardware.
func (d *Datapath) queryIssue() []InstQEntry {
	d.assertPhase(phaseQuery, "queryIssue")
	out := make([]InstQEntry, d.cfg.ExecuteWidth)
	for lane := range d.instq {
		out[lane] = d.instq[lane].Readied()
	}
	return out
}

// commitIssue is Stage 4's commit: remove each lane's selected entry
// from its Instruction Queue, wake every waiting consumer of its
// destination tag, and clear the destination's busy bit. An entry whose
// DependOn intersects a branch resolving mispredicted this same cycle
// is skipped — Stage 6's squash (committed earlier, in descending
// order) wins over this stage's issue.
func (d *Datapath) commitIssue(issued []InstQEntry, rewindMask SpeculateMask) {
	d.assertPhase(phaseCommit, "commitIssue")
	for lane, e := range issued {
		if !e.Valid || DependsOn(e.Op.DependOn, rewindMask) {
			continue
		}

		d.instq[lane].Issue(e.SlotIdx)
		if d.cfg.DRISChecker {
			d.activeList.CheckIssue(e.ATag, e.Op)
		}
		for _, q := range d.instq {
			q.Release(e.Op.Td, e.Cookie)
		}
		d.busy.ClearBusy(TagToIndex(e.Op.Td))
	}
}

// issuedToOperandSlots turns this cycle's issue selections into next
// cycle's Issue->OperandFetch latch (non-cascade mode only). Entries
// squashed by a same-cycle branch misprediction are dropped; survivors
// have freeMask's bits cleared from their DependOn.
func issuedToOperandSlots(issued []InstQEntry, rewindMask, freeMask SpeculateMask) []operandSlot {
	out := make([]operandSlot, len(issued))
	for i, e := range issued {
		if !e.Valid || DependsOn(e.Op.DependOn, rewindMask) {
			continue
		}
		e.Op.DependOn &^= freeMask
		out[i] = operandSlot{valid: true, atag: e.ATag, op: e.Op, cookie: e.Cookie}
	}
	return out
}
