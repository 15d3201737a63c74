package ooo

import "github.com/sarchlab/r10ksim/arch"

// commitRetire is Stage 7's commit: advance the Active List past
// whatever ToRetire already identified as cleanly completed. In
// ROB-rename mode this is also the only point where a retiring value
// ever reaches the architectural RegFile sub-region, so it also writes
// RF[rd], unmaps the Rename Map entry, and rewrites every in-flight
// reference to the retiring ROB-slot tag into the architectural tag —
// a physical register's value, once written at execute, is already
// permanent, so physical-rename mode needs none of this.
func (d *Datapath) commitRetire(bundle RetireBundle) {
	d.assertPhase(phaseCommit, "commitRetire")
	if bundle.Howmany == 0 {
		return
	}

	if d.cfg.ROBRename {
		for i := 0; i < bundle.Howmany; i++ {
			d.rf.Write(int(bundle.Rd[i]), bundle.Val[i])
			d.rmap.UnmapOnRetire(bundle.Rd[i], bundle.Td[i])
			for _, q := range d.instq {
				q.RetireTag(bundle.Td[i], ArchTag(bundle.Rd[i]), bundle.Cookie[i])
			}
		}
	}

	d.activeList.Retire(bundle)
}

// forwardRetireTags rewrites every in-flight reference (the currently
// latched mapOut bundle about to dispatch, the new candidate bundle
// being built, and the Issue->OperandFetch latch) to a retiring
// ROB-slot tag into the architectural tag that will hold the same
// value from this cycle onward. ROB-rename mode only.
func (d *Datapath) forwardRetireTags(bundle RetireBundle, candidate mapLatch) {
	for i := 0; i < bundle.Howmany; i++ {
		if bundle.Rd[i] == arch.R0 {
			continue
		}
		ptag := bundle.Td[i]
		ltag := ArchTag(bundle.Rd[i])

		for j := range d.mapOut.entries {
			rewriteOperand(&d.mapOut.entries[j].op, ptag, ltag)
		}
		for j := range candidate.entries {
			rewriteOperand(&candidate.entries[j].op, ptag, ltag)
		}
		for j := range d.operand {
			if !d.operand[j].valid {
				continue
			}
			rewriteOperand(&d.operand[j].op, ptag, ltag)
		}
	}
}

func rewriteOperand(op *Operation, ptag, ltag RenameTag) {
	if TagEqual(op.Ts1, ptag) {
		op.Ts1 = ltag
	}
	if TagEqual(op.Ts2, ptag) {
		op.Ts2 = ltag
	}
}
