package ooo

// queryOperandFetch is Stage 5: read both source operands out of the
// RegFile for whatever is ready to execute this cycle — either this
// cycle's issue selections directly (CascadeIssueOperand) or last
// cycle's Issue->OperandFetch latch.
func (d *Datapath) queryOperandFetch(issued []InstQEntry) []executeSlot {
	d.assertPhase(phaseQuery, "queryOperandFetch")
	out := make([]executeSlot, d.cfg.ExecuteWidth)

	if d.cfg.CascadeIssueOperand {
		for lane, e := range issued {
			if !e.Valid {
				continue
			}
			out[lane] = executeSlot{
				valid:  true,
				atag:   e.ATag,
				op:     e.Op,
				vs1:    d.rf.Read(TagToIndex(e.Op.Ts1)),
				vs2:    d.rf.Read(TagToIndex(e.Op.Ts2)),
				cookie: e.Cookie,
			}
		}
		return out
	}

	for lane, slot := range d.operand {
		if !slot.valid {
			continue
		}
		out[lane] = executeSlot{
			valid:  true,
			atag:   slot.atag,
			op:     slot.op,
			vs1:    d.rf.Read(TagToIndex(slot.op.Ts1)),
			vs2:    d.rf.Read(TagToIndex(slot.op.Ts2)),
			cookie: slot.cookie,
		}
	}
	return out
}

// queryExecute is Stage 6: run every lane's ALU against whatever landed
// in the OperandFetch->Execute latch last cycle. Only lane 0 ever sees
// a BEQ (see config.Config.ExecuteWidth), so branchLane identifies that
// lane whenever one resolves this cycle.
func (d *Datapath) queryExecute() (aluOuts []AluOut, rewindMask, freeMask SpeculateMask, branchLane int) {
	d.assertPhase(phaseQuery, "queryExecute")
	aluOuts = make([]AluOut, d.cfg.ExecuteWidth)
	branchLane = -1

	for lane, slot := range d.execute {
		out := d.alus[lane].Execute(slot.valid, slot.op, slot.vs1, slot.vs2, slot.cookie)
		aluOuts[lane] = out
		if !slot.valid || !out.IsBr {
			continue
		}

		bit := Bit(slot.op.Checkpoint)
		if out.IsMispredict {
			rewindMask |= bit
		} else {
			freeMask |= bit
		}
		branchLane = lane
	}

	d.checkpoint.Ground(rewindMask)
	d.checkpoint.Ground(freeMask)
	assertf("Datapath", "queryExecute", !(rewindMask != 0 && freeMask != 0),
		"two branches resolving in the same cycle")

	return aluOuts, rewindMask, freeMask, branchLane
}

// commitExecute is Stage 6's commit: write every lane's result into the
// RegFile, mark the Active List entry completed or excepting, and — if
// a branch resolved — drive the rewind (misprediction) or confirm
// (correct prediction) of every component that tracks speculation. It
// returns whether this cycle redirects the front end (rewind).
func (d *Datapath) commitExecute(aluOuts []AluOut, rewindMask, freeMask SpeculateMask, branchLane int) bool {
	d.assertPhase(phaseCommit, "commitExecute")
	for lane, slot := range d.execute {
		if !slot.valid {
			continue
		}

		d.rf.Write(TagToIndex(slot.op.Td), aluOuts[lane].Vd)
		d.activeList.Complete(slot.atag)
		if aluOuts[lane].IsException {
			d.activeList.Exception(slot.atag)
			d.exception.Raise(slot.op.DependOn, slot.cookie)
		}
	}

	if rewindMask == 0 && freeMask == 0 {
		return false
	}

	slot := d.execute[branchLane]

	if rewindMask != 0 {
		which := Which(rewindMask)
		if d.cfg.ROBRename {
			d.activeList.RewindToActiveListIdx(slot.atag)
		} else {
			d.activeList.RewindToCheckpoint(which)
		}
		d.rmap.Rewind(which)
		for _, q := range d.instq {
			q.Squash(rewindMask, slot.cookie)
		}
		d.exception.Cancel(rewindMask, slot.cookie)
		// The branch's own DependOn names exactly the older slots still in
		// use; every other allocated slot (its own and any younger
		// branch's) is squashed with it.
		squashed := d.checkpoint.Rewind(^slot.op.DependOn)
		d.checkpoint.Free(squashed)
		d.curMask &^= squashed
		return true
	}

	for _, q := range d.instq {
		q.ClearMask(freeMask, slot.cookie)
	}
	d.exception.ClearMask(freeMask, slot.cookie)
	d.checkpoint.Free(freeMask)
	d.curMask &^= freeMask
	return false
}
