package ooo

import "github.com/sarchlab/r10ksim/arch"

// Tick drives one clock cycle: it pulls this cycle's fetch bundle from
// src, advances every stage by one cycle, and reports the control
// signals the caller (and src) need — how many instructions were
// accepted into the Active List, whether a branch misprediction
// (Rewind) or a precise exception (Restart) redirected the front end,
// and which instructions retired this cycle (oldest first; empty while
// an exception drains). On a Restart gotoPC is the excepting
// instruction's serial and Tick calls src.Redirect(gotoPC); on a Rewind
// gotoPC is the mispredicted branch's own serial and Tick calls
// src.Redirect(gotoPC+1), resuming fetch right after the branch.
// Otherwise, when fewer instructions were accepted than src presented,
// Tick calls src.Redirect with the first unaccepted instruction's PcLike
// so they are presented again.
func (d *Datapath) Tick(src Source) (accept int, rewind bool, restart bool, gotoPC uint64, retired RetireBundle) {
	d.beginCycle()
	d.phase = phaseQuery

	// ---------------------------------------------------------------
	// Query phase (combinational): stages in ascending order, reading
	// component state and latches left over from last cycle. Nothing
	// here mutates shared state.
	// ---------------------------------------------------------------

	exceptionPending := d.exception.Pending()
	headException := d.activeList.HandleException()

	fetched := src.Next()
	candidate := d.queryMap(fetched, exceptionPending || headException)

	ts1Busy, ts2Busy := d.queryDispatch()

	issued := d.queryIssue()

	newExecute := d.queryOperandFetch(issued)

	aluOuts, rewindMask, freeMask, branchLane := d.queryExecute()

	retireBundle := d.activeList.ToRetire()
	for i := 0; i < retireBundle.Howmany; i++ {
		if retireBundle.Rd[i] == arch.R0 {
			continue
		}
		if d.cfg.ROBRename {
			retireBundle.Val[i] = d.rf.Read(TagToIndex(retireBundle.Td[i]))
		} else {
			retireBundle.Val[i] = d.rf.Read(TagToIndex(retireBundle.Ptd[i]))
		}
		assertf("Datapath", "Tick", retireBundle.Val[i] == retireBundle.Cookie[i].Vd,
			"retiring value disagrees with golden cookie")
	}

	// ---------------------------------------------------------------
	// Forwarding overlay: same-cycle bypasses that let a younger
	// stage see an older stage's result before it is latched.
	// ---------------------------------------------------------------

	d.forwardIssueToDispatch(issued, ts1Busy, ts2Busy)
	d.forwardExecuteToOperand(newExecute, aluOuts)
	if d.cfg.ROBRename {
		d.forwardRetireTags(retireBundle, candidate)
	}
	if rewindMask != 0 || freeMask != 0 {
		candidate = d.propagateBranchMask(candidate, newExecute, rewindMask, freeMask)
	}

	d.phase = phaseCommit

	// ---------------------------------------------------------------
	// Commit phase: stages in descending order, mutating component
	// state, mirroring the reference implementation's Tick/Tock split
	// so a younger stage's same-cycle commit (e.g. a branch resolving
	// at Stage 6) can inform an older stage's commit later in the same
	// Tock (e.g. squashing what Stage 2/3 were about to accept).
	// ---------------------------------------------------------------

	restart, gotoPC = d.commitRestart(headException)

	// While an exception is draining (this cycle's restart, or an
	// unwind already in progress from an earlier cycle — both signaled
	// by headException) every forward-pipeline commit is suppressed:
	// commitRestart may have just reset the very components Stage 4/6
	// would otherwise commit into this same Tock.
	if !restart && !headException {
		d.commitRetire(retireBundle)
		retired = retireBundle

		rewind = d.commitExecute(aluOuts, rewindMask, freeMask, branchLane)
		if rewind {
			gotoPC = d.execute[branchLane].cookie.Serial
		}

		d.commitIssue(issued, rewindMask)

		if !rewind {
			d.commitDispatch(ts1Busy, ts2Busy)
			accept = d.commitMap(candidate, exceptionPending || headException)
		} else {
			d.mapOut = mapLatch{}
		}
	} else if !restart {
		d.commitRetire(retireBundle)
		retired = retireBundle
	}

	if headException {
		// Exception draining this cycle (starting or continuing): any
		// query-phase result computed above reflects state commitRestart
		// has already discarded or is about to. Nothing from this cycle
		// propagates into next cycle's latches.
		d.mapOut = mapLatch{}
		d.operand = make([]operandSlot, d.cfg.ExecuteWidth)
		d.execute = make([]executeSlot, d.cfg.ExecuteWidth)
	} else {
		d.execute = newExecute
		if !d.cfg.CascadeIssueOperand {
			d.operand = issuedToOperandSlots(issued, rewindMask, freeMask)
		}
	}

	switch {
	case restart:
		src.Redirect(gotoPC)
	case rewind:
		src.Redirect(gotoPC + 1)
	case accept < fetched.Howmany:
		src.Redirect(fetched.PcLike[accept])
	}
	return accept, rewind, restart, gotoPC, retired
}
