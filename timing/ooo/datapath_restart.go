package ooo

// commitRestart is Stage 0: precise exception recovery. headException
// reports that the Active List's oldest entry has completed with an
// exception — by construction (ToRetire stops at the first incomplete
// or excepting entry) that entry is always the least-speculative
// exception there is, so recovery can begin the instant it is true.
//
// ROB-rename mode has no serial unwind to do: a retiring instruction's
// value is only ever visible once copied into the architectural RegFile
// by commitRetire, so every ROB slot's contents are disposable the
// moment the ROB itself is reset. Physical-rename mode cannot do this —
// a logical register's true committed value may sit in an arbitrary
// permanent physical register — so it unwinds the Rename Map serially,
// up to one decode-width bundle per cycle, off the tail of the Active
// List, until only the excepting head entry is left; the final cycle
// undoes the head's own mapping and removes it.
func (d *Datapath) commitRestart(headException bool) (restart bool, gotoPC uint64) {
	d.assertPhase(phaseCommit, "commitRestart")
	if !headException {
		return false, 0
	}

	if d.cfg.ROBRename {
		exceptionPC := d.activeList.GetExceptionPC()

		d.activeList.Reset()
		d.busy.Reset()
		d.checkpoint.Reset()
		for _, q := range d.instq {
			q.Reset()
		}
		d.rmap.Reset()
		d.exception.Reset()
		d.curMask = 0

		return true, exceptionPC
	}

	if !d.unwinding {
		for _, q := range d.instq {
			q.Reset()
		}
		d.busy.Reset()
		d.checkpoint.Reset()
		d.curMask = 0
		d.unwinding = true
	}

	if d.activeList.Occupancy() > 1 {
		bundle := d.activeList.Unmap()
		n := min(bundle.Howmany, d.activeList.Occupancy()-1)
		d.rmap.UnmapBundle(bundle.Rd[:n], bundle.TdOld[:n])
		d.activeList.ApplyUnmap(n)
		return false, 0
	}

	// Undo the excepting head's own rename too, so the map is left as it
	// was just before that instruction.
	head := d.activeList.Unmap()
	d.rmap.UnmapBundle(head.Rd[:head.Howmany], head.TdOld[:head.Howmany])

	exceptionPC := d.activeList.GetExceptionPC()
	d.activeList.RetireExceptionHead()
	d.exception.Reset()
	d.unwinding = false

	return true, exceptionPC
}
