package ooo

// queryDispatch is Stage 3: for each entry waiting in mapOut (last
// cycle's Map output), look up whether its operands are currently busy.
// Pure read — the busy bits themselves are committed by whichever
// earlier Map or later Issue cycle set or cleared them.
func (d *Datapath) queryDispatch() (ts1Busy, ts2Busy []bool) {
	d.assertPhase(phaseQuery, "queryDispatch")
	n := len(d.mapOut.entries)
	ts1Busy = make([]bool, n)
	ts2Busy = make([]bool, n)

	for i, e := range d.mapOut.entries {
		ts1Busy[i] = d.busy.IsBusy(TagToIndex(e.op.Ts1))
		ts2Busy[i] = d.busy.IsBusy(TagToIndex(e.op.Ts2))
	}
	return ts1Busy, ts2Busy
}

// commitDispatch is Stage 3's commit: insert every entry still live in
// mapOut into its assigned Instruction Queue lane. Skipped entirely
// (mapOut.dropped) when a same-cycle branch resolution invalidated the
// whole bundle.
func (d *Datapath) commitDispatch(ts1Busy, ts2Busy []bool) {
	d.assertPhase(phaseCommit, "commitDispatch")
	if d.mapOut.dropped {
		return
	}
	for i, e := range d.mapOut.entries {
		d.instq[e.lane].Insert(e.atag, e.op, ts1Busy[i], ts2Busy[i], e.cookie)
	}
}
