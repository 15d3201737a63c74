package ooo

import "github.com/sarchlab/r10ksim/arch"

// queryMap is Stage 2: renaming. It reads this cycle's fetch bundle plus
// the Active List's free-register and Checkpoint's free-slot state to
// build a candidate rename bundle, but commits nothing. A bundle is
// truncated right after the first branch it contains (so every entry in
// it shares one DependOn mask), and truncated further, lane by lane,
// until each Instruction Queue lane has room both for this candidate and
// for whatever the previous cycle's still-pending mapLatch already
// reserved there (that bundle dispatches into the same lanes later this
// same cycle, at Stage 3, before this bundle's own Stage 2 commit).
func (d *Datapath) queryMap(fetched FetchBundle, exceptionPending bool) mapLatch {
	d.assertPhase(phaseQuery, "queryMap")
	if exceptionPending || d.unwinding {
		return mapLatch{}
	}

	n := fetched.Howmany
	if n > d.cfg.DecodeWidth {
		n = d.cfg.DecodeWidth
	}

	freeReg := d.activeList.GetFreeReg()
	if n > freeReg.Howmany {
		n = freeReg.Howmany
	}

	branchPos := -1
	for i := 0; i < n; i++ {
		if fetched.Inst[i].Opcode == arch.BEQ {
			branchPos = i
			break
		}
	}

	checkpointSlot := -1
	if branchPos >= 0 {
		if d.checkpoint.HasFree() {
			n = branchPos + 1
			checkpointSlot = d.checkpoint.NextFree()
		} else {
			n = branchPos
		}
	}

	if n == 0 {
		return mapLatch{}
	}

	lanes := make([]int, n)
	for i := 0; i < n; i++ {
		if fetched.Inst[i].Opcode == arch.BEQ {
			lanes[i] = 0
		} else {
			lanes[i] = i % d.cfg.ExecuteWidth
		}
	}

	neededPerLane := make([]int, d.cfg.ExecuteWidth)
	for _, l := range lanes {
		neededPerLane[l]++
	}

	pending := d.mapOut.neededPerLane
	for l := 0; l < d.cfg.ExecuteWidth; l++ {
		reserved := 0
		if !d.mapOut.dropped && pending != nil {
			reserved = pending[l]
		}
		avail := d.instq[l].NumSlots() - reserved
		for n > 0 && neededPerLane[l] > avail {
			n--
			neededPerLane[lanes[n]]--
		}
	}
	lanes = lanes[:n]

	hasBR := checkpointSlot >= 0 && n > branchPos
	if !hasBR {
		checkpointSlot = -1
	}

	free := freeReg.Free[:n]
	renameBndl := d.rmap.GetMapBundle(fetched.Inst[:n], free)

	entries := make([]mapEntry, n)
	for i := 0; i < n; i++ {
		op := renameBndl.Op[i]
		op.Opcode = fetched.Inst[i].Opcode
		op.PredTaken = fetched.PredTaken[i]
		op.OParity = fetched.OParity[i]
		op.DependOn = d.curMask
		if hasBR && i == n-1 {
			op.Checkpoint = checkpointSlot
		}

		entries[i] = mapEntry{
			inst:   fetched.Inst[i],
			pcLike: fetched.PcLike[i],
			cookie: fetched.Cookie[i],
			op:     op,
			atag:   freeReg.ATag[i],
			lane:   lanes[i],
		}
		if !d.cfg.ROBRename {
			entries[i].tdOld = renameBndl.TdOld[i]
		}
	}

	return mapLatch{
		entries:        entries,
		neededPerLane:  neededPerLane,
		hasBR:          hasBR,
		checkpointSlot: checkpointSlot,
	}
}

// commitMap is Stage 2's commit: it latches candidate as next cycle's
// mapOut (always, even when nothing is accepted this cycle) and, unless
// an exception is pending or candidate was dropped by a same-cycle
// branch resolution, installs it into the Active List, Rename Map,
// Busy Table and Checkpoint. Returns how many instructions were
// accepted.
func (d *Datapath) commitMap(candidate mapLatch, exceptionPending bool) int {
	d.assertPhase(phaseCommit, "commitMap")
	d.mapOut = candidate

	if exceptionPending || candidate.dropped || len(candidate.entries) == 0 {
		return 0
	}

	n := len(candidate.entries)
	inst := make([]arch.Instruction, n)
	pcLike := make([]uint64, n)
	cookies := make([]Cookie, n)
	free := make([]RenameTag, n)
	renameBndl := RMapBundle{Howmany: n, Op: make([]Operation, n)}

	var tdOld []RenameTag
	if !d.cfg.ROBRename {
		tdOld = make([]RenameTag, n)
	}

	for i, e := range candidate.entries {
		inst[i] = e.inst
		pcLike[i] = e.pcLike
		cookies[i] = e.cookie
		free[i] = e.op.Td
		renameBndl.Op[i] = e.op
		if !d.cfg.ROBRename {
			tdOld[i] = e.tdOld
		}
	}

	d.activeList.Accept(n, inst, pcLike, tdOld, renameBndl, cookies)
	d.rmap.SetMapBundle(inst, free)
	for _, e := range candidate.entries {
		if e.inst.Rd != arch.R0 {
			d.busy.SetBusy(TagToIndex(e.op.Td))
		}
	}

	if candidate.hasBR {
		d.checkpoint.New(candidate.checkpointSlot)
		d.curMask = d.curMask.WithBit(candidate.checkpointSlot)
		d.rmap.Checkpoint(candidate.checkpointSlot)
		if !d.cfg.ROBRename {
			d.activeList.Checkpoint(candidate.checkpointSlot)
		}
	}

	return n
}
