package core

// promotionThreshold is the outbound event count at which an AUTO-hinted
// source state's transition list is promoted to a dense per-event array.
// A state must accumulate more than this many outbound event-triggered
// transitions (COMPLETE excluded) before promotion.
const promotionThreshold = 4

// completeNode is a singly linked list entry in the machine-wide
// COMPLETE-transition list. COMPLETE is indexed separately from the
// per-event tables/arrays because its ID lies outside the normal event
// range.
type completeNode struct {
	fromState  StateID
	transition *Transition
	next       *completeNode
}

// stateSlot holds one source state's outbound transitions under the
// SPACE/AUTO layouts: either a promoted dense array indexed by event ID,
// or a plain list scanned linearly.
type stateSlot struct {
	array []*Transition
	list  []*Transition
}

// lookup is the per-machine transition index. Exactly one of table/slots
// is populated, selected by hint — a tagged variant rather than the raw
// union the original C implementation used, so the active layout can
// never diverge from the tag.
type lookup struct {
	hint     OptimizeHint
	table    [][]*Transition // [eventID][stateID], OptimizeTime only
	slots    []stateSlot     // [stateID], OptimizeSpace/OptimizeAuto only
	complete *completeNode
}

// buildLookup validates and indexes transitions per the effective
// optimize hint. It returns StatusInitDuplicateTransition if two
// transitions are declared for the same (from, event) pair, including two
// COMPLETE transitions declared for the same from state.
func buildLookup(transitions []*Transition, maxStateID StateID, maxEventID EventID, hint OptimizeHint, alloc Allocator) (*lookup, Status) {
	lu := &lookup{hint: hint}

	seenComplete := make(map[StateID]bool)
	addComplete := func(t *Transition) Status {
		if seenComplete[t.From.ID] {
			return StatusInitDuplicateTransition
		}
		seenComplete[t.From.ID] = true
		alloc.Alloc(1)
		lu.complete = &completeNode{fromState: t.From.ID, transition: t, next: lu.complete}
		return StatusOK
	}

	if hint == OptimizeTime {
		table := make([][]*Transition, maxEventID+1)
		alloc.Alloc(len(table))
		for i := range table {
			table[i] = make([]*Transition, maxStateID+1)
			alloc.Alloc(len(table[i]))
		}
		for _, t := range transitions {
			if t.Event == EventIDComplete {
				if status := addComplete(t); !status.OK() {
					return nil, status
				}
				continue
			}
			if table[t.Event][t.From.ID] != nil {
				return nil, StatusInitDuplicateTransition
			}
			table[t.Event][t.From.ID] = t
		}
		lu.table = table
		return lu, StatusOK
	}

	// OptimizeSpace / OptimizeAuto: group non-COMPLETE transitions by
	// source state first so AUTO can see each state's total outbound
	// event count before deciding whether to promote it.
	grouped := make([][]*Transition, maxStateID+1)
	for _, t := range transitions {
		if t.Event == EventIDComplete {
			if status := addComplete(t); !status.OK() {
				return nil, status
			}
			continue
		}
		grouped[t.From.ID] = append(grouped[t.From.ID], t)
	}

	slots := make([]stateSlot, maxStateID+1)
	alloc.Alloc(len(slots))
	for stateID, outbound := range grouped {
		if len(outbound) == 0 {
			continue
		}
		seen := make(map[EventID]bool, len(outbound))
		for _, t := range outbound {
			if seen[t.Event] {
				return nil, StatusInitDuplicateTransition
			}
			seen[t.Event] = true
		}
		if hint == OptimizeAuto && len(outbound) > promotionThreshold {
			array := make([]*Transition, maxEventID+1)
			alloc.Alloc(len(array))
			for _, t := range outbound {
				array[t.Event] = t
			}
			slots[stateID] = stateSlot{array: array}
		} else {
			list := make([]*Transition, len(outbound))
			copy(list, outbound)
			alloc.Alloc(len(list))
			slots[stateID] = stateSlot{list: list}
		}
	}
	lu.slots = slots
	return lu, StatusOK
}

// lookupTransition maps (active state, event) to a transition, per §4.3.
// COMPLETE is always scanned from the machine-wide linked list regardless
// of layout; other events go through whichever table/slot structure this
// machine built.
func (lu *lookup) lookupTransition(activeState StateID, eventID EventID, maxEventID EventID) *Transition {
	if eventID == EventIDComplete {
		for node := lu.complete; node != nil; node = node.next {
			if node.fromState == activeState {
				return node.transition
			}
		}
		return nil
	}

	if eventID > maxEventID {
		return nil
	}

	if lu.hint == OptimizeTime {
		return lu.table[eventID][activeState]
	}

	slot := lu.slots[activeState]
	if slot.array != nil {
		return slot.array[eventID]
	}
	for _, t := range slot.list {
		if t.Event == eventID {
			return t
		}
	}
	return nil
}

// release accounts for every buffer this lookup allocated, mirroring the
// spec's "all buffers ... must be fully released on destroy" contract.
func (lu *lookup) release(alloc Allocator) {
	switch lu.hint {
	case OptimizeTime:
		alloc.Free(len(lu.table))
		for _, row := range lu.table {
			alloc.Free(len(row))
		}
	default:
		alloc.Free(len(lu.slots))
		for _, slot := range lu.slots {
			if slot.array != nil {
				alloc.Free(len(slot.array))
			}
			if slot.list != nil {
				alloc.Free(len(slot.list))
			}
		}
	}
	for node := lu.complete; node != nil; node = node.next {
		alloc.Free(1)
	}
}
