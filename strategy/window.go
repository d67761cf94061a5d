package strategy

import "encoding/json"

// windowCapacity is the number of ticks of saturation history the policy
// keeps. Liquidation flags are defined only on a full window.
const windowCapacity = 10

// Window is a bounded FIFO of at-limit flags, one entry per tick, oldest
// evicted first. It is the policy's only cross-tick state and round-trips
// through the trader-data blob as a flat JSON array, oldest first.
type Window struct {
	entries []bool
}

// Append records this tick's saturation flag, evicting the oldest entry
// once the window is full.
func (w *Window) Append(atLimit bool) {
	w.entries = append(w.entries, atLimit)
	if len(w.entries) > windowCapacity {
		w.entries = w.entries[1:]
	}
}

func (w *Window) Len() int { return len(w.entries) }

func (w *Window) Full() bool { return len(w.entries) == windowCapacity }

// SoftLiquidate reports moderate sustained saturation: a full window with at
// least half its entries at limit and the most recent one at limit.
func (w *Window) SoftLiquidate() bool {
	if !w.Full() {
		return false
	}
	count := 0
	for _, v := range w.entries {
		if v {
			count++
		}
	}
	return 2*count >= windowCapacity && w.entries[len(w.entries)-1]
}

// HardLiquidate reports severe sustained saturation: every entry of a full
// window at limit. HardLiquidate implies SoftLiquidate.
func (w *Window) HardLiquidate() bool {
	if !w.Full() {
		return false
	}
	for _, v := range w.entries {
		if !v {
			return false
		}
	}
	return true
}

// Save encodes the window contents oldest first.
func (w *Window) Save() (json.RawMessage, error) {
	entries := w.entries
	if entries == nil {
		entries = []bool{}
	}
	return json.Marshal(entries)
}

// Load restores window contents from Save output. A nil payload resets the
// window; a malformed payload resets it and reports the decode error.
func (w *Window) Load(data json.RawMessage) error {
	w.entries = nil
	if len(data) == 0 {
		return nil
	}
	var entries []bool
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if len(entries) > windowCapacity {
		entries = entries[len(entries)-windowCapacity:]
	}
	w.entries = entries
	return nil
}
