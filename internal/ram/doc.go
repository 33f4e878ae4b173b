// Package ram models a small bank of memory cells as two parallel grids.
//
// The bit grid holds the logical contents of every cell. The voltage grid
// holds the analog charge shown for each cell, snapped to [High] or [Low]:
//
//   - [Bank.UpdateRow]: replace a row from a binary string
//   - [Bank.ResetVoltages]: re-read every charge against [Threshold] and snap it back
//   - [Bank.ToggleView]: switch between binary and voltage display
//   - [Bank.Render]: produce the display text and colour key for each cell
//
// # Example
//
//	bank, _ := ram.New(10, 8, ram.Random(rand.New(rand.NewSource(1))))
//	_ = bank.UpdateRow(0, "10101010")
//	bank.ResetVoltages()
//	cells := bank.Render()
//
// # Thread Safety
//
// Bank is NOT safe for concurrent use. Frontends drive it from a single
// event loop.
package ram
