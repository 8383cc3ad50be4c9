// Package includeorder validates the ordering and grouping of inclusion
// directives within a single source file.
//
// # Overview
//
// A file's directives are fed to a State one at a time, in ascending line
// order. Each call to State.Process checks the new directive against what
// has been accepted so far and returns zero or more diagnostics:
//
//   - position: same-kind includes sit on consecutive lines, and exactly one
//     blank line separates a system block from a local block
//   - precedence: every system include precedes every local include, less
//     the file's associated header
//   - sort: consecutive includes of the same kind are sorted by path
//
// Diagnostics never stop processing. The state always advances as if the
// directive were valid, so one misplaced line does not cascade.
//
// # Usage Example
//
//	state := includeorder.NewState("widget.cc", includeorder.Options{})
//	for _, ev := range events {
//		diags, err := state.Process(ev)
//		if err != nil {
//			return err // directive feed broke its ordering contract
//		}
//		for _, d := range diags {
//			fmt.Printf("%d: %s\n", d.Location.Line, d.Message())
//		}
//	}
//
// A State belongs to exactly one file. Concurrent checks must each create
// their own.
package includeorder
