// Package procs provides process inspection tools backed by gopsutil.
//
// Enumeration is best-effort: processes that exit mid-scan or deny access
// are skipped per entry rather than failing the whole listing. The tree
// walker uses an explicit accumulator with a depth guard so a corrupt or
// cyclic parent chain cannot recurse unbounded.
package procs
