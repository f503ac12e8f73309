// Package git wraps the subset of git plumbing and porcelain the core
// engines need, each as a single typed function, via [os/exec].
//
// Every call sets its working directory explicitly — never ambient — and
// leaves stderr attached to the process so git's own diagnostics reach the
// user unchanged ([github.com/raphi011/slotctl/internal/cmd]). Callers must
// not re-wrap a returned *[cmd.Failure] with their own "command failed"
// text; the failure already carries git's exit code and git has already
// printed the reason.
//
// # Worktrees
//
//   - [Fetch], [WorktreeAdd], [WorktreeRemove], [WorktreeList], [WorktreePrune]
//   - [Checkout], [CheckoutDetach], [CheckoutCreate], [CheckoutTrack]
//   - [HardReset], [CleanUntracked]
//
// # Refs and branches
//
//   - [UpdateRef], [DeleteRef], [RefExists], [VerifyRevision]
//   - [CurrentBranch], [CurrentCommit], [DefaultBranch], [RemoteBranchExists]
//
// # Stash
//
//   - [StashPushU], [StashApply]
//   - [DiffBinary], [HasThirdParent], [DiffTreeRootPatch] (stash archival)
//
// # Repository setup
//
//   - [CloneBare], [SetConfig], [RemoteSetHeadAuto]
//   - [Status], [IsTracked]
package git
