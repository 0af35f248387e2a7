// Package signal carries the payload-free change notifications that keep
// every session controller observing the same token store convergent.
//
// Two kinds exist: token-changed and logged-out. Observers never receive the
// token itself; on any signal they re-read the store, so a missed or
// duplicated delivery is harmless.
//
// [LocalBus] delivers synchronously within one process. [RedisBus] fans out
// over Redis pub/sub to every cooperating process, the analogue of
// storage-change notifications between browser tabs. Cross-process delivery
// is asynchronous and unordered relative to local writes; the store is
// last-write-wins and the controllers tolerate that.
package signal
