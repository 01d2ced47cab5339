// Package state provides the thread-safe record store shared by the loader,
// the status updater and the UI.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - BeginLoad, FinishLoad, BeginUpdate, ApplyStatus: write lock
//   - Snapshot: read lock
//
// The lock is held only while copying. Network I/O happens outside it.
//
// # Load Generations
//
// Every load calls BeginLoad and receives a generation number. FinishLoad
// ignores any generation other than the latest, so a slow response from a
// superseded reload can never overwrite newer data. A failed load keeps the
// previous collection and records the error:
//
//	gen := store.BeginLoad()
//	records, err := loader.Load(ctx)
//	store.FinishLoad(gen, records, err)
//
// # Update Tokens
//
// Status changes are optimistic-free: the collection changes only after the
// remote service acknowledges the update. BeginUpdate hands out a token per
// record; ApplyStatus drops acknowledgements whose token has since been
// replaced by a newer update of the same record or by a completed reload.
// Bulk acknowledgements are applied in one ApplyStatus call so the UI never
// observes a half-applied batch.
//
// # Copying
//
// FinishLoad and Snapshot deep-copy records, including module slices, so the
// UI can hold a snapshot while the store changes underneath it.
//
// The zero Store is ready to use.
package state
