// Package review connects an applications.Source to the shared record store.
//
// Load fetches the collection, decodes each CV into the session directory and
// maps raw applications into records. A CV that cannot be decoded only loses
// its handle; the rest of the load carries on.
//
// SetStatus and BulkSetStatus change status remotely and patch the store only
// after the server acknowledges. Bulk requests fan out through an errgroup
// and the store is written once after all of them settle. Under the PerItem
// policy every acknowledged id is applied and failures come back in a
// *BulkError; under AllOrNothing a single failure means nothing is applied.
package review
