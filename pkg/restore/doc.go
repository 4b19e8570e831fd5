// Package restore replays a snapshot into the home directory and undoes a
// partially completed replay when a hard I/O error interrupts it.
//
// Every write is journaled before it happens: the destination is recorded
// as restored before its copy starts, and an existing destination is first
// copied to a sibling file. A conflict backup chosen by the user keeps the
// BackupSuffix and outlives the restore. When the user overwrites an
// existing file, its previous content is stashed under RollbackSuffix for
// the duration of the restore only.
//
// Rollback deletes the journaled destinations and moves every sibling back
// into place, collecting failures instead of stopping at the first one.
package restore
