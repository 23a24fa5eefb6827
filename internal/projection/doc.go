// Package projection builds the kitchen board: the tabular view derived
// from the order journal.
//
// Everything in this package is a pure, synchronous transformation over
// immutable inputs. There is no locking, no I/O, and no wall-clock
// access; the engine owns sequencing and storage, and the same row
// builder serves both live ingestion and journal replay so the two can
// never drift apart.
package projection
