// Package batch runs the resize-and-rename pipeline over every code
// directory under a root.
//
// Directories are visited in name order. A directory whose code has no
// product number is reported and skipped. Inside a directory, images are
// processed in name order and numbered from 001; a file that fails is
// reported and does not consume a number. No failure after startup stops
// the batch.
package batch
