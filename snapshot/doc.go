// Package snapshot persists one record per generation: the distance
// configuration and fingerprint, the calibrated statistic weights, the
// model probabilities and the weighted distance table.
//
// Records are encoded with a codec.Codec, optionally block-compressed and
// written to a blobstore.BlobStore as "gen-NNNNNN.snap". Every blob starts
// with a small header naming its compression and codec, so records stay
// readable when the store defaults change.
package snapshot
