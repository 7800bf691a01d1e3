// Package pixhuff estimates how small an RGBA raster would become if every
// pixel color were replaced by its Huffman codeword.  Alpha is ignored: two
// pixels with the same red, green and blue channels are the same symbol.
//
// The pipeline is CountFrequencies → BuildTree → GenerateCodes →
// EstimateSize.  Estimator chains the four steps and reports progress, and
// Supervisor runs at most one Estimator at a time on its own goroutine.
//
// No compressed stream is ever produced; only its size is computed.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
//     <https://en.wikipedia.org/wiki/Canonical_Huffman_code>
//
package pixhuff
