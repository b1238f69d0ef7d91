// Package trail implements the bounded-memory trajectory stores.
//
// Every policy satisfies [Store] and keeps points in chronological order.
// Once a store is over capacity it is lossy: evicted or thinned points are
// gone for good.
//
//   - [Precomputed]: the whole horizon is computed up front, playback moves
//     a cursor through it
//   - [TwoTier]: full-density recent tier plus a decimated sparse tier
//   - [AgeBanded]: one buffer compacted by age bands on overflow
//   - [Ring]: fixed-size FIFO
//
// Renderers should use [Layers] to draw older, fainter tiers first, and
// exporters [Exportable] to get the most exact series a store holds.
//
// Stores are not safe for concurrent use.
package trail
