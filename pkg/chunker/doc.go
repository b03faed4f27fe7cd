// Package chunker provides a text buffer that accumulates appended strings and
// releases them as fixed-size chunks.
//
// # Engine
//
// An Engine keeps appended fragments in order until a flush drains them:
//
//	e := chunker.New(chunker.Config{ChunkSize: 5})
//	e.Append("hello ")
//	e.AppendLine("world")
//	chunks := e.Flush() // ["hello", " worl", "d\n"]
//
// Joining the chunks of a flush always reproduces the exact concatenation of the
// fragments appended since the previous flush. Every chunk has ChunkSize bytes except
// possibly the last one. Splitting works on bytes and ignores fragment, line and UTF-8
// boundaries.
//
// # Rollover
//
// Triggers flush automatically and hand the chunks to a callback:
//
//	e := chunker.New(chunker.Config{
//	    ChunkSize: 512,
//	    Rollover: []chunker.Trigger{
//	        chunker.SizeTrigger(4096, send),
//	        chunker.TimeTrigger(5*time.Second, send),
//	    },
//	})
//	defer e.Close()
//
// A size trigger fires inside the Append that makes the pending length reach its
// threshold; that fragment is part of the flushed content. A time trigger fires on a
// fixed period from a goroutine owned by the engine, even when the buffer is empty, in
// which case the callback receives an empty slice.
//
// # Lifecycle
//
// Close releases the time trigger's goroutine. It must be called before the engine is
// discarded; an engine that is dropped without Close keeps its ticker alive and keeps
// delivering empty flushes.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Each Append, Flush, Peek or Watch call is
// atomic with respect to the others. Automatic flushes are delivered one at a time, in
// drain order, with no internal lock held. A callback may append to the engine or call
// Watch; any flush that causes is queued and delivered once the callback returns.
package chunker
