// Package chunk defines the batch types shared by encoders, sinks and the pipeline.
//
// # Batches
//
// Every flush of the engine is wrapped in a Batch before it leaves the pipeline:
//
//	batch := chunk.NewBatch(chunk.ReasonSize, seq, chunks, time.Now())
//	batch.Content() // the flushed text, chunks rejoined
//	batch.Key()     // "00000042-<uuid>", used for object names
//
// # Reasons
//
// A batch records why it was flushed:
//
//	chunk.ReasonManual    // explicit Flush
//	chunk.ReasonSize      // size rollover
//	chunk.ReasonTime      // time rollover, possibly empty
//	chunk.ReasonWatch     // Watch predicate matched
//	chunk.ReasonShutdown  // final flush while the pipeline stops
//
// # File Formats
//
//	chunk.FormatRaw      // chunk bytes, optionally compressed
//	chunk.FormatJSONL    // one JSON object per chunk
//	chunk.FormatAvro     // Avro OCF, one record per chunk
//	chunk.FormatParquet  // one row per chunk
package chunk
