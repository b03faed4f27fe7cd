// Package encoder provides batch encoding to various file formats.
//
// Encoders turn a chunk.Batch into the bytes a sink stores. They do not touch the
// filesystem; sinks decide where the bytes go.
//
// # Supported Formats
//
//   - raw: chunks written back to back, optionally gzip or zstd compressed
//   - jsonl: one JSON object per chunk, optionally gzip or zstd compressed
//   - parquet: one row per chunk, page compression snappy (default), gzip, lz4 or zstd
//   - avro: OCF container, one record per chunk, block codec null, deflate or snappy;
//     gzip wraps the whole container
//
// # Encoder Factory
//
//	factory := encoder.NewFactory(chunk.FormatParquet, "snappy")
//	enc, err := factory.CreateEncoder()
//	if err != nil {
//	    return err
//	}
//	data, err := enc.Encode(batch)
//
// # Record Layout
//
// The row-oriented formats share ChunkRecord: batch_id, sequence, reason,
// chunk_index, chunk and flushed_at. Rejoining the chunk column ordered by
// chunk_index reproduces the flushed text.
//
// # Empty Batches
//
// Avro and Parquet refuse empty batches with an EncodeError wrapping
// errors.ErrEmptyBatch. Raw and jsonl encode them as empty output.
//
// # Thread Safety
//
// Encoder instances hold no per-call state and are safe for concurrent use.
package encoder
