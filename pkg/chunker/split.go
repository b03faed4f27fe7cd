package chunker

// Split cuts s into consecutive substrings of size bytes; the last one may be shorter.
// Cuts are positional and may fall inside a multi-byte UTF-8 sequence.
// An empty s yields an empty slice. A non-positive size is treated as DefaultChunkSize.
func Split(s string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([]string, 0, (len(s)+size-1)/size)
	for i := 0; i < len(s); i += size {
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
