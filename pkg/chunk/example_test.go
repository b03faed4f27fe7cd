package chunk_test

import (
	"fmt"
	"time"

	"github.com/jittakal/chunker/pkg/chunk"
)

func ExampleBatch_Content() {
	b := chunk.NewBatch(chunk.ReasonManual, 1, []string{"this is my", " first lin", "e\n"}, time.Now())

	fmt.Printf("%q %d\n", b.Content(), b.Size)
	// Output: "this is my first line\n" 22
}
