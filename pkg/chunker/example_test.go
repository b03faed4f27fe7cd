package chunker_test

import (
	"fmt"
	"strings"

	"github.com/jittakal/chunker/pkg/chunker"
)

func ExampleEngine_Flush() {
	e := chunker.New(chunker.Config{})

	e.AppendLine("this is my first line")
	e.AppendLine("this is my second line")

	for _, chunk := range e.Flush() {
		fmt.Printf("%q\n", chunk)
	}
	// Output:
	// "this is my"
	// " first lin"
	// "e\nthis is "
	// "my second "
	// "line\n"
}

func ExampleEngine_ConfigureRollover() {
	e := chunker.New(chunker.Config{ChunkSize: 5})
	defer e.Close()

	e.ConfigureRollover(chunker.SizeTrigger(10, func(chunks []string) {
		fmt.Println(strings.Join(chunks, "|"))
	}))

	e.Append("abcd")
	e.Append("efgh")
	e.Append("ij")
	fmt.Println("pending:", e.Len())
	// Output:
	// abcde|fghij
	// pending: 0
}

func ExampleEngine_Watch() {
	e := chunker.New(chunker.Config{ChunkSize: 4})
	e.Append("hello world")

	e.Watch(func() bool { return strings.Contains(strings.Join(e.Peek(), ""), "world") },
		func(chunks []string) { fmt.Printf("%q\n", chunks) })
	// Output: ["hell" "o wo" "rld"]
}

func ExampleSplit() {
	fmt.Printf("%q\n", chunker.Split("abcdefg", 3))
	// Output: ["abc" "def" "g"]
}
