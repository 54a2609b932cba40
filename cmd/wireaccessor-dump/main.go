// Command wireaccessor-dump reads a binary protobuf-encoded message from a
// file or stdin and prints its indexed field map: one line per field
// occurrence, with its field number, wire type and payload byte range.
//
// It does not know about any .proto schema — it reports exactly the level
// of detail the accessor package itself can see.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nirav-go/lazywire/accessor"
	"github.com/nirav-go/lazywire/wire"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "wireaccessor-dump:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wireaccessor-dump", flag.ContinueOnError)
	inputPath := fs.String("in", "", "path to the encoded message (default: read stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	buf, err := readInput(*inputPath)
	if err != nil {
		return err
	}

	a := accessor.FromBuffer(buf)
	nums, err := a.FieldNumbers()
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	for _, n := range nums {
		occs, err := a.RawOccurrences(n)
		if err != nil {
			return err
		}
		if len(occs) == 0 {
			fmt.Fprintf(out, "field %d\n", n)
			continue
		}
		for _, o := range occs {
			fmt.Fprintf(out, "field %d\twire=%s\tpayload=[%d,%d)\n", n, wire.TypeName(o.WireType), o.PayloadStart, o.PayloadEnd)
		}
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
