// Package loader reads and writes MISC programs in the text word format: one
// decimal integer per memory word, separated by whitespace, starting at
// address 0.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// Program represents a program read from the text format.
type Program struct {
	// Words holds the memory image from address 0.
	Words []int32
	// Stopped is set when reading ended at an unparsable token rather than
	// at the end of input.
	Stopped bool
	// StopToken is the token that ended reading when Stopped is set.
	StopToken string
}

// Load reads the program file at path.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file %s: %w", path, err)
	}
	return prog, nil
}

// Parse reads words until the end of r or the first token that is not a
// decimal integer. Values above math.MaxInt32 are accepted up to
// math.MaxUint32 and stored as their two's-complement bit pattern.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tok := scanner.Text()
		word, ok := parseWord(tok)
		if !ok {
			prog.Stopped = true
			prog.StopToken = tok
			break
		}
		prog.Words = append(prog.Words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return prog, nil
}

func parseWord(tok string) (int32, bool) {
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || v < math.MinInt32 || v > math.MaxUint32 {
		return 0, false
	}
	return int32(uint32(v)), true
}

// Write emits words in the text format, one per line.
func Write(w io.Writer, words []int32) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%d\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes words to the file at path, replacing it.
func Save(path string, words []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create program file: %w", err)
	}

	if err := Write(f, words); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write program file %s: %w", path, err)
	}
	return f.Close()
}
