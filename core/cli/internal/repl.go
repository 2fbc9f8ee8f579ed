package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
)

// Goodbye is printed when the loop ends.
const Goodbye = "Αντίο! (Goodbye!)"

const maxLine = 1 << 20

// REPL reads questions line by line until quit, end of input or
// cancellation of the context passed to Run.
type REPL struct {
	Asker interfaces.Asker
	// Stats answers the "stats" command; nil disables it.
	Stats   func(ctx context.Context) (*domain.Stats, error)
	In      io.Reader
	Out     io.Writer
	Verbose bool
	// Prompt prints "Ask: " before each read.
	Prompt bool
}

// Run blocks until the user leaves the loop.
func (r *REPL) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.banner()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.In)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if r.Prompt {
			fmt.Fprint(r.Out, "\nAsk: ")
		}

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out, "\n"+Goodbye)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.Out, "\n"+Goodbye)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}

		question := strings.TrimSpace(line)
		switch strings.ToLower(question) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(r.Out, Goodbye)
			return nil
		case "stats":
			r.printStats(ctx)
			continue
		}

		PrintOutcome(r.Out, r.Asker.Ask(ctx, question), r.Verbose)
	}
}

func (r *REPL) banner() {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(r.Out, rule)
	fmt.Fprintln(r.Out, "  Diavgeia: public spending query agent")
	fmt.Fprintln(r.Out, "  Ρωτήστε στα ελληνικά ή στα αγγλικά. Ask in Greek or English.")
	fmt.Fprintln(r.Out, "  Type 'stats' for database statistics, 'quit' to exit.")
	fmt.Fprintln(r.Out, rule)
}

func (r *REPL) printStats(ctx context.Context) {
	if r.Stats == nil {
		fmt.Fprintln(r.Out, "Statistics are not available.")
		return
	}
	s, err := r.Stats(ctx)
	if err != nil {
		fmt.Fprintf(r.Out, "Error: %v\n", err)
		return
	}
	PrintStats(r.Out, s)
}
