package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gordoncheme/ctx-theatre-browser/internal/filter"
	"github.com/gordoncheme/ctx-theatre-browser/internal/manual"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

const menuText = `
=== CTX Live Theatre ===
1. Sync from feed
2. List all productions
3. List future productions
4. Search by title
5. Add a production manually
6. Quit
`

// errAborted ends an interactive prompt when input runs out
var errAborted = errors.New("input closed")

// prompter reads answers line by line from the terminal
type prompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out}
}

// ask prints prompt and returns the trimmed answer
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			fmt.Fprintln(p.out)
			return "", errAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askDate re-prompts until the answer is blank or a valid date
func (p *prompter) askDate(prompt string) (production.Date, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return production.Date{}, err
		}
		date, err := manual.ParseDate(answer)
		if err == nil {
			return date, nil
		}
		fmt.Fprintln(p.out, "Invalid date. Please use YYYY-MM-DD (e.g., 2025-11-21).")
	}
}

// runMenu shows the menu until the user quits or input ends. A failing
// option prints its error and returns to the menu.
func (a *app) runMenu(ctx context.Context) error {
	p := newPrompter(a.in, a.out)

	for {
		fmt.Fprint(a.out, menuText)
		choice, err := p.ask("Choose an option [1-6]: ")
		if errors.Is(err, errAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = a.runSync(ctx)
		case "2":
			err = a.printRecords(filter.ListAll(a.store.All()))
		case "3":
			err = a.printRecords(filter.Future(a.store.All(), a.today()))
		case "4":
			var keyword string
			keyword, err = p.ask("Title keyword: ")
			if err == nil {
				err = a.runSearch(keyword)
			}
		case "5":
			err = a.runAddInteractive(p)
		case "6", "q", "quit":
			fmt.Fprintln(a.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice, please enter a number from 1 to 6.")
			continue
		}

		if errors.Is(err, errAborted) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// runAddInteractive prompts for a manual production and stores it
func (a *app) runAddInteractive(p *prompter) error {
	fmt.Fprintln(a.out, "\n=== Add a manual production ===")

	var in manual.Input
	var err error
	for in.Title == "" {
		if in.Title, err = p.ask("Title (required): "); err != nil {
			return err
		}
		if in.Title == "" {
			fmt.Fprintln(a.out, "Title is required.")
		}
	}

	if in.URL, err = p.ask("URL (optional): "); err != nil {
		return err
	}
	if in.StartDate, err = p.askDate("Start date (YYYY-MM-DD, optional): "); err != nil {
		return err
	}
	if in.EndDate, err = p.askDate("End date (YYYY-MM-DD, optional): "); err != nil {
		return err
	}
	if in.DaysOfWeek, err = p.ask("Days of week (optional, e.g. 'Fridays-Saturdays'): "); err != nil {
		return err
	}
	if in.VenueName, err = p.ask("Venue name (optional): "); err != nil {
		return err
	}
	if in.VenueAddress, err = p.ask("Venue address (optional): "); err != nil {
		return err
	}
	if in.SynopsisText, err = p.ask("Short description (optional): "); err != nil {
		return err
	}

	err = a.addRecord(in)
	if !errors.Is(err, manual.ErrExists) {
		return err
	}

	fmt.Fprintf(a.out, "\nWarning: %v.\n", err)
	answer, err := p.ask("Overwrite it? [y/N]: ")
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Not added.")
		return nil
	}
	in.Overwrite = true
	return a.addRecord(in)
}
