// Command verifydoc runs the verification stages on text that has already
// been recognized, for example a saved OCR transcript.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"docverify/internal/format"
	"docverify/internal/models"
	"docverify/internal/verification"
)

type options struct {
	textPath string
	format   string
	today    string
	noColor  bool
	decl     models.ApplicantDeclaration
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "verifydoc:", err)
		os.Exit(2)
	}
}

func run(args []string, stdin io.Reader, stdout *os.File) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	text, err := readText(opts.textPath, stdin)
	if err != nil {
		return err
	}

	today := time.Now()
	if opts.today != "" {
		if today, err = time.Parse(time.DateOnly, opts.today); err != nil {
			return fmt.Errorf("invalid -today %q: want YYYY-MM-DD", opts.today)
		}
	}

	var decl *models.ApplicantDeclaration
	if opts.decl != (models.ApplicantDeclaration{}) {
		decl = &opts.decl
	}

	result := verification.Analyze(text, decl, today).Result
	out, err := render(result, opts.format, isTerminal(stdout), opts.noColor)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, out)
	return err
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("verifydoc", flag.ContinueOnError)
	fs.StringVar(&o.textPath, "text", "-", "file with recognized document text, or - for stdin")
	fs.StringVar(&o.format, "format", format.FormatAuto, "output format: auto, text or json")
	fs.StringVar(&o.today, "today", "", "evaluate expiry and age as of this date (YYYY-MM-DD)")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored text output")
	fs.StringVar(&o.decl.FullName, "name", "", "declared full name")
	fs.StringVar(&o.decl.DateOfBirth, "dob", "", "declared date of birth")
	fs.StringVar(&o.decl.PassportNumber, "passport", "", "declared passport number")
	fs.StringVar(&o.decl.Nationality, "nationality", "", "declared nationality")
	fs.StringVar(&o.decl.IntendedVisaType, "visa", "", "intended visa type")
	fs.StringVar(&o.decl.PurposeOfVisit, "purpose", "", "purpose of visit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.format {
	case format.FormatAuto, format.FormatText, format.FormatJSON:
	default:
		return o, fmt.Errorf("unknown -format %q", o.format)
	}
	return o, nil
}

func readText(path string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("no text to verify")
	}
	return string(b), nil
}

// render picks JSON for pipes and a colored report for terminals in auto mode.
func render(r models.VerificationResult, mode string, tty, noColor bool) (string, error) {
	if mode == format.FormatAuto {
		mode = format.FormatJSON
		if tty {
			mode = format.FormatText
		}
	}
	if mode == format.FormatJSON {
		return format.JSON(r)
	}
	return format.NewTextFormatter(noColor || !tty).Format(r), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
