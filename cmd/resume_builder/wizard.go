package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/summarize"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
	"github.com/jonathan/resume-builder/internal/wizard"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Fill in a resume interactively",
	Long:  "Starts an interactive session that resumes the saved document, walks the six steps, shows the preview, and exports. Type help for the command list.",
	RunE:  runWizard,
}

var (
	wizardPDF   bool
	wizardWidth int
)

func init() {
	wizardCmd.Flags().BoolVar(&wizardPDF, "pdf", false, "Enable PDF export (needs Chrome or Chromium)")
	wizardCmd.Flags().IntVar(&wizardWidth, "width", 90, "Characters per line for the text preview")
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	manager, err := a.manager(ctx)
	if err != nil {
		return err
	}
	manager.OnFailure(func(failure *persistence.PersistenceFailedError) {
		fmt.Fprintf(cmd.ErrOrStderr(), "! progress is no longer being saved: %v\n", failure)
	})
	manager.OnRecover(func() {
		fmt.Fprintln(cmd.ErrOrStderr(), "✓ saving again")
	})

	exporter, err := a.exporter(ctx, wizardPDF, a.cfg.Export.Upload)
	if err != nil {
		return err
	}
	summarizer, err := summarize.New(ctx, a.cfg.Summarize)
	if err != nil {
		return err
	}
	if c, ok := summarizer.(io.Closer); ok {
		defer c.Close()
	}

	ctrl := wizard.New(wizard.Options{Saver: manager, Logger: a.logger})
	if err := ctrl.Start(ctx); err != nil {
		a.logger.Warn("starting with an empty document", slog.Any("error", err))
	}

	sh := &shell{
		ctrl:       ctrl,
		exporter:   exporter,
		summarizer: summarizer,
		key:        manager.Key(),
		width:      wizardWidth,
		out:        cmd.OutOrStdout(),
	}
	runErr := sh.run(ctx, cmd.InOrStdin())

	// the signal context may already be cancelled
	flushErr := ctrl.Flush(context.WithoutCancel(ctx))
	return errors.Join(runErr, flushErr)
}

// artifactExporter is the part of the export pipeline the shell uses
type artifactExporter interface {
	Export(ctx context.Context, req export.Request) (*export.Artifact, error)
	Formats() []string
}

// shell reads one command per line and drives the controller
type shell struct {
	ctrl       *wizard.Controller
	exporter   artifactExporter
	summarizer summarize.Summarizer
	key        string
	width      int
	out        io.Writer
}

const shellHelp = `Editing:
  set <section> <path> <value>   e.g. set personal fullName Ada Lovelace
                                      set experience 0.role Engineer
  add <section>                  append an empty entry
  rm <section> <index>           remove an entry
  mv <section> <from> <to>       reorder entries
  skill <name> / unskill <name>
  template <id>
Navigation:
  next, prev, goto <step>, state, errors
Output:
  preview [template], doc, export <format> [template]
  summarize <text>               draft additional.summary from text
Session:
  reset, help, quit
`

// run reads commands until EOF, quit, or ctx is done
func (s *shell) run(ctx context.Context, in io.Reader) error {
	p := observability.NewPrinter(s.out)
	p.PrintState(s.ctrl.State())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(s.out, "[%d %s]> ", int(s.ctrl.Step()), s.ctrl.Step())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := s.exec(ctx, p, line)
		if err != nil {
			fmt.Fprintf(s.out, "✗ %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line. Command errors are reported, never fatal.
func (s *shell) exec(ctx context.Context, p *observability.Printer, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.out, shellHelp)
	case "state":
		p.PrintState(s.ctrl.State())
	case "errors":
		p.PrintErrors(s.ctrl.Step().String(), s.ctrl.Errors())
	case "doc":
		p.PrintDocument(s.ctrl.Document())
	case "next":
		if err := s.ctrl.Next(); err != nil {
			var verr *validation.ValidationError
			if errors.As(err, &verr) {
				p.PrintErrors(verr.Step.String(), verr.Errors)
				return false, nil
			}
			return false, err
		}
		p.PrintState(s.ctrl.State())
	case "prev", "previous", "back":
		s.ctrl.Previous()
		p.PrintState(s.ctrl.State())
	case "goto":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: goto <step>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid step %q", args[0])
		}
		if err := s.ctrl.GoTo(types.Step(n)); err != nil {
			return false, err
		}
		p.PrintState(s.ctrl.State())
	case "preview":
		var id types.TemplateID
		if len(args) > 0 {
			id = types.TemplateID(args[0])
		}
		return false, writePreview(s.out, s.ctrl.Document(), id, "text", s.width)
	case "export":
		return false, s.export(ctx, p, args)
	case "summarize":
		return false, s.summarize(ctx, line)
	case "reset":
		if err := s.ctrl.Reset(ctx); err != nil {
			return false, err
		}
		p.PrintState(s.ctrl.State())
	default:
		return false, s.edit(p, line)
	}
	return false, nil
}

func (s *shell) edit(p *observability.Printer, line string) error {
	e, err := wizard.ParseEdit(line)
	if err != nil {
		return err
	}
	m, err := e.Mutation()
	if err != nil {
		return err
	}
	if err := s.ctrl.Apply(m); err != nil {
		return err
	}
	if e.Op == wizard.OpSet {
		field := e.Section + "." + e.Path
		if errs := s.ctrl.Blur(field); len(errs) > 0 {
			p.PrintErrors(field, errs)
		}
	}
	return nil
}

func (s *shell) export(ctx context.Context, p *observability.Printer, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: export <%s> [template]", strings.Join(s.exporter.Formats(), "|"))
	}
	req := export.Request{Key: s.key, Document: s.ctrl.Document(), Format: args[0]}
	if len(args) == 2 {
		req.Template = types.TemplateID(args[1])
	}
	artifact, err := s.exporter.Export(ctx, req)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			p.PrintErrors("export blocked", verr.Errors)
		}
		return err
	}
	p.PrintArtifact(artifact, "")
	return nil
}

// summarize drafts a summary from the text after the verb and stores it in
// additional.summary
func (s *shell) summarize(ctx context.Context, line string) error {
	_, text, _ := strings.Cut(line, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("usage: summarize <text>")
	}
	summary, err := summarizeWith(ctx, s.summarizer, text)
	if err != nil {
		return err
	}
	if err := s.ctrl.Apply(document.SetFieldOp(types.SectionAdditional, "summary", summary)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "✓ summary set:\n%s\n", summary)
	return nil
}
