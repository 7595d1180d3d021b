package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/summarize"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/wizard"
)

type stubSummarizer struct {
	got string
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	s.got = text
	return "  Engineer who builds compilers.  ", nil
}

func newTestShell(t *testing.T, s summarize.Summarizer) (*shell, *bytes.Buffer) {
	t.Helper()
	ctrl := wizard.New(wizard.Options{Logger: discard})
	require.NoError(t, ctrl.Start(context.Background()))

	var out bytes.Buffer
	return &shell{
		ctrl:       ctrl,
		exporter:   export.NewExporter(export.Options{Logger: discard}),
		summarizer: s,
		key:        "test",
		width:      80,
		out:        &out,
	}, &out
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

var personalScript = []string{
	"set personal fullName Ada Lovelace",
	"set personal title Engineer",
	"set personal email ada@example.com",
	"set personal phone +44 20 7946 0958",
}

func TestShell_FillAndAdvance(t *testing.T) {
	sh, out := newTestShell(t, summarize.Disabled{})

	lines := append(append([]string{}, personalScript...), "next", "quit", "set personal title ignored after quit")
	require.NoError(t, sh.run(context.Background(), script(lines...)))

	doc := sh.ctrl.Document()
	assert.Equal(t, "Ada Lovelace", doc.Personal.FullName)
	assert.Equal(t, "+44 20 7946 0958", doc.Personal.Phone, "values keep their spaces")
	assert.Equal(t, "Engineer", doc.Personal.Title)
	assert.Equal(t, types.StepEducation, sh.ctrl.Step())
	assert.NotContains(t, out.String(), "✗")
}

func TestShell_NextBlockedShowsErrors(t *testing.T) {
	sh, out := newTestShell(t, summarize.Disabled{})

	require.NoError(t, sh.run(context.Background(), script("set personal fullName Ada", "next")))

	assert.Equal(t, types.StepPersonal, sh.ctrl.Step())
	assert.Contains(t, out.String(), "personal.email")
}

func TestShell_Commands(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantOut []string
		check   func(t *testing.T, sh *shell)
	}{
		{
			name:    "goto beyond highest step",
			lines:   []string{"goto 4"},
			wantOut: []string{"✗"},
			check: func(t *testing.T, sh *shell) {
				assert.Equal(t, types.StepPersonal, sh.ctrl.Step())
			},
		},
		{
			name:    "goto needs a number",
			lines:   []string{"goto four"},
			wantOut: []string{"✗ invalid step"},
		},
		{
			name:    "duplicate skill rejected",
			lines:   []string{"skill Go", "skill go"},
			wantOut: []string{"✗"},
			check: func(t *testing.T, sh *shell) {
				assert.Equal(t, []string{"Go"}, sh.ctrl.Document().Skills)
			},
		},
		{
			name:  "entries and template",
			lines: []string{"add education", "set education 0.institution University of London", "template elegant"},
			check: func(t *testing.T, sh *shell) {
				doc := sh.ctrl.Document()
				require.Len(t, doc.Education, 1)
				assert.Equal(t, "University of London", doc.Education[0].Institution)
				assert.Equal(t, types.TemplateElegant, doc.TemplateID)
			},
		},
		{
			name:    "unknown template",
			lines:   []string{"template fancy"},
			wantOut: []string{"✗"},
			check: func(t *testing.T, sh *shell) {
				assert.Equal(t, types.DefaultTemplate, sh.ctrl.Document().TemplateID)
			},
		},
		{
			name:    "unknown command",
			lines:   []string{"dance"},
			wantOut: []string{`✗ unknown edit "dance"`},
		},
		{
			name:    "help",
			lines:   []string{"help"},
			wantOut: []string{"export <format> [template]"},
		},
		{
			name:    "comments and blank lines are skipped",
			lines:   []string{"# a comment", "", "state"},
			wantOut: []string{"WIZARD"},
		},
		{
			name:    "preview shows the document",
			lines:   []string{"set personal fullName Grace Hopper", "preview classic"},
			wantOut: []string{"Grace Hopper"},
		},
		{
			name:    "export blocked until personal details are valid",
			lines:   []string{"export text"},
			wantOut: []string{"EXPORT BLOCKED", "✗"},
		},
		{
			name:    "export without format",
			lines:   []string{"export"},
			wantOut: []string{"usage: export <"},
		},
		{
			name:    "summarize without a provider",
			lines:   []string{"summarize I build compilers"},
			wantOut: []string{"✗"},
			check: func(t *testing.T, sh *shell) {
				assert.Empty(t, sh.ctrl.Document().Additional.Summary)
			},
		},
		{
			name:  "reset",
			lines: append(append([]string{}, personalScript...), "next", "reset"),
			check: func(t *testing.T, sh *shell) {
				assert.Equal(t, types.StepPersonal, sh.ctrl.Step())
				assert.Empty(t, sh.ctrl.Document().Personal.FullName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, out := newTestShell(t, summarize.Disabled{})
			require.NoError(t, sh.run(context.Background(), script(tt.lines...)))

			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
			if tt.check != nil {
				tt.check(t, sh)
			}
		})
	}
}

func TestShell_Export(t *testing.T) {
	sh, out := newTestShell(t, summarize.Disabled{})

	lines := append(append([]string{}, personalScript...), "export text modern")
	require.NoError(t, sh.run(context.Background(), script(lines...)))

	assert.Contains(t, out.String(), "Ada_Lovelace_resume.txt")
	assert.Contains(t, out.String(), "Pages:     1")
	assert.NotContains(t, out.String(), "✗")
}

func TestShell_SummarizeSetsSummary(t *testing.T) {
	stub := &stubSummarizer{}
	sh, out := newTestShell(t, stub)

	require.NoError(t, sh.run(context.Background(), script("summarize <p>I build   compilers</p>")))

	assert.Equal(t, "I build compilers", stub.got, "HTML is reduced to plain text first")
	assert.Equal(t, "Engineer who builds compilers.", sh.ctrl.Document().Additional.Summary)
	assert.Contains(t, out.String(), "summary set")
}

func TestShell_StopsWhenContextDone(t *testing.T) {
	sh, _ := newTestShell(t, summarize.Disabled{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, sh.run(ctx, script("set personal fullName Ada")))
	assert.Empty(t, sh.ctrl.Document().Personal.FullName)
}
