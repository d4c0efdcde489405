// Package report renders the human-readable summaries the bootstrap
// commands print on success.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/linkerlin/nanoclaw-brain/internal/container"
	"github.com/linkerlin/nanoclaw-brain/internal/db"
	"github.com/linkerlin/nanoclaw-brain/internal/types"
)

// Printer writes summaries to w. Colors are only emitted when w is a
// terminal.
type Printer struct {
	w      io.Writer
	header lipgloss.Style
	label  lipgloss.Style
	subtle lipgloss.Style
}

// New returns a Printer bound to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:  r.NewStyle().Foreground(lipgloss.Color("240")),
		subtle: r.NewStyle().Faint(true),
	}
}

// Injection prints the one-line confirmation for a seeded message.
func (p *Printer) Injection(m types.Message) {
	fmt.Fprintf(p.w, "Injected message: %q at %s (id: %s)\n", m.Content, m.Timestamp.UTC().Format(db.TimeLayout), m.ID)
}

// Registration prints the resolved container setup of g. repoPath is the
// base the mounts were resolved against.
func (p *Printer) Registration(g types.RegisteredGroup, repoPath string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", p.header.Render("Registered "+g.Folder+" group for "+g.JID))
	fmt.Fprintf(&b, "%s\n", p.header.Render("Container config:"))
	fmt.Fprintf(&b, "  %s %s\n", p.label.Render("Repo:"), repoPath)

	var mounts []types.AdditionalMount
	var gitSync *types.GitSync
	if g.ContainerConfig != nil {
		mounts = g.ContainerConfig.AdditionalMounts
		gitSync = g.ContainerConfig.GitSync
	}
	for _, m := range mounts {
		fmt.Fprintf(&b, "  %s %s → %s (%s)\n",
			p.label.Render("Extra mount:"), m.HostPath, container.ContainerTarget(m), direction(m))
	}

	sync := "disabled"
	if gitSync != nil {
		sync = "enabled (pull before run, push after writes)"
	}
	fmt.Fprintf(&b, "  %s %s\n", p.label.Render("Git sync:"), sync)
	fmt.Fprintf(&b, "  %s %s\n", p.label.Render("Trigger required:"), trigger(g))
	fmt.Fprintf(&b, "\n%s\n", p.subtle.Render("Now start NanoClaw and send a message to your bot!"))

	io.WriteString(p.w, b.String())
}

func direction(m types.AdditionalMount) string {
	if m.Readonly {
		return "read-only"
	}
	return "read-write"
}

func trigger(g types.RegisteredGroup) string {
	if g.RequiresTrigger {
		return fmt.Sprintf("yes (%s)", g.TriggerPattern)
	}
	return "no"
}
