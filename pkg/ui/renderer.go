package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/codename-B/OneText/pkg/types"
	"github.com/codename-B/OneText/pkg/ui/styles"
)

// Renderer writes command results to out in the selected format.
// FormatJSON emits the result structs verbatim; FormatTerminal layers
// the style registry on top of the plain-text layout.
type Renderer struct {
	out    io.Writer
	format Format
}

// NewRenderer creates a renderer for the given output format
func NewRenderer(out io.Writer, format Format) *Renderer {
	return &Renderer{out: out, format: format}
}

// Format returns the format this renderer writes
func (r *Renderer) Format() Format {
	return r.format
}

// Install renders the outcome of an install run. Dry runs share the
// layout but switch every verb to the conditional.
func (r *Renderer) Install(res *types.InstallResult) error {
	if r.format == FormatJSON {
		return r.renderJSON(res)
	}

	verb := "installed"
	if res.DryRun {
		verb = "would be installed"
	}
	fmt.Fprintf(r.out, "%s %s %s\n", r.style("appName", res.AppName), res.Version, verb)
	r.field("Install dir", res.InstallDir)
	r.field("Run", res.Run)
	if len(res.SelectedTasks) > 0 {
		r.field("Tasks", strings.Join(res.SelectedTasks, ", "))
	}

	if len(res.Files) > 0 {
		r.section("Files")
		for _, f := range res.Files {
			r.fileLine(f)
		}
	}

	if len(res.Store) > 0 {
		r.section("Store")
		for _, op := range res.Store {
			r.opLine(op)
		}
	}

	if len(res.Shortcuts) > 0 {
		r.section("Shortcuts")
		for _, path := range res.Shortcuts {
			fmt.Fprintf(r.out, "  %s\n", r.style("path", path))
		}
	}

	if res.Launched {
		fmt.Fprintf(r.out, "\n%s\n", r.style("muted", "Launched "+res.AppName))
	}
	return nil
}

// Uninstall renders the outcome of an uninstall run. Partial reversals
// list every failed entry; the command still exits zero.
func (r *Renderer) Uninstall(res *types.UninstallResult) error {
	if r.format == FormatJSON {
		return r.renderJSON(res)
	}

	switch {
	case res.DryRun:
		fmt.Fprintf(r.out, "%s %s\n", r.style("appName", res.InstallID), "would be uninstalled")
	case res.Partial():
		fmt.Fprintf(r.out, "%s %s\n", r.style("appName", res.InstallID), r.style("warning", "partially uninstalled"))
	default:
		fmt.Fprintf(r.out, "%s %s\n", r.style("appName", res.InstallID), "uninstalled")
	}

	total := res.Reversed + len(res.Failures)
	r.field("Reversed", fmt.Sprintf("%d of %d entries", res.Reversed, total))
	if res.KeptFiles {
		r.field("Files", "kept on disk (--keep-files)")
	}

	if len(res.Failures) > 0 {
		r.section("Not reversed")
		for _, f := range res.Failures {
			fmt.Fprintf(r.out, "  %s %s\n", r.style("warning", string(f.Entry.Kind)), describeEntry(f.Entry))
			fmt.Fprintf(r.out, "    %s\n", r.style("muted", f.Cause))
		}
		fmt.Fprintf(r.out, "\n%s\n", r.style("muted", "The journal keeps these entries; run uninstall again to retry."))
	}
	return nil
}

// Status renders the journal summary for each known install
func (r *Renderer) Status(installs []types.InstallStatus) error {
	if r.format == FormatJSON {
		return r.renderJSON(installs)
	}

	if len(installs) == 0 {
		fmt.Fprintf(r.out, "%s\n", r.style("muted", "No installs recorded"))
		return nil
	}

	for i, st := range installs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "%s\n", r.style("appName", st.InstallID))
		if st.Version != "" {
			r.field("Version", st.Version)
		}
		if st.LastRun != "" {
			r.field("Last run", fmt.Sprintf("%s at %s", st.LastRun, st.LastAt.Format("2006-01-02 15:04:05")))
		}
		r.field("Journal", fmt.Sprintf("%d entries (%d store, %d files, %d dirs, %d shortcuts)",
			st.Entries, st.StoreOps, st.Files, st.Dirs, st.Shortcuts))
	}
	return nil
}

// Message writes a single informational line in the current format.
// JSON renderers stay silent so the stream holds exactly one document.
func (r *Renderer) Message(msg string) {
	if r.format == FormatJSON {
		return
	}
	fmt.Fprintln(r.out, msg)
}

func (r *Renderer) renderJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// style applies a named style in terminal mode and leaves the text
// untouched in text mode
func (r *Renderer) style(name, s string) string {
	if r.format != FormatTerminal {
		return s
	}
	return styles.Get(name).Render(s)
}

func (r *Renderer) section(title string) {
	fmt.Fprintf(r.out, "\n%s\n", r.style("header", title))
}

func (r *Renderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", r.style("label", fmt.Sprintf("%-12s", label)), value)
}

func (r *Renderer) fileLine(f types.FileResult) {
	styleName := "success"
	if f.Action != types.FileDeployed {
		styleName = "muted"
	}
	line := fmt.Sprintf("  %s %s", r.style(styleName, fmt.Sprintf("%-12s", string(f.Action))), f.Dest)
	if f.Reason != "" {
		line += " " + r.style("muted", "("+f.Reason+")")
	}
	fmt.Fprintln(r.out, line)
}

func (r *Renderer) opLine(op types.OpResult) {
	styleName := "success"
	switch op.Status {
	case types.StatusFailed:
		styleName = "error"
	case types.StatusWouldApply:
		styleName = "muted"
	}
	line := fmt.Sprintf("  %s %s", r.style(styleName, fmt.Sprintf("%-12s", string(op.Status))), op.Op.String())
	if op.Message != "" {
		line += " " + r.style("muted", "("+op.Message+")")
	}
	fmt.Fprintln(r.out, line)
}

// describeEntry renders the target of a journal entry for failure
// listings
func describeEntry(e types.JournalEntry) string {
	switch e.Kind {
	case types.EntryStoreOp:
		if e.Op != nil {
			return e.Op.String()
		}
		return "(malformed store entry)"
	default:
		return e.Path
	}
}
