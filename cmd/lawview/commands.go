package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kk-code-lab/lawview/internal/app"
	"github.com/kk-code-lab/lawview/internal/document"
	"github.com/kk-code-lab/lawview/internal/export"
	"github.com/kk-code-lab/lawview/internal/search"
	statepkg "github.com/kk-code-lab/lawview/internal/state"
	"github.com/kk-code-lab/lawview/internal/ui/render"
)

const (
	defaultPlainWidth  = 80
	plainHeight        = 50
	searchContextRunes = 40
)

type viewOptions struct {
	global *globalOptions
	query  string
	width  int
	plain  bool
	watch  bool
}

func (o *viewOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "search for this query on open")
	cmd.Flags().IntVar(&o.width, "width", 0, "wrap width of plain output (default: terminal width or 80)")
	cmd.Flags().BoolVar(&o.plain, "plain", false, "print the document instead of opening the viewer")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false, "reload when the document file changes")
}

func viewCmd(global *globalOptions) *cobra.Command {
	opts := &viewOptions{global: global}
	cmd := &cobra.Command{
		Use:   "view <document>",
		Short: "Open a document in the interactive viewer",
		Long: `Open a document in the interactive viewer.

When standard output is not a terminal the document is printed as plain
text laid out like the viewer, with matches of --query marked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args[0])
		},
	}
	opts.bindFlags(cmd)
	return cmd
}

func runView(cmd *cobra.Command, opts *viewOptions, source string) error {
	cfg, err := loadConfig(opts.global)
	if err != nil {
		return err
	}
	if opts.watch {
		cfg.Watch = true
	}
	doc, err := document.Load(cmd.Context(), source)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.plain || !isTerminal(out) {
		width := opts.width
		if width <= 0 {
			width = terminalWidth(out)
		}
		cfg.ShowTOC = false
		state := statepkg.NewAppState(source, doc, cfg)
		state.ScreenWidth = width
		state.ScreenHeight = plainHeight
		if opts.query != "" {
			if _, err := statepkg.NewStateReducer().Reduce(state, statepkg.SearchSetQueryAction{Query: opts.query}); err != nil {
				return err
			}
		}
		return render.WritePlain(out, state, isTerminal(out) || opts.query != "")
	}

	application, err := app.NewApplication(app.Options{
		Source: source,
		Doc:    doc,
		Config: cfg,
		Query:  opts.query,
	})
	if err != nil {
		return fmt.Errorf("initializing viewer: %w", err)
	}
	defer func() {
		_ = application.Close()
	}()

	application.Run()
	return nil
}

func exportCmd(global *globalOptions) *cobra.Command {
	var (
		output string
		query  string
	)
	cmd := &cobra.Command{
		Use:   "export <document>",
		Short: "Write a document as a standalone HTML page",
		Long: `Write a document as a standalone HTML page with a table of contents,
annotation panels and search controls.

Example:
  lawview export law.json -o law.html
  lawview export law.json --query 王 -o law.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			doc, err := document.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var (
				w    io.Writer = cmd.OutOrStdout()
				file *os.File
			)
			if output != "" && output != "-" {
				if file, err = os.Create(output); err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				w = file
			}

			err = export.Render(w, doc, export.Options{
				Query:     query,
				Mode:      cfg.Mode(),
				Labels:    cfg.Labels,
				PinPolicy: cfg.PinPolicy,
			})
			if file == nil {
				return err
			}
			if closeErr := file.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("writing %s: %w", output, closeErr)
			}
			if err == nil {
				log.Infof("wrote %s", output)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "mark the matches of this query")
	return cmd
}

func searchCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <document> <query>",
		Short: "Print every match of a query with its location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			doc, err := document.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return printMatches(out, doc, args[1], cfg.Mode(), isTerminal(out))
		},
	}
}

// printMatches writes one line per match: the counter, the paragraph's
// location and the text around the match. A pattern that does not compile
// matches nothing, as in the viewer.
func printMatches(w io.Writer, doc *document.Document, query string, mode search.Mode, withMarkup bool) error {
	refs := document.Flatten(doc)
	records := make([]search.Record, len(refs))
	for i, ref := range refs {
		_, _, p := doc.Resolve(ref)
		records[i] = search.Record{Text: p.Text}
	}
	engine := search.NewEngine(records, search.WithMode(mode))
	matches := engine.Search(query)
	if err := engine.Err(); err != nil {
		log.Warningf("%s", search.PatternHint(err))
		return nil
	}

	for i, m := range matches {
		line := fmt.Sprintf("%d/%d  %s: %s\n", i+1, len(matches), doc.Locator(refs[m.Paragraph]),
			matchContext(engine.Original(m.Paragraph), m, withMarkup))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	if len(matches) == 0 {
		log.Infof("no matches for %q", query)
	}
	return nil
}

// matchContext cuts the paragraph down to the match and a few runes on each
// side, marking the match when withMarkup is set.
func matchContext(text string, m search.Match, withMarkup bool) string {
	before := []rune(text[:m.Start])
	after := []rune(text[m.End:])
	prefix, suffix := "", ""
	if len(before) > searchContextRunes {
		before = before[len(before)-searchContextRunes:]
		prefix = "…"
	}
	if len(after) > searchContextRunes {
		after = after[:searchContextRunes]
		suffix = "…"
	}

	markup := search.TerminalMarkup{}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(markup.Escape(string(before)))
	if withMarkup {
		b.WriteString(markup.Open(true))
	}
	b.WriteString(markup.Escape(text[m.Start:m.End]))
	if withMarkup {
		b.WriteString(markup.Close(true))
	}
	b.WriteString(markup.Escape(string(after)))
	b.WriteString(suffix)
	return b.String()
}

func tocCmd() *cobra.Command {
	var articles bool
	cmd := &cobra.Command{
		Use:   "toc <document>",
		Short: "Print the table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTOC(cmd.OutOrStdout(), doc, articles)
		},
	}
	cmd.Flags().BoolVarP(&articles, "articles", "a", false, "list articles under each chapter")
	return cmd
}

func printTOC(w io.Writer, doc *document.Document, articles bool) error {
	markup := search.TerminalMarkup{}
	var b strings.Builder
	b.WriteString(markup.Escape(doc.DisplayTitle()))
	b.WriteByte('\n')
	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "  %s\n", markup.Escape(ch.Heading()))
		if !articles {
			continue
		}
		for _, art := range ch.Articles {
			fmt.Fprintf(&b, "    %s\n", markup.Escape(art.Heading()))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultPlainWidth
}
