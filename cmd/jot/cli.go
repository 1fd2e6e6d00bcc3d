package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/jot/internal/assist"
	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/logger"
	"github.com/hpungsan/jot/internal/markup"
	"github.com/hpungsan/jot/internal/metrics"
	"github.com/hpungsan/jot/internal/ops"
	"github.com/hpungsan/jot/internal/web"
)

// checkedPrefix marks a checklist item given on the command line as done.
const checkedPrefix = "[x] "

// newCLIApp creates the CLI application with all commands.
// A nil transformer uses the local heuristics.
func newCLIApp(db *sql.DB, cfg *config.Config, t assist.Transformer, rec *metrics.Recorder, log *logger.Logger) *cli.App {
	if t == nil {
		t = assist.Local{}
	}
	app := &cli.App{
		Name:    "jot",
		Usage:   "Memos with inline markup and writing assist",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(db, cfg),
			fetchCmd(db),
			updateCmd(db, cfg),
			deleteCmd(db),
			listCmd(db),
			searchCmd(db),
			bookmarkCmd(db),
			checkCmd(db),
			foldersCmd(db),
			folderAddCmd(db),
			folderUpdateCmd(db),
			folderDeleteCmd(db),
			folderReorderCmd(db),
			recentCmd(db),
			statsCmd(db),
			assistCmd(db, cfg, t),
			renderCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			purgeCmd(db),
			serveCmd(db, cfg, rec, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// memoFlags are shared by create and update.
func memoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Memo title"},
		&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Memo content (or pipe via stdin)"},
		&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder ID"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Memo date (YYYY-MM-DD)"},
		&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Usage: "Checklist item; prefix with \"[x] \" for a checked item"},
		&cli.StringSliceFlag{Name: "link", Aliases: []string{"l"}, Usage: "Link as URL or URL|title"},
		&cli.StringSliceFlag{Name: "image", Usage: "Image URI"},
		&cli.BoolFlag{Name: "bookmark", Aliases: []string{"b"}, Usage: "Bookmark the memo"},
	}
}

// createCmd creates the create command.
func createCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a memo (content from --content or stdin)",
		Flags: memoFlags(),
		Action: func(c *cli.Context) error {
			content, err := contentArg(c)
			if err != nil {
				return outputError(err)
			}

			input := ops.CreateInput{
				Title:      c.String("title"),
				Content:    content,
				FolderID:   c.String("folder"),
				Date:       c.String("date"),
				Checklist:  parseChecklist(c.StringSlice("item")),
				Links:      parseLinks(c.StringSlice("link")),
				Images:     c.StringSlice("image"),
				Bookmarked: c.Bool("bookmark"),
			}

			output, err := ops.Create(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a memo by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted memos"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(c.Context, db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a memo (only the given fields change; list flags replace the stored lists)",
		ArgsUsage: "<id>",
		Flags:     memoFlags(),
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{ID: c.Args().First()}

			// Read content from stdin if piped
			if c.IsSet("content") {
				content := c.String("content")
				input.Content = &content
			} else if stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					input.Content = &text
				}
			}
			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("folder") {
				folder := c.String("folder")
				input.FolderID = &folder
			}
			if c.IsSet("date") {
				date := c.String("date")
				input.Date = &date
			}
			if c.IsSet("item") {
				items := parseChecklist(c.StringSlice("item"))
				input.Checklist = &items
			}
			if c.IsSet("link") {
				links := parseLinks(c.StringSlice("link"))
				input.Links = &links
			}
			if c.IsSet("image") {
				images := c.StringSlice("image")
				input.Images = &images
			}
			if c.IsSet("bookmark") {
				bookmarked := c.Bool("bookmark")
				input.Bookmarked = &bookmarked
			}

			output, err := ops.Update(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a memo",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// filterFlags are shared by list and search.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder ID (default lists every folder)"},
		&cli.BoolFlag{Name: "bookmarked", Aliases: []string{"b"}, Usage: "Only bookmarked memos"},
		&cli.StringFlag{Name: "month", Aliases: []string{"m"}, Usage: "Only memos dated in this month (YYYY-MM)"},
		&cli.IntFlag{Name: "limit", Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
		&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List memos, newest first",
		Flags: append(filterFlags(),
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted memos"},
		),
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, ops.ListInput{
				FolderID:       c.String("folder"),
				BookmarkedOnly: c.Bool("bookmarked"),
				Month:          c.String("month"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search memo titles and content",
		ArgsUsage: "<query>",
		Flags: append(filterFlags(),
			&cli.BoolFlag{Name: "no-record", Usage: "Do not add the query to recent searches"},
		),
		Action: func(c *cli.Context) error {
			output, err := ops.Search(c.Context, db, ops.SearchInput{
				Query:          strings.Join(c.Args().Slice(), " "),
				FolderID:       c.String("folder"),
				BookmarkedOnly: c.Bool("bookmarked"),
				Month:          c.String("month"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				SkipRecent:     c.Bool("no-record"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// bookmarkCmd creates the bookmark command.
func bookmarkCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "bookmark",
		Usage:     "Toggle a memo's bookmark",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.ToggleBookmark(c.Context, db, ops.ToggleBookmarkInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// checkCmd creates the check command.
func checkCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Toggle a checklist item",
		ArgsUsage: "<memo-id> <item-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.ToggleChecklistItem(c.Context, db, ops.ToggleChecklistInput{
				ID:     c.Args().Get(0),
				ItemID: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// foldersCmd creates the folders command.
func foldersCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "List folders with memo counts",
		Action: func(c *cli.Context) error {
			output, err := ops.ListFolders(c.Context, db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// folderAddCmd creates the folder-add command.
func folderAddCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "folder-add",
		Usage:     "Create a folder",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "color", Usage: "Hex color (#RRGGBB)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.AddFolder(c.Context, db, ops.AddFolderInput{
				Name:  strings.Join(c.Args().Slice(), " "),
				Color: c.String("color"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// folderUpdateCmd creates the folder-update command.
func folderUpdateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "folder-update",
		Usage:     "Rename or recolor a folder (built-in folders: color only)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
			&cli.StringFlag{Name: "color", Usage: "New hex color (#RRGGBB)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateFolderInput{ID: c.Args().First()}
			if c.IsSet("name") {
				name := c.String("name")
				input.Name = &name
			}
			if c.IsSet("color") {
				color := c.String("color")
				input.Color = &color
			}

			output, err := ops.UpdateFolder(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// folderDeleteCmd creates the folder-delete command.
func folderDeleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "folder-delete",
		Usage:     "Delete a folder; its memos move to the default folder",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.DeleteFolder(c.Context, db, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// folderReorderCmd creates the folder-reorder command.
func folderReorderCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "folder-reorder",
		Usage:     "Set folder display order",
		ArgsUsage: "<id> <id>...",
		Action: func(c *cli.Context) error {
			output, err := ops.ReorderFolders(c.Context, db, c.Args().Slice())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show, remove or clear recent searches",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "remove", Usage: "Remove one query"},
			&cli.BoolFlag{Name: "clear", Usage: "Remove every query"},
		},
		Action: func(c *cli.Context) error {
			var (
				output any
				err    error
			)
			switch {
			case c.Bool("clear"):
				output, err = ops.ClearRecentSearches(c.Context, db)
			case c.IsSet("remove"):
				output, err = ops.RemoveRecentSearch(c.Context, db, c.String("remove"))
			default:
				output, err = ops.RecentSearches(c.Context, db)
			}
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show memo statistics",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(c.Context, db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// assistCmd creates the assist command.
func assistCmd(db *sql.DB, cfg *config.Config, t assist.Transformer) *cli.Command {
	return &cli.Command{
		Name:      "assist",
		Usage:     "Run a writing helper over text (--content/stdin) or a stored memo (--memo)",
		ArgsUsage: "<" + strings.Join(assist.Features(), "|") + ">",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "memo", Usage: "Memo ID to read content from"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Text to process"},
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Expand style: " + strings.Join(assist.Styles(), "|")},
			&cli.StringFlag{Name: "apply", Aliases: []string{"a"}, Value: string(ops.ApplyNone), Usage: "Write back to the memo: none|replace|append"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AssistInput{
				Operation: c.Args().First(),
				MemoID:    c.String("memo"),
				Style:     c.String("style"),
				Apply:     ops.ApplyMode(c.String("apply")),
			}
			if input.MemoID == "" {
				content, err := contentArg(c)
				if err != nil {
					return outputError(err)
				}
				input.Content = content
			}

			output, err := ops.Assist(c.Context, db, cfg, t, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// renderCmd creates the render command.
func renderCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Render inline markup for the terminal (text from --content/stdin or --memo)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "memo", Usage: "Memo ID to render"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Text to render"},
			&cli.BoolFlag{Name: "json", Usage: "Print segments as JSON"},
		},
		Action: func(c *cli.Context) error {
			input := ops.RenderInput{MemoID: c.String("memo")}
			if input.MemoID == "" {
				text, err := contentArg(c)
				if err != nil {
					return outputError(err)
				}
				input.Text = text
			}

			output, err := ops.Render(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(output)
			}
			_, err = fmt.Fprintln(os.Stdout, markup.Terminal(output.Segments))
			return err
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export folders and memos to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.jot/exports/jot-<timestamp>.jsonl)"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted memos"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import folders and memos from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: string(ops.ImportModeError), Usage: "Collision mode: error|replace|new_id"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted memos",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, rec *metrics.Recorder, log *logger.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7070, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, rec, log, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv, log); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jotErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jotErr.Code, jotErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// contentArg returns --content when set, otherwise piped stdin.
func contentArg(c *cli.Context) (string, error) {
	if c.IsSet("content") {
		return c.String("content"), nil
	}
	if !stdinHasData() {
		return "", nil
	}
	text, err := readStdin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return text, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// parseChecklist turns command-line items into checklist input.
func parseChecklist(items []string) []ops.ChecklistInput {
	out := make([]ops.ChecklistInput, 0, len(items))
	for _, item := range items {
		text, checked := strings.CutPrefix(item, checkedPrefix)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, ops.ChecklistInput{Text: text, Checked: checked})
	}
	return out
}

// parseLinks splits "URL|title" values.
func parseLinks(values []string) []ops.LinkInput {
	out := make([]ops.LinkInput, 0, len(values))
	for _, v := range values {
		url, title, _ := strings.Cut(v, "|")
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		out = append(out, ops.LinkInput{URL: url, Title: strings.TrimSpace(title)})
	}
	return out
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
