// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// songsCommand handles repertoire operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"s"},
		Usage:   "Manage the song repertoire",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs grouped by category",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "category",
						Aliases: []string{"c"},
						Usage:   "Only show one category (rehearsing, want-to-learn, studied, recorded)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "add",
				Usage: "Add a song to the repertoire",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Artist or composer",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "tabs",
						Usage:    "Link to tabs or sheet music",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "video",
						Usage:    "Link to a reference video",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category bucket",
						Value: "want-to-learn",
					},
					&cli.StringFlag{
						Name:  "comments",
						Usage: "Freeform notes",
					},
					&cli.StringFlag{
						Name:  "recording",
						Usage: "Link to your own recording",
					},
				},
				Action: r.SongsAdd,
			},
			{
				Name:  "edit",
				Usage: "Update fields on a song; only provided flags change",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Song title"},
					&cli.StringFlag{Name: "author", Usage: "Artist or composer"},
					&cli.StringFlag{Name: "tabs", Usage: "Link to tabs or sheet music"},
					&cli.StringFlag{Name: "video", Usage: "Link to a reference video"},
					&cli.StringFlag{Name: "comments", Usage: "Freeform notes"},
					&cli.StringFlag{Name: "recording", Usage: "Link to your own recording"},
				},
				Action: r.SongsEdit,
			},
			{
				Name:  "move",
				Usage: "Move a song to another category",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "category",
						Aliases:  []string{"c"},
						Usage:    "Target category",
						Required: true,
					},
				},
				Action: r.SongsMove,
			},
			{
				Name:  "delete",
				Usage: "Remove a song from the repertoire",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SongsDelete,
			},
			{
				Name:  "open",
				Usage: "Open one of a song's links in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "link",
						Aliases: []string{"l"},
						Usage:   "Which link to open: tabs, video, recording",
						Value:   "tabs",
					},
				},
				Action: r.SongsOpen,
			},
		},
	}
}

// lessonsCommand handles lesson log operations
func lessonsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "lessons",
		Aliases: []string{"l"},
		Usage:   "Manage the lesson log",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List lessons, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.LessonsList,
			},
			{
				Name:  "add",
				Usage: "Record a lesson",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "date",
						Usage:    "Lesson date (YYYY-MM-DD)",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "remaining",
						Aliases: []string{"r"},
						Usage:   "Lessons remaining in the current package",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "What was covered",
					},
					&cli.StringFlag{
						Name:  "songs",
						Usage: "Comma-separated song IDs practiced in this lesson",
					},
				},
				Action: r.LessonsAdd,
			},
			{
				Name:  "edit",
				Usage: "Update fields on a lesson; only provided flags change",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "Lesson date (YYYY-MM-DD)"},
					&cli.IntFlag{Name: "remaining", Aliases: []string{"r"}, Usage: "Lessons remaining", Value: -1},
					&cli.StringFlag{Name: "notes", Usage: "What was covered"},
					&cli.StringFlag{
						Name:  "songs",
						Usage: "Comma-separated song IDs; replaces the practiced set, empty string clears it",
					},
				},
				Action: r.LessonsEdit,
			},
			{
				Name:  "delete",
				Usage: "Remove a lesson from the log",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LessonsDelete,
			},
		},
	}
}

// artworkCommand handles iTunes artwork operations
func artworkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artwork",
		Usage: "Look up album artwork on the iTunes Search API",
		Commands: []*cli.Command{
			{
				Name:  "lookup",
				Usage: "Look up artwork for an artist and song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "author"},
					&cli.StringArg{Name: "song"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ArtworkLookup,
			},
			{
				Name:  "refresh",
				Usage: "Re-resolve and persist artwork for a stored song",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Song ID to refresh",
						Required: true,
					},
				},
				Action: r.ArtworkRefresh,
			},
		},
	}
}

// exportCommand handles library exports
func exportCommand(r *Runner) *cli.Command {
	exportFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: csv, markdown, text, json",
			Value:   "csv",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory (defaults to the configured export directory)",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Base filename without extension",
		},
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export the library to files",
		Commands: []*cli.Command{
			{
				Name:   "songs",
				Usage:  "Export the repertoire",
				Flags:  exportFlags,
				Action: r.ExportSongs,
			},
			{
				Name:   "lessons",
				Usage:  "Export the lesson log",
				Flags:  exportFlags,
				Action: r.ExportLessons,
			},
		},
	}
}

// setupCommand bootstraps the configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and report which store backend is active",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand launches the interactive interface.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal interface",
		Action: r.TUI,
	}
}
