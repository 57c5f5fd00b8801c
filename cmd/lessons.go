package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fretlog/fretlog/internal/models"
	"github.com/fretlog/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// LessonsList prints the lesson log, newest first.
func (r *Runner) LessonsList(ctx context.Context, cmd *cli.Command) error {
	lessons, err := r.engine.LoadLessons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list lessons: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(lessons, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Lessons (%d)", len(lessons)))
	for _, lesson := range lessons {
		r.writePlain("%s  %s  remaining=%d\n", lesson.ID, lesson.Date, lesson.RemainingLessons)
		if lesson.Notes != "" {
			r.writePlain("    %s\n", lesson.Notes)
		}
		for _, song := range lesson.Songs {
			r.writePlain("    ♪ %s - %s\n", song.Author, song.Name)
		}
	}

	return nil
}

// LessonsAdd records a lesson, optionally attaching practiced songs.
func (r *Runner) LessonsAdd(ctx context.Context, cmd *cli.Command) error {
	lesson, err := r.engine.AddLesson(ctx, &models.Lesson{
		Date:             cmd.String("date"),
		RemainingLessons: cmd.Int("remaining"),
		Notes:            cmd.String("notes"),
	}, splitSongIDs(cmd.String("songs")))
	if err != nil {
		return fmt.Errorf("failed to add lesson: %w", err)
	}

	r.writePlain("✓ Recorded lesson on %s (id %s, %d songs)\n", lesson.Date, lesson.ID, len(lesson.Songs))
	return nil
}

// LessonsEdit patches the fields whose flags were provided. The --songs flag
// replaces the practiced set; omitting it leaves relations untouched.
func (r *Runner) LessonsEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: lesson id", shared.ErrMissingArgument)
	}

	patch := models.LessonPatch{}
	if cmd.IsSet("date") {
		patch.Date = models.Ptr(cmd.String("date"))
	}
	if cmd.IsSet("remaining") {
		patch.RemainingLessons = models.Ptr(cmd.Int("remaining"))
	}
	if cmd.IsSet("notes") {
		patch.Notes = models.Ptr(cmd.String("notes"))
	}

	// nil means keep; an empty non-nil slice clears every relation
	var songIDs []string
	if cmd.IsSet("songs") {
		songIDs = splitSongIDs(cmd.String("songs"))
		if songIDs == nil {
			songIDs = []string{}
		}
	}

	if patch.IsEmpty() && songIDs == nil {
		return fmt.Errorf("%w: nothing to change, provide at least one field flag", shared.ErrMissingArgument)
	}

	lesson, err := r.engine.EditLesson(ctx, id, patch, songIDs)
	if err != nil {
		return fmt.Errorf("failed to edit lesson: %w", err)
	}

	r.writePlain("✓ Updated lesson on %s (%d songs)\n", lesson.Date, len(lesson.Songs))
	return nil
}

// LessonsDelete removes a lesson.
func (r *Runner) LessonsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: lesson id", shared.ErrMissingArgument)
	}

	if err := r.engine.RemoveLesson(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	r.writePlain("✓ Deleted lesson %s\n", id)
	return nil
}

func splitSongIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
