// Package importer loads lessons and quiz questions from an Excel workbook.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Creator is the subset of the service used by the importer.
type Creator interface {
	CreateLesson(ctx context.Context, payload map[string]any) (string, error)
	CreateQuizQuestion(ctx context.Context, payload map[string]any) (string, error)
}

// Config defines the import configuration
type Config struct {
	FilePath    string // Path to the .xlsx file
	LessonSheet string // Columns: grade, subject, title, content, video_url
	QuizSheet   string // Columns: lesson (title or id), question, options ("|"-separated), correct_index
	StartRow    int    // 1-based; rows above are headers
}

// DefaultConfig returns the default import configuration
func DefaultConfig() Config {
	return Config{
		LessonSheet: "Lessons",
		QuizSheet:   "Quizzes",
		StartRow:    2,
	}
}

// Result holds the outcome of an import. Row failures are collected, not fatal.
type Result struct {
	LessonsCreated int
	QuizzesCreated int
	Skipped        int
	Errors         []string
}

// Import reads the workbook and creates every valid row through c. Lessons
// are imported first so quiz rows can refer to them by title; a title shared
// by several lessons cannot be referenced that way.
func Import(ctx context.Context, c Creator, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}
	sheets := map[string]bool{}
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	if !sheets[cfg.LessonSheet] && !sheets[cfg.QuizSheet] {
		return nil, fmt.Errorf("workbook has neither %q nor %q sheet", cfg.LessonSheet, cfg.QuizSheet)
	}

	result := &Result{Errors: make([]string, 0)}
	lessonsByTitle := make(map[string]string)
	ambiguous := make(map[string]bool)

	if sheets[cfg.LessonSheet] {
		rows, err := f.GetRows(cfg.LessonSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to get rows of %q: %w", cfg.LessonSheet, err)
		}
		for i, row := range rows {
			if i < cfg.StartRow-1 {
				continue
			}
			if blank(row) {
				result.Skipped++
				continue
			}
			id, err := c.CreateLesson(ctx, lessonPayload(row))
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", cfg.LessonSheet, i+1, err))
				continue
			}
			result.LessonsCreated++
			title := cell(row, 2)
			if _, seen := lessonsByTitle[title]; seen {
				ambiguous[title] = true
			}
			lessonsByTitle[title] = id
		}
	}

	if sheets[cfg.QuizSheet] {
		rows, err := f.GetRows(cfg.QuizSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to get rows of %q: %w", cfg.QuizSheet, err)
		}
		for i, row := range rows {
			if i < cfg.StartRow-1 {
				continue
			}
			if blank(row) {
				result.Skipped++
				continue
			}
			ref := cell(row, 0)
			if ambiguous[ref] {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: lesson title %q matches more than one lesson", cfg.QuizSheet, i+1, ref))
				continue
			}
			payload := quizPayload(row)
			if id, ok := lessonsByTitle[ref]; ok {
				payload["lesson_id"] = id
			}
			if _, err := c.CreateQuizQuestion(ctx, payload); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", cfg.QuizSheet, i+1, err))
				continue
			}
			result.QuizzesCreated++
		}
	}

	return result, nil
}

func lessonPayload(row []string) map[string]any {
	p := map[string]any{
		"grade":     number(cell(row, 0)),
		"subject":   cell(row, 1),
		"title":     cell(row, 2),
		"content":   cell(row, 3),
		"video_url": nil,
	}
	if v := cell(row, 4); v != "" {
		p["video_url"] = v
	}
	return p
}

func quizPayload(row []string) map[string]any {
	var options []any
	for _, o := range strings.Split(cell(row, 2), "|") {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	if options == nil {
		options = []any{}
	}
	return map[string]any{
		"lesson_id":     cell(row, 0),
		"question":      cell(row, 1),
		"options":       options,
		"correct_index": number(cell(row, 3)),
	}
}

// number returns an int when s parses, else s itself so validation reports
// the type mismatch.
func number(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
