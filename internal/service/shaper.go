package service

import (
	"interview-coach/internal/domain"
	"strings"
)

// SplitQuestions turns the raw model output into one question per non-blank line.
func SplitQuestions(raw string) []string {
	questions := make([]string, 0, 5)
	for _, line := range strings.Split(raw, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			questions = append(questions, q)
		}
	}
	return questions
}

// ShapeEvaluation trims the raw evaluation text and leaves its content untouched.
func ShapeEvaluation(raw string) string {
	return strings.TrimSpace(raw)
}

// Aggregate builds the batch result. Status is complete only when nothing failed.
func Aggregate(results []string, failedCount int) domain.EvaluationBatch {
	if results == nil {
		results = []string{}
	}
	status := domain.StatusComplete
	if failedCount > 0 {
		status = domain.StatusPartial
	}
	return domain.EvaluationBatch{
		Status:      status,
		Evaluations: results,
		FailedCount: failedCount,
	}
}

const (
	scoreHeader    = "score:"
	mistakesHeader = "mistakes:"
	improveHeader  = "how to improve:"
)

// ParseSections reads the Score / Mistakes / How to Improve layout requested by
// the evaluation prompt. The score may sit on the header line or on the first
// non-blank line after it. Lines before the first header are ignored. It returns
// nil when none of the headers is present.
func ParseSections(text string) *domain.EvaluationSections {
	sections := &domain.EvaluationSections{Mistakes: []string{}, HowToImprove: []string{}}
	var current *[]string
	found := false
	scorePending := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, scoreHeader):
			sections.Score = strings.TrimSpace(line[len(scoreHeader):])
			scorePending = sections.Score == ""
			current = nil
			found = true
			continue
		case strings.HasPrefix(lower, mistakesHeader):
			current = &sections.Mistakes
			line = line[len(mistakesHeader):]
			scorePending = false
			found = true
		case strings.HasPrefix(lower, improveHeader):
			current = &sections.HowToImprove
			line = line[len(improveHeader):]
			scorePending = false
			found = true
		case scorePending:
			sections.Score = line
			scorePending = false
			continue
		}

		if current == nil {
			continue
		}
		if item := trimListMarker(line); item != "" {
			*current = append(*current, item)
		}
	}

	if !found {
		return nil
	}
	return sections
}

// trimListMarker strips bullets and "1." / "1)" numbering the model sometimes adds
// despite being told not to.
func trimListMarker(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• ")

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		line = line[digits+1:]
	}
	return strings.TrimSpace(line)
}
