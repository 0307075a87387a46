package services

import (
	"math"
	"sort"

	"github.com/demiirawo/cc-academy/models"
	"github.com/google/uuid"
)

// MatrixCell is one (staff, step) completion flag
type MatrixCell struct {
	StepID    uuid.UUID `json:"step_id"`
	Completed bool      `json:"completed"`
}

// StaffCompletion is one staff member's row in the completion matrix
type StaffCompletion struct {
	UserID    uuid.UUID    `json:"user_id"`
	FullName  string       `json:"full_name"`
	Cells     []MatrixCell `json:"cells"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	Percent   int          `json:"percent"`
}

// CompletionMatrix is the per-staff, per-step onboarding grid
type CompletionMatrix struct {
	Steps []models.OnboardingStep `json:"steps"`
	Rows  []StaffCompletion       `json:"rows"`
}

// BuildCompletionMatrix cross-references steps, staff, completion records
// and page acknowledgements. Internal-page steps complete through an
// acknowledgement of the step's target page; every other step type uses a
// direct completion record. The matrix is recomputed in full on every call.
func BuildCompletionMatrix(
	steps []models.OnboardingStep,
	staff []models.User,
	completions []models.OnboardingCompletion,
	acks []models.PageAcknowledgement,
) CompletionMatrix {
	ordered := make([]models.OnboardingStep, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	type pair struct{ a, b uuid.UUID }
	completed := make(map[pair]bool, len(completions))
	for _, c := range completions {
		completed[pair{c.StepID, c.UserID}] = true
	}
	acknowledged := make(map[pair]bool, len(acks))
	for _, a := range acks {
		acknowledged[pair{a.PageID, a.UserID}] = true
	}

	rows := make([]StaffCompletion, 0, len(staff))
	for _, member := range staff {
		row := StaffCompletion{
			UserID:   member.ID,
			FullName: member.FullName(),
			Cells:    make([]MatrixCell, 0, len(ordered)),
			Total:    len(ordered),
		}

		for _, step := range ordered {
			done := false
			if step.StepType == models.StepTypeInternalPage {
				if step.TargetPageID != nil {
					done = acknowledged[pair{*step.TargetPageID, member.ID}]
				}
			} else {
				done = completed[pair{step.ID, member.ID}]
			}
			if done {
				row.Completed++
			}
			row.Cells = append(row.Cells, MatrixCell{StepID: step.ID, Completed: done})
		}

		if row.Total > 0 {
			row.Percent = int(math.Round(float64(row.Completed) / float64(row.Total) * 100))
		}
		rows = append(rows, row)
	}

	return CompletionMatrix{Steps: ordered, Rows: rows}
}
