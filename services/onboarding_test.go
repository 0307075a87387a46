package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demiirawo/cc-academy/models"
)

func step(title, stepType string, sortOrder int) models.OnboardingStep {
	s := models.OnboardingStep{
		Title:     title,
		StepType:  stepType,
		SortOrder: sortOrder,
		IsActive:  true,
	}
	s.ID = uuid.New()
	return s
}

func staffMember(first, last string) models.User {
	u := models.User{
		FirstName: first,
		LastName:  last,
		Role:      models.RoleStaff,
	}
	u.ID = uuid.New()
	return u
}

func TestMatrixOrdersStepsBySortOrder(t *testing.T) {
	steps := []models.OnboardingStep{
		step("Third", models.StepTypeTask, 3),
		step("First", models.StepTypeTask, 1),
		step("Second", models.StepTypeTask, 2),
	}

	matrix := BuildCompletionMatrix(steps, nil, nil, nil)

	require.Len(t, matrix.Steps, 3)
	assert.Equal(t, "First", matrix.Steps[0].Title)
	assert.Equal(t, "Second", matrix.Steps[1].Title)
	assert.Equal(t, "Third", matrix.Steps[2].Title)
}

func TestMatrixCompletionAndPercent(t *testing.T) {
	steps := []models.OnboardingStep{
		step("Sign contract", models.StepTypeTask, 1),
		step("Read code of conduct", models.StepTypeAcknowledgement, 2),
		step("Watch intro video", models.StepTypeExternalLink, 3),
	}
	alice := staffMember("Alice", "Ng")
	bob := staffMember("Bob", "Mensah")

	completions := []models.OnboardingCompletion{
		{StepID: steps[0].ID, UserID: alice.ID},
		{StepID: steps[1].ID, UserID: alice.ID},
		{StepID: steps[2].ID, UserID: alice.ID},
		{StepID: steps[0].ID, UserID: bob.ID},
	}

	matrix := BuildCompletionMatrix(steps, []models.User{alice, bob}, completions, nil)

	require.Len(t, matrix.Rows, 2)

	assert.Equal(t, "Alice Ng", matrix.Rows[0].FullName)
	assert.Equal(t, 3, matrix.Rows[0].Completed)
	assert.Equal(t, 100, matrix.Rows[0].Percent)

	assert.Equal(t, 1, matrix.Rows[1].Completed)
	assert.Equal(t, 3, matrix.Rows[1].Total)
	// 1/3 rounds to 33
	assert.Equal(t, 33, matrix.Rows[1].Percent)
}

func TestInternalPageStepsCompleteThroughAcknowledgement(t *testing.T) {
	pageID := uuid.New()
	internal := step("Read the handbook", models.StepTypeInternalPage, 1)
	internal.TargetPageID = &pageID

	alice := staffMember("Alice", "Ng")
	bob := staffMember("Bob", "Mensah")

	// A direct completion record never satisfies an internal-page step.
	completions := []models.OnboardingCompletion{
		{StepID: internal.ID, UserID: bob.ID},
	}
	acks := []models.PageAcknowledgement{
		{PageID: pageID, UserID: alice.ID},
	}

	matrix := BuildCompletionMatrix(
		[]models.OnboardingStep{internal},
		[]models.User{alice, bob},
		completions, acks)

	require.Len(t, matrix.Rows, 2)
	assert.True(t, matrix.Rows[0].Cells[0].Completed)
	assert.False(t, matrix.Rows[1].Cells[0].Completed)
}

func TestInternalPageStepWithoutTargetNeverCompletes(t *testing.T) {
	internal := step("Orphaned page step", models.StepTypeInternalPage, 1)
	alice := staffMember("Alice", "Ng")

	acks := []models.PageAcknowledgement{
		{PageID: uuid.New(), UserID: alice.ID},
	}

	matrix := BuildCompletionMatrix(
		[]models.OnboardingStep{internal},
		[]models.User{alice},
		nil, acks)

	require.Len(t, matrix.Rows, 1)
	assert.False(t, matrix.Rows[0].Cells[0].Completed)
	assert.Equal(t, 0, matrix.Rows[0].Percent)
}

func TestMatrixWithNoStepsReportsZeroPercent(t *testing.T) {
	alice := staffMember("Alice", "Ng")

	matrix := BuildCompletionMatrix(nil, []models.User{alice}, nil, nil)

	require.Len(t, matrix.Rows, 1)
	assert.Equal(t, 0, matrix.Rows[0].Total)
	assert.Equal(t, 0, matrix.Rows[0].Percent)
	assert.Empty(t, matrix.Rows[0].Cells)
}
