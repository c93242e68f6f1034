package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyflow/planner-backend/internal/model"
)

var testToday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{DailyHours: 4, ReviewDays: 3}
}

func chapterExam(t *testing.T, name string, chapters int, rate float64, daysOut int) model.Exam {
	t.Helper()
	return model.Exam{
		ID:         uuid.New(),
		Name:       name,
		ExamDate:   testToday.AddDate(0, 0, daysOut),
		Mode:       model.ExamModeChapters,
		TotalUnits: chapters,
		Rate:       rate,
		Priority:   model.PriorityMedium,
	}
}

func dayAt(days []model.StudyDay, date time.Time) *model.StudyDay {
	for i := range days {
		if SameDate(days[i].Date, date) {
			return &days[i]
		}
	}
	return nil
}

// assignedUnits collects every unit number assigned to non-review entries
// for one exam, in day order.
func assignedUnits(days []model.StudyDay, examID uuid.UUID) []int {
	var units []int
	for i := range days {
		a := days[i].AssignmentFor(examID)
		if a == nil || a.IsReview {
			continue
		}
		units = append(units, a.Units...)
	}
	return units
}

func reviewDates(days []model.StudyDay, examID uuid.UUID) []time.Time {
	var dates []time.Time
	for i := range days {
		if a := days[i].AssignmentFor(examID); a != nil && a.IsReview {
			dates = append(dates, days[i].Date)
		}
	}
	return dates
}

func TestGenerateFullPlanNothingToPlan(t *testing.T) {
	_, err := GenerateFullPlan(nil, nil, testSettings(), DiscardAll, testToday)
	require.ErrorIs(t, err, ErrNothingToPlan)
}

func TestCalendarCoversTodayThroughLastExamWithoutGaps(t *testing.T) {
	exams := []model.Exam{
		chapterExam(t, "Algebra", 12, 1, 8),
		chapterExam(t, "History", 20, 0.5, 25),
	}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	require.Len(t, days, 26) // today .. today+25 inclusive
	for i, d := range days {
		assert.True(t, SameDate(d.Date, testToday.AddDate(0, 0, i)), "day %d out of sequence", i)
	}
}

func TestCalendarCarriesAvailabilityOverridesForward(t *testing.T) {
	exams := []model.Exam{chapterExam(t, "Algebra", 12, 1, 10)}

	existing := []model.StudyDay{
		{Date: testToday.AddDate(0, 0, 2), Available: false, AvailableHours: 0},
		{Date: testToday.AddDate(0, 0, 3), Available: true, AvailableHours: 1.5, ManuallyModified: true},
	}

	days, err := GenerateFullPlan(exams, existing, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	blocked := dayAt(days, testToday.AddDate(0, 0, 2))
	require.NotNil(t, blocked)
	assert.False(t, blocked.Available)
	assert.Empty(t, blocked.Assignments)

	custom := dayAt(days, testToday.AddDate(0, 0, 3))
	require.NotNil(t, custom)
	assert.Equal(t, 1.5, custom.AvailableHours)
	assert.True(t, custom.ManuallyModified)

	fresh := dayAt(days, testToday.AddDate(0, 0, 4))
	require.NotNil(t, fresh)
	assert.True(t, fresh.Available)
	assert.Equal(t, 4.0, fresh.AvailableHours)
}

// Scenario A: 100 chapters at 1h each, exam 20 days out, 3 review days,
// 4 hours available daily.
func TestScenarioAHundredChaptersTwentyDays(t *testing.T) {
	ex := chapterExam(t, "Anatomy", 100, 1, 20)

	days, err := GenerateFullPlan([]model.Exam{ex}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	units := assignedUnits(days, ex.ID)
	require.Len(t, units, 100, "every chapter must be assigned")
	for i, u := range units {
		assert.Equal(t, i+1, u, "units must be contiguous and ordered")
	}

	// First study day carries the even-split quota of ceil(100/17) = 6.
	first := dayAt(days, testToday).AssignmentFor(ex.ID)
	require.NotNil(t, first)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, first.Units)

	// Last chapter lands no later than study day 17.
	var lastUnitDate time.Time
	for i := range days {
		if a := days[i].AssignmentFor(ex.ID); a != nil && len(a.Units) > 0 {
			lastUnitDate = days[i].Date
		}
	}
	assert.False(t, lastUnitDate.After(testToday.AddDate(0, 0, 16)))

	// Three trailing review days right before the exam, rebalanced up to
	// the full day budget since nothing else competes for those days.
	reviews := reviewDates(days, ex.ID)
	require.Len(t, reviews, 3)
	for i, d := range reviews {
		assert.True(t, SameDate(d, testToday.AddDate(0, 0, 17+i)))
		a := dayAt(days, d).AssignmentFor(ex.ID)
		assert.True(t, a.IsReview)
		assert.Empty(t, a.Units)
		assert.Equal(t, 4.0, a.PlannedHours)
	}

	// No study on or past the exam date.
	for i := range days {
		if a := days[i].AssignmentFor(ex.ID); a != nil {
			assert.True(t, days[i].Date.Before(DateOnly(ex.ExamDate)))
		}
	}
}

// Scenario B: completing day 1 of Scenario A re-plans days 2..17 from
// chapter 7 without touching the completed day.
func TestScenarioBCompletionTriggersForwardRecalc(t *testing.T) {
	ex := chapterExam(t, "Anatomy", 100, 1, 20)
	exams := []model.Exam{ex}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	edited := cloneDay(*dayAt(days, testToday))
	a := edited.AssignmentFor(ex.ID)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, a.Units)
	a.Completed = true
	a.ActualHours = 5

	updated := ApplyDayEdit(edited, days, exams, testSettings(), testToday)

	// Day 1 keeps its realized state.
	done := dayAt(updated, testToday).AssignmentFor(ex.ID)
	require.NotNil(t, done)
	assert.True(t, done.Completed)
	assert.Equal(t, 5.0, done.ActualHours)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, done.Units)

	// Remaining 94 chapters start at 7 on the next day and every chapter
	// is covered exactly once.
	next := dayAt(updated, testToday.AddDate(0, 0, 1)).AssignmentFor(ex.ID)
	require.NotNil(t, next)
	assert.Equal(t, 7, next.Units[0])

	units := assignedUnits(updated, ex.ID)
	require.Len(t, units, 100)
	seen := make(map[int]bool)
	for _, u := range units {
		assert.False(t, seen[u], "unit %d assigned twice", u)
		seen[u] = true
	}
	for u := 1; u <= 100; u++ {
		assert.True(t, seen[u], "unit %d missing", u)
	}
}

// Scenario C: page mode expresses rate as pages per hour.
func TestScenarioCPageModeRateConversion(t *testing.T) {
	ex := model.Exam{
		ID:         uuid.New(),
		Name:       "Literature",
		ExamDate:   testToday.AddDate(0, 0, 10),
		Mode:       model.ExamModePages,
		TotalUnits: 200,
		Rate:       20,
		Priority:   model.PriorityMedium,
	}

	assert.InDelta(t, 0.05, ex.HoursPerUnit(), 1e-9)

	days, err := GenerateFullPlan([]model.Exam{ex}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	// 10 hours of demand against 10 candidate days prunes one early day
	// (not small, not far: 40% of the surplus skip).
	assert.Nil(t, dayAt(days, testToday).AssignmentFor(ex.ID))

	units := assignedUnits(days, ex.ID)
	assert.Len(t, units, 200)
}

// Scenario D: a small exam far away must not be smeared thinly from today;
// the majority of early days are skipped.
func TestScenarioDSmallFarExamPrunesEarlyDays(t *testing.T) {
	ex := chapterExam(t, "Geography", 10, 1, 60)

	days, err := GenerateFullPlan([]model.Exam{ex}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	// 60 candidates against 4 optimal days: skip floor(56*0.7) = 39 from
	// the front, leaving the final 21 days before the exam.
	firstAssigned := time.Time{}
	for i := range days {
		if a := days[i].AssignmentFor(ex.ID); a != nil {
			firstAssigned = days[i].Date
			break
		}
	}
	require.False(t, firstAssigned.IsZero())
	assert.True(t, !firstAssigned.Before(testToday.AddDate(0, 0, 39)),
		"study must not start before the pruned window, got %s", firstAssigned)

	assert.Len(t, assignedUnits(days, ex.ID), 10)
	assert.Len(t, reviewDates(days, ex.ID), 3)
}

func TestPruningExemptsManuallyModifiedDays(t *testing.T) {
	ex := chapterExam(t, "Geography", 10, 1, 60)

	custom := testToday.AddDate(0, 0, 2)
	existing := []model.StudyDay{
		{Date: custom, Available: true, AvailableHours: 2, ManuallyModified: true},
	}

	days, err := GenerateFullPlan([]model.Exam{ex}, existing, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	// The hand-edited day survives pruning and is filled first, boosted by
	// the modified-day capacity multiplier: ceil(1 * 1.5) = 2 units.
	a := dayAt(days, custom).AssignmentFor(ex.ID)
	require.NotNil(t, a)
	assert.Equal(t, []int{1, 2}, a.Units)
}

func TestSharedDayHourBudgetRespectedAfterBalance(t *testing.T) {
	exams := []model.Exam{
		chapterExam(t, "Algebra", 30, 1, 12),
		chapterExam(t, "History", 24, 1, 12),
	}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	for _, d := range days {
		if !d.Available || len(d.Assignments) == 0 {
			continue
		}
		total := 0.0
		for _, a := range d.Assignments {
			total += a.PlannedHours
		}
		assert.InDelta(t, d.AvailableHours, total, 0.1+1e-9,
			"day %s over or under budget: %.2f vs %.2f", d.Date, total, d.AvailableHours)
	}
}

func TestPriorityOrderGivesHighPriorityFirstCrackAtDays(t *testing.T) {
	low := chapterExam(t, "Low", 10, 1, 12)
	low.Priority = model.PriorityLow
	high := chapterExam(t, "High", 10, 1, 12)
	high.Priority = model.PriorityHigh

	// Order in the input slice must not matter.
	days, err := GenerateFullPlan([]model.Exam{low, high}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	assert.Len(t, assignedUnits(days, high.ID), 10)
	assert.Len(t, assignedUnits(days, low.ID), 10)
}

func TestAllDaysUnavailableYieldsNoAssignmentsNoError(t *testing.T) {
	ex := chapterExam(t, "Algebra", 12, 1, 5)

	var existing []model.StudyDay
	for i := 0; i < 6; i++ {
		existing = append(existing, model.StudyDay{
			Date: testToday.AddDate(0, 0, i), Available: false,
		})
	}

	days, err := GenerateFullPlan([]model.Exam{ex}, existing, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	for _, d := range days {
		assert.Empty(t, d.Assignments)
	}
}

func TestReviewWindowYieldsBackStudyDaysWhenCalendarIsTight(t *testing.T) {
	// Three candidate days and a three-day review window: half the window
	// (rounded up) converts back to study so the exam is not review-only.
	ex := chapterExam(t, "Algebra", 6, 1, 3)

	days, err := GenerateFullPlan([]model.Exam{ex}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	var study, review int
	for _, d := range days {
		a := d.AssignmentFor(ex.ID)
		if a == nil {
			continue
		}
		if a.IsReview {
			review++
		} else {
			study++
		}
	}
	assert.Equal(t, 2, study)
	assert.Equal(t, 1, review)
	assert.NotEmpty(t, assignedUnits(days, ex.ID))
}

func TestReviewFloor(t *testing.T) {
	ex := chapterExam(t, "Algebra", 8, 1, 6)
	rd := 2
	ex.ReviewDays = &rd

	days, err := GenerateFullPlan([]model.Exam{ex}, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	require.NotEmpty(t, reviewDates(days, ex.ID))
}

func TestCursorDerivedFromMaxCompletedUnit(t *testing.T) {
	// Completing units 1, 2 and 9 out of order must continue numbering at
	// 10, not at 4: counting alone would double-assign.
	ex := chapterExam(t, "Algebra", 20, 1, 10)
	exams := []model.Exam{ex}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	edited := cloneDay(*dayAt(days, testToday))
	a := edited.AssignmentFor(ex.ID)
	require.NotNil(t, a)
	a.Units = []int{1, 2, 9}
	a.Completed = true
	a.ActualHours = 2

	updated := ApplyDayEdit(edited, days, exams, testSettings(), testToday)

	next := dayAt(updated, testToday.AddDate(0, 0, 1)).AssignmentFor(ex.ID)
	require.NotNil(t, next)
	assert.Equal(t, 10, next.Units[0])
}

func TestKeepCompletedRegenerationIsStableAndPreservesHistory(t *testing.T) {
	ex := chapterExam(t, "Anatomy", 100, 1, 20)
	exams := []model.Exam{ex}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	edited := cloneDay(*dayAt(days, testToday))
	a := edited.AssignmentFor(ex.ID)
	a.Completed = true
	a.ActualHours = 5
	days = ApplyDayEdit(edited, days, exams, testSettings(), testToday)

	once, err := GenerateFullPlan(exams, days, testSettings(), KeepCompletedOnly, testToday)
	require.NoError(t, err)
	twice, err := GenerateFullPlan(exams, once, testSettings(), KeepCompletedOnly, testToday)
	require.NoError(t, err)

	for _, got := range [][]model.StudyDay{once, twice} {
		done := dayAt(got, testToday).AssignmentFor(ex.ID)
		require.NotNil(t, done)
		assert.True(t, done.Completed)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, done.Units)
		assert.Equal(t, 5.0, done.ActualHours)

		units := assignedUnits(got, ex.ID)
		assert.Len(t, units, 100)
	}
}

func TestGenerateFullPlanDoesNotMutateInputs(t *testing.T) {
	ex := chapterExam(t, "Algebra", 10, 1, 8)

	existing := []model.StudyDay{
		{Date: testToday, Available: true, AvailableHours: 4,
			Assignments: []model.StudyDayExam{{ExamID: ex.ID, Units: []int{1}, Completed: true}}},
	}

	_, err := GenerateFullPlan([]model.Exam{ex}, existing, testSettings(), KeepCompletedOnly, testToday)
	require.NoError(t, err)

	require.Len(t, existing[0].Assignments, 1)
	assert.Equal(t, []int{1}, existing[0].Assignments[0].Units)
}

func TestApplyDayEditWithoutCompletionOnlyMergesTheDay(t *testing.T) {
	ex := chapterExam(t, "Algebra", 10, 1, 8)
	exams := []model.Exam{ex}

	days, err := GenerateFullPlan(exams, nil, testSettings(), DiscardAll, testToday)
	require.NoError(t, err)

	before := assignedUnits(days, ex.ID)

	edited := cloneDay(*dayAt(days, testToday.AddDate(0, 0, 2)))
	edited.AvailableHours = 2
	edited.ManuallyModified = true

	updated := ApplyDayEdit(edited, days, exams, testSettings(), testToday)

	got := dayAt(updated, testToday.AddDate(0, 0, 2))
	assert.Equal(t, 2.0, got.AvailableHours)
	assert.True(t, got.ManuallyModified)
	assert.Equal(t, before, assignedUnits(updated, ex.ID), "no completion logged, no recalculation")
}
