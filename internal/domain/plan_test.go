package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func samplePlan(t *testing.T) *WorkoutPlan {
	t.Helper()
	plan := GeneratePlanStructure(PlanForm{
		Name:            "Strength Block",
		Description:     "Base phase",
		Emoji:           "💪",
		DurationWeeks:   2,
		WorkoutsPerWeek: 3,
	}, primitive.NewObjectID(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	plan.Weeks[0].Days[0].Exercises = []Exercise{
		{ID: "ex-1", Name: "Squat", Sets: 5, Reps: "5", Completed: true},
		{ID: "ex-2", Name: "Bench Press", Sets: 3, Reps: "8"},
	}
	return plan
}

func TestGeneratePlanStructureLayout(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	plan := GeneratePlanStructure(PlanForm{
		Name:            "Test",
		Emoji:           "💪",
		DurationWeeks:   4,
		WorkoutsPerWeek: 3,
	}, primitive.NewObjectID(), now)

	require.Len(t, plan.Weeks, 4)
	require.True(t, plan.IsTemplate)
	require.Nil(t, plan.SourceTemplateID)

	for _, week := range plan.Weeks {
		require.Len(t, week.Days, 7)
		workouts := 0
		for _, day := range week.Days {
			if !day.IsRestDay {
				workouts++
			} else {
				assert.Equal(t, "Rest Day", day.Name)
			}
		}
		assert.Equal(t, 3, workouts)
	}

	week1 := plan.Weeks[0]
	assert.Equal(t, 1, week1.Number)
	assert.Equal(t, "Workout 1", week1.Days[0].Name)
	assert.Equal(t, "Workout 2", week1.Days[1].Name)
	assert.Equal(t, "Workout 3", week1.Days[2].Name)
	assert.False(t, week1.Days[2].IsRestDay)
	assert.True(t, week1.Days[3].IsRestDay)
}

func TestGeneratePlanStructureUniqueIDs(t *testing.T) {
	plan := samplePlan(t)
	seen := map[string]bool{}
	for _, w := range plan.Weeks {
		require.False(t, seen[w.ID])
		seen[w.ID] = true
		for _, d := range w.Days {
			require.False(t, seen[d.ID])
			seen[d.ID] = true
		}
	}
}

func TestCopyPlanFreshIDs(t *testing.T) {
	src := samplePlan(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	copied := CopyPlan(src, CopyOptions{}, now)

	require.NotEqual(t, src.ID, copied.ID)
	require.Len(t, copied.Weeks, len(src.Weeks))
	for wi, week := range copied.Weeks {
		assert.NotEqual(t, src.Weeks[wi].ID, week.ID)
		assert.Equal(t, src.Weeks[wi].Number, week.Number)
		for di, day := range week.Days {
			srcDay := src.Weeks[wi].Days[di]
			assert.NotEqual(t, srcDay.ID, day.ID)
			assert.Equal(t, srcDay.Name, day.Name)
			assert.Equal(t, srcDay.IsRestDay, day.IsRestDay)
			for ei, ex := range day.Exercises {
				assert.NotEqual(t, srcDay.Exercises[ei].ID, ex.ID)
				assert.Equal(t, srcDay.Exercises[ei].Name, ex.Name)
				assert.False(t, ex.Completed, "completed flags must be cleared")
			}
		}
	}
	assert.Equal(t, now.UTC(), copied.CreatedAt)
	assert.Equal(t, now.UTC(), copied.UpdatedAt)
}

func TestCopyPlanSourceUnmutated(t *testing.T) {
	src := samplePlan(t)
	srcWeekID := src.Weeks[0].ID
	srcDayID := src.Weeks[0].Days[0].ID

	_ = CopyPlan(src, CopyOptions{MakeInstance: true}, time.Now())

	assert.Equal(t, srcWeekID, src.Weeks[0].ID)
	assert.Equal(t, srcDayID, src.Weeks[0].Days[0].ID)
	assert.True(t, src.Weeks[0].Days[0].Exercises[0].Completed)
}

func TestCopyPlanInstance(t *testing.T) {
	src := samplePlan(t)

	instance := CopyPlan(src, CopyOptions{MakeInstance: true}, time.Now())

	assert.False(t, instance.IsTemplate)
	require.NotNil(t, instance.SourceTemplateID)
	assert.Equal(t, src.ID, *instance.SourceTemplateID)
	// Clients see the same plan name as the template.
	assert.Equal(t, src.Name, instance.Name)
}

func TestCopyPlanTemplateDuplicate(t *testing.T) {
	src := samplePlan(t)

	dup := CopyPlan(src, CopyOptions{}, time.Now())
	assert.True(t, dup.IsTemplate)
	assert.Nil(t, dup.SourceTemplateID)
	assert.Equal(t, "Strength Block (Copy)", dup.Name)

	named := CopyPlan(src, CopyOptions{Name: "Strength Block v2"}, time.Now())
	assert.Equal(t, "Strength Block v2", named.Name)
}

func TestFindDay(t *testing.T) {
	plan := samplePlan(t)
	wantWeek := plan.Weeks[1]
	wantDay := wantWeek.Days[2]

	week, day := plan.FindDay(wantWeek.ID, wantDay.ID)
	require.NotNil(t, week)
	require.NotNil(t, day)
	assert.Equal(t, wantDay.Name, day.Name)

	week, day = plan.FindDay(wantWeek.ID, "missing")
	assert.Nil(t, week)
	assert.Nil(t, day)
}
