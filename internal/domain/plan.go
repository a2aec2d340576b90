package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is a named, versioned container of weeks. A plan is either a
// reusable template (IsTemplate true, SourceTemplateID unset) or a per-client
// instance forked from a template (IsTemplate false, SourceTemplateID set).
// Templates and instances live in the same collection; ownership is by
// reference only (coach owns templates, a client's CurrentPlanID points at
// their instance).
type WorkoutPlan struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID          primitive.ObjectID  `bson:"coachId" json:"coachId"`
	Name             string              `bson:"name" json:"name"`
	Description      string              `bson:"description,omitempty" json:"description,omitempty"`
	Emoji            string              `bson:"emoji,omitempty" json:"emoji,omitempty"`
	DurationWeeks    int                 `bson:"durationWeeks" json:"durationWeeks"`
	WorkoutsPerWeek  int                 `bson:"workoutsPerWeek" json:"workoutsPerWeek"`
	Weeks            []WorkoutWeek       `bson:"weeks" json:"weeks"`
	IsTemplate       bool                `bson:"isTemplate" json:"isTemplate"`
	SourceTemplateID *primitive.ObjectID `bson:"sourceTemplateId,omitempty" json:"sourceTemplateId,omitempty"`
	// ArchivedAt applies to templates only and never cascades to instances.
	ArchivedAt *time.Time `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutWeek / WorkoutDay / Exercise are strictly nested value objects. Their
// ids have no identity beyond the generated string; a week owns its days and a
// day owns its exercises.
type WorkoutWeek struct {
	ID     string       `bson:"id" json:"id"`
	Number int          `bson:"number" json:"number"`
	Days   []WorkoutDay `bson:"days" json:"days"`
}

type WorkoutDay struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	IsRestDay bool       `bson:"isRestDay" json:"isRestDay"`
	Exercises []Exercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
}

type Exercise struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Sets      int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps      string `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight    string `bson:"weight,omitempty" json:"weight,omitempty"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed bool   `bson:"completed" json:"completed"`
}

func (p *WorkoutPlan) IsArchived() bool {
	return p.ArchivedAt != nil
}

// FindDay locates a day (and its owning week) by ids.
func (p *WorkoutPlan) FindDay(weekID, dayID string) (*WorkoutWeek, *WorkoutDay) {
	for wi := range p.Weeks {
		week := &p.Weeks[wi]
		if week.ID != weekID {
			continue
		}
		for di := range week.Days {
			if week.Days[di].ID == dayID {
				return week, &week.Days[di]
			}
		}
	}
	return nil, nil
}

// PlanForm carries the authoring inputs for a new plan template. The handler
// layer clamps DurationWeeks to 1-12 and WorkoutsPerWeek to 1-7 via binding
// validation before this reaches domain code.
type PlanForm struct {
	Name            string
	Description     string
	Emoji           string
	DurationWeeks   int
	WorkoutsPerWeek int
}

// GeneratePlanStructure deterministically lays out a fresh template:
// DurationWeeks weeks of exactly 7 days each, the first WorkoutsPerWeek named
// "Workout N" and the remainder rest days.
func GeneratePlanStructure(form PlanForm, coachID primitive.ObjectID, now time.Time) *WorkoutPlan {
	weeks := make([]WorkoutWeek, 0, form.DurationWeeks)
	for w := 1; w <= form.DurationWeeks; w++ {
		days := make([]WorkoutDay, 0, 7)
		for d := 1; d <= 7; d++ {
			if d <= form.WorkoutsPerWeek {
				days = append(days, WorkoutDay{
					ID:        uuid.NewString(),
					Name:      fmt.Sprintf("Workout %d", d),
					Exercises: []Exercise{},
				})
			} else {
				days = append(days, WorkoutDay{
					ID:        uuid.NewString(),
					Name:      "Rest Day",
					IsRestDay: true,
				})
			}
		}
		weeks = append(weeks, WorkoutWeek{
			ID:     uuid.NewString(),
			Number: w,
			Days:   days,
		})
	}

	return &WorkoutPlan{
		ID:              primitive.NewObjectID(),
		CoachID:         coachID,
		Name:            form.Name,
		Description:     form.Description,
		Emoji:           form.Emoji,
		DurationWeeks:   form.DurationWeeks,
		WorkoutsPerWeek: form.WorkoutsPerWeek,
		Weeks:           weeks,
		IsTemplate:      true,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}
}

// CopyOptions controls plan forking.
type CopyOptions struct {
	// MakeInstance marks the copy as a client instance tracking the source
	// template. When false the copy is another template and gets a "(Copy)"
	// name suffix unless Name overrides it.
	MakeInstance bool
	// Name overrides the copy's name. Ignored for instances, which keep the
	// template name the client already knows.
	Name string
}

// CopyPlan produces an independent copy of src: the plan id and every nested
// week/day/exercise id are freshly generated, every exercise Completed flag is
// cleared, and timestamps reset to now. The operation is total over any
// well-formed plan; the caller appends the result to the plan collection and,
// when forking for a client, updates that client's CurrentPlanID and
// PlanStartDate.
func CopyPlan(src *WorkoutPlan, opts CopyOptions, now time.Time) *WorkoutPlan {
	weeks := make([]WorkoutWeek, len(src.Weeks))
	for wi, week := range src.Weeks {
		days := make([]WorkoutDay, len(week.Days))
		for di, day := range week.Days {
			exercises := make([]Exercise, len(day.Exercises))
			for ei, ex := range day.Exercises {
				ex.ID = uuid.NewString()
				ex.Completed = false
				exercises[ei] = ex
			}
			day.ID = uuid.NewString()
			day.Exercises = exercises
			days[di] = day
		}
		week.ID = uuid.NewString()
		week.Days = days
		weeks[wi] = week
	}

	copied := &WorkoutPlan{
		ID:              primitive.NewObjectID(),
		CoachID:         src.CoachID,
		Name:            src.Name,
		Description:     src.Description,
		Emoji:           src.Emoji,
		DurationWeeks:   src.DurationWeeks,
		WorkoutsPerWeek: src.WorkoutsPerWeek,
		Weeks:           weeks,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	if opts.MakeInstance {
		copied.IsTemplate = false
		sourceID := src.ID
		copied.SourceTemplateID = &sourceID
	} else {
		copied.IsTemplate = true
		if opts.Name != "" {
			copied.Name = opts.Name
		} else {
			copied.Name = src.Name + " (Copy)"
		}
	}

	return copied
}
