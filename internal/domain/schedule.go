package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutCompletion records that a client finished a plan day.
type WorkoutCompletion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	WeekID      string             `bson:"weekId" json:"weekId"`
	DayID       string             `bson:"dayId" json:"dayId"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ScheduledDay is a plan day projected onto the calendar, with the client's
// completion attached when one exists.
type ScheduledDay struct {
	Day        WorkoutDay         `json:"day"`
	Date       time.Time          `json:"date"`
	Completion *WorkoutCompletion `json:"completion,omitempty"`
}

// CurrentWeekNumber maps a plan start date and "now" onto a 1-based week
// number, clamped to [1, totalWeeks]: a plan never runs past its last
// authored week, and a start date in the future pins the client to week 1.
func CurrentWeekNumber(startDate time.Time, totalWeeks int, now time.Time) int {
	if totalWeeks < 1 {
		return 1
	}
	days := int(now.Sub(startDate).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		return 1
	}
	if week > totalWeeks {
		return totalWeeks
	}
	return week
}

// startOfWeek returns midnight of the Monday of the week containing t, in t's
// location.
func startOfWeek(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	weekday := int(midnight.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return midnight.AddDate(0, 0, -(weekday - 1))
}

// WeekDays projects the given week's days onto the Monday-aligned calendar
// week containing now and attaches the client's matching completions.
func WeekDays(week WorkoutWeek, completions []WorkoutCompletion, clientID primitive.ObjectID, now time.Time) []ScheduledDay {
	weekStart := startOfWeek(now)
	days := make([]ScheduledDay, len(week.Days))
	for i, day := range week.Days {
		scheduled := ScheduledDay{
			Day:  day,
			Date: weekStart.AddDate(0, 0, i),
		}
		for ci := range completions {
			c := &completions[ci]
			if c.ClientID == clientID && c.WeekID == week.ID && c.DayID == day.ID {
				scheduled.Completion = c
				break
			}
		}
		days[i] = scheduled
	}
	return days
}

// TodayWorkout selects the scheduled day whose date matches today's calendar
// date, or nil if today falls outside the week. An absence, not an error.
func TodayWorkout(days []ScheduledDay, now time.Time) *ScheduledDay {
	y, m, d := now.Date()
	for i := range days {
		dy, dm, dd := days[i].Date.Date()
		if dy == y && dm == m && dd == d {
			return &days[i]
		}
	}
	return nil
}
