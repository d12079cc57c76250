package applehealth

import "fmt"

var activitySummaryAttrs = []string{
	"dateComponents",
	"activeEnergyBurned",
	"activeEnergyBurnedGoal",
	"activeEnergyBurnedUnit",
	"appleMoveTime",
	"appleMoveTimeGoal",
	"appleExerciseTime",
	"appleExerciseTimeGoal",
	"appleStandHours",
	"appleStandHoursGoal",
}

// ConvertActivitySummary turns an ActivitySummary element into a row of
// ActivitySummaryColumns. Missing attributes become empty strings.
func ConvertActivitySummary(e *Element) (Row, error) {
	if e.Name != TagActivitySummary {
		return nil, fmt.Errorf("%w: activity summary converter got <%s>", ErrSchemaMismatch, e.Name)
	}
	row := make(Row, len(activitySummaryAttrs))
	for i, attr := range activitySummaryAttrs {
		row[i] = e.AttrValue(attr)
	}
	return row, nil
}
