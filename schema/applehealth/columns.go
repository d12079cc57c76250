package applehealth

// Row is one converted element. Its length always equals the column count
// of the table it belongs to.
type Row []string

const (
	TagHealthData      = "HealthData"
	TagActivitySummary = "ActivitySummary"
	TagRecord          = "Record"
	TagWorkout         = "Workout"
	TagTrackPoint      = "trkpt"

	HeartRateType = "HeartRate"

	// NotFound fills the motion context column of a heart rate record without that metadata.
	NotFound = "NOT FOUND"
)

var ActivitySummaryColumns = []string{
	"date",
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

var RecordColumns = []string{
	"type",
	"unit",
	"value",
	"sourceName",
	"sourceVersion",
	"device",
	"creationDate",
	"startDate",
	"endDate",
}

var HeartRateRecordColumns = append(append([]string{}, RecordColumns...), "motionContext")

// RecordColumnsFor returns the columns of the table for a resolved record type name.
func RecordColumnsFor(typeName string) []string {
	if typeName == HeartRateType {
		return HeartRateRecordColumns
	}
	return RecordColumns
}

var WorkoutColumns = []string{
	"workoutActivityType",
	"duration",
	"durationUnit",
	"sourceName",
	"sourceVersion",
	"device",
	"creationDate",
	"startDate",
	"endDate",
}

var WorkoutStatisticsColumns = []string{
	"activeEnergyBurned",
	"activeEnergyBurnedUnit",
	"distanceWalkingRunning",
	"distanceWalkingRunningUnit",
	"basalEnergyBurned",
	"basalEnergyBurnedUnit",
	"minimumHeartRate",
	"maximumHeartRate",
	"averageHeartRate",
	"heartRateUnit",
	"stepCount",
	"stepCountUnit",
	"minimumGroundContactTime",
	"maximumGroundContactTime",
	"averageGroundContactTime",
	"groundContactTimeUnit",
	"minimumRunningPower",
	"maximumRunningPower",
	"averageRunningPower",
	"runningPowerUnit",
	"minimumRunningVerticalOscillation",
	"maximumRunningVerticalOscillation",
	"averageRunningVerticalOscillation",
	"runningVerticalOscillationUnit",
	"minimumRunningSpeed",
	"maximumRunningSpeed",
	"averageRunningSpeed",
	"runningSpeedUnit",
	"minimumRunningStrideLength",
	"maximumRunningStrideLength",
	"averageRunningStrideLength",
	"runningStrideLengthUnit",
	"distanceSwimming",
	"distanceSwimmingUnit",
	"distanceCycling",
	"distanceCyclingUnit",
	"swimmingStrokeCount",
	"swimmingStrokeCountUnit",
}

var WorkoutMetadataColumns = []string{
	"indoorWorkout",
	"temperature",
	"humidity",
	"timeZone",
	"averageMETs",
	"physicalEffortEstimationType",
	"elevationAscended",
	"elevationDescended",
	"averageSpeed",
	"maximumSpeed",
	"swimmingLocationType",
	"swimmingStrokeStyle",
	"lapLength",
	"swolfScore",
	"waterSalinity",
}

var WorkoutRouteColumns = []string{"FileReference"}

// MasterWorkoutColumns is the 63 column layout of the workouts table.
var MasterWorkoutColumns = concat(WorkoutColumns, WorkoutStatisticsColumns, WorkoutMetadataColumns, WorkoutRouteColumns)

var TrackPointColumns = []string{"lon", "lat", "elevation", "time", "speed", "course", "hAcc", "vAcc"}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func columnIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return idx
}
