package applehealth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runningWorkout = `<Workout workoutActivityType="HKWorkoutActivityTypeRunning" duration="31.5" durationUnit="min" sourceName="Watch" sourceVersion="10.4" device="&lt;&lt;HKDevice: 0x1&gt;, name:Apple Watch, manufacturer:Apple Inc.&gt;" creationDate="2024-03-28 07:05:00 -0700" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700">
  <MetadataEntry key="HKIndoorWorkout" value="0"/>
  <MetadataEntry key="HKWeatherTemperature" value="71.6 degF"/>
  <MetadataEntry key="HKPhysicalEffortEstimationType" value="2"/>
  <MetadataEntry key="HKSomethingElse" value="ignored"/>
  <WorkoutStatistics type="HKQuantityTypeIdentifierHeartRate" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700" average="151.2" minimum="98" maximum="176" unit="count/min"/>
  <WorkoutStatistics type="HKQuantityTypeIdentifierActiveEnergyBurned" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700" sum="402.5" unit="Cal"/>
  <WorkoutStatistics type="HKQuantityTypeIdentifierRunningGroundContactTime" average="251" minimum="230" maximum="280" unit="ms"/>
  <WorkoutRoute sourceName="Watch">
    <FileReference path="/workout-routes/route_2024-03-28_7.01am.gpx"/>
  </WorkoutRoute>
</Workout>`

func workoutField(row Row, column string) string {
	return row[columnIndex(MasterWorkoutColumns)[column]]
}

func TestConvertActivitySummary(t *testing.T) {
	e := mustElement(t, `<ActivitySummary dateComponents="2024-03-28" activeEnergyBurned="512.3" activeEnergyBurnedGoal="600" activeEnergyBurnedUnit="Cal" appleExerciseTime="42" appleExerciseTimeGoal="30" appleStandHours="11" appleStandHoursGoal="12"/>`)
	row, err := ConvertActivitySummary(e)
	require.NoError(t, err)
	require.Len(t, row, len(ActivitySummaryColumns))
	assert.Equal(t, "2024-03-28", row[0])
	assert.Equal(t, "512.3", row[1])
	assert.Equal(t, "", row[4], "appleMoveTime is absent")
	assert.Equal(t, "12", row[9])

	_, err = ConvertActivitySummary(mustElement(t, `<Record/>`))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestConvertRecord(t *testing.T) {
	e := mustElement(t, `<Record type="HKQuantityTypeIdentifierStepCount" sourceName="iPhone" unit="count" value="120" creationDate="2024-03-28 08:00:00 -0700" startDate="2024-03-28 07:50:00 -0700" endDate="2024-03-28 07:59:00 -0700"/>`)
	typeName, row, err := ConvertRecord(e)
	require.NoError(t, err)
	assert.Equal(t, "StepCount", typeName)
	require.Len(t, row, len(RecordColumns))
	assert.Equal(t, Row{"StepCount", "count", "120", "iPhone", "", "", "2024-03-28 08:00:00 -0700", "2024-03-28 07:50:00 -0700", "2024-03-28 07:59:00 -0700"}, row)
}

func TestConvertRecordHeartRateMotionContext(t *testing.T) {
	withContext := mustElement(t, `<Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" unit="count/min" value="64" startDate="2024-03-28 07:50:00 -0700" endDate="2024-03-28 07:50:00 -0700">
  <MetadataEntry key="HKMetadataKeyHeartRateMotionContext" value="1"/>
</Record>`)
	typeName, row, err := ConvertRecord(withContext)
	require.NoError(t, err)
	assert.Equal(t, HeartRateType, typeName)
	require.Len(t, row, len(HeartRateRecordColumns))
	assert.Equal(t, "SEDENTARY", row[len(row)-1])

	without := mustElement(t, `<Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" value="64" startDate="2024-03-28 07:50:00 -0700" endDate="2024-03-28 07:50:00 -0700"/>`)
	_, row, err = ConvertRecord(without)
	require.NoError(t, err)
	assert.Equal(t, NotFound, row[len(row)-1])

	bad := mustElement(t, `<Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" value="64" startDate="2024-03-28 07:50:00 -0700" endDate="2024-03-28 07:50:00 -0700">
  <MetadataEntry key="HKMetadataKeyHeartRateMotionContext" value="9"/>
</Record>`)
	_, _, err = ConvertRecord(bad)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestConvertRecordRequiresAttributes(t *testing.T) {
	e := mustElement(t, `<Record type="HKQuantityTypeIdentifierStepCount" sourceName="iPhone" value="1" startDate="2024-03-28 07:50:00 -0700"/>`)
	_, _, err := ConvertRecord(e)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestConvertWorkout(t *testing.T) {
	row, err := ConvertWorkout(mustElement(t, runningWorkout))
	require.NoError(t, err)
	require.Len(t, row, len(MasterWorkoutColumns))

	assert.Equal(t, "HKWorkoutActivityTypeRunning", workoutField(row, "workoutActivityType"))
	assert.Equal(t, "Apple Watch", workoutField(row, "device"))
	assert.Equal(t, "151.2", workoutField(row, "averageHeartRate"))
	assert.Equal(t, "98", workoutField(row, "minimumHeartRate"))
	assert.Equal(t, "count/min", workoutField(row, "heartRateUnit"))
	assert.Equal(t, "402.5", workoutField(row, "activeEnergyBurned"))
	assert.Equal(t, "Cal", workoutField(row, "activeEnergyBurnedUnit"))
	assert.Equal(t, "251", workoutField(row, "averageGroundContactTime"))
	assert.Equal(t, "", workoutField(row, "distanceSwimming"))
	assert.Equal(t, "", workoutField(row, "distanceSwimmingUnit"))

	assert.Equal(t, "Outdoor", workoutField(row, "indoorWorkout"))
	assert.Equal(t, "71.6 degF", workoutField(row, "temperature"))
	assert.Equal(t, "DEVICE SENSED", workoutField(row, "physicalEffortEstimationType"))
	assert.Equal(t, "", workoutField(row, "swimmingStrokeStyle"))
	assert.Equal(t, "/workout-routes/route_2024-03-28_7.01am.gpx", workoutField(row, "FileReference"))
}

func TestConvertWorkoutWithoutChildren(t *testing.T) {
	row, err := ConvertWorkout(mustElement(t, `<Workout workoutActivityType="HKWorkoutActivityTypeYoga" sourceName="Watch" startDate="2024-03-29 18:00:00 -0700" endDate="2024-03-29 18:30:00 -0700"/>`))
	require.NoError(t, err)
	require.Len(t, row, len(MasterWorkoutColumns))
	for _, c := range concat(WorkoutStatisticsColumns, WorkoutMetadataColumns, WorkoutRouteColumns) {
		assert.Equal(t, "", workoutField(row, c), c)
	}
}

func TestConvertWorkoutRejectsMalformedChildren(t *testing.T) {
	stat := mustElement(t, `<Workout workoutActivityType="HKWorkoutActivityTypeRunning" sourceName="Watch" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700">
  <WorkoutStatistics type="HKQuantityTypeIdentifierStepCount" sum="lots" unit="count"/>
</Workout>`)
	_, err := ConvertWorkout(stat)
	assert.ErrorIs(t, err, ErrMalformedStatistic)

	meta := mustElement(t, `<Workout workoutActivityType="HKWorkoutActivityTypeSwimming" sourceName="Watch" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700">
  <MetadataEntry key="HKSwimmingStrokeStyle" value="12"/>
</Workout>`)
	_, err = ConvertWorkout(meta)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = ConvertWorkout(mustElement(t, `<Workout sourceName="Watch" startDate="2024-03-28 06:30:00 -0700" endDate="2024-03-28 07:01:30 -0700"/>`))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestWorkoutFileReference(t *testing.T) {
	assert.Equal(t, "", WorkoutFileReference(mustElement(t, `<Workout><WorkoutRoute/></Workout>`)))
	assert.Equal(t, "/workout-routes/a.gpx", WorkoutFileReference(mustElement(t, `<Workout><WorkoutRoute><FileReference path="/workout-routes/a.gpx"/></WorkoutRoute></Workout>`)))
}

func TestConvertTrackPoint(t *testing.T) {
	e := mustElement(t, `<trkpt lon="-122.4194" lat="37.7749">
  <ele>12.5</ele>
  <time>2024-03-28T13:30:01Z</time>
  <extensions><speed>2.9</speed><course>181.2</course><hAcc>3.1</hAcc><vAcc>2.2</vAcc></extensions>
</trkpt>`)
	row, err := ConvertTrackPoint(e)
	require.NoError(t, err)
	assert.Equal(t, Row{"-122.4194", "37.7749", "12.5", "2024-03-28T13:30:01Z", "2.9", "181.2", "3.1", "2.2"}, row)

	missing := mustElement(t, `<trkpt lon="-122.4194" lat="37.7749"><ele>12.5</ele><time>2024-03-28T13:30:01Z</time><extensions><speed>2.9</speed></extensions></trkpt>`)
	_, err = ConvertTrackPoint(missing)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
