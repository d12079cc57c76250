package query

import (
	"context"
	"strings"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

// Measure is one workout statistic. Absent aggregates are nil.
type Measure struct {
	Sum     *float64 `json:"sum,omitempty" yaml:"sum,omitempty"`
	Average *float64 `json:"average,omitempty" yaml:"average,omitempty"`
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Unit    string   `json:"unit" yaml:"unit"`
	Chart   *Chart   `json:"chart,omitempty" yaml:"chart,omitempty"`
}

type WorkoutStatistics struct {
	HeartRate                  Measure `json:"heartRate" yaml:"heartRate"`
	ActiveEnergyBurned         Measure `json:"activeEnergyBurned" yaml:"activeEnergyBurned"`
	BasalEnergyBurned          Measure `json:"basalEnergyBurned" yaml:"basalEnergyBurned"`
	DistanceWalkingRunning     Measure `json:"distanceWalkingRunning" yaml:"distanceWalkingRunning"`
	StepCount                  Measure `json:"stepCount" yaml:"stepCount"`
	RunningGroundContactTime   Measure `json:"runningGroundContactTime" yaml:"runningGroundContactTime"`
	RunningPower               Measure `json:"runningPower" yaml:"runningPower"`
	RunningVerticalOscillation Measure `json:"runningVerticalOscillation" yaml:"runningVerticalOscillation"`
	RunningSpeed               Measure `json:"runningSpeed" yaml:"runningSpeed"`
	RunningStrideLength        Measure `json:"runningStrideLength" yaml:"runningStrideLength"`
	DistanceSwimming           Measure `json:"distanceSwimming" yaml:"distanceSwimming"`
	DistanceCycling            Measure `json:"distanceCycling" yaml:"distanceCycling"`
	SwimmingStrokeCount        Measure `json:"swimmingStrokeCount" yaml:"swimmingStrokeCount"`
}

// WorkoutMetadata keeps the exported strings; many carry their unit, e.g. "71.6 degF".
type WorkoutMetadata struct {
	WorkoutLocationType          string `json:"workoutLocationType" yaml:"workoutLocationType"`
	WeatherTemperature           string `json:"weatherTemperature" yaml:"weatherTemperature"`
	WeatherHumidity              string `json:"weatherHumidity" yaml:"weatherHumidity"`
	TimeZone                     string `json:"timeZone" yaml:"timeZone"`
	AverageMETs                  string `json:"averageMETs" yaml:"averageMETs"`
	PhysicalEffortEstimationType string `json:"physicalEffortEstimationType" yaml:"physicalEffortEstimationType"`
	ElevationAscended            string `json:"elevationAscended" yaml:"elevationAscended"`
	ElevationDescended           string `json:"elevationDescended" yaml:"elevationDescended"`
	AverageSpeed                 string `json:"averageSpeed" yaml:"averageSpeed"`
	MaximumSpeed                 string `json:"maximumSpeed" yaml:"maximumSpeed"`
	SwimmingLocationType         string `json:"swimmingLocationType" yaml:"swimmingLocationType"`
	SwimmingStrokeStyle          string `json:"swimmingStrokeStyle" yaml:"swimmingStrokeStyle"`
	LapLength                    string `json:"lapLength" yaml:"lapLength"`
	SwolfScore                   string `json:"swolfScore" yaml:"swolfScore"`
	WaterSalinity                string `json:"waterSalinity" yaml:"waterSalinity"`
}

type Vital struct {
	Chart Chart  `json:"chart" yaml:"chart"`
	Unit  string `json:"unit" yaml:"unit"`
}

type WorkoutVitals struct {
	HeartRate Vital `json:"heartRate" yaml:"heartRate"`
}

type Route struct {
	Longitude []float64 `json:"longitude" yaml:"longitude"`
	Latitude  []float64 `json:"latitude" yaml:"latitude"`
	Elevation []float64 `json:"elevation" yaml:"elevation"`
	Time      []string  `json:"time" yaml:"time"`
	Speed     []float64 `json:"speed" yaml:"speed"`
	Course    []float64 `json:"course" yaml:"course"`
	HAcc      []float64 `json:"hAcc" yaml:"hAcc"`
	VAcc      []float64 `json:"vAcc" yaml:"vAcc"`
}

func emptyRoute() Route {
	return Route{
		Longitude: []float64{}, Latitude: []float64{}, Elevation: []float64{}, Time: []string{},
		Speed: []float64{}, Course: []float64{}, HAcc: []float64{}, VAcc: []float64{},
	}
}

// WorkoutDetail is one workout row with its statistics, metadata, vitals and route.
type WorkoutDetail struct {
	WorkoutName          string            `json:"workoutName" yaml:"workoutName"`
	WorkoutDuration      *float64          `json:"workoutDuration" yaml:"workoutDuration"`
	WorkoutDurationUnit  string            `json:"workoutDurationUnit" yaml:"workoutDurationUnit"`
	WorkoutSourceName    string            `json:"workoutSourceName" yaml:"workoutSourceName"`
	WorkoutSourceVersion string            `json:"workoutSourceVersion" yaml:"workoutSourceVersion"`
	WorkoutDeviceName    string            `json:"workoutDeviceName" yaml:"workoutDeviceName"`
	WorkoutCreationDate  string            `json:"workoutCreationDate" yaml:"workoutCreationDate"`
	WorkoutStartDate     string            `json:"workoutStartDate" yaml:"workoutStartDate"`
	WorkoutEndDate       string            `json:"workoutEndDate" yaml:"workoutEndDate"`
	WorkoutFileReference string            `json:"workoutFileReference" yaml:"workoutFileReference"`
	WorkoutStatistics    WorkoutStatistics `json:"workoutStatistics" yaml:"workoutStatistics"`
	WorkoutMetadata      WorkoutMetadata   `json:"workoutMetadata" yaml:"workoutMetadata"`
	WorkoutVitals        WorkoutVitals     `json:"workoutVitals" yaml:"workoutVitals"`
	WorkoutRoute         Route             `json:"workoutRoute" yaml:"workoutRoute"`
}

// BuildWorkoutDetail assembles the detail view of a workouts table row
// against the published tables.
func (s *Service) BuildWorkoutDetail(ctx context.Context, rec Record) (*WorkoutDetail, error) {
	version, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildWorkoutDetail(ctx, version, rec)
}

func (s *Service) buildWorkoutDetail(ctx context.Context, version string, rec Record) (*WorkoutDetail, error) {
	start, err := ParseTimestamp(rec["startDate"])
	if err != nil {
		return nil, err
	}
	end, err := ParseTimestamp(rec["endDate"])
	if err != nil {
		return nil, err
	}
	duration, err := parseOptional("duration", rec["duration"])
	if err != nil {
		return nil, err
	}

	d := &WorkoutDetail{
		WorkoutName:          applehealth.StripPrefix(applehealth.PrefixWorkoutActivityType, rec["workoutActivityType"]),
		WorkoutDuration:      duration,
		WorkoutDurationUnit:  rec["durationUnit"],
		WorkoutSourceName:    rec["sourceName"],
		WorkoutSourceVersion: rec["sourceVersion"],
		WorkoutDeviceName:    rec["device"],
		WorkoutCreationDate:  rec["creationDate"],
		WorkoutStartDate:     rec["startDate"],
		WorkoutEndDate:       rec["endDate"],
		WorkoutFileReference: rec["FileReference"],
		WorkoutMetadata:      metadataOf(rec),
	}
	if d.WorkoutStatistics, err = statisticsOf(rec); err != nil {
		return nil, err
	}

	st := &d.WorkoutStatistics
	charts := []struct {
		typeName string
		target   **Chart
	}{
		{"RunningGroundContactTime", &st.RunningGroundContactTime.Chart},
		{"RunningPower", &st.RunningPower.Chart},
		{"RunningVerticalOscillation", &st.RunningVerticalOscillation.Chart},
		{"RunningSpeed", &st.RunningSpeed.Chart},
		{"RunningStrideLength", &st.RunningStrideLength.Chart},
	}
	for _, c := range charts {
		chart, err := s.chart(ctx, version, c.typeName, start, end)
		if err != nil {
			return nil, err
		}
		*c.target = &chart
	}

	hr, err := s.chart(ctx, version, applehealth.HeartRateType, start, end)
	if err != nil {
		return nil, err
	}
	d.WorkoutVitals.HeartRate = Vital{Chart: hr, Unit: rec["heartRateUnit"]}

	if d.WorkoutRoute, err = s.route(ctx, version, rec["FileReference"]); err != nil {
		return nil, err
	}
	return d, nil
}

func metadataOf(rec Record) WorkoutMetadata {
	return WorkoutMetadata{
		WorkoutLocationType:          rec["indoorWorkout"],
		WeatherTemperature:           rec["temperature"],
		WeatherHumidity:              rec["humidity"],
		TimeZone:                     rec["timeZone"],
		AverageMETs:                  rec["averageMETs"],
		PhysicalEffortEstimationType: rec["physicalEffortEstimationType"],
		ElevationAscended:            rec["elevationAscended"],
		ElevationDescended:           rec["elevationDescended"],
		AverageSpeed:                 rec["averageSpeed"],
		MaximumSpeed:                 rec["maximumSpeed"],
		SwimmingLocationType:         rec["swimmingLocationType"],
		SwimmingStrokeStyle:          rec["swimmingStrokeStyle"],
		LapLength:                    rec["lapLength"],
		SwolfScore:                   rec["swolfScore"],
		WaterSalinity:                rec["waterSalinity"],
	}
}

type measureColumns struct {
	sum, average, minimum, maximum, unit string
}

func sumColumns(name string) measureColumns {
	return measureColumns{sum: name, unit: name + "Unit"}
}

func rangeColumns(suffix, unit string) measureColumns {
	return measureColumns{average: "average" + suffix, minimum: "minimum" + suffix, maximum: "maximum" + suffix, unit: unit}
}

func measureOf(rec Record, cols measureColumns) (Measure, error) {
	m := Measure{Unit: rec[cols.unit]}
	for _, f := range []struct {
		column string
		target **float64
	}{
		{cols.sum, &m.Sum},
		{cols.average, &m.Average},
		{cols.minimum, &m.Minimum},
		{cols.maximum, &m.Maximum},
	} {
		if f.column == "" {
			continue
		}
		v, err := parseOptional(f.column, rec[f.column])
		if err != nil {
			return m, err
		}
		*f.target = v
	}
	return m, nil
}

func statisticsOf(rec Record) (WorkoutStatistics, error) {
	var st WorkoutStatistics
	for _, f := range []struct {
		cols   measureColumns
		target *Measure
	}{
		{rangeColumns("HeartRate", "heartRateUnit"), &st.HeartRate},
		{sumColumns("activeEnergyBurned"), &st.ActiveEnergyBurned},
		{sumColumns("basalEnergyBurned"), &st.BasalEnergyBurned},
		{sumColumns("distanceWalkingRunning"), &st.DistanceWalkingRunning},
		{sumColumns("stepCount"), &st.StepCount},
		{rangeColumns("GroundContactTime", "groundContactTimeUnit"), &st.RunningGroundContactTime},
		{rangeColumns("RunningPower", "runningPowerUnit"), &st.RunningPower},
		{rangeColumns("RunningVerticalOscillation", "runningVerticalOscillationUnit"), &st.RunningVerticalOscillation},
		{rangeColumns("RunningSpeed", "runningSpeedUnit"), &st.RunningSpeed},
		{rangeColumns("RunningStrideLength", "runningStrideLengthUnit"), &st.RunningStrideLength},
		{sumColumns("distanceSwimming"), &st.DistanceSwimming},
		{sumColumns("distanceCycling"), &st.DistanceCycling},
		{sumColumns("swimmingStrokeCount"), &st.SwimmingStrokeCount},
	} {
		m, err := measureOf(rec, f.cols)
		if err != nil {
			return st, err
		}
		*f.target = m
	}
	return st, nil
}

// Route returns the published route a workout file reference points at.
func (s *Service) Route(ctx context.Context, fileReference string) (Route, error) {
	version, err := s.current(ctx)
	if err != nil {
		return emptyRoute(), err
	}
	return s.route(ctx, version, fileReference)
}

func (s *Service) route(ctx context.Context, version, fileReference string) (Route, error) {
	route := emptyRoute()
	if strings.TrimSpace(fileReference) == "" {
		return route, nil
	}
	t, _, err := s.load(ctx, version, s.layout.RouteKey(fileReference))
	if err != nil {
		return route, err
	}
	return routeOf(t)
}

func routeOf(t *storage.Table) (Route, error) {
	route := emptyRoute()
	if len(t.Rows) == 0 {
		return route, nil
	}
	numeric := []struct {
		column string
		target *[]float64
	}{
		{"lon", &route.Longitude},
		{"lat", &route.Latitude},
		{"elevation", &route.Elevation},
		{"speed", &route.Speed},
		{"course", &route.Course},
		{"hAcc", &route.HAcc},
		{"vAcc", &route.VAcc},
	}
	for _, rec := range Records(t) {
		for _, n := range numeric {
			v, err := parseOptional(n.column, rec[n.column])
			if err != nil {
				return emptyRoute(), err
			}
			if v == nil {
				return emptyRoute(), errMissing(t.Key, n.column)
			}
			*n.target = append(*n.target, *v)
		}
		route.Time = append(route.Time, rec["time"])
	}
	return route, nil
}
