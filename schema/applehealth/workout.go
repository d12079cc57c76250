package applehealth

import (
	"fmt"
	"strconv"
	"strings"
)

type statisticField struct {
	attr   string
	column string
}

// statisticRule says which WorkoutStatistics attributes land in which columns.
type statisticRule struct {
	fields []statisticField
	unit   string
}

func sumRule(column string) statisticRule {
	return statisticRule{
		fields: []statisticField{{"sum", column}},
		unit:   column + "Unit",
	}
}

func rangeRule(suffix, unit string) statisticRule {
	return statisticRule{
		fields: []statisticField{
			{"minimum", "minimum" + suffix},
			{"maximum", "maximum" + suffix},
			{"average", "average" + suffix},
		},
		unit: unit,
	}
}

// workoutStatistics is keyed by the statistic's type attribute.
var workoutStatistics = map[string]statisticRule{
	"HKQuantityTypeIdentifierActiveEnergyBurned":         sumRule("activeEnergyBurned"),
	"HKQuantityTypeIdentifierDistanceWalkingRunning":     sumRule("distanceWalkingRunning"),
	"HKQuantityTypeIdentifierBasalEnergyBurned":          sumRule("basalEnergyBurned"),
	"HKQuantityTypeIdentifierHeartRate":                  rangeRule("HeartRate", "heartRateUnit"),
	"HKQuantityTypeIdentifierStepCount":                  sumRule("stepCount"),
	"HKQuantityTypeIdentifierGroundContactTime":          rangeRule("GroundContactTime", "groundContactTimeUnit"),
	"HKQuantityTypeIdentifierRunningGroundContactTime":   rangeRule("GroundContactTime", "groundContactTimeUnit"),
	"HKQuantityTypeIdentifierRunningPower":               rangeRule("RunningPower", "runningPowerUnit"),
	"HKQuantityTypeIdentifierRunningVerticalOscillation": rangeRule("RunningVerticalOscillation", "runningVerticalOscillationUnit"),
	"HKQuantityTypeIdentifierRunningSpeed":               rangeRule("RunningSpeed", "runningSpeedUnit"),
	"HKQuantityTypeIdentifierRunningStrideLength":        rangeRule("RunningStrideLength", "runningStrideLengthUnit"),
	"HKQuantityTypeIdentifierDistanceSwimming":           sumRule("distanceSwimming"),
	"HKQuantityTypeIdentifierDistanceCycling":            sumRule("distanceCycling"),
	"HKQuantityTypeIdentifierSwimmingStrokeCount":        sumRule("swimmingStrokeCount"),
}

type metadataRule struct {
	column string
	parse  func(string) (string, error)
}

func verbatim(v string) (string, error) { return v, nil }

func coded(table CodeTable) func(string) (string, error) {
	return func(v string) (string, error) { return labelForCode(table, v) }
}

// optionalCoded leaves an empty value empty instead of rejecting it.
func optionalCoded(table CodeTable) func(string) (string, error) {
	return func(v string) (string, error) {
		if v == "" {
			return "", nil
		}
		return labelForCode(table, v)
	}
}

// workoutMetadata is keyed by the MetadataEntry key attribute.
var workoutMetadata = map[string]metadataRule{
	"HKIndoorWorkout":                {"indoorWorkout", IndoorFlagToLabel},
	"HKWeatherTemperature":           {"temperature", verbatim},
	"HKWeatherHumidity":              {"humidity", verbatim},
	"HKTimeZone":                     {"timeZone", verbatim},
	"HKAverageMETs":                  {"averageMETs", verbatim},
	"HKPhysicalEffortEstimationType": {"physicalEffortEstimationType", optionalCoded(EffortEstimationCodes)},
	"HKElevationAscended":            {"elevationAscended", verbatim},
	"HKElevationDescended":           {"elevationDescended", verbatim},
	"HKAverageSpeed":                 {"averageSpeed", verbatim},
	"HKMaximumSpeed":                 {"maximumSpeed", verbatim},
	"HKSwimmingLocationType":         {"swimmingLocationType", coded(SwimmingLocationCodes)},
	"HKSwimmingStrokeStyle":          {"swimmingStrokeStyle", coded(SwimmingStrokeStyleCodes)},
	"HKLapLength":                    {"lapLength", verbatim},
	"HKSWOLFScore":                   {"swolfScore", verbatim},
	"HKWaterSalinity":                {"waterSalinity", verbatim},
}

var (
	statisticsIndex = columnIndex(WorkoutStatisticsColumns)
	metadataIndex   = columnIndex(WorkoutMetadataColumns)
)

var workoutRequiredAttrs = []string{"workoutActivityType", "sourceName", "startDate", "endDate"}

// ConvertWorkout turns a Workout element and its nested statistics, metadata
// and route reference into a row of MasterWorkoutColumns.
func ConvertWorkout(e *Element) (Row, error) {
	if e.Name != TagWorkout {
		return nil, fmt.Errorf("%w: workout converter got <%s>", ErrSchemaMismatch, e.Name)
	}
	for _, attr := range workoutRequiredAttrs {
		if _, ok := e.Attr(attr); !ok {
			return nil, fmt.Errorf("%w: workout is missing %q", ErrSchemaMismatch, attr)
		}
	}

	row := make(Row, 0, len(MasterWorkoutColumns))
	row = append(row,
		e.AttrValue("workoutActivityType"),
		e.AttrValue("duration"),
		e.AttrValue("durationUnit"),
		e.AttrValue("sourceName"),
		e.AttrValue("sourceVersion"),
		ExtractDeviceName(e.AttrValue("device")),
		e.AttrValue("creationDate"),
		e.AttrValue("startDate"),
		e.AttrValue("endDate"),
	)

	stats, err := WorkoutStatistics(e)
	if err != nil {
		return nil, err
	}
	meta, err := WorkoutMetadata(e)
	if err != nil {
		return nil, err
	}
	row = append(row, stats...)
	row = append(row, meta...)
	row = append(row, WorkoutFileReference(e))
	return row, nil
}

// WorkoutStatistics builds the statistics block from nested WorkoutStatistics elements.
func WorkoutStatistics(e *Element) ([]string, error) {
	block := make([]string, len(WorkoutStatisticsColumns))
	for _, c := range e.Children {
		if c.Name != "WorkoutStatistics" {
			continue
		}
		statType := c.AttrValue("type")
		rule, ok := workoutStatistics[statType]
		if !ok {
			continue
		}
		for _, f := range rule.fields {
			raw, ok := c.Attr(f.attr)
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %s=%q", ErrMalformedStatistic, statType, f.attr, raw)
			}
			block[statisticsIndex[f.column]] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		block[statisticsIndex[rule.unit]] = c.AttrValue("unit")
	}
	return block, nil
}

// WorkoutMetadata builds the metadata block from nested MetadataEntry elements.
func WorkoutMetadata(e *Element) ([]string, error) {
	block := make([]string, len(WorkoutMetadataColumns))
	for _, c := range e.Children {
		if c.Name != "MetadataEntry" {
			continue
		}
		key := c.AttrValue("key")
		rule, ok := workoutMetadata[key]
		if !ok {
			continue
		}
		v, err := rule.parse(c.AttrValue("value"))
		if err != nil {
			return nil, fmt.Errorf("metadata %s: %w", key, err)
		}
		block[metadataIndex[rule.column]] = v
	}
	return block, nil
}

// WorkoutFileReference returns the route file path, or empty string when the workout has no route.
func WorkoutFileReference(e *Element) string {
	route := e.Child("WorkoutRoute")
	if route == nil {
		return ""
	}
	ref := route.Child("FileReference")
	if ref == nil {
		return ""
	}
	return ref.AttrValue("path")
}
