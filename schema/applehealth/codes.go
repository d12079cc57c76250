package applehealth

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeTable names one of the small integer enumerations found in export metadata.
type CodeTable int

const (
	MotionContextCodes CodeTable = iota
	SwimmingLocationCodes
	SwimmingStrokeStyleCodes
	EffortEstimationCodes
)

func (t CodeTable) String() string {
	switch t {
	case MotionContextCodes:
		return "motion context"
	case SwimmingLocationCodes:
		return "swimming location"
	case SwimmingStrokeStyleCodes:
		return "swimming stroke style"
	case EffortEstimationCodes:
		return "effort estimation type"
	}
	return "unknown table"
}

// CodeToLabel returns the label for code in table, or ErrInvalidCode.
func CodeToLabel(table CodeTable, code int) (string, error) {
	switch table {
	case MotionContextCodes:
		v, err := MotionContextFromCode(code)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case SwimmingLocationCodes:
		v, err := SwimmingLocationFromCode(code)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case SwimmingStrokeStyleCodes:
		v, err := SwimmingStrokeStyleFromCode(code)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case EffortEstimationCodes:
		v, err := EffortEstimationFromCode(code)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: unknown code table %d", ErrInvalidCode, int(table))
}

// labelForCode parses a metadata value as an integer code and looks it up.
func labelForCode(table CodeTable, value string) (string, error) {
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %s value %q is not an integer", ErrInvalidCode, table, value)
	}
	return CodeToLabel(table, code)
}

// IndoorFlagToLabel maps the HKIndoorWorkout flag: 0 is Outdoor, anything else Indoor.
func IndoorFlagToLabel(value string) (string, error) {
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: indoor flag %q is not an integer", ErrInvalidCode, value)
	}
	if code == 0 {
		return "Outdoor", nil
	}
	return "Indoor", nil
}

type MotionContext int

const (
	MotionContextNotSet MotionContext = iota
	MotionContextSedentary
	MotionContextActive
)

var motionContextLabels = []string{"NOT SET", "SEDENTARY", "ACTIVE"}

func MotionContextFromCode(code int) (MotionContext, error) {
	if code < 0 || code >= len(motionContextLabels) {
		return 0, fmt.Errorf("%w: %d for %s", ErrInvalidCode, code, MotionContextCodes)
	}
	return MotionContext(code), nil
}

func (m MotionContext) String() string { return motionContextLabels[m] }

type SwimmingLocation int

const (
	SwimmingLocationUnknown SwimmingLocation = iota
	SwimmingLocationPool
	SwimmingLocationOpenWater
)

var swimmingLocationLabels = []string{"UNKNOWN", "POOL", "OPEN WATER"}

func SwimmingLocationFromCode(code int) (SwimmingLocation, error) {
	if code < 0 || code >= len(swimmingLocationLabels) {
		return 0, fmt.Errorf("%w: %d for %s", ErrInvalidCode, code, SwimmingLocationCodes)
	}
	return SwimmingLocation(code), nil
}

func (s SwimmingLocation) String() string { return swimmingLocationLabels[s] }

type SwimmingStrokeStyle int

const (
	StrokeStyleUnknown SwimmingStrokeStyle = iota
	StrokeStyleMixed
	StrokeStyleFreestyle
	StrokeStyleBackstroke
	StrokeStyleBreaststroke
	StrokeStyleButterfly
	StrokeStyleKickboard
)

var strokeStyleLabels = []string{"UNKNOWN", "MIXED", "FREESTYLE", "BACKSTROKE", "BREASTSTROKE", "BUTTERFLY", "KICKBOARD"}

func SwimmingStrokeStyleFromCode(code int) (SwimmingStrokeStyle, error) {
	if code < 0 || code >= len(strokeStyleLabels) {
		return 0, fmt.Errorf("%w: %d for %s", ErrInvalidCode, code, SwimmingStrokeStyleCodes)
	}
	return SwimmingStrokeStyle(code), nil
}

func (s SwimmingStrokeStyle) String() string { return strokeStyleLabels[s] }

// EffortEstimation codes start at 1.
type EffortEstimation int

const (
	EffortEstimationActivityLookup EffortEstimation = iota + 1
	EffortEstimationDeviceSensed
)

func EffortEstimationFromCode(code int) (EffortEstimation, error) {
	switch EffortEstimation(code) {
	case EffortEstimationActivityLookup, EffortEstimationDeviceSensed:
		return EffortEstimation(code), nil
	}
	return 0, fmt.Errorf("%w: %d for %s", ErrInvalidCode, code, EffortEstimationCodes)
}

func (e EffortEstimation) String() string {
	if e == EffortEstimationDeviceSensed {
		return "DEVICE SENSED"
	}
	return "ACTIVITY LOOKUP"
}
