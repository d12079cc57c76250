package applehealth

import (
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Bucket groups record types that are stored together.
type Bucket string

const (
	BucketVitals        Bucket = "vitals"
	BucketActivity      Bucket = "activity"
	BucketAudio         Bucket = "audio"
	BucketMobility      Bucket = "mobility"
	BucketEnvironmental Bucket = "environmental"
	BucketSleep         Bucket = "sleep"
	BucketSymptoms      Bucket = "symptoms"
	BucketHealth        Bucket = "health"
	BucketUnclassified  Bucket = "unclassified"
)

// Buckets lists every bucket, the unclassified one last.
var Buckets = []Bucket{
	BucketVitals, BucketActivity, BucketAudio, BucketMobility,
	BucketEnvironmental, BucketSleep, BucketSymptoms, BucketHealth,
	BucketUnclassified,
}

var bucketMembers = map[Bucket][]string{
	BucketVitals: {
		"HeartRate", "RestingHeartRate", "WalkingHeartRateAverage", "HeartRateVariabilitySDNN",
		"HeartRateRecoveryOneMinute", "RespiratoryRate", "OxygenSaturation", "BodyTemperature",
		"BasalBodyTemperature", "BloodPressureSystolic", "BloodPressureDiastolic", "BloodGlucose",
		"VO2Max", "PeripheralPerfusionIndex", "AppleSleepingWristTemperature",
		"HighHeartRateEvent", "LowHeartRateEvent", "IrregularHeartRhythmEvent", "LowCardioFitnessEvent",
		"AtrialFibrillationBurden",
	},
	BucketActivity: {
		"StepCount", "DistanceWalkingRunning", "DistanceCycling", "DistanceSwimming",
		"DistanceWheelchair", "DistanceDownhillSnowSports", "PushCount", "FlightsClimbed",
		"ActiveEnergyBurned", "BasalEnergyBurned", "AppleExerciseTime", "AppleMoveTime",
		"AppleStandTime", "AppleStandHour", "SwimmingStrokeCount", "PhysicalEffort",
		"RunningPower", "RunningSpeed", "RunningStrideLength", "RunningVerticalOscillation",
		"RunningGroundContactTime", "CyclingPower", "CyclingCadence", "CyclingSpeed",
		"CyclingFunctionalThresholdPower", "NikeFuel",
	},
	BucketAudio: {
		"EnvironmentalAudioExposure", "HeadphoneAudioExposure", "EnvironmentalSoundReduction",
		"AudioExposureEvent", "EnvironmentalAudioExposureEvent", "HeadphoneAudioExposureEvent",
	},
	BucketMobility: {
		"WalkingSpeed", "WalkingStepLength", "WalkingAsymmetryPercentage",
		"WalkingDoubleSupportPercentage", "StairAscentSpeed", "StairDescentSpeed",
		"SixMinuteWalkTestDistance", "AppleWalkingSteadiness", "AppleWalkingSteadinessEvent",
	},
	BucketEnvironmental: {
		"TimeInDaylight", "UVExposure", "WaterTemperature", "UnderwaterDepth",
	},
	BucketSleep: {
		"SleepAnalysis", "SleepDurationGoal", "AppleSleepingBreathingDisturbances",
	},
	BucketSymptoms: {
		"AbdominalCramps", "Acne", "AppetiteChanges", "BladderIncontinence", "Bloating",
		"BreastPain", "ChestTightnessOrPain", "Chills", "Constipation", "Coughing", "Diarrhea",
		"Dizziness", "DrySkin", "Fainting", "Fatigue", "Fever", "GeneralizedBodyAche",
		"HairLoss", "Headache", "Heartburn", "HotFlashes", "LossOfSmell", "LossOfTaste",
		"LowerBackPain", "MemoryLapse", "MoodChanges", "Nausea", "NightSweats",
		"PelvicPain", "RapidPoundingOrFlutteringHeartbeat", "RunnyNose", "ShortnessOfBreath",
		"SinusCongestion", "SkippedHeartbeat", "SleepChanges", "SoreThroat", "VaginalDryness",
		"Vomiting", "Wheezing",
	},
	BucketHealth: {
		"BodyMass", "BodyMassIndex", "BodyFatPercentage", "LeanBodyMass", "Height",
		"WaistCircumference", "DietaryWater", "DietaryEnergyConsumed", "DietaryProtein",
		"DietaryCarbohydrates", "DietaryFatTotal", "DietarySugar", "DietaryCaffeine",
		"DietaryFiber", "DietarySodium", "MindfulSession", "ToothbrushingEvent",
		"HandwashingEvent", "NumberOfTimesFallen", "InhalerUsage", "BloodAlcoholContent",
		"NumberOfAlcoholicBeverages", "InsulinDelivery", "ElectrodermalActivity",
		"MenstrualFlow", "IntermenstrualBleeding", "OvulationTestResult", "SexualActivity",
		"CervicalMucusQuality", "Pregnancy", "Lactation", "Contraceptive",
	},
}

var bucketOf = func() map[string]Bucket {
	m := make(map[string]Bucket)
	for b, names := range bucketMembers {
		for _, n := range names {
			m[n] = b
		}
	}
	return m
}()

// Router assigns record type names to buckets and remembers every type it
// could not place.
type Router struct {
	log *log.Entry

	mu           sync.Mutex
	unclassified map[string]int
}

func NewRouter(logger *log.Entry) *Router {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Router{log: logger, unclassified: make(map[string]int)}
}

// Route returns the bucket of typeName. Unknown names go to BucketUnclassified.
func (r *Router) Route(typeName string) Bucket {
	if b, ok := bucketOf[typeName]; ok {
		return b
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unclassified[typeName] == 0 {
		r.log.WithField("type", typeName).Warn("record type has no bucket, routing to unclassified")
	}
	r.unclassified[typeName]++
	return BucketUnclassified
}

// Unclassified returns how many records of each unknown type were routed.
func (r *Router) Unclassified() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.unclassified))
	for k, v := range r.unclassified {
		out[k] = v
	}
	return out
}

// UnclassifiedTypes returns the unknown type names in sorted order.
func (r *Router) UnclassifiedTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.unclassified))
	for k := range r.unclassified {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// StaticBucket looks typeName up without recording anything.
func StaticBucket(typeName string) Bucket {
	if b, ok := bucketOf[typeName]; ok {
		return b
	}
	return BucketUnclassified
}
