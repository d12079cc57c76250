package applehealth

import (
	"regexp"
	"strings"
)

// Prefix is a HealthKit identifier prefix.
type Prefix string

const (
	PrefixBiologicalSex          Prefix = "HKBiologicalSex"
	PrefixBloodType              Prefix = "HKBloodType"
	PrefixSkinType               Prefix = "HKFitzpatrickSkinType"
	PrefixCharacteristicType     Prefix = "HKCharacteristicTypeIdentifier"
	PrefixCategoryType           Prefix = "HKCategoryTypeIdentifier"
	PrefixWorkoutActivityType    Prefix = "HKWorkoutActivityType"
	PrefixWorkoutEventType       Prefix = "HKWorkoutEventType"
	PrefixQuantityTypeIdentifier Prefix = "HKQuantityTypeIdentifier"
	PrefixMetadataKey            Prefix = "HKMetadataKey"
	PrefixHealthKit              Prefix = "HK"
)

// StripPrefix removes p from the front of value. A value without the prefix is returned as is.
func StripPrefix(p Prefix, value string) string {
	return strings.TrimPrefix(value, string(p))
}

// ResolveRecordTypePrefix turns a record type identifier into its bare name,
// e.g. HKQuantityTypeIdentifierDietaryWater -> DietaryWater.
func ResolveRecordTypePrefix(value string) string {
	if strings.HasPrefix(value, string(PrefixQuantityTypeIdentifier)) {
		return StripPrefix(PrefixQuantityTypeIdentifier, value)
	}
	return StripPrefix(PrefixCategoryType, value)
}

// StripMetadataPrefix removes HKMetadataKey when present, otherwise the bare HK prefix.
func StripMetadataPrefix(value string) string {
	if strings.Contains(value, string(PrefixMetadataKey)) {
		return StripPrefix(PrefixMetadataKey, value)
	}
	return StripPrefix(PrefixHealthKit, value)
}

var deviceNamePattern = regexp.MustCompile(`name:([^,]+)`)

// ExtractDeviceName pulls the name out of an encoded HKDevice descriptor:
//
//	<<HKDevice: 0x2825cf520>, name:Apple Watch, manufacturer:Apple Inc., ...>
func ExtractDeviceName(raw string) string {
	m := deviceNamePattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}
