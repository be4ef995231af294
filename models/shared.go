package models

import "time"

// ServiceCategory enumerates the service categories the marketplace bills by.
type ServiceCategory string

const (
	CategoryCleaning   ServiceCategory = "cleaning"
	CategoryPlumbing   ServiceCategory = "plumbing"
	CategoryElectrical ServiceCategory = "electrical"
	CategoryGardening  ServiceCategory = "gardening"
	CategoryCooking    ServiceCategory = "cooking"
	CategoryChildcare  ServiceCategory = "childcare"
	CategoryLaundry    ServiceCategory = "laundry"
	CategoryBeauty     ServiceCategory = "beauty"
	CategoryTutoring   ServiceCategory = "tutoring"
	CategoryMoving     ServiceCategory = "moving"
)

// AllCategories returns every billable category, in a stable order.
func AllCategories() []ServiceCategory {
	return []ServiceCategory{
		CategoryCleaning, CategoryPlumbing, CategoryElectrical, CategoryGardening,
		CategoryCooking, CategoryChildcare, CategoryLaundry, CategoryBeauty,
		CategoryTutoring, CategoryMoving,
	}
}

// ValidCategory reports whether c is a known service category.
func ValidCategory(c ServiceCategory) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Province enumerates the service areas.
type Province string

const (
	ProvinceAdamawa   Province = "adamawa"
	ProvinceCentre    Province = "centre"
	ProvinceEast      Province = "east"
	ProvinceFarNorth  Province = "far_north"
	ProvinceLittoral  Province = "littoral"
	ProvinceNorth     Province = "north"
	ProvinceNorthwest Province = "northwest"
	ProvinceSouth     Province = "south"
	ProvinceSouthwest Province = "southwest"
	ProvinceWest      Province = "west"
)

// DayOfWeek is the recurring-schedule weekday.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DayFromWeekday maps time.Weekday (Sun=0..Sat=6) to DayOfWeek.
func DayFromWeekday(w time.Weekday) DayOfWeek {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}
