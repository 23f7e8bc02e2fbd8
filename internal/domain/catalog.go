package domain

import "strings"

// Category enumerates the kinds of work a request can ask for.
type Category string

const (
	CategoryElectric   Category = "Electric"
	CategoryMachinery  Category = "Machinery"
	CategoryRepair     Category = "Repair"
	CategorySecurity   Category = "Security"
	CategoryMoving     Category = "Moving"
	CategoryCleaning   Category = "Cleaning"
	CategoryFireSystem Category = "FireSystem"
	CategoryOther      Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectric,
	CategoryMachinery,
	CategoryRepair,
	CategorySecurity,
	CategoryMoving,
	CategoryCleaning,
	CategoryFireSystem,
	CategoryOther,
}

// Label is the name shown to requesters.
func (c Category) Label() string {
	switch c {
	case CategoryElectric:
		return "Electric"
	case CategoryMachinery:
		return "Machinery (AC)"
	case CategoryRepair:
		return "Repair/Maintenance"
	case CategorySecurity:
		return "Security (Gate)"
	case CategoryMoving:
		return "Easy Stuff Moving"
	case CategoryCleaning:
		return "Cleaning"
	case CategoryFireSystem:
		return "Fire System"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts the code or the label, case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(raw, string(c)) || strings.EqualFold(raw, c.Label()) {
			return c, true
		}
	}
	return "", false
}

// Location enumerates the campus buildings and areas.
type Location string

const (
	LocationH3Outdoor      Location = "H-3 Outdoor"
	LocationH4Outdoor      Location = "H-4 Outdoor"
	LocationPAC            Location = "PAC"
	LocationSchoolCenter   Location = "School Center"
	LocationSTMEV          Location = "STMEV"
	LocationMSPod          Location = "MS Pod"
	LocationSSPod          Location = "SS Pod"
	LocationUJS            Location = "UJS"
	LocationWellnessCenter Location = "Wellness Center"
	LocationShinSaimdang   Location = "Shin Saimdang"
	LocationSherborn       Location = "Sherborn"
	LocationSeondeok       Location = "Seondeok"
	LocationOther          Location = "Other"
)

// Locations lists every location in display order.
var Locations = []Location{
	LocationH3Outdoor,
	LocationH4Outdoor,
	LocationPAC,
	LocationSchoolCenter,
	LocationSTMEV,
	LocationMSPod,
	LocationSSPod,
	LocationUJS,
	LocationWellnessCenter,
	LocationShinSaimdang,
	LocationSherborn,
	LocationSeondeok,
	LocationOther,
}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLocation matches case-insensitively.
func ParseLocation(raw string) (Location, bool) {
	raw = strings.TrimSpace(raw)
	for _, l := range Locations {
		if strings.EqualFold(raw, string(l)) {
			return l, true
		}
	}
	return "", false
}

// Urgency enumerates how soon a request needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Urgencies lists every urgency from lowest to highest.
var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// ParseUrgency matches case-insensitively.
func ParseUrgency(raw string) (Urgency, bool) {
	raw = strings.TrimSpace(raw)
	for _, u := range Urgencies {
		if strings.EqualFold(raw, string(u)) {
			return u, true
		}
	}
	return "", false
}
