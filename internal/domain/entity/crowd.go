package entity

// CrowdLevel is how busy a venue is in a given time slot
type CrowdLevel string

const (
	CrowdEmpty   CrowdLevel = "empty"
	CrowdNormal  CrowdLevel = "normal"
	CrowdCrowded CrowdLevel = "crowded"
	CrowdUnknown CrowdLevel = "unknown"
)

// Valid reports whether the level is one of the known values
func (l CrowdLevel) Valid() bool {
	switch l {
	case CrowdEmpty, CrowdNormal, CrowdCrowded, CrowdUnknown:
		return true
	}

	return false
}

// CrowdSlot names one of the six fixed time slots
type CrowdSlot string

const (
	CrowdWeekdayMorning   CrowdSlot = "weekdayMorning"
	CrowdWeekdayAfternoon CrowdSlot = "weekdayAfternoon"
	CrowdWeekdayEvening   CrowdSlot = "weekdayEvening"
	CrowdWeekendMorning   CrowdSlot = "weekendMorning"
	CrowdWeekendAfternoon CrowdSlot = "weekendAfternoon"
	CrowdWeekendEvening   CrowdSlot = "weekendEvening"
)

// CrowdSlots lists every slot in display order
var CrowdSlots = []CrowdSlot{
	CrowdWeekdayMorning,
	CrowdWeekdayAfternoon,
	CrowdWeekdayEvening,
	CrowdWeekendMorning,
	CrowdWeekendAfternoon,
	CrowdWeekendEvening,
}

// CrowdMatrix holds the crowd level for weekday/weekend x morning/afternoon/evening.
type CrowdMatrix struct {
	WeekdayMorning   CrowdLevel `json:"weekdayMorning"`
	WeekdayAfternoon CrowdLevel `json:"weekdayAfternoon"`
	WeekdayEvening   CrowdLevel `json:"weekdayEvening"`
	WeekendMorning   CrowdLevel `json:"weekendMorning"`
	WeekendAfternoon CrowdLevel `json:"weekendAfternoon"`
	WeekendEvening   CrowdLevel `json:"weekendEvening"`
}

// UniformCrowdMatrix returns a matrix with every slot set to level
func UniformCrowdMatrix(level CrowdLevel) CrowdMatrix {
	return CrowdMatrix{
		WeekdayMorning:   level,
		WeekdayAfternoon: level,
		WeekdayEvening:   level,
		WeekendMorning:   level,
		WeekendAfternoon: level,
		WeekendEvening:   level,
	}
}

// Get returns the level for a slot; ok is false for an unknown slot
func (m *CrowdMatrix) Get(slot CrowdSlot) (CrowdLevel, bool) {
	p := m.field(slot)
	if p == nil {
		return "", false
	}

	return *p, true
}

// Set updates one slot; it returns false for an unknown slot
func (m *CrowdMatrix) Set(slot CrowdSlot, level CrowdLevel) bool {
	p := m.field(slot)
	if p == nil {
		return false
	}
	*p = level

	return true
}

// Normalize replaces empty or unknown values with the given fallback
func (m *CrowdMatrix) Normalize(fallback CrowdLevel) {
	for _, slot := range CrowdSlots {
		p := m.field(slot)
		if !p.Valid() {
			*p = fallback
		}
	}
}

func (m *CrowdMatrix) field(slot CrowdSlot) *CrowdLevel {
	switch slot {
	case CrowdWeekdayMorning:
		return &m.WeekdayMorning
	case CrowdWeekdayAfternoon:
		return &m.WeekdayAfternoon
	case CrowdWeekdayEvening:
		return &m.WeekdayEvening
	case CrowdWeekendMorning:
		return &m.WeekendMorning
	case CrowdWeekendAfternoon:
		return &m.WeekendAfternoon
	case CrowdWeekendEvening:
		return &m.WeekendEvening
	}

	return nil
}
