package tuition

import (
	"time"

	"tutorlink/models"
)

const timeOfDayLayout = "15:04"

// validateDaySlot checks one schedule slot: day within the week, both
// times well-formed "HH:mm", and from strictly before to (same day).
func validateDaySlot(slot models.DaySlot) error {
	if slot.Day < 0 || slot.Day > 6 {
		return validationErr("slot day must be between 0 and 6, got %d", slot.Day)
	}
	from, err := time.Parse(timeOfDayLayout, slot.From)
	if err != nil {
		return validationErr("slot 'from' must be HH:mm, got %q", slot.From)
	}
	to, err := time.Parse(timeOfDayLayout, slot.To)
	if err != nil {
		return validationErr("slot 'to' must be HH:mm, got %q", slot.To)
	}
	if !from.Before(to) {
		return validationErr("slot 'from' (%s) must be before 'to' (%s)", slot.From, slot.To)
	}
	return nil
}

// validateSchedule checks a non-empty ordered sequence of day slots.
func validateSchedule(schedule []models.DaySlot) error {
	if len(schedule) == 0 {
		return validationErr("schedule must contain at least one slot")
	}
	for _, slot := range schedule {
		if err := validateDaySlot(slot); err != nil {
			return err
		}
	}
	return nil
}

// validProposalRole reports whether the role may appear on a schedule
// proposal.
func validProposalRole(role string) bool {
	switch role {
	case models.RoleStudent, models.RoleGuardian, models.RoleTeacher:
		return true
	}
	return false
}

// subjectsIntersect reports whether the tutor teaches at least one of
// the tuition's required subjects.
func subjectsIntersect(required, offered []string) bool {
	for _, r := range required {
		for _, o := range offered {
			if r == o {
				return true
			}
		}
	}
	return false
}
