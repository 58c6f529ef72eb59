package types

import "fmt"

// ItemField names an editable field of a plan item
type ItemField string

const (
	ItemFieldTime     ItemField = "time"
	ItemFieldActivity ItemField = "activity"
)

// AllItemFields returns all editable plan item fields
func AllItemFields() []ItemField {
	return []ItemField{
		ItemFieldTime,
		ItemFieldActivity,
	}
}

// IsValid checks if the field may be edited. The id field is deliberately absent.
func (f ItemField) IsValid() bool {
	switch f {
	case ItemFieldTime,
		ItemFieldActivity:
		return true
	default:
		return false
	}
}

// String returns the string representation of the field
func (f ItemField) String() string {
	return string(f)
}

// ParseItemField parses a string into an ItemField
func ParseItemField(s string) (ItemField, error) {
	field := ItemField(s)
	if !field.IsValid() {
		return "", fmt.Errorf("invalid item field: %s", s)
	}
	return field, nil
}
