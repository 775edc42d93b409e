package student

import (
	"fmt"
	"strings"
)

// Field labels, in the order they appear on the back of the card.
const (
	FullName     = "Full Name"
	RollNo       = "Roll No"
	Branch       = "Branch"
	College      = "College"
	Address      = "Address"
	Mobile       = "Mobile"
	EmergencyNo  = "Emergency No"
	DateOfBirth  = "Date of Birth"
	BloodGroup   = "Blood Group"
	AdmittedYear = "Admitted Year"
)

// DefaultCollege is pre-filled into the College field of a fresh form.
const DefaultCollege = "Pillai College of Engineering"

// Labels lists every field of a record in display order.
var Labels = []string{
	FullName, RollNo, Branch, College, Address, Mobile,
	EmergencyNo, DateOfBirth, BloodGroup, AdmittedYear,
}

// RequiredLabels must be non-empty before a card is rendered.
var RequiredLabels = []string{FullName, RollNo, Branch}

// Fields maps a label to its free-text value.
type Fields map[string]string

// Record is one student: the ten labelled fields plus a photo reference
// (file path or http(s) URL).
type Record struct {
	Fields Fields `json:"fields"`
	Photo  string `json:"photo"`
}

// Defaults returns a field mapping with every label present and College pre-filled.
func Defaults(college string) Fields {
	f := make(Fields, len(Labels))
	for _, l := range Labels {
		f[l] = ""
	}
	if college == "" {
		college = DefaultCollege
	}
	f[College] = college
	return f
}

// IsLabel reports whether label names one of the ten fields.
func IsLabel(label string) bool {
	for _, l := range Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Get returns the trimmed value of label, "" when unset.
func (r Record) Get(label string) string {
	return strings.TrimSpace(r.Fields[label])
}

// Set stores value under label.
func (r *Record) Set(label, value string) error {
	if !IsLabel(label) {
		return fmt.Errorf("%w: %q", ErrUnknownField, label)
	}
	if r.Fields == nil {
		r.Fields = Fields{}
	}
	r.Fields[label] = value
	return nil
}

// Clone returns a deep copy so callers can't mutate a record held elsewhere.
func (r Record) Clone() Record {
	out := Record{Fields: make(Fields, len(r.Fields)), Photo: r.Photo}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// Trimmed returns a copy with every field value trimmed of surrounding whitespace.
func (r Record) Trimmed() Record {
	out := r.Clone()
	for k, v := range out.Fields {
		out.Fields[k] = strings.TrimSpace(v)
	}
	out.Photo = strings.TrimSpace(out.Photo)
	return out
}

// Validate checks the required fields and the photo reference.
func (r Record) Validate() error {
	var missing []string
	for _, l := range RequiredLabels {
		if r.Get(l) == "" {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	if strings.TrimSpace(r.Photo) == "" {
		return ErrMissingPhoto
	}
	return nil
}
