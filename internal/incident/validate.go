package incident

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/garnizeh/hersafety/internal/apperr"
	"github.com/garnizeh/hersafety/pkg/models"
)

const (
	minLocationLen    = 5
	minDescriptionLen = 10
	maxDescriptionLen = 500
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
)

// normalizeDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns
// the calendar date.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly), true
	}
	if !datePattern.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", false
	}
	return s, true
}

// normalizeTime accepts HH:MM or HH:MM:SS and always returns HH:MM:SS.
func normalizeTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !timePattern.MatchString(s) {
		return "", false
	}
	if len(s) == len("15:04") {
		s += ":00"
	}
	return s, true
}

func typeList() string {
	names := make([]string, len(models.IncidentTypes))
	for i, t := range models.IncidentTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func statusList() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func checkDate(v string) (string, *apperr.FieldError) {
	d, ok := normalizeDate(v)
	if !ok {
		return "", &apperr.FieldError{Field: "date", Message: "Date must be a valid calendar date in YYYY-MM-DD format"}
	}
	return d, nil
}

func checkTime(v string) (string, *apperr.FieldError) {
	t, ok := normalizeTime(v)
	if !ok {
		return "", &apperr.FieldError{Field: "time", Message: "Time must be in HH:MM or HH:MM:SS format"}
	}
	return t, nil
}

func checkLocation(v string) (string, *apperr.FieldError) {
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) < minLocationLen {
		return "", &apperr.FieldError{Field: "location", Message: fmt.Sprintf("Location must be at least %d characters", minLocationLen)}
	}
	return v, nil
}

func checkDescription(v string) (string, *apperr.FieldError) {
	v = strings.TrimSpace(v)
	n := utf8.RuneCountInString(v)
	if n < minDescriptionLen || n > maxDescriptionLen {
		return "", &apperr.FieldError{Field: "description", Message: fmt.Sprintf("Description must be between %d and %d characters", minDescriptionLen, maxDescriptionLen)}
	}
	return v, nil
}

func checkType(v models.IncidentType) *apperr.FieldError {
	if !v.Valid() {
		return &apperr.FieldError{Field: "type", Message: "Type must be one of: " + typeList()}
	}
	return nil
}

func checkStatus(v models.Status) *apperr.FieldError {
	if !v.Valid() {
		return &apperr.FieldError{Field: "status", Message: "Status must be one of: " + statusList()}
	}
	return nil
}

// validateNew normalizes in and returns every rule it breaks.
func validateNew(in *NewIncident) []apperr.FieldError {
	var errs []apperr.FieldError
	add := func(fe *apperr.FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	var fe *apperr.FieldError
	in.Date, fe = checkDate(in.Date)
	add(fe)
	in.Time, fe = checkTime(in.Time)
	add(fe)
	in.Location, fe = checkLocation(in.Location)
	add(fe)
	in.Description, fe = checkDescription(in.Description)
	add(fe)
	add(checkType(in.Type))
	in.Reporter = strings.TrimSpace(in.Reporter)

	return errs
}

// validateUpdate applies the creation rules to every supplied field and
// normalizes them in place.
func validateUpdate(u *models.IncidentUpdate) []apperr.FieldError {
	var errs []apperr.FieldError
	add := func(fe *apperr.FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	if u.Date != nil {
		d, fe := checkDate(*u.Date)
		add(fe)
		u.Date = &d
	}
	if u.Location != nil {
		l, fe := checkLocation(*u.Location)
		add(fe)
		u.Location = &l
	}
	if u.Description != nil {
		d, fe := checkDescription(*u.Description)
		add(fe)
		u.Description = &d
	}
	if u.Type != nil {
		add(checkType(*u.Type))
	}
	if u.Status != nil {
		add(checkStatus(*u.Status))
	}
	if u.Reporter != nil {
		r := strings.TrimSpace(*u.Reporter)
		if r == "" {
			add(&apperr.FieldError{Field: "reporter", Message: "Reporter must not be empty"})
		}
		u.Reporter = &r
	}

	return errs
}
