package emergency

import (
	"strconv"
	"strings"

	"github.com/garnizeh/hersafety/internal/apperr"
)

// ParseLocation reads a "lat,lng" pair in decimal degrees.
func ParseLocation(s string) (lat, lng float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, apperr.Validation(apperr.FieldError{Field: "location", Message: "Location must be \"latitude,longitude\""})
	}

	var errs []apperr.FieldError
	lat, perr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if perr != nil || lat < -90 || lat > 90 {
		errs = append(errs, apperr.FieldError{Field: "location", Message: "Latitude must be a number between -90 and 90"})
	}
	lng, perr = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if perr != nil || lng < -180 || lng > 180 {
		errs = append(errs, apperr.FieldError{Field: "location", Message: "Longitude must be a number between -180 and 180"})
	}
	if len(errs) > 0 {
		return 0, 0, apperr.Validation(errs...)
	}

	return lat, lng, nil
}
