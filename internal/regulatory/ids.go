// Package regulatory validates the fixed-format government identifiers
// that must appear on issued training certificates.
package regulatory

import "regexp"

// Field names reported by validation failures.
const (
	FieldCURP = "curp"
	FieldRFC  = "rfc"
	FieldNSS  = "nss"
)

var (
	// 4 letters, 6 digits, gender marker, 5 letters, 2 check characters.
	curpPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{6}[HM][A-Z]{5}[0-9A-Z]{2}$`)
	// 4 letters, 6 digits, 3 check characters (persona física).
	rfcPattern = regexp.MustCompile(`^[A-Z&Ñ]{4}[0-9]{6}[0-9A-Z]{3}$`)
	nssPattern = regexp.MustCompile(`^[0-9]{11}$`)
)

// ValidateCURP reports whether s is a well-formed CURP. Lowercase input
// is rejected: certificates must carry the registered uppercase form.
func ValidateCURP(s string) bool {
	return curpPattern.MatchString(s)
}

// ValidateRFC reports whether s is a well-formed 13-character RFC.
func ValidateRFC(s string) bool {
	return rfcPattern.MatchString(s)
}

// ValidateNSS reports whether s is a well-formed 11-digit NSS.
func ValidateNSS(s string) bool {
	return nssPattern.MatchString(s)
}

// FieldError describes a single malformed identifier.
type FieldError struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// CheckWorkerIDs validates all identifiers present on a worker record and
// returns one FieldError per malformed field. Empty RFC/NSS are tolerated
// at account level; the CURP is always required.
func CheckWorkerIDs(curp, rfc, nss string) []FieldError {
	var errs []FieldError
	if !ValidateCURP(curp) {
		errs = append(errs, FieldError{Field: FieldCURP, Value: curp})
	}
	if rfc != "" && !ValidateRFC(rfc) {
		errs = append(errs, FieldError{Field: FieldRFC, Value: rfc})
	}
	if nss != "" && !ValidateNSS(nss) {
		errs = append(errs, FieldError{Field: FieldNSS, Value: nss})
	}
	return errs
}
