package fiscal

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retail/backend/internal/domain/shared"
)

// AccessKeyLength is the full key length including the check digit
const AccessKeyLength = 44

// KeyParts holds the fields concatenated into a fiscal access key.
// All numeric fields are zero padded to their fixed widths:
// region(2) yymm(4) tax id(14) doc type(2) series(3) number(9)
// emission mode(1) control(8) check digit(1).
type KeyParts struct {
	RegionCode   string
	IssuedAt     time.Time
	IssuerTaxID  string
	DocType      DocumentType
	Series       int
	Number       int64
	EmissionMode int
	Control      int
}

// BuildAccessKey assembles the 44-character access key from its parts,
// appending the mod-11 check digit. The same parts always produce the
// same key.
func BuildAccessKey(parts KeyParts) (string, error) {
	if len(parts.RegionCode) != 2 || !allDigits(parts.RegionCode) {
		return "", shared.NewDomainError(shared.CodeValidation, "Region code must be 2 digits")
	}
	if len(parts.IssuerTaxID) != 14 || !allDigits(parts.IssuerTaxID) {
		return "", shared.NewDomainError(shared.CodeValidation, "Issuer tax ID must be 14 digits")
	}
	if !parts.DocType.IsValid() {
		return "", shared.NewDomainErrorf(shared.CodeValidation, "Unknown document type: %s", parts.DocType)
	}
	if parts.Series < 0 || parts.Series > 999 {
		return "", shared.NewDomainError(shared.CodeValidation, "Series must be between 0 and 999")
	}
	if parts.Number <= 0 || parts.Number > 999999999 {
		return "", shared.NewDomainError(shared.CodeValidation, "Document number must be between 1 and 999999999")
	}
	if parts.EmissionMode < 1 || parts.EmissionMode > 9 {
		return "", shared.NewDomainError(shared.CodeValidation, "Emission mode must be between 1 and 9")
	}
	if parts.Control < 0 || parts.Control > 99999999 {
		return "", shared.NewDomainError(shared.CodeValidation, "Control number must fit in 8 digits")
	}

	base := fmt.Sprintf("%s%s%s%s%03d%09d%d%08d",
		parts.RegionCode,
		parts.IssuedAt.Format("0601"),
		parts.IssuerTaxID,
		parts.DocType.Code(),
		parts.Series,
		parts.Number,
		parts.EmissionMode,
		parts.Control,
	)

	return base + string(rune('0'+ComputeCheckDigit(base))), nil
}

// ComputeCheckDigit computes the mod-11 check digit over a digit string.
// Weights cycle 2 through 9 from the rightmost digit leftward; remainders
// that would yield 10 or 11 map to 0.
func ComputeCheckDigit(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}

	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

// ValidateAccessKey checks the length, digit content, and check digit
func ValidateAccessKey(key string) error {
	if len(key) != AccessKeyLength {
		return shared.NewDomainErrorf(shared.CodeValidation, "Access key must be %d characters", AccessKeyLength)
	}
	if !allDigits(key) {
		return shared.NewDomainError(shared.CodeValidation, "Access key must contain only digits")
	}

	expected := ComputeCheckDigit(key[:AccessKeyLength-1])
	if int(key[AccessKeyLength-1]-'0') != expected {
		return shared.NewDomainError(shared.CodeValidation, "Access key check digit mismatch")
	}
	return nil
}

// NewControlNumber draws a random 8-digit control number
func NewControlNumber() int {
	return rand.IntN(100000000)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
