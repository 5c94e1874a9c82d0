package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var participantIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.:@]+$`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` struct tags on v.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("field %s failed on %s", fe.Namespace(), fe.Tag())
		}
		return err
	}
	return nil
}

func ValidateParticipantID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("participant id is required")
	}
	if len(id) > 64 {
		return errors.New("participant id must be at most 64 characters")
	}
	if !participantIDRegex.MatchString(id) {
		return fmt.Errorf("participant id %q contains invalid characters", id)
	}
	return nil
}

// ValidateParticipantPair rejects self conversations and malformed ids.
func ValidateParticipantPair(a, b string) error {
	if err := ValidateParticipantID(a); err != nil {
		return err
	}
	if err := ValidateParticipantID(b); err != nil {
		return err
	}
	if a == b {
		return errors.New("participants must be distinct")
	}
	return nil
}
