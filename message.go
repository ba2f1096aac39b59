package apicontract

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type messageRule struct {
	Rule
	msg string
}

// Message returns r with its failure message replaced by msg. The error code
// of ozzo errors is kept.
func Message(msg string, r Rule) Rule {
	return messageRule{Rule: r, msg: msg}
}

func (r messageRule) Validate(value any) error {
	err := r.Rule.Validate(value)
	if err == nil {
		return nil
	}
	var ve validation.Error
	if errors.As(err, &ve) {
		return validation.NewError(ve.Code(), r.msg)
	}
	return errors.New(r.msg)
}

func (r messageRule) unwrap() Rule { return r.Rule }
