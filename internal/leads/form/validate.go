// Package form validates and submits the lead capture form.
package form

import (
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"leadportal/platform/validator"
)

// Field keys, in the order the form shows them.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldFeedback = "feedback"
)

var fieldOrder = []string{FieldName, FieldEmail, FieldPhone, FieldFeedback}

// Input is the lead form as typed by the user.
type Input struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,leademail"`
	Phone    string `json:"phone" form:"phone" validate:"required,phone10"`
	Feedback string `json:"feedback" form:"feedback" validate:"required"`
}

// Trimmed returns the input with surrounding whitespace removed from every field.
func (in Input) Trimmed() Input {
	return Input{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Feedback: strings.TrimSpace(in.Feedback),
	}
}

// FieldErrors maps a field key to its message. At most one message per field.
type FieldErrors map[string]string

// Fields returns the failing field keys in form order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for _, f := range fieldOrder {
		if _, ok := fe[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Messages returns the messages in form order.
func (fe FieldErrors) Messages() []string {
	out := make([]string, 0, len(fe))
	for _, f := range fe.Fields() {
		out = append(out, fe[f])
	}
	return out
}

var messages = map[string]map[string]string{
	FieldName:     {"required": "Name is required"},
	FieldEmail:    {"required": "Email is required", "leademail": "Invalid email format"},
	FieldPhone:    {"required": "Phone number is required", "phone10": "Phone number must be 10 digits"},
	FieldFeedback: {"required": "Feedback is required"},
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("leademail", validateLeadEmail)
	_ = validate.RegisterValidation("phone10", validatePhone10)
}

func validateLeadEmail(fl playground.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func validatePhone10(fl playground.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 10 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// Validate checks the input as given; callers trim first. It returns nil
// when every field passes.
func Validate(in Input) FieldErrors {
	violations, err := validate.Violations(in)
	if err != nil {
		// Only reachable on a programming error in the struct tags.
		return FieldErrors{FieldName: err.Error()}
	}
	if len(violations) == 0 {
		return nil
	}

	errs := make(FieldErrors, len(violations))
	for _, v := range violations {
		key := strings.ToLower(v.Field)
		msg, ok := messages[key][v.Tag]
		if !ok {
			continue
		}
		errs[key] = msg
	}
	return errs
}
