// Package validation checks submitted request fields before any use case runs.
package validation

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// text accepts string values only
	_ = v.RegisterValidation("text", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String
	})
	// integer accepts signed and unsigned integer values only
	_ = v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		default:
			return false
		}
	})
	return v
}

// Rule declares one required field and the message reported when it is missing
type Rule struct {
	Field   string
	Message string

	// Tag is an optional go-playground/validator tag applied to a present value
	Tag string
	// TagMessage is reported when Tag fails; Message is used when empty
	TagMessage string
}

// Mode controls how a present JSON null is treated
type Mode int

const (
	// Lenient treats a field as missing only when its key is absent
	Lenient Mode = iota
	// Strict also treats a present-but-null value as missing
	Strict
)

// Request messages
const (
	MsgEmailRequired       = "'email' field is required"
	MsgNameRequired        = "'name' field is required"
	MsgDescriptionRequired = "'description' field is required"
	MsgPointsRequired      = "'points' field is required"
	MsgPointsPositive      = "'points' field must be greater than 0"
	MsgNegativeBalance     = "Points transactions cannot leave a user with a negative points total"
	MsgBalanceOverflow     = "Points transactions cannot exceed the maximum points total"
)

// UserRules validates a user creation body
var UserRules = []Rule{
	{Field: "email", Message: MsgEmailRequired, Tag: "text,required"},
	{Field: "name", Message: MsgNameRequired, Tag: "text,required"},
}

// PointsRules validates an earn or redeem body. Points must be a positive integer.
var PointsRules = []Rule{
	{Field: "description", Message: MsgDescriptionRequired, Tag: "text,required"},
	{Field: "points", Message: MsgPointsRequired, Tag: "integer,gt=0", TagMessage: MsgPointsPositive},
}

// RequiredFields returns one message per failing rule, in rule order.
// An empty result means the data is valid. It has no side effects.
func RequiredFields(data map[string]any, rules []Rule, mode Mode) []string {
	var messages []string

	for _, rule := range rules {
		value, present := data[rule.Field]
		if !present || (mode == Strict && value == nil) {
			messages = append(messages, rule.Message)
			continue
		}

		if rule.Tag == "" {
			continue
		}

		if err := validate.Var(Normalize(value), rule.Tag); err != nil {
			if rule.TagMessage != "" {
				messages = append(messages, rule.TagMessage)
			} else {
				messages = append(messages, rule.Message)
			}
		}
	}

	return messages
}

// Normalize turns a json.Number that fits in an int64 into an int64. Every
// other value, including fractional or out of range numbers, is returned as is.
func Normalize(value any) any {
	n, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	return value
}
