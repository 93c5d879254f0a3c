package student

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ttuacm/sdc-backend/core"
)

var (
	classificationTag  = "classification"
	classificationText = fmt.Sprintf("must be one of: %s", strings.Join(Classifications, ", "))

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"
)

// InitValidators registers the student validators. Must be called once at startup.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(classificationTag, classificationValidation)
	core.RegisterCustomTranslation(validate, translator, classificationTag, classificationText)

	validate.RegisterStructValidation(passwordStructValidation(), NewStudent{})
	validate.RegisterStructValidation(passwordStructValidation(), ResetStudentPassword{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
}

func classificationValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, c := range Classifications {
		if strings.EqualFold(c, val) {
			return true
		}
	}
	return false
}

func passwordStructValidation() validator.StructLevelFunc {
	return func(sl validator.StructLevel) {
		var pwd string
		switch obj := sl.Current().Interface().(type) {
		case NewStudent:
			pwd = obj.Password
		case ResetStudentPassword:
			pwd = obj.Password
		default:
			return
		}
		if pwd == "" {
			return // `required` catches this
		}

		if len(pwd) < pwdMinLen {
			sl.ReportError(pwd, "password", "Password", pwdMinLenTag, "")
		}
		if strings.ContainsAny(pwd, " \t\n") {
			sl.ReportError(pwd, "password", "Password", pwdNoSpaceTag, "")
		}
		if allNumeric(pwd) {
			sl.ReportError(pwd, "password", "Password", pwdNotAllNumTag, "")
		}
	}
}

func allNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
