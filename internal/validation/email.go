package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/types"
)

var validate = validator.New()

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// domainTypos maps frequently mistyped mail domains to their intended spelling
var domainTypos = map[string]string{
	"gmail.om":   "gmail.com",
	"gmail.co":   "gmail.com",
	"gmai.com":   "gmail.com",
	"gmial.com":  "gmail.com",
	"yahoo.co":   "yahoo.com",
	"yaho.com":   "yahoo.com",
	"outlok.com": "outlook.com",
	"hotmai.com": "hotmail.com",
}

var namePattern = regexp.MustCompile(`^[\p{L}\s'.-]+$`)

// checkEmail returns a message when the address is malformed, or "" when it is acceptable
func checkEmail(email string) string {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return "Please enter a valid email address"
	}
	if !emailPattern.MatchString(email) {
		return "Email domain is invalid"
	}
	return ""
}

// Advise returns non-blocking hints for a step, such as likely typos in an email domain.
// Advice never gates navigation.
func Advise(doc types.ResumeDocument, step types.Step) FieldErrorSet {
	hints := FieldErrorSet{}
	if step != types.StepPersonal {
		return hints
	}

	p := doc.Personal
	if local, domain, ok := strings.Cut(strings.TrimSpace(p.Email), "@"); ok {
		if fix, typo := domainTypos[strings.ToLower(domain)]; typo {
			hints = append(hints, FieldError{
				Field:   personalField("email"),
				Message: fmt.Sprintf("Did you mean %s@%s?", local, fix),
			})
		}
	}

	name := strings.TrimSpace(p.FullName)
	switch {
	case name == "":
	case len([]rune(name)) < 2:
		hints = append(hints, FieldError{Field: personalField("fullName"), Message: "Name looks too short"})
	case len([]rune(name)) > 50:
		hints = append(hints, FieldError{Field: personalField("fullName"), Message: "Name is longer than 50 characters"})
	case !namePattern.MatchString(name):
		hints = append(hints, FieldError{Field: personalField("fullName"), Message: "Name contains unusual characters"})
	}

	if phone := strings.TrimSpace(p.Phone); phone != "" && countDigits(phone) < 7 {
		hints = append(hints, FieldError{Field: personalField("phone"), Message: "Phone number looks incomplete"})
	}

	return hints
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
