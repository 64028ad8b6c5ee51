package validation

import (
	"strconv"
	"strings"
)

// SignInForm is the sign-in page submission
type SignInForm struct {
	Email     string `label:"Email" validate:"notblank"`
	Password  string `label:"Password" validate:"required"`
	LoginType string `label:"Login type" validate:"oneof=student parent professor"`
}

// RegistrationForm is the registration page submission
type RegistrationForm struct {
	Name            string `label:"Full name" validate:"notblank"`
	Email           string `label:"Email" validate:"required,email"`
	Password        string `label:"Password" validate:"required,min=6,hasupper"`
	ConfirmPassword string `label:"Confirm password" validate:"required,eqfield=Password"`
}

// ResetPasswordForm is the password reset page submission
type ResetPasswordForm struct {
	Email string `label:"Email" validate:"notblank"`
}

// BoosterForm is the performance booster generator submission
type BoosterForm struct {
	AssignmentID    string
	Subject         string `label:"Subject" validate:"notblank"`
	AssignmentTitle string `label:"Assignment title" validate:"notblank"`
	Grade           string `label:"Grade" validate:"required,percent"`
	Feedback        string `label:"Feedback" validate:"notblank"`
}

// ScheduleForm adds an exam or deadline to the schedule
type ScheduleForm struct {
	Name string `label:"Name" validate:"notblank"`
	Date string `label:"Due date" validate:"required,datetime=2006-01-02"`
}

// ProfileForm edits the display name
type ProfileForm struct {
	Name string `label:"Full name" validate:"notblank,max=80"`
}

// GradeValue parses the validated grade
func (f BoosterForm) GradeValue() float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(f.Grade), 64)
	return v
}

// ValidateSignIn checks the sign-in form. The login type defaults to student.
func ValidateSignIn(form *SignInForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if form.LoginType == "" {
		form.LoginType = "student"
	}
	return Struct(form)
}

// ValidateRegistration checks the registration form against the password rules
func ValidateRegistration(form *RegistrationForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	return Struct(form)
}

// ValidateResetPassword checks the reset form
func ValidateResetPassword(form *ResetPasswordForm) error {
	form.Email = strings.TrimSpace(form.Email)
	return Struct(form)
}

// ValidateBooster checks the booster generator form
func ValidateBooster(form *BoosterForm) error {
	form.Subject = strings.TrimSpace(form.Subject)
	form.AssignmentTitle = strings.TrimSpace(form.AssignmentTitle)
	return Struct(form)
}

// ValidateSchedule checks a new schedule item
func ValidateSchedule(form *ScheduleForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Date = strings.TrimSpace(form.Date)
	return Struct(form)
}

// ValidateProfile checks the profile edit form
func ValidateProfile(form *ProfileForm) error {
	form.Name = strings.TrimSpace(form.Name)
	return Struct(form)
}

// PasswordRules describes each registration password rule and whether
// password currently satisfies it, for the live checklist on the form.
func PasswordRules(password string) []PasswordRule {
	return []PasswordRule{
		{Label: "At least 6 characters", Met: len([]rune(password)) >= 6},
		{Label: "At least one uppercase letter", Met: containsUpper(password)},
	}
}

// PasswordRule is one line of the password checklist
type PasswordRule struct {
	Label string
	Met   bool
}

// containsUpper matches an ASCII capital letter anywhere in s
func containsUpper(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
