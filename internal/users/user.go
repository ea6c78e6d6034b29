package users

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/2beens/gymtracker/internal/apperr"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

type FitnessGoal string

const (
	FitnessGoalWeightLoss     FitnessGoal = "weight_loss"
	FitnessGoalMuscleGain     FitnessGoal = "muscle_gain"
	FitnessGoalGeneralFitness FitnessGoal = "general_fitness"
)

func (g FitnessGoal) IsValid() bool {
	switch g {
	case FitnessGoalWeightLoss, FitnessGoalMuscleGain, FitnessGoalGeneralFitness:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

func (l ExperienceLevel) IsValid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

const (
	minPasswordLength = 8
	// bcrypt input limit
	maxPasswordLength = 72
)

type User struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Age             *int            `json:"age"`
	Gender          *Gender         `json:"gender"`
	FitnessGoal     FitnessGoal     `json:"fitness_goal"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Role            Role            `json:"role"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type RegisterRequest struct {
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	PasswordConfirm string          `json:"password_confirm"`
	Name            string          `json:"name"`
	Age             *int            `json:"age"`
	Gender          *Gender         `json:"gender"`
	FitnessGoal     FitnessGoal     `json:"fitness_goal"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
}

// Validate checks the request and fills in the defaults for the optional enums.
func (req *RegisterRequest) Validate() error {
	fields := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil || !strings.Contains(req.Email, "@") {
		fields["email"] = "enter a valid email address"
	}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if msg := passwordProblem(req.Password); msg != "" {
		fields["password"] = msg
	} else if req.Password != req.PasswordConfirm {
		fields["password_confirm"] = "Passwords do not match"
	}
	validateProfileFields(fields, req.Age, req.Gender, &req.FitnessGoal, &req.ExperienceLevel)

	if req.FitnessGoal == "" {
		req.FitnessGoal = FitnessGoalGeneralFitness
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = ExperienceBeginner
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid registration", fields)
	}
	return nil
}

// ProfileUpdate carries the fields an owner may change. Email and role are not among them.
type ProfileUpdate struct {
	Name            *string          `json:"name"`
	Age             *int             `json:"age"`
	Gender          *Gender          `json:"gender"`
	FitnessGoal     *FitnessGoal     `json:"fitness_goal"`
	ExperienceLevel *ExperienceLevel `json:"experience_level"`
}

func (u *ProfileUpdate) Validate() error {
	fields := map[string]string{}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		fields["name"] = "must not be empty"
	}
	var goal FitnessGoal
	if u.FitnessGoal != nil {
		goal = *u.FitnessGoal
		if goal == "" {
			fields["fitness_goal"] = "invalid fitness goal"
		}
	}
	var level ExperienceLevel
	if u.ExperienceLevel != nil {
		level = *u.ExperienceLevel
		if level == "" {
			fields["experience_level"] = "invalid experience level"
		}
	}
	validateProfileFields(fields, u.Age, u.Gender, &goal, &level)
	if len(fields) > 0 {
		return apperr.Validation("invalid profile", fields)
	}
	return nil
}

// Apply merges the update onto a copy of user.
func (u *ProfileUpdate) Apply(user User) User {
	if u.Name != nil {
		user.Name = strings.TrimSpace(*u.Name)
	}
	if u.Age != nil {
		user.Age = u.Age
	}
	if u.Gender != nil {
		user.Gender = u.Gender
	}
	if u.FitnessGoal != nil {
		user.FitnessGoal = *u.FitnessGoal
	}
	if u.ExperienceLevel != nil {
		user.ExperienceLevel = *u.ExperienceLevel
	}
	return user
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

func (req *ChangePasswordRequest) Validate() error {
	fields := map[string]string{}
	if req.OldPassword == "" {
		fields["old_password"] = "required"
	}
	if msg := passwordProblem(req.NewPassword); msg != "" {
		fields["new_password"] = msg
	} else if req.NewPassword != req.NewPasswordConfirm {
		fields["new_password_confirm"] = "Passwords do not match"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid password change", fields)
	}
	return nil
}

// ListFilter narrows the admin customer listing.
type ListFilter struct {
	IsActive        *bool
	Gender          Gender
	FitnessGoal     FitnessGoal
	ExperienceLevel ExperienceLevel
	Search          string
}

type Stats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	NewUsersToday    int `json:"new_users_today"`
	NewUsersThisWeek int `json:"new_users_this_week"`
}

func passwordProblem(password string) string {
	if len(password) < minPasswordLength {
		return "must be at least 8 characters"
	}
	if len(password) > maxPasswordLength {
		return "must be at most 72 bytes"
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return "must not be entirely numeric"
}

func validateProfileFields(fields map[string]string, age *int, gender *Gender, goal *FitnessGoal, level *ExperienceLevel) {
	if age != nil && (*age <= 0 || *age >= 150) {
		fields["age"] = "must be between 1 and 149"
	}
	if gender != nil && !gender.IsValid() {
		fields["gender"] = "invalid gender"
	}
	if *goal != "" && !goal.IsValid() {
		fields["fitness_goal"] = "invalid fitness goal"
	}
	if *level != "" && !level.IsValid() {
		fields["experience_level"] = "invalid experience level"
	}
}
