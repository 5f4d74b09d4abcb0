package services

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ProjectAssessment is the project-requirements form a prospective client
// submits. It is never modified after it has been stored.
type ProjectAssessment struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Company            string   `json:"company"`
	Phone              string   `json:"phone"`
	ProjectType        string   `json:"projectType"`
	Description        string   `json:"description"`
	TargetAudience     string   `json:"targetAudience"`
	Platforms          []string `json:"platforms"`
	MustHaveFeatures   []string `json:"mustHaveFeatures"`
	NiceToHaveFeatures []string `json:"niceToHaveFeatures"`
	DesignStyle        string   `json:"designStyle"`
	Integrations       []string `json:"integrations"`
	DataStorage        string   `json:"dataStorage"`
	Authentication     string   `json:"authentication"`
	Timeline           string   `json:"timeline"`
	BudgetRange        string   `json:"budgetRange"`
	NeedsDomain        bool     `json:"needsDomain"`
	NeedsHosting       bool     `json:"needsHosting"`
	AdditionalNotes    string   `json:"additionalNotes"`
}

const maxIntegrations = 20

// Normalize trims free-text fields, lower-cases the email and drops empty or
// duplicate list entries. Validate expects a normalized assessment.
func (a *ProjectAssessment) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Company = strings.TrimSpace(a.Company)
	a.Phone = strings.TrimSpace(a.Phone)
	a.ProjectType = strings.TrimSpace(a.ProjectType)
	a.Description = strings.TrimSpace(a.Description)
	a.TargetAudience = strings.TrimSpace(a.TargetAudience)
	a.DesignStyle = strings.TrimSpace(a.DesignStyle)
	a.DataStorage = strings.TrimSpace(a.DataStorage)
	a.Authentication = strings.TrimSpace(a.Authentication)
	a.Timeline = strings.TrimSpace(a.Timeline)
	a.BudgetRange = strings.TrimSpace(a.BudgetRange)
	a.AdditionalNotes = strings.TrimSpace(a.AdditionalNotes)
	a.Platforms = dedupe(a.Platforms)
	a.MustHaveFeatures = dedupe(a.MustHaveFeatures)
	a.NiceToHaveFeatures = dedupe(a.NiceToHaveFeatures)
	a.Integrations = dedupe(a.Integrations)
}

// Validate checks every field against the rate card enumerations. The
// returned error, when non-nil, is a validation.Errors keyed by JSON name.
func (a ProjectAssessment) Validate() error {
	features := optionValues(FeatureOptions())
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&a.Email, validation.Required, is.EmailFormat),
		validation.Field(&a.Company, validation.RuneLength(0, 120)),
		validation.Field(&a.Phone, validation.RuneLength(0, 40)),
		validation.Field(&a.ProjectType, validation.Required, validation.In(optionValues(ProjectTypeOptions)...)),
		validation.Field(&a.Description, validation.Required, validation.RuneLength(20, 5000)),
		validation.Field(&a.TargetAudience, validation.RuneLength(0, 500)),
		validation.Field(&a.Platforms, validation.Required, validation.Each(validation.In(optionValues(PlatformOptions)...))),
		validation.Field(&a.MustHaveFeatures, validation.Each(validation.In(features...))),
		validation.Field(&a.NiceToHaveFeatures, validation.Each(validation.In(features...))),
		validation.Field(&a.DesignStyle, validation.Required, validation.In(optionValues(DesignStyleOptions)...)),
		validation.Field(&a.Integrations,
			validation.Length(0, maxIntegrations),
			validation.Each(validation.RuneLength(1, 60)),
		),
		validation.Field(&a.DataStorage, validation.Required, validation.In(optionValues(DataStorageOptions)...)),
		validation.Field(&a.Authentication, validation.Required, validation.In(optionValues(AuthenticationOptions)...)),
		validation.Field(&a.Timeline, validation.Required, validation.In(optionValues(TimelineOptions)...)),
		validation.Field(&a.BudgetRange, validation.Required, validation.In(optionValues(BudgetRangeOptions)...)),
		validation.Field(&a.AdditionalNotes, validation.RuneLength(0, 2000)),
	)
}

// FieldErrors flattens a validation error into a field -> message map. Errors
// that are not field-level end up under the "_" key.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	if err == nil {
		return fields
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			fields[field] = ferr.Error()
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

// ClientDisplayName returns the company when present, otherwise the contact name.
func (a ProjectAssessment) ClientDisplayName() string {
	if a.Company != "" {
		return a.Company
	}
	return a.Name
}

// FeatureCount is the number of distinct features across both lists.
func (a ProjectAssessment) FeatureCount() int {
	seen := make(map[string]struct{}, len(a.MustHaveFeatures)+len(a.NiceToHaveFeatures))
	for _, f := range a.MustHaveFeatures {
		seen[f] = struct{}{}
	}
	for _, f := range a.NiceToHaveFeatures {
		seen[f] = struct{}{}
	}
	return len(seen)
}

func (a ProjectAssessment) String() string {
	return fmt.Sprintf("%s <%s> %s", a.Name, a.Email, a.ProjectType)
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
