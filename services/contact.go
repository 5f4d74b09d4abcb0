package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ContactRequest is a message sent from the public contact form.
type ContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	BudgetRange string `json:"budgetRange"`
	Source      string `json:"source"`
}

func (c *ContactRequest) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Company = strings.TrimSpace(c.Company)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)
	c.BudgetRange = strings.TrimSpace(c.BudgetRange)
	c.Source = strings.TrimSpace(c.Source)
	if c.Source == "" {
		c.Source = "contact_form"
	}
}

func (c ContactRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.RuneLength(2, 100)),
		validation.Field(&c.Email, validation.Required, is.EmailFormat),
		validation.Field(&c.Company, validation.RuneLength(0, 120)),
		validation.Field(&c.Phone, validation.RuneLength(0, 40)),
		validation.Field(&c.Subject, validation.RuneLength(0, 200)),
		validation.Field(&c.Message, validation.Required, validation.RuneLength(10, 5000)),
		validation.Field(&c.BudgetRange, validation.In(optionValues(BudgetRangeOptions)...)),
		validation.Field(&c.Source, validation.Length(0, 50)),
	)
}

// ContactUpdate is an admin edit of a lead. Nil fields are left unchanged.
type ContactUpdate struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (u ContactUpdate) Validate() error {
	statuses := make([]any, len(LeadStatusOptions))
	for i, s := range LeadStatusOptions {
		statuses[i] = s
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.NilOrNotEmpty, validation.In(statuses...)),
		validation.Field(&u.Notes, validation.RuneLength(0, 5000)),
	)
}

// SubscribeRequest is a newsletter sign-up.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (s *SubscribeRequest) Normalize() {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Name = strings.TrimSpace(s.Name)
	s.Source = strings.TrimSpace(s.Source)
	if s.Source == "" {
		s.Source = "website"
	}
}

func (s SubscribeRequest) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required, validation.Length(3, 254), is.EmailFormat),
		validation.Field(&s.Name, validation.RuneLength(0, 100)),
		validation.Field(&s.Source, validation.Length(0, 50)),
	)
}
