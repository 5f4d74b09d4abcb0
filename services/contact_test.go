package services

import "testing"

func TestContactRequest_Validate(t *testing.T) {
	valid := func() ContactRequest {
		return ContactRequest{
			Name:    "Ada Lovelace",
			Email:   "ada@example.com",
			Message: "We need a new booking site.",
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *ContactRequest)
		wantField string
	}{
		{"valid", func(c *ContactRequest) {}, ""},
		{"missing email", func(c *ContactRequest) { c.Email = "" }, "email"},
		{"short message", func(c *ContactRequest) { c.Message = "hi" }, "message"},
		{"bad budget", func(c *ContactRequest) { c.BudgetRange = "infinite" }, "budgetRange"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			c.Normalize()
			fields := FieldErrors(c.Validate())
			if tt.wantField == "" {
				if len(fields) != 0 {
					t.Errorf("unexpected errors %v", fields)
				}
				return
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestContactRequest_NormalizeDefaultsSource(t *testing.T) {
	c := ContactRequest{Email: " Ada@Example.com "}
	c.Normalize()
	if c.Source != "contact_form" || c.Email != "ada@example.com" {
		t.Errorf("normalized = %+v", c)
	}
}

func TestContactUpdate_Validate(t *testing.T) {
	good, bad := "qualified", "archived"
	if err := (ContactUpdate{Status: &good}).Validate(); err != nil {
		t.Errorf("valid status rejected: %v", err)
	}
	if err := (ContactUpdate{Status: &bad}).Validate(); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := (ContactUpdate{}).Validate(); err != nil {
		t.Errorf("empty update rejected: %v", err)
	}
}

func TestSubscribeRequest_Validate(t *testing.T) {
	s := SubscribeRequest{Email: "  NEW@example.com"}
	s.Normalize()
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if s.Source != "website" {
		t.Errorf("Source = %q", s.Source)
	}
	if err := (SubscribeRequest{Email: "nope"}).Validate(); err == nil {
		t.Error("expected invalid email error")
	}
}
