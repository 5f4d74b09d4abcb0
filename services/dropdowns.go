package services

// Option is a value/label pair rendered in the assessment form selects.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ProjectTypeOptions lists the project types the rate card knows how to price.
var ProjectTypeOptions = []Option{
	{"landing_page", "Landing Page"},
	{"business_website", "Business Website"},
	{"ecommerce", "E-commerce Store"},
	{"web_app", "Web Application"},
	{"mobile_app", "Mobile App"},
	{"saas", "SaaS Platform"},
	{"api_backend", "API / Backend Service"},
}

var PlatformOptions = []Option{
	{"web", "Web"},
	{"ios", "iOS"},
	{"android", "Android"},
	{"desktop", "Desktop"},
}

var DesignStyleOptions = []Option{
	{"template", "Template-based"},
	{"custom", "Custom Design"},
	{"premium", "Premium / Brand-led"},
}

var DataStorageOptions = []Option{
	{"none", "No persistent data"},
	{"basic", "Basic database"},
	{"complex", "Complex data model"},
}

var AuthenticationOptions = []Option{
	{"none", "No login"},
	{"basic", "Email & password"},
	{"social", "Social login"},
	{"enterprise", "SSO / Enterprise"},
}

var TimelineOptions = []Option{
	{"flexible", "Flexible"},
	{"standard", "Standard"},
	{"rush", "Rush"},
	{"urgent", "Urgent"},
}

var BudgetRangeOptions = []Option{
	{"under_5k", "Under $5,000"},
	{"5k_15k", "$5,000 – $15,000"},
	{"15k_50k", "$15,000 – $50,000"},
	{"50k_plus", "$50,000+"},
	{"not_sure", "Not sure yet"},
}

// LeadStatusOptions are the CRM pipeline stages of a contact.
var LeadStatusOptions = []string{"new", "contacted", "qualified", "won", "lost"}

// optionValues returns the values of opts as a []any suitable for validation.In.
func optionValues(opts []Option) []any {
	values := make([]any, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return values
}

// OptionLabel returns the label for value, or value itself when unknown.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
