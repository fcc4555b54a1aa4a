// Package hierdto holds request payloads of the company, project, excel and
// sheet endpoints.
package hierdto

// CompanyCreateInput is the body of POST /companies.
type CompanyCreateInput struct {
	Name    string `json:"name" validate:"required,max=200,no_xss"`
	Domain  string `json:"domain,omitempty" validate:"omitempty,max=253,no_xss"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

// CompanyUpdateInput is the body of PUT /companies/:id. Nil fields are left
// unchanged.
type CompanyUpdateInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200,no_xss"`
	Domain  *string `json:"domain,omitempty" validate:"omitempty,max=253,no_xss"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Website *string `json:"website,omitempty" validate:"omitempty,url"`
}

// ChannelInput is the body of POST /companies/:id/channels.
type ChannelInput struct {
	Channel string `json:"channel" validate:"required,max=200,no_xss"`
}
