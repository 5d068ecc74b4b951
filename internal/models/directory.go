// internal/models/directory.go
package models

// Organization is one entry of the organization directory.
type Organization struct {
	Name         string     `json:"name"`
	CompanyPhone string     `json:"company_phone"`
	Industry     string     `json:"industry,omitempty"`
	Country      string     `json:"country,omitempty"`
	Employees    []Employee `json:"employees,omitempty"`
}

// Employee is a named employee with their registered phone number.
type Employee struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role,omitempty"`
}
