// internal/models/claim.go
package models

// CallerClaim holds the structured fields extracted from a call transcript.
// Every field is optional: an empty string (or nil bool) means the caller
// never stated it, which is different from stating an empty value.
type CallerClaim struct {
	PhoneNumber          string `json:"phoneNumber,omitempty"`
	IDDocument           string `json:"idDocument,omitempty"`
	Name                 string `json:"name,omitempty"`
	GivenName            string `json:"givenName,omitempty"`
	MiddleNames          string `json:"middleNames,omitempty"`
	FamilyName           string `json:"familyName,omitempty"`
	FamilyNameAtBirth    string `json:"familyNameAtBirth,omitempty"`
	Birthdate            string `json:"birthdate,omitempty"`
	Country              string `json:"country,omitempty"`
	Locality             string `json:"locality,omitempty"`
	Region               string `json:"region,omitempty"`
	Address              string `json:"address,omitempty"`
	StreetName           string `json:"streetName,omitempty"`
	StreetNumber         string `json:"streetNumber,omitempty"`
	HouseNumberExtension string `json:"houseNumberExtension,omitempty"`
	PostalCode           string `json:"postalCode,omitempty"`
	Email                string `json:"email,omitempty"`
	Gender               string `json:"gender,omitempty"`

	ClaimsCompanyAffiliation bool   `json:"claimsCompanyAffiliation,omitempty"`
	CompanyName              string `json:"companyName,omitempty"`
}

// IsEmpty reports whether the extraction produced nothing usable.
func (c CallerClaim) IsEmpty() bool {
	return c == CallerClaim{}
}
