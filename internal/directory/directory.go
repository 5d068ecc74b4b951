// internal/directory/directory.go

// Package directory holds the organization directory: organization metadata
// (official contact phone) plus named employees with their phone numbers.
// The directory is loaded once from static storage and injected read-only
// into the scoring pipeline, so tests can substitute fixtures.
package directory

import (
	"encoding/json"
	"fmt"
	"os"

	"callguard/internal/match"
	"callguard/internal/models"
)

// Directory is an immutable, in-memory organization registry.
type Directory struct {
	organizations []models.Organization
	byPhone       map[string]employeeEntry
}

type employeeEntry struct {
	org      *models.Organization
	employee *models.Employee
}

type directoryFile struct {
	Organizations []models.Organization `json:"organizations"`
}

// Load reads the directory JSON file and builds the phone index.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading organization directory %s: %w", path, err)
	}

	var file directoryFile
	if err := json.Unmarshal(raw, &file.Organizations); err != nil {
		// Also accept the wrapped {"organizations": [...]} layout.
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parsing organization directory %s: %w", path, err)
		}
	}

	return New(file.Organizations), nil
}

// New builds a Directory from pre-loaded records (fixture injection point).
func New(orgs []models.Organization) *Directory {
	d := &Directory{
		organizations: orgs,
		byPhone:       make(map[string]employeeEntry),
	}
	for i := range d.organizations {
		org := &d.organizations[i]
		for j := range org.Employees {
			emp := &org.Employees[j]
			if emp.PhoneNumber != "" {
				d.byPhone[emp.PhoneNumber] = employeeEntry{org: org, employee: emp}
			}
		}
	}
	return d
}

// Len reports the number of organizations loaded.
func (d *Directory) Len() int {
	return len(d.organizations)
}

// ResolveOrganization finds an organization whose name matches the claimed
// name by case-insensitive substring containment in either direction.
// Returns nil when nothing matches.
func (d *Directory) ResolveOrganization(claimedName string) *models.Organization {
	if claimedName == "" {
		return nil
	}
	for i := range d.organizations {
		if match.ContainsFold(d.organizations[i].Name, claimedName) {
			return &d.organizations[i]
		}
	}
	return nil
}

// FindEmployeeByPhone searches every organization's employee list for the
// phone number. The search is deliberately global: a caller may work for a
// different organization than the one they claim.
func (d *Directory) FindEmployeeByPhone(phoneNumber string) (*models.Organization, *models.Employee) {
	entry, ok := d.byPhone[phoneNumber]
	if !ok {
		return nil, nil
	}
	return entry.org, entry.employee
}
