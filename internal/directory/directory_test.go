// internal/directory/directory_test.go
package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callguard/internal/models"
)

func testOrgs() []models.Organization {
	return []models.Organization{
		{
			Name:         "Orange Romania",
			CompanyPhone: "+40211234567",
			Employees: []models.Employee{
				{Name: "Marcel Barosanu", PhoneNumber: "+40712345678", Role: "support"},
				{Name: "Ana Pop", PhoneNumber: "+40723456789"},
			},
		},
		{
			Name:         "Banca Transilvania",
			CompanyPhone: "+40219876543",
			Employees: []models.Employee{
				{Name: "George Enescu", PhoneNumber: "+40734567890"},
			},
		},
	}
}

func TestResolveOrganization(t *testing.T) {
	d := New(testOrgs())

	tests := []struct {
		name    string
		claimed string
		want    string
	}{
		{"exact name", "Orange Romania", "Orange Romania"},
		{"claim is substring of directory name", "orange", "Orange Romania"},
		{"directory name is substring of claim", "Banca Transilvania SA", "Banca Transilvania"},
		{"case-insensitive", "ORANGE ROMANIA", "Orange Romania"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := d.ResolveOrganization(tt.claimed)
			require.NotNil(t, org)
			assert.Equal(t, tt.want, org.Name)
		})
	}

	assert.Nil(t, d.ResolveOrganization("Vodafone"))
	assert.Nil(t, d.ResolveOrganization(""))
}

func TestFindEmployeeByPhone(t *testing.T) {
	d := New(testOrgs())

	org, emp := d.FindEmployeeByPhone("+40734567890")
	require.NotNil(t, emp)
	assert.Equal(t, "George Enescu", emp.Name)
	assert.Equal(t, "Banca Transilvania", org.Name)

	org, emp = d.FindEmployeeByPhone("+40700000000")
	assert.Nil(t, org)
	assert.Nil(t, emp)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizations.json")
	payload := `[
		{
			"name": "Orange Romania",
			"company_phone": "+40211234567",
			"employees": [{"name": "Marcel Barosanu", "phone_number": "+40712345678"}]
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())

	org := d.ResolveOrganization("orange")
	require.NotNil(t, org)
	assert.Equal(t, "+40211234567", org.CompanyPhone)
}

func TestLoad_WrappedLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizations.json")
	payload := `{"organizations": [{"name": "Banca Transilvania", "company_phone": "+40219876543"}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, d.ResolveOrganization("banca"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
