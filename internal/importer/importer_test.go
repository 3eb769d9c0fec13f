package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
)

func TestService_ParseCustomers(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []contact.Customer
		wantErr error
	}

	tests := []testCase{
		{
			name:  "CommaSeparated",
			input: "Name,Email,Phone\nAcme Corp,buyer@acme.test,555-0100\nGlobex,,\n",
			want: []contact.Customer{
				{Name: "Acme Corp", Email: "buyer@acme.test", Phone: "555-0100"},
				{Name: "Globex"},
			},
		},
		{
			name:  "SemicolonWithAliases",
			input: "Customer Name;E-mail;Mobile\nInitech;it@initech.test;+351 912\n",
			want: []contact.Customer{
				{Name: "Initech", Email: "it@initech.test", Phone: "+351 912"},
			},
		},
		{
			name:  "HeaderAfterPreamble",
			input: "Exported from CRM\n\nid,name,email\n1,Acme Corp,buyer@acme.test\n",
			want: []contact.Customer{
				{Name: "Acme Corp", Email: "buyer@acme.test"},
			},
		},
		{
			name:  "SkipsBlankRows",
			input: "name\nAcme Corp\n,\nGlobex\n",
			want: []contact.Customer{
				{Name: "Acme Corp"},
				{Name: "Globex"},
			},
		},
		{
			name:    "NoHeader",
			input:   "foo,bar\n1,2\n",
			wantErr: importer.ErrNoHeader,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := importer.NewService().ParseCustomers(strings.NewReader(tc.input))

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestService_ParseCustomers_MissingName(t *testing.T) {
	_, err := importer.NewService().ParseCustomers(strings.NewReader("name,email\n,nobody@acme.test\n"))
	assert.ErrorContains(t, err, "row 2")
}

func TestService_ParseCustomers_Latin1(t *testing.T) {
	// "name\nJosé Café\n" in Windows-1252.
	input := []byte{'n', 'a', 'm', 'e', '\n', 'J', 'o', 's', 0xE9, ' ', 'C', 'a', 'f', 0xE9, '\n'}

	got, err := importer.NewService().ParseCustomers(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "José Café", got[0].Name)
}

func TestService_ParseVendors(t *testing.T) {
	input := "name;contact;email;phone;address;category;rating;leadTime;notes\n" +
		"Steel Works;Ana;sales@steel.test;555-0199;Porto;Metals;4,5;2 weeks;Net 30\n" +
		"Paper Co;;;;;Office;n/a;;\n"

	got, err := importer.NewService().ParseVendors(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Steel Works", got[0].Name)
	assert.Equal(t, "Ana", got[0].Contact)
	assert.Equal(t, "Metals", got[0].Category)
	assert.True(t, decimal.RequireFromString("4.5").Equal(got[0].Rating))
	assert.Equal(t, "2 weeks", got[0].LeadTime)
	assert.Equal(t, "Net 30", got[0].Notes)

	assert.True(t, got[1].Rating.IsZero())
}
