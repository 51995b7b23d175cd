package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_UpdateSettings_Validate(t *testing.T) {
	valid := UpdateSettings{
		SchoolName:  "  THPT Demo ",
		Classes:     []string{" 10A1", "10A2 "},
		Reasons:     []string{"Sick leave"},
		CurrentWeek: 3,
	}
	require.NoError(t, valid.Validate())
	assert.Equal(t, "THPT Demo", valid.SchoolName)
	assert.Equal(t, []string{"10A1", "10A2"}, valid.Classes)

	tests := []struct {
		name string
		us   UpdateSettings
	}{
		{"empty name", UpdateSettings{Classes: []string{"10A1"}, Reasons: []string{"x"}, CurrentWeek: 1}},
		{"no classes", UpdateSettings{SchoolName: "S", Reasons: []string{"x"}, CurrentWeek: 1}},
		{"no reasons", UpdateSettings{SchoolName: "S", Classes: []string{"10A1"}, CurrentWeek: 1}},
		{"zero week", UpdateSettings{SchoolName: "S", Classes: []string{"10A1"}, Reasons: []string{"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.us.Validate())
		})
	}
}
