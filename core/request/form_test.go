package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

func fieldKeys(fields []FormField) []string {
	keys := make([]string, 0, len(fields))
	for _, fld := range fields {
		keys = append(keys, fld.Key)
	}
	return keys
}

func fieldByKey(t *testing.T, fields []FormField, key string) FormField {
	t.Helper()
	for _, fld := range fields {
		if fld.Key == key {
			return fld
		}
	}
	t.Fatalf("field %q not found", key)
	return FormField{}
}

func Test_BuildFormConfig(t *testing.T) {
	conf := settings.Settings{
		Classes:     []string{"9A1", "9A2"},
		Reasons:     []string{"Checkup"},
		CurrentWeek: 12,
	}

	t.Run("configured options replace the built-ins", func(t *testing.T) {
		fields := BuildFormConfig(BaseFormConfig(), conf, admin)
		assert.Equal(t, []string{"9A1", "9A2"}, fieldByKey(t, fields, "class").Options)
		assert.Equal(t, []string{"Checkup"}, fieldByKey(t, fields, "reason").Options)
	})

	t.Run("empty settings keep the built-ins", func(t *testing.T) {
		fields := BuildFormConfig(BaseFormConfig(), settings.Settings{}, admin)
		assert.NotEmpty(t, fieldByKey(t, fields, "class").Options)
		assert.NotEmpty(t, fieldByKey(t, fields, "reason").Options)
	})

	t.Run("approver keeps the status field", func(t *testing.T) {
		fields := BuildFormConfig(BaseFormConfig(), conf, admin)
		assert.Contains(t, fieldKeys(fields), "status")
	})

	t.Run("non-approver loses the status field", func(t *testing.T) {
		homeroom := user.User{Username: "gv1", Role: user.RoleHomeroom, Class: "10A1"}
		fields := BuildFormConfig(BaseFormConfig(), conf, homeroom)
		keys := fieldKeys(fields)
		assert.NotContains(t, keys, "status")
		assert.Contains(t, keys, "studentName")
		assert.Contains(t, keys, "class")
	})

	t.Run("student fields and minimums", func(t *testing.T) {
		restore := nowFunc
		nowFunc = func() time.Time { return time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC) }
		defer func() { nowFunc = restore }()

		fields := BuildFormConfig(BaseFormConfig(), conf, student)
		keys := fieldKeys(fields)
		assert.NotContains(t, keys, "status")
		assert.NotContains(t, keys, "studentName")
		assert.NotContains(t, keys, "class")

		assert.Equal(t, "12", fieldByKey(t, fields, "week").Min)
		assert.Equal(t, "2026-09-07", fieldByKey(t, fields, "fromDate").Min)
	})

	t.Run("pure derivation leaves the base untouched", func(t *testing.T) {
		base := BaseFormConfig()
		_ = BuildFormConfig(base, conf, student)
		assert.Equal(t, BaseFormConfig(), base)
	})
}
