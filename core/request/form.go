package request

import (
	"strconv"
	"time"

	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

// nowFunc is swapped in tests.
var nowFunc = time.Now

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindNumber   FieldKind = "number"
	KindDate     FieldKind = "date"
	KindSelect   FieldKind = "select"
	KindTextarea FieldKind = "textarea"
	KindFile     FieldKind = "file"
)

// FormField describes one editable field of the leave request form.
type FormField struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"type"`
	Required bool      `json:"required,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Hidden   bool      `json:"hidden,omitempty"`
	Min      string    `json:"min,omitempty"`
}

// BaseFormConfig is the built-in field list, used as-is when the system
// configuration is empty.
func BaseFormConfig() []FormField {
	return []FormField{
		{Key: "id", Label: "ID", Kind: KindText, Hidden: true},
		{Key: "week", Label: "School week", Kind: KindNumber, Required: true},
		{Key: "studentName", Label: "Student name", Kind: KindText, Required: true},
		{Key: "class", Label: "Class", Kind: KindSelect, Options: []string{"10A1", "10A2", "11A1", "11A2", "12A1"}, Required: true},
		{Key: "reason", Label: "Reason", Kind: KindSelect, Options: []string{"Sick leave", "Family matter", "Medical appointment", "Other"}, Required: true},
		{Key: "detail", Label: "Detail", Kind: KindTextarea},
		{Key: "fromDate", Label: "From", Kind: KindDate, Required: true},
		{Key: "toDate", Label: "To", Kind: KindDate, Required: true},
		{Key: "attachmentUrl", Label: "Attachment", Kind: KindFile},
		{Key: "status", Label: "Status", Kind: KindSelect, Options: []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}},
	}
}

// BuildFormConfig derives the editable field list for the acting user.
// It is a pure derivation:
//   - configured class/reason lists replace the built-in option sets when non-empty;
//   - students lose the status, studentName and class fields (auto-filled from
//     their profile) and get minimum constraints on week and fromDate;
//   - users without approval capability lose the status field.
func BuildFormConfig(base []FormField, conf settings.Settings, actor user.User) []FormField {
	fields := make([]FormField, 0, len(base))
	for _, fld := range base {
		switch fld.Key {
		case "class":
			if len(conf.Classes) > 0 {
				fld.Options = conf.Classes
			}
		case "reason":
			if len(conf.Reasons) > 0 {
				fld.Options = conf.Reasons
			}
		}
		fields = append(fields, fld)
	}

	if actor.IsStudent() {
		today := nowFunc().Format(DateLayout)
		studentFields := fields[:0]
		for _, fld := range fields {
			switch fld.Key {
			case "status", "studentName", "class":
				continue
			case "week":
				fld.Min = strconv.Itoa(conf.CurrentWeek)
			case "fromDate":
				fld.Min = today
			}
			studentFields = append(studentFields, fld)
		}
		return studentFields
	}

	if !actor.Permissions().CanApprove {
		withoutStatus := fields[:0]
		for _, fld := range fields {
			if fld.Key == "status" {
				continue
			}
			withoutStatus = append(withoutStatus, fld)
		}
		return withoutStatus
	}
	return fields
}
