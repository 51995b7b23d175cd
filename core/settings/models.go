package settings

import "github.com/nvthanh/eduleave/core"

// Settings is the singleton system configuration, read by all sessions at
// startup and saved only through the admin settings operation.
type Settings struct {
	SchoolName  string   `json:"schoolName"`
	Classes     []string `json:"classes"`
	Reasons     []string `json:"reasons"`
	CurrentWeek int      `json:"currentWeek"`
}

// Default returns the built-in configuration used until an admin saves one.
func Default() Settings {
	return Settings{
		SchoolName:  core.Conf.AppName,
		Classes:     []string{"10A1", "10A2", "11A1", "11A2", "12A1"},
		Reasons:     []string{"Sick leave", "Family matter", "Medical appointment", "Other"},
		CurrentWeek: 1,
	}
}

// UpdateSettings defines the admin settings payload.
type UpdateSettings struct {
	SchoolName  string   `json:"schoolName" validate:"required"`
	Classes     []string `json:"classes" validate:"required,min=1"`
	Reasons     []string `json:"reasons" validate:"required,min=1"`
	CurrentWeek int      `json:"currentWeek" validate:"required,min=1"`
}

func (us *UpdateSettings) Validate() error {
	us.SchoolName = core.CleanString(us.SchoolName)
	for i, c := range us.Classes {
		us.Classes[i] = core.CleanString(c)
	}
	for i, r := range us.Reasons {
		us.Reasons[i] = core.CleanString(r)
	}
	return core.Validate.Struct(us)
}
