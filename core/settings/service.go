package settings

type (
	Repository interface {
		GetSettings() (Settings, error)
		SaveSettings(s Settings) error
	}

	Service interface {
		Get() (Settings, error)
		Save(us UpdateSettings) (Settings, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Get() (Settings, error) {
	return svc.repo.GetSettings()
}

func (svc *service) Save(us UpdateSettings) (Settings, error) {
	s := Settings{
		SchoolName:  us.SchoolName,
		Classes:     us.Classes,
		Reasons:     us.Reasons,
		CurrentWeek: us.CurrentWeek,
	}
	if err := svc.repo.SaveSettings(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
