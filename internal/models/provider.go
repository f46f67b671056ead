package models

type Provider struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Company           *string  `json:"company,omitempty" yaml:"company,omitempty"`
	Avatar            string   `json:"avatar" yaml:"avatar"`
	Bio               string   `json:"bio" yaml:"bio"`
	Location          string   `json:"location" yaml:"location"`
	YearsExperience   int      `json:"years_experience" yaml:"years_experience"`
	Expertise         []string `json:"expertise" yaml:"expertise"`
	Rating            float64  `json:"rating" yaml:"rating"`
	CompletedProjects int      `json:"completed_projects" yaml:"completed_projects"`
	ResponseTime      string   `json:"response_time" yaml:"response_time"`
	Languages         []string `json:"languages" yaml:"languages"`
	Certifications    []string `json:"certifications" yaml:"certifications"`
	HourlyRate        *float64 `json:"hourly_rate,omitempty" yaml:"hourly_rate,omitempty"`
}

func (p Provider) Clone() Provider {
	out := p
	out.Expertise = cloneStrings(p.Expertise)
	out.Languages = cloneStrings(p.Languages)
	out.Certifications = cloneStrings(p.Certifications)
	if p.Company != nil {
		c := *p.Company
		out.Company = &c
	}
	if p.HourlyRate != nil {
		r := *p.HourlyRate
		out.HourlyRate = &r
	}
	return out
}

type ProviderDetails struct {
	Provider Provider  `json:"provider"`
	Services []Service `json:"services"`
}
