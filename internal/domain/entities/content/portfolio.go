// Package content defines the portfolio content entities
package content

// Portfolio is the full site content document loaded from YAML.
type Portfolio struct {
	About        About         `yaml:"about" json:"about"`
	Skills       []Skill       `yaml:"skills" json:"skills"`
	Projects     []Project     `yaml:"projects" json:"projects"`
	Experience   []Experience  `yaml:"experience" json:"experience"`
	Achievements []Achievement `yaml:"achievements" json:"achievements"`
}

// About holds the biographical section.
type About struct {
	Name        string `yaml:"name" json:"name"`
	Headline    string `yaml:"headline" json:"headline"`
	Summary     string `yaml:"summary" json:"summary"`
	SummaryHTML string `yaml:"-" json:"summaryHtml,omitempty"`
	Location    string `yaml:"location" json:"location"`
	Links       []Link `yaml:"links" json:"links"`
}

// Link is one external profile or social link.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// Skill is one entry in the skills section.
type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Level    int    `yaml:"level" json:"level"`
}

// Project is one portfolio project.
type Project struct {
	Title           string   `yaml:"title" json:"title"`
	Slug            string   `yaml:"slug" json:"slug"`
	Description     string   `yaml:"description" json:"description"`
	DescriptionHTML string   `yaml:"-" json:"descriptionHtml,omitempty"`
	Tech            []string `yaml:"tech" json:"tech"`
	RepoURL         string   `yaml:"repoUrl" json:"repoUrl,omitempty"`
	LiveURL         string   `yaml:"liveUrl" json:"liveUrl,omitempty"`
	Image           string   `yaml:"image" json:"image,omitempty"`
	SrcSet          string   `yaml:"-" json:"srcSet,omitempty"`
}

// Experience is one work history entry.
type Experience struct {
	Role        string `yaml:"role" json:"role"`
	Company     string `yaml:"company" json:"company"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end,omitempty"`
	Summary     string `yaml:"summary" json:"summary"`
	SummaryHTML string `yaml:"-" json:"summaryHtml,omitempty"`
}

// Achievement is one achievements entry.
type Achievement struct {
	Title       string `yaml:"title" json:"title"`
	Year        int    `yaml:"year" json:"year"`
	Description string `yaml:"description" json:"description"`
}
