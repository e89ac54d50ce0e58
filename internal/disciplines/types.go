package disciplines

// Discipline is one entry of the drawing discipline master data.
type Discipline struct {
	Code        string `yaml:"code" json:"code"`
	Label       string `yaml:"label" json:"label"`
	SheetPrefix string `yaml:"sheet_prefix" json:"sheet_prefix"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// disciplineFile is the shape of the embedded YAML.
type disciplineFile struct {
	Disciplines []Discipline `yaml:"disciplines"`
}
