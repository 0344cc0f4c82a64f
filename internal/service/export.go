package service

import (
	"errors"
	"fmt"

	"github.com/existflow/launchdeck/internal/template"
)

// ExportFile is a rendered export ready to be written
type ExportFile struct {
	Name string
	Data []byte
}

// Export renders project data. Templates are always JSON.
func (d *Dashboard) Export(data ProjectData, kind template.Kind, format template.Format, author string) (ExportFile, error) {
	now := d.Now()
	if kind == template.KindTemplate {
		raw, err := template.EncodeJSON(template.Build(data.Project, data.Tasks, data.Milestones, author, now))
		if err != nil {
			return ExportFile{}, d.fail("export template", err)
		}
		return ExportFile{Name: template.Filename(data.Project.Name, kind, template.FormatJSON, now), Data: raw}, nil
	}

	raw, err := template.ExportRecords(data.Project, data.Tasks, data.Milestones, kind, format)
	if errors.Is(err, template.ErrUnsupportedFormat) {
		return ExportFile{}, &UserError{Message: fmt.Sprintf("Exporting %s as %s is not supported.", kind, format), Err: err}
	}
	if err != nil {
		return ExportFile{}, d.fail("export "+string(kind), err)
	}
	return ExportFile{Name: template.Filename(data.Project.Name, kind, format, now), Data: raw}, nil
}
