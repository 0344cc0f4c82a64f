// Package prefs persists the few client settings that change while using the
// dashboard: the sidebar state and the last opened project.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/existflow/launchdeck/internal/model"
)

const fileName = "prefs.yaml"

// Prefs is read at startup and written on every change
type Prefs struct {
	SidebarCollapsed bool   `yaml:"sidebar_collapsed"`
	LastProjectID    string `yaml:"last_project_id,omitempty"`

	path string
}

// Load reads prefs.yaml from dir. Missing or unreadable values keep their defaults.
func Load(dir string) (*Prefs, error) {
	p := &Prefs{path: filepath.Join(dir, fileName)}
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return &Prefs{path: p.path}, fmt.Errorf("failed to parse prefs: %w", err)
	}
	return p, nil
}

// Save writes the prefs file
func (p *Prefs) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs directory: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	return os.WriteFile(p.path, data, 0644)
}

// SetSidebarCollapsed stores the sidebar state if it changed
func (p *Prefs) SetSidebarCollapsed(collapsed bool) error {
	if p.SidebarCollapsed == collapsed {
		return nil
	}
	p.SidebarCollapsed = collapsed
	return p.Save()
}

// ToggleSidebar flips and stores the sidebar state
func (p *Prefs) ToggleSidebar() (bool, error) {
	next := !p.SidebarCollapsed
	return next, p.SetSidebarCollapsed(next)
}

// SetLastProject stores the active project if it changed
func (p *Prefs) SetLastProject(id string) error {
	if p.LastProjectID == id {
		return nil
	}
	p.LastProjectID = id
	return p.Save()
}

// PickProject returns the last used project, or the first one when it is
// unset or gone
func (p *Prefs) PickProject(projects []model.Project) (model.Project, bool) {
	if len(projects) == 0 {
		return model.Project{}, false
	}
	for _, proj := range projects {
		if proj.ID == p.LastProjectID {
			return proj, true
		}
	}
	return projects[0], true
}
