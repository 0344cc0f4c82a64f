package template

// PreviewLimit caps how many tasks and milestones a preview lists
const PreviewLimit = 5

// Overview is what the operator sees before choosing an import mode
type Overview struct {
	Version        string
	Metadata       Metadata
	Project        ProjectSpec
	TaskCount      int
	MilestoneCount int
	Tasks          []TaskSpec
	Milestones     []MilestoneSpec
}

// Preview summarizes a parsed template
func Preview(t *Template) Overview {
	return Overview{
		Version:        t.Version,
		Metadata:       t.Metadata,
		Project:        t.Project,
		TaskCount:      len(t.Tasks),
		MilestoneCount: len(t.Milestones),
		Tasks:          t.Tasks[:min(len(t.Tasks), PreviewLimit)],
		Milestones:     t.Milestones[:min(len(t.Milestones), PreviewLimit)],
	}
}
