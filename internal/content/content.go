// Package content loads the static catalog: NCLEX categories, the question
// bank, the default study plans and the resource library.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vytor/nclexnav/internal/models"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

const (
	categoriesFile = "categories.yaml"
	questionsFile  = "questions.yaml"
	plansFile      = "study_plans.yaml"
	resourcesFile  = "resources.yaml"
)

// Catalog is read-only after Load.
type Catalog struct {
	Categories []models.Category
	Questions  []models.Question
	Plans      []models.StudyPlan
	Resources  []models.Resource

	categoryByID map[string]models.Category
	resourceByID map[int64]models.Resource
}

// Load reads the catalog from dir, or from the embedded copy when dir is empty.
// A file missing from dir falls back to its embedded version.
func Load(dir string) (*Catalog, error) {
	embedded, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		return nil, err
	}
	dir = strings.TrimSpace(dir)
	read := func(name string) ([]byte, error) {
		if dir != "" {
			data, err := fs.ReadFile(os.DirFS(dir), name)
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
		return fs.ReadFile(embedded, name)
	}

	var (
		cats struct {
			Categories []models.Category `yaml:"categories"`
		}
		qs struct {
			Questions []models.Question `yaml:"questions"`
		}
		plans struct {
			Plans []models.StudyPlan `yaml:"plans"`
		}
		res struct {
			Resources []models.Resource `yaml:"resources"`
		}
	)
	for _, f := range []struct {
		name string
		out  any
	}{
		{categoriesFile, &cats},
		{questionsFile, &qs},
		{plansFile, &plans},
		{resourcesFile, &res},
	} {
		data, err := read(f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}

	c := &Catalog{
		Categories: cats.Categories,
		Questions:  qs.Questions,
		Plans:      plans.Plans,
		Resources:  res.Resources,
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	var errs []error

	c.categoryByID = make(map[string]models.Category, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			errs = append(errs, errors.New("category with empty id"))
			continue
		}
		if _, dup := c.categoryByID[cat.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate category %q", cat.ID))
		}
		c.categoryByID[cat.ID] = cat
	}

	if len(c.Questions) == 0 {
		errs = append(errs, errors.New("question bank is empty"))
	}
	seen := make(map[int]struct{}, len(c.Questions))
	for i := range c.Questions {
		q := &c.Questions[i]
		if _, dup := seen[q.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate question %d", q.ID))
		}
		seen[q.ID] = struct{}{}

		cat, ok := c.categoryByID[q.CategoryID]
		if !ok {
			errs = append(errs, fmt.Errorf("question %d: unknown category %q", q.ID, q.CategoryID))
		}
		q.Category = cat.Name
		if len(q.Options) < 2 {
			errs = append(errs, fmt.Errorf("question %d: needs at least two options", q.ID))
		}
		if !q.HasOption(q.CorrectAnswer) {
			errs = append(errs, fmt.Errorf("question %d: correct answer %q is not an option", q.ID, q.CorrectAnswer))
		}
	}

	planIDs := make(map[int64]struct{}, len(c.Plans))
	for _, p := range c.Plans {
		if _, dup := planIDs[p.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate study plan %d", p.ID))
		}
		planIDs[p.ID] = struct{}{}
	}

	c.resourceByID = make(map[int64]models.Resource, len(c.Resources))
	for _, r := range c.Resources {
		if _, dup := c.resourceByID[r.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate resource %d", r.ID))
		}
		c.resourceByID[r.ID] = r
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Catalog) Category(id string) (models.Category, bool) {
	cat, ok := c.categoryByID[id]
	return cat, ok
}

func (c *Catalog) Resource(id int64) (models.Resource, bool) {
	r, ok := c.resourceByID[id]
	return r, ok
}

// DefaultPlans returns deep copies so callers may personalise them.
func (c *Catalog) DefaultPlans() []models.StudyPlan {
	out := make([]models.StudyPlan, len(c.Plans))
	for i, p := range c.Plans {
		out[i] = ClonePlan(p)
	}
	return out
}

// ClonePlan copies every slice of p.
func ClonePlan(p models.StudyPlan) models.StudyPlan {
	p.Features = append([]string(nil), p.Features...)
	p.WeeklyBreakdown = append([]models.WeeklyFocus(nil), p.WeeklyBreakdown...)
	p.Schedule = append([]models.ScheduledTask(nil), p.Schedule...)
	timeline := make([]models.TimelineWeek, len(p.Timeline))
	for i, w := range p.Timeline {
		w.Tasks = append([]models.TimelineTask(nil), w.Tasks...)
		w.Goals = append([]string(nil), w.Goals...)
		timeline[i] = w
	}
	if p.Timeline != nil {
		p.Timeline = timeline
	}
	p.FocusAreas = append([]string(nil), p.FocusAreas...)
	p.StudyMethods = append([]string(nil), p.StudyMethods...)
	p.RestDays = append([]string(nil), p.RestDays...)
	if p.Preferences != nil {
		prefs := *p.Preferences
		p.Preferences = &prefs
	}
	return p
}
