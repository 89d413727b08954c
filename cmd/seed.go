package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mbolis/quick-brief/database"
	"github.com/mbolis/quick-brief/log"
	"github.com/mbolis/quick-brief/model"
	"github.com/mbolis/quick-brief/store"
)

// seedFile is the layout of a seed document. JSON documents parse as well,
// JSON being a subset of YAML.
type seedFile struct {
	FormSlug  string         `yaml:"form_slug"`
	Title     string         `yaml:"title"`
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Section   string `yaml:"section"`
	Text      string `yaml:"question_text"`
	QType     string `yaml:"qtype"`
	Required  bool   `yaml:"required"`
	SortOrder int    `yaml:"sort_order"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Create a form and its questions from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		seed, err := loadSeed(f)
		if err != nil {
			return errors.WithMessage(err, args[0])
		}

		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		formID, inserted, err := store.New(db).SeedForm(cmd.Context(), seed.FormSlug, seed.Title, seed.questions())
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"form":     seed.FormSlug,
			"form_id":  formID,
			"inserted": inserted,
		}).Info("seeded")
		return nil
	},
}

func loadSeed(r io.Reader) (seed seedFile, err error) {
	if err = yaml.NewDecoder(r).Decode(&seed); err != nil {
		return seed, errors.Wrap(err, "decode seed")
	}
	if seed.FormSlug == "" {
		return seed, errors.New("form_slug is required")
	}
	for i, q := range seed.Questions {
		if q.Text == "" {
			return seed, errors.Errorf("questions[%d]: question_text is required", i)
		}
	}
	return seed, nil
}

func (seed seedFile) questions() []model.Question {
	out := make([]model.Question, len(seed.Questions))
	for i, q := range seed.Questions {
		out[i] = model.Question{
			Section:   q.Section,
			Text:      q.Text,
			QType:     model.QType(q.QType),
			Required:  q.Required,
			SortOrder: q.SortOrder,
		}
	}
	return out
}
