package report

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/wallarm/gotestoffsets/internal/db"
)

type yamlReport struct {
	Date  string         `yaml:"date"`
	URL   string         `yaml:"url"`
	Args  []string       `yaml:"args,omitempty"`
	Stats *db.Statistics `yaml:"stats"`
}

// appendFullReportToYaml appends the full report of the run to the file as a
// separate YAML document.
func appendFullReportToYaml(s *db.Statistics, reportFile string, meta Meta) error {
	report := yamlReport{
		Date:  meta.Time.Format(time.RFC3339),
		URL:   meta.URL,
		Args:  meta.Args,
		Stats: s,
	}

	yamlBytes, err := yaml.Marshal(&report)
	if err != nil {
		return errors.Wrap(err, "couldn't dump report to YAML")
	}

	file, err := os.OpenFile(reportFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "couldn't open report file")
	}
	defer file.Close()

	if _, err = file.WriteString("---\n"); err != nil {
		return errors.Wrap(err, "couldn't write report to file")
	}

	if _, err = file.Write(yamlBytes); err != nil {
		return errors.Wrap(err, "couldn't write report to file")
	}

	return nil
}
