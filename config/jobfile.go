package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Job describes one field-repair job in a job file. Whether changes are
// applied is decided by the --make-changes flag for the whole run; a job
// file can never enable writes by itself.
type Job struct {
	Module            string `yaml:"module"`
	Type              string `yaml:"type"`
	Field             string `yaml:"field"`
	MaxIterations     int    `yaml:"max_iterations"`
	EmptyStringAsNull bool   `yaml:"replace_empty_string_with_null"`
	AttemptRepair     bool   `yaml:"attempt_repair"`
}

type jobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs parses a YAML job file and validates every entry.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	var file jobFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return nil, fmt.Errorf("job file %s defines no jobs", path)
	}

	for i := range file.Jobs {
		job := &file.Jobs[i]
		if job.Module == "" || job.Type == "" || job.Field == "" {
			return nil, fmt.Errorf("job %d in %s: module, type and field are required", i+1, path)
		}
		if job.MaxIterations <= 0 {
			job.MaxIterations = DefaultMaxIterations
		}
	}
	return file.Jobs, nil
}
