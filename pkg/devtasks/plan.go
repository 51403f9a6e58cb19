package devtasks

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// WritePlan renders the task's pipeline as a YAML document
func WritePlan(w io.Writer, task *Task) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(task); err != nil {
		return eris.Wrapf(err, "failed to render task %s", task.Short)
	}

	return encoder.Close()
}
