// compose.go generates the docker-compose.yml for the final container,
// carrying the merged service description plus the wtd label namespace.
// Serialization style (sorted map iteration via yaml.v3, header comment
// warning against manual edits) is grounded on the teacher's
// internal/devcontainer/compose.go.
package buildplan

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// composeFile is the top-level shape of the generated docker-compose.yml.
type composeFile struct {
	Services map[string]map[string]any `yaml:"services"`
}

// ComposeYAML renders the generated docker-compose.yml for plan's
// container, merging the resolved service description with the image tag
// and the wtd label namespace.
func ComposeYAML(plan Plan, imageTag string, labels map[string]string) ([]byte, error) {
	service := map[string]any{}
	for k, v := range plan.Service {
		service[k] = v
	}
	service["image"] = imageTag

	existingLabels, _ := service["labels"].(map[string]any)
	if existingLabels == nil {
		existingLabels = map[string]any{}
	}
	for k, v := range labels {
		existingLabels[k] = v
	}
	service["labels"] = existingLabels

	cf := composeFile{Services: map[string]map[string]any{plan.ContainerName: service}}

	data, err := yaml.Marshal(cf)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize docker-compose.yml: %w", err)
	}

	header := fmt.Sprintf("# Generated by wtd for %s — do not edit, regenerated on each reconcile\n", plan.ContainerName)
	return append([]byte(header), data...), nil
}
