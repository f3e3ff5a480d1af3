package buildplan

import "strings"

// Dockerfile renders the multi-stage Dockerfile for plan: one stage per
// resolved extension, FROM the previous stage, named after the extension,
// followed by a terminal "final" stage.
func Dockerfile(plan Plan) []byte {
	var b strings.Builder

	for i, stage := range plan.Stages {
		from := plan.BaseImage
		if i > 0 {
			from = plan.Stages[i-1].Name
		}
		b.WriteString("FROM " + from + " AS " + stage.Name + "\n")
		if stage.Fragment != "" {
			b.WriteString(stage.Fragment)
			if !strings.HasSuffix(stage.Fragment, "\n") {
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	last := plan.BaseImage
	if len(plan.Stages) > 0 {
		last = plan.Stages[len(plan.Stages)-1].Name
	}
	b.WriteString("FROM " + last + " AS final\n")
	b.WriteString("WORKDIR /workspace\n")
	b.WriteString(`SHELL ["/bin/bash", "-lc"]` + "\n")

	return []byte(b.String())
}
