package charts

import (
	"bytes"
	"html/template"

	"salesdash.senseiquotes.org/internal/series"
)

// ProgressContainer is the element that receives the progress markup.
const ProgressContainer = "progressContainer"

var progressTemplate = template.Must(template.New("progress").Parse(
	`<label class="form-label">{{.Representative}}'s Progress to {{.Goal}} Quotes</label>
<div class="progress">
  <div class="progress-bar bg-success" role="progressbar" style="width: {{.Percent}}%">{{.Percent}}%</div>
</div>`))

// Progress is the text and width pair of the progress indicator.
type Progress struct {
	Representative string `json:"representative"`
	Goal           string `json:"goal"`
	Percent        int    `json:"percent"`
}

// ProgressIndicator derives the indicator for a detail. ok is false when the
// container should be cleared.
func ProgressIndicator(d series.Detail) (Progress, bool) {
	percent, ok := d.Progress()
	if !ok {
		return Progress{}, false
	}
	return Progress{Representative: d.Representative, Goal: formatGoal(*d.Goal), Percent: percent}, true
}

// ProgressMarkup renders the container content for a detail; empty when there is no goal.
func ProgressMarkup(d series.Detail) (template.HTML, error) {
	p, ok := ProgressIndicator(d)
	if !ok {
		return "", nil
	}
	var buf bytes.Buffer
	if err := progressTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
