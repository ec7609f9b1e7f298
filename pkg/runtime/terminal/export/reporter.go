package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/de-tools/salespulse/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth  int
	ValueWidth  int
	CardWidth   int
	CardsPerRow int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  20,
		ValueWidth:  16,
		CardWidth:   34,
		CardsPerRow: 4,
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Reporter prints dashboard views to a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type viewReport struct {
	Tab     string
	SubTab  string
	Filters []string
	Cards   string
	Charts  []domain.TitledChart
	Rows    int
	Empty   bool
}

func (c *Reporter) Handle(sel domain.Selection, view domain.View) error {
	funcMap := template.FuncMap{
		"title": func(s string) string { return titleStyle.Render(s) },
		"formatRow": func(label string, value float64, unit string) string {
			return fmt.Sprintf("  %-*s %*.2f %s", c.config.LabelWidth, label, c.config.ValueWidth, value, unit)
		},
		"formatSlice": func(s domain.Slice) string {
			return fmt.Sprintf("  %-*s %*.2f %6.1f%%", c.config.LabelWidth, s.Label, c.config.ValueWidth, s.Value, s.SharePercent)
		},
		"bucketLabel": domain.BucketLabel,
		"join":        strings.Join,
	}

	tmpl := `{{title (printf "%s / %s" .Tab .SubTab)}}
Filters: {{if .Filters}}{{join .Filters ", "}}{{else}}none{{end}}
Rows: {{.Rows}}
{{if .Empty}}
No content for this tab yet.
{{else}}
{{.Cards}}
{{range .Charts}}
{{title .Title}}
{{- $chart := .}}
{{- range .Spec.Series}}
 {{.Name}}
{{- range .Points}}
{{formatRow (bucketLabel $chart.Spec.Bucket .Date) .Value $chart.Spec.Unit}}
{{- end}}
{{- end}}
{{- range .Spec.Slices}}
{{formatSlice .}}
{{- end}}
{{end}}
{{- end}}
`
	t, err := template.New("view").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	report := viewReport{
		Tab:    sel.PrimaryTab.Label(),
		SubTab: "-",
		Cards:  c.renderCards(view.Metrics),
		Charts: view.Charts,
		Rows:   view.RowCount,
		Empty:  len(view.Metrics) == 0 && len(view.Charts) == 0,
	}
	if sel.SecondaryTab != "" {
		report.SubTab = sel.SecondaryTab.Label()
	}
	for _, k := range domain.FilterKeys {
		if v := sel.Filter(k); v != domain.All {
			report.Filters = append(report.Filters, fmt.Sprintf("%s=%s", k.Label(), v))
		}
	}

	return t.Execute(c.writer, report)
}

// Catalogue prints every filter with its options.
func (c *Reporter) Catalogue() error {
	tmpl := `{{range .}}{{printf "%-14s" .Label}} {{join .Options ", "}}
{{end}}`
	t, err := template.New("filters").Funcs(template.FuncMap{"join": strings.Join}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	type entry struct {
		Label   string
		Options []string
	}
	entries := make([]entry, 0, len(domain.FilterKeys))
	for _, k := range domain.FilterKeys {
		entries = append(entries, entry{Label: k.Label(), Options: k.Options()})
	}
	return t.Execute(c.writer, entries)
}

func (c *Reporter) renderCards(metrics []domain.MetricCard) string {
	var rows []string
	for start := 0; start < len(metrics); start += c.config.CardsPerRow {
		end := min(start+c.config.CardsPerRow, len(metrics))
		cards := make([]string, 0, end-start)
		for _, m := range metrics[start:end] {
			cards = append(cards, c.renderCard(m))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (c *Reporter) renderCard(m domain.MetricCard) string {
	delta := labelStyle.Render("no prior year")
	if m.YOYAvailable {
		style := upStyle
		if m.YOYDeltaPercent < 0 {
			style = downStyle
		}
		delta = style.Render(fmt.Sprintf("%+.1f%% YOY", m.YOYDeltaPercent))
	}
	body := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Formatted) + "\n" + delta
	return cardStyle.Width(c.config.CardWidth).Render(body)
}
