package dashboard

import (
	"html/template"
	"net/http"

	"github.com/de-tools/salespulse/pkg/adapters"
	"github.com/de-tools/salespulse/pkg/models/api"
	"github.com/rs/zerolog"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"selected": func(a, b string) bool { return a == b },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sales Dashboard</title>
<style>
body { font-family: sans-serif; display: flex; margin: 0; }
aside { width: 220px; padding: 1em; background: #f4f4f4; }
main { flex: 1; padding: 1em; }
.cards { display: grid; grid-template-columns: repeat(4, 1fr); gap: .5em; }
.card { border: 1px solid #ddd; border-radius: 4px; padding: .5em; }
.tabs button.active { font-weight: bold; }
</style>
</head>
<body>
<aside>
{{range .Filters}}
<label>{{.Label}}
<select data-filter="{{.Key}}">
{{$key := .Key}}{{range .Options}}<option{{if selected . (index $.Session.Filters $key)}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label><br>
{{end}}
<button id="reset">Reset filters</button>
</aside>
<main>
<div class="tabs">
{{range .Tabs.Primary}}<button data-tab="{{.ID}}"{{if selected .ID $.Session.PrimaryTab}} class="active"{{end}}>{{.Label}}</button>{{end}}
</div>
{{if eq .Session.PrimaryTab "descriptive"}}
<div class="tabs">
{{range .Tabs.Secondary}}<button data-subtab="{{.ID}}"{{if selected .ID $.Session.SecondaryTab}} class="active"{{end}}>{{.Label}}</button>{{end}}
</div>
{{end}}
<p id="message" role="alert"{{if not .Error}} hidden{{end}}>{{.Error}}</p>
{{with .View}}
<div class="cards">
{{range .Metrics}}<div class="card"><div>{{.Label}}</div><strong>{{.Formatted}}</strong>{{if .YOYAvailable}}<div>{{printf "%+.1f%%" .YOYDeltaPercent}} YOY</div>{{end}}</div>{{end}}
</div>
{{range $i, $c := .Charts}}
<figure><figcaption>{{$c.Title}}</figcaption><img src="/api/v1/sessions/{{$.Session.ID}}/charts/{{$i}}.png" alt="{{$c.Title}}"></figure>
{{end}}
{{end}}
</main>
<script>
const base = "/api/v1/sessions/{{.Session.ID}}";
const message = document.getElementById("message");
function settle(res) {
  if (res.ok) {
    location.reload();
    return;
  }
  res.json()
    .then(body => body.message || body.error)
    .catch(() => res.statusText)
    .then(text => {
      message.textContent = text;
      message.hidden = false;
    });
}
function put(path, body) {
  fetch(base + path, {method: "PUT", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body)})
    .then(settle);
}
document.querySelectorAll("select[data-filter]").forEach(el =>
  el.addEventListener("change", () => put("/filters/" + el.dataset.filter, {value: el.value})));
document.querySelectorAll("button[data-tab]").forEach(el =>
  el.addEventListener("click", () => put("/tab", {tab: el.dataset.tab})));
document.querySelectorAll("button[data-subtab]").forEach(el =>
  el.addEventListener("click", () => put("/subtab", {tab: el.dataset.subtab})));
document.getElementById("reset").addEventListener("click", () =>
  fetch(base + "/filters", {method: "DELETE"}).then(settle));
</script>
</body>
</html>
`))

type pageData struct {
	Session api.Session
	Filters []api.FilterOption
	Tabs    api.Tabs
	View    *api.View
	Error   string
}

// Page serves the dashboard shell for ?session=<id>, starting a new session
// when none is given or the given one has expired.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	id := r.URL.Query().Get("session")
	if _, err := h.sessions.Get(ctx, id); id == "" || err != nil {
		s := h.sessions.Create(ctx)
		http.Redirect(w, r, "/?session="+s.ID, http.StatusSeeOther)
		return
	}

	data := pageData{
		Filters: adapters.MapFilterOptionsToApi(),
		Tabs:    adapters.MapTabsToApi(),
	}
	view, s, err := h.sessions.Render(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Str("session", id).Msg("failed to render view")
		current, getErr := h.sessions.Get(ctx, id)
		if getErr != nil {
			writeError(ctx, w, getErr)
			return
		}
		s = current
		data.Error = "The dashboard could not be rendered. Try again."
	} else {
		v := adapters.MapViewDomainToApi(view)
		data.View = &v
	}
	data.Session = adapters.MapSelectionDomainToApi(s.ID, s.Selection, s.Revision)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error().Err(err).Msg("failed to render page")
	}
}
