package dashboard

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/emberview/pkg/chart"
)

// Mount point ids, one per chart.
var Mounts = map[chart.Kind]string{
	chart.KindBar:     "bar-chart",
	chart.KindScatter: "scatterplot",
	chart.KindLine:    "line-graph",
	chart.KindTreemap: "treemap",
}

// Panel is one rendered chart slot.
type Panel struct {
	Kind  chart.Kind
	Mount string
	SVG   []byte
	Err   string // shown instead of the chart when rendering was skipped
}

// PageData is the input of [Page].
type PageData struct {
	Title       string
	Panels      []Panel
	Selection   Selection
	YearMin     int
	YearMax     int
	GroupFields []string
	// Served enables the controls; they re-fetch charts from ChartURL.
	Served   bool
	ChartURL string
}

type panelView struct {
	Kind  chart.Kind
	Mount string
	SVG   template.HTML
	Err   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 24px; color: #222; }
  .controls { display: flex; gap: 32px; align-items: center; margin-bottom: 16px; }
  .controls label { font-size: 14px; }
  .panel { margin-bottom: 32px; }
  .skipped { color: #9E9E9E; font-style: italic; }
</style>
<style>{{.CSS}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Served}}<div class="controls" data-chart-url="{{.ChartURL}}">
  <label>Year built
    <input type="range" id="year-from" min="{{.YearMin}}" max="{{.YearMax}}" value="{{.Selection.YearFrom}}">
    <input type="range" id="year-to" min="{{.YearMin}}" max="{{.YearMax}}" value="{{.Selection.YearTo}}">
    <span id="year-window">{{.Selection.YearFrom}} – {{.Selection.YearTo}}</span>
  </label>
  <label>Treemap group
    <select id="group-field">{{range .GroupFields}}
      <option value="{{.}}"{{if eq . $.Selection.GroupField}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
</div>{{end}}
{{range .Panels}}<div class="panel" id="{{.Mount}}" data-kind="{{.Kind}}">{{if .Err}}<p class="skipped">{{.Kind}} chart skipped: {{.Err}}</p>{{else}}{{.SVG}}{{end}}</div>
{{end}}<script>{{.JS}}</script>
{{if .Served}}<script>
(function() {
  var controls = document.querySelector('.controls');
  var base = controls.getAttribute('data-chart-url');
  var from = document.getElementById('year-from');
  var to = document.getElementById('year-to');
  var group = document.getElementById('group-field');
  var label = document.getElementById('year-window');
  var pending = Promise.resolve();

  function load(kind, mount, params) {
    pending = pending.then(function() {
      return fetch(base + '/' + kind + '.svg?' + new URLSearchParams(params))
        .then(function(r) {
          var el = document.getElementById(mount);
          if (!r.ok) {
            return r.json().catch(function() { return {error: r.statusText}; }).then(function(e) {
              var p = document.createElement('p');
              p.className = 'skipped';
              p.textContent = kind + ' chart skipped: ' + e.error;
              el.replaceChildren(p);
            });
          }
          return r.text().then(function(svg) { el.innerHTML = svg; emberviewBind(); });
        });
    });
  }

  function years() {
    var a = Math.min(+from.value, +to.value), b = Math.max(+from.value, +to.value);
    label.textContent = a + ' – ' + b;
    load('line', 'line-graph', { from: a, to: b });
  }

  from.addEventListener('change', years);
  to.addEventListener('change', years);
  group.addEventListener('change', function() {
    load('treemap', 'treemap', { group: group.value });
  });
})();
</script>{{end}}
</body>
</html>
`))

// Page renders the dashboard HTML document.
func Page(data PageData) ([]byte, error) {
	if data.Title == "" {
		data.Title = "Wildfire Damage Dashboard"
	}
	panels := make([]panelView, len(data.Panels))
	for i, p := range data.Panels {
		mount := p.Mount
		if mount == "" {
			mount = Mounts[p.Kind]
		}
		// SVG comes from the chart renderer, which escapes all text.
		panels[i] = panelView{Kind: p.Kind, Mount: mount, SVG: template.HTML(p.SVG), Err: p.Err}
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		PageData
		Panels []panelView
		CSS    template.CSS
		JS     template.JS
	}{
		PageData: data,
		Panels:   panels,
		CSS:      template.CSS(chart.InteractionCSS),
		JS:       template.JS(chart.InteractionJS),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
