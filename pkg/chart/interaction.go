package chart

import (
	"bytes"
	"fmt"
)

// InteractionCSS dims every mark while one is hovered and restores the
// marks sharing its data-key.
const InteractionCSS = `
    .mark { transition: opacity 0.2s ease; }
    svg.hovering .mark { opacity: 0.25; }
    svg.hovering .mark.highlight { opacity: 1; stroke: #222; stroke-width: 1.5; }`

// InteractionJS binds hover highlighting to every emberview SVG on the
// page that is not bound yet. Pages that swap charts in place call
// emberviewBind again after inserting them.
const InteractionJS = `
    function emberviewBind() {
      document.querySelectorAll('svg.emberview').forEach(function(svg) {
        if (svg.getAttribute('data-bound')) return;
        svg.setAttribute('data-bound', '1');
        var marks = svg.querySelectorAll('.mark[data-key]');
        marks.forEach(function(el) {
          el.addEventListener('mouseenter', function() {
            var key = el.getAttribute('data-key');
            svg.classList.add('hovering');
            marks.forEach(function(m) { m.classList.toggle('highlight', m.getAttribute('data-key') === key); });
          });
          el.addEventListener('mouseleave', function() {
            svg.classList.remove('hovering');
            marks.forEach(function(m) { m.classList.remove('highlight'); });
          });
        });
      });
    }
    emberviewBind();`

func renderInteractionStyle(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", InteractionCSS)
}

func renderInteractionScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", InteractionJS)
}
