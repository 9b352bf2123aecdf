package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mcncl/jsondelta/internal/escape"
	"github.com/mcncl/jsondelta/internal/models"
)

const htmlStyles = `    *{margin:0;padding:0;box-sizing:border-box}
    body{font-family:'Segoe UI',Helvetica,Arial,sans-serif;line-height:1.6;color:#333;background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);min-height:100vh;padding:20px}
    .report-container{max-width:1200px;margin:0 auto;background:white;border-radius:12px;box-shadow:0 10px 40px rgba(0,0,0,.1);overflow:hidden}
    .report-header{background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:white;padding:30px;text-align:center}
    .report-header h1{font-size:28px;margin-bottom:10px;font-weight:600}
    .report-header .timestamp{opacity:.9;font-size:14px}
    .report-content{padding:30px}
    .stats-container{display:grid;grid-template-columns:repeat(auto-fit,minmax(200px,1fr));gap:20px;margin:30px 0;padding:20px;background:#f8f9fa;border-radius:8px;border:1px solid #e9ecef}
    .stat-item{text-align:center;padding:15px;border-radius:6px;background:white;box-shadow:0 2px 8px rgba(0,0,0,.05)}
    .stat-item.added{border-top:4px solid #67c23a}
    .stat-item.removed{border-top:4px solid #f56c6c}
    .stat-item.modified{border-top:4px solid #e6a23c}
    .stat-item.total{border-top:4px solid #409eff}
    .stat-label{display:block;font-size:14px;color:#666;margin-bottom:5px}
    .stat-value{display:block;font-size:24px;font-weight:bold}
    .diff-list{margin-top:40px}
    .diff-list h2{color:#2c3e50;margin-bottom:20px;padding-bottom:10px;border-bottom:2px solid #eaeaea}
    .diff-card{border:1px solid #e0e0e0;border-radius:8px;margin-bottom:16px;overflow:hidden;background:#fff}
    .diff-card:hover{box-shadow:0 4px 16px rgba(0,0,0,.1);border-color:#409eff}
    .diff-header{display:flex;justify-content:space-between;align-items:center;padding:12px 16px;background:#f5f7fa;border-bottom:1px solid #e0e0e0;gap:12px}
    .path-section{flex:1;overflow:hidden}
    .path-text{font-family:Consolas,monospace;font-size:14px;color:#409eff;font-weight:500;word-break:break-all}
    .type-tag{padding:4px 12px;border-radius:4px;font-size:12px;font-weight:bold;color:white;white-space:nowrap}
    .type-added{background:#67c23a}
    .type-removed{background:#f56c6c}
    .type-modified{background:#e6a23c}
    .diff-body{display:grid;grid-template-columns:1fr 1fr}
    .value-panel{padding:16px}
    .value-panel.old-value{background:#fff5f5}
    .value-panel.new-value{background:#f6ffed}
    .panel-label{font-size:12px;font-weight:600;color:#666;margin-bottom:8px;text-transform:uppercase}
    .value-panel pre{font-family:Consolas,Monaco,monospace;font-size:13px;white-space:pre-wrap;word-break:break-all;max-height:300px;overflow-y:auto}
    .original-section{margin-top:40px}
    .original-grid{display:grid;grid-template-columns:1fr 1fr;gap:20px;margin-top:20px}
    .original-panel{border:1px solid #e0e0e0;border-radius:8px;overflow:hidden}
    .original-panel h4{background:#f8f9fa;padding:15px 20px;border-bottom:1px solid #e0e0e0;font-size:16px}
    .original-json{padding:20px;max-height:400px;overflow-y:auto;font-family:Consolas,Monaco,monospace;font-size:13px;background:#fafafa}
    @media (max-width:768px){
      .diff-body,.original-grid{grid-template-columns:1fr}
      .diff-header{flex-direction:column;align-items:flex-start;gap:8px}
    }
    .footer{text-align:center;padding:20px;color:#666;font-size:14px;border-top:1px solid #eaeaea;margin-top:30px}
`

// HTML renders a standalone page with one card per difference. Every
// interpolated string goes through escape.Markup, including the title.
func (g *Generator) HTML(diffs []models.DiffEntry, leftText, rightText string, cfg models.RenderConfig) string {
	stats := CalculateStats(diffs)
	now := g.now()
	title := escape.Markup(g.title)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("  <meta charset=\"UTF-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	buf.WriteString(fmt.Sprintf("  <title>%s</title>\n", title))
	buf.WriteString("  <style>\n" + htmlStyles + "  </style>\n</head>\n<body>\n")
	buf.WriteString("  <div class=\"report-container\">\n")
	buf.WriteString("    <div class=\"report-header\">\n")
	buf.WriteString(fmt.Sprintf("      <h1>📊 %s</h1>\n", title))
	buf.WriteString(fmt.Sprintf("      <div class=\"timestamp\">Generated: %s</div>\n", now.Format(localTimeLayout)))
	buf.WriteString("    </div>\n")
	buf.WriteString("    <div class=\"report-content\">\n")

	if cfg.IncludeStats {
		buf.WriteString("      <div class=\"stats-container\">\n")
		writeStat(&buf, "added", "Added", stats.Added)
		writeStat(&buf, "removed", "Removed", stats.Removed)
		writeStat(&buf, "modified", "Modified", stats.Modified)
		writeStat(&buf, "total", "Total", stats.Total)
		buf.WriteString("      </div>\n")
	}

	buf.WriteString("      <div class=\"diff-list\">\n")
	buf.WriteString(fmt.Sprintf("        <h2>📋 Differences (%d total)</h2>\n", stats.Total))
	for _, d := range diffs {
		writeCard(&buf, d, cfg)
	}
	buf.WriteString("      </div>\n")

	if cfg.IncludeOriginal {
		buf.WriteString("      <div class=\"original-section\">\n")
		buf.WriteString("        <h3>📄 Original Data</h3>\n")
		buf.WriteString("        <div class=\"original-grid\">\n")
		writeOriginal(&buf, "Left", leftText)
		writeOriginal(&buf, "Right", rightText)
		buf.WriteString("        </div>\n")
		buf.WriteString("      </div>\n")
	}

	buf.WriteString("    </div>\n")
	buf.WriteString(fmt.Sprintf("    <div class=\"footer\">%s • %s</div>\n", footer, now.UTC().Format(isoTimeLayout)))
	buf.WriteString("  </div>\n</body>\n</html>")
	return buf.String()
}

func writeStat(buf *bytes.Buffer, class, label string, value int) {
	buf.WriteString(fmt.Sprintf(
		"        <div class=\"stat-item %s\"><span class=\"stat-label\">%s</span><span class=\"stat-value\">%d</span></div>\n",
		class, label, value))
}

func writeCard(buf *bytes.Buffer, d models.DiffEntry, cfg models.RenderConfig) {
	path := hiddenPath
	if cfg.IncludePaths {
		path = escape.Markup(d.Path)
	}
	diffType := escape.Markup(string(d.Type))
	typeLabel := escape.Markup(strings.ToUpper(string(d.Type)))

	buf.WriteString("        <div class=\"diff-card\">\n")
	buf.WriteString("          <div class=\"diff-header\">\n")
	buf.WriteString(fmt.Sprintf("            <div class=\"path-section\"><span class=\"path-text\">%s</span></div>\n", path))
	buf.WriteString(fmt.Sprintf("            <span class=\"type-tag type-%s\">%s</span>\n", diffType, typeLabel))
	buf.WriteString("          </div>\n")
	buf.WriteString("          <div class=\"diff-body\">\n")
	if old, ok := d.Old(); ok {
		writePanel(buf, "old-value", "Old value", renderValue(old, cfg))
	}
	if nv, ok := d.New(); ok {
		writePanel(buf, "new-value", "New value", renderValue(nv, cfg))
	}
	buf.WriteString("          </div>\n")
	buf.WriteString("        </div>\n")
}

func writePanel(buf *bytes.Buffer, class, label, value string) {
	buf.WriteString(fmt.Sprintf(
		"            <div class=\"value-panel %s\"><div class=\"panel-label\">%s</div><pre>%s</pre></div>\n",
		class, label, escape.Markup(value)))
}

func writeOriginal(buf *bytes.Buffer, label, text string) {
	buf.WriteString(fmt.Sprintf(
		"          <div class=\"original-panel\"><h4>%s</h4><pre class=\"original-json\">%s</pre></div>\n",
		label, escape.Markup(originalOrPlaceholder(text))))
}
