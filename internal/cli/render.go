package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/pkg/models"
)

// Style definitions.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	typeStyles = map[models.WorkItemType]lipgloss.Style{
		models.WorkItemFR:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		models.WorkItemPR:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.WorkItemREQ:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		models.WorkItemTASK: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		models.WorkItemTEST: lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	}

	severityStyles = map[core.Severity]lipgloss.Style{
		core.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		core.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		core.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func styledType(t models.WorkItemType) string {
	if s, ok := typeStyles[t]; ok {
		return s.Render(string(t))
	}
	return string(t)
}

// workItemRows renders the effective tags of tt, one row per work item.
// Inherited rows name the ancestor that declared them. typ is the type
// filter tt was built with, empty for none.
func workItemRows(tt core.TaggedTarget, ancestors []string, typ models.WorkItemType, linker core.Linker) [][]string {
	if linker == nil {
		linker = core.NewLinker(nil)
	}
	inherited := len(tt.Inherited())
	origins := inheritedOrigins(inherited, ancestors, typ)

	rows := make([][]string, 0, len(tt.Effective))
	for i, w := range tt.Effective {
		from := ""
		if i < inherited {
			from = origins[i]
		}
		rows = append(rows, []string{
			tt.Target.String(),
			styledType(w.Type),
			w.ID,
			linker.Link(w),
			from,
		})
	}
	return rows
}

// inheritedOrigins maps each inherited tag index to the ancestor it came
// from. Ancestors contribute their own tags in resolution order.
func inheritedOrigins(n int, ancestors []string, typ models.WorkItemType) []string {
	origins := make([]string, 0, n)
	for _, a := range ancestors {
		for _, w := range Registry.OwnTags(models.ClassTarget(a)) {
			if typ == "" || w.Type == typ {
				origins = append(origins, a)
			}
		}
	}
	for len(origins) < n {
		origins = append(origins, "")
	}
	return origins
}
