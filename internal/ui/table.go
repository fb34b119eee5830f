package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/podfetch-console/internal/models"
)

// UserTableHeaders are the columns of [Palette.UserTable].
var UserTableHeaders = []string{"Username", "Role", "Explicit Consent", "Created at"}

// UserTable renders users as a pipe-delimited table. IDs and passwords are never shown.
func (p *Palette) UserTable(users []models.UserSummary) string {
	cell := p.renderer.NewStyle().Padding(0, 1)
	header := cell.Inherit(p.title)

	t := table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderStyle(p.renderer.NewStyle()).
		Headers(UserTableHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, u := range users {
		t.Row(u.Username, u.Role.String(), strconv.FormatBool(u.ExplicitConsent), u.CreatedAt.Format(time.DateTime))
	}

	return t.String()
}
