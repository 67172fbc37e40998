package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/gartstein/directory/internal/directory/pagination"
)

const defaultWidth = 80

// Colors.
var (
	ColorTitle   = lipgloss.Color("33")
	ColorLabel   = lipgloss.Color("245")
	ColorValue   = lipgloss.Color("252")
	ColorAccent  = lipgloss.Color("220")
	ColorError   = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("240")
	ColorCurrent = lipgloss.Color("39")
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(ColorTitle).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle   = lipgloss.NewStyle().Foreground(ColorValue)
	accentStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	currentStyle = lipgloss.NewStyle().Foreground(ColorCurrent).Bold(true).Underline(true)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted).Padding(0, 1)
)

const helpLine = "/ search  i industry  l location  e size  s sort  ←/→ page  x reset  r reload  q quit"

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("COMPANIES DIRECTORY"))
	sb.WriteString("\n\n")

	b := m.browser
	switch {
	case b.Loading() && !b.Loaded():
		sb.WriteString(accentStyle.Render("LOADING COMPANIES..."))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Please wait while we fetch the data!"))
		sb.WriteString("\n")
		return sb.String()
	case b.Err() != "" && !b.Loaded():
		sb.WriteString(renderError(b.Err()))
		return sb.String()
	}

	if m.editing || m.search.Value() != "" {
		sb.WriteString(m.search.View())
		sb.WriteString("\n")
	}
	sb.WriteString(renderFilters(b.Filter(), b.Sort()))
	sb.WriteString("\n")
	if b.Loading() {
		sb.WriteString(mutedStyle.Render("refreshing..."))
		sb.WriteString("\n")
	}
	if b.Err() != "" {
		sb.WriteString(renderError(b.Err()))
	}

	page := b.View()
	sb.WriteString(accentStyle.Render(fmt.Sprintf("Showing %d companies", page.TotalItems)))
	sb.WriteString("\n\n")

	if len(page.Visible) == 0 {
		sb.WriteString(errorStyle.Render("NO COMPANIES FOUND!"))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Try adjusting your filters to see more results."))
		sb.WriteString("\n")
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	for _, c := range page.Visible {
		sb.WriteString(renderCard(c, width))
		sb.WriteString("\n")
	}

	if page.ShowControls {
		sb.WriteString(renderPagination(page))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(helpLine))
	return sb.String()
}

func renderError(msg string) string {
	return errorStyle.Render("ERROR! SOMETHING WENT WRONG!") + "\n" +
		valueStyle.Render(msg) + "\n" +
		mutedStyle.Render("press r to try again") + "\n"
}

func renderFilters(f models.Filter, s models.Sort) string {
	industry := f.Industry
	if industry == models.All {
		industry = "All Industries"
	}
	location := f.Location
	if location == models.All {
		location = "All Locations"
	}

	parts := []string{
		labelStyle.Render("industry ") + valueStyle.Render(industry),
		labelStyle.Render("location ") + valueStyle.Render(location),
		labelStyle.Render("size ") + valueStyle.Render(f.Employees.Label()),
		labelStyle.Render("sort ") + valueStyle.Render(s.Label()),
	}
	line := strings.Join(parts, "  ")
	if !f.IsDefault() {
		line = accentStyle.Render("ACTIVE FILTERS: ") + line
	}
	return line
}

func renderCard(c models.Company, width int) string {
	body := titleStyle.Render(c.Name) + "\n" +
		labelStyle.Render(c.Industry+" · "+c.Location) + "\n" +
		valueStyle.Render(c.Description) + "\n" +
		labelStyle.Render(fmt.Sprintf("%d employees · Founded %d · Revenue %s", c.Employees, c.Founded, c.Revenue))
	return cardStyle.Width(width).Render(body)
}

func renderPagination(p pagination.Page) string {
	nums := make([]string, 0, len(p.Window))
	for _, n := range p.Window {
		if n == p.CurrentPage {
			nums = append(nums, currentStyle.Render(strconv.Itoa(n)))
			continue
		}
		nums = append(nums, valueStyle.Render(strconv.Itoa(n)))
	}

	prev, next := mutedStyle.Render("‹"), mutedStyle.Render("›")
	if p.HasPrev {
		prev = valueStyle.Render("‹")
	}
	if p.HasNext {
		next = valueStyle.Render("›")
	}

	summary := fmt.Sprintf("PAGE %d OF %d | Showing %d to %d of %d results",
		p.CurrentPage, p.TotalPages, p.RangeStart, p.RangeEnd, p.TotalItems)
	return labelStyle.Render(summary) + "\n" + prev + " " + strings.Join(nums, " ") + " " + next
}
