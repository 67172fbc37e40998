// Package tui is the interactive terminal front end of the directory. A
// Bubble Tea Model owns a browser.Browser and translates key presses into
// its transitions.
package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gartstein/directory/internal/directory/browser"
	"github.com/gartstein/directory/internal/directory/catalog"
	e "github.com/gartstein/directory/internal/directory/errors"
	"github.com/gartstein/directory/internal/directory/models"
	"github.com/gartstein/directory/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	keyQuit    = "q"
	keyCtrlC   = "ctrl+c"
	keySlash   = "/"
	keyEnter   = "enter"
	keyEsc     = "esc"
	keyIndus   = "i"
	keyLoc     = "l"
	keyBucket  = "e"
	keySort    = "s"
	keyReset   = "x"
	keyRetry   = "r"
	keyLeft    = "left"
	keyRight   = "right"
	keyPrevAlt = "h"
	keyNextAlt = "n"
)

// catalogLoadedMsg carries the outcome of the fetch tagged seq.
type catalogLoadedMsg struct {
	seq       uint64
	companies []models.Company
	err       error
}

// Model is the Bubble Tea model of the directory browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View.
type Model struct {
	ctx     context.Context
	source  catalog.Source
	logger  *zap.Logger
	browser *browser.Browser

	search   textinput.Model
	editing  bool
	width    int
	quitting bool
}

// New builds a Model that loads its catalog from source once started.
func New(ctx context.Context, source catalog.Source, pageSize int, logger *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Search by name, description or location"
	ti.Prompt = "search: "
	ti.CharLimit = 64

	return Model{
		ctx:     ctx,
		source:  source,
		logger:  logger.Named("tui"),
		browser: browser.New(pageSize),
		search:  ti,
		width:   defaultWidth,
	}
}

// Browser exposes the underlying state machine.
func (m Model) Browser() *browser.Browser { return m.browser }

// Init starts the first catalog fetch.
func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// fetch issues a new tagged fetch. Completions of earlier fetches are
// discarded when they arrive.
func (m Model) fetch() tea.Cmd {
	seq := m.browser.BeginFetch()
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		companies, err := source.LoadCatalog(ctx)
		return catalogLoadedMsg{seq: seq, companies: companies, err: err}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case catalogLoadedMsg:
		return m.handleCatalogLoaded(msg)
	}

	if m.editing {
		return m.handleSearchInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeypress(keyMsg)
	}
	return m, nil
}

func (m Model) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	errMsg := ""
	if msg.err != nil {
		m.logger.Error("Failed to load catalog", zap.Error(msg.err))
		errMsg = e.UserMessage
	}
	if !m.browser.CompleteFetch(msg.seq, msg.companies, errMsg) {
		m.logger.Debug("Discarding stale catalog fetch", zap.Uint64("seq", msg.seq))
		return m, nil
	}
	if msg.err == nil {
		m.logger.Info("Catalog loaded", zap.Int("companies", len(msg.companies)))
	}
	return m, nil
}

func (m Model) handleSearchInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.editing = false
			m.search.Blur()
			return m, nil
		case keyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.browser.UpdateFilters(models.FilterPatch{Search: &after})
	}
	return m, cmd
}

func (m Model) handleKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case keyRetry:
		if m.browser.Loading() {
			return m, nil
		}
		return m, m.fetch()
	}

	// Everything below needs a catalog.
	if !m.browser.Loaded() {
		return m, nil
	}

	switch keyMsg.String() {
	case keySlash:
		m.editing = true
		m.search.Focus()
		return m, textinput.Blink
	case keyIndus:
		m.browser.UpdateFilters(models.FilterPatch{Industry: utils.Ptr(cycle(m.industryOptions(), m.browser.Filter().Industry))})
	case keyLoc:
		m.browser.UpdateFilters(models.FilterPatch{Location: utils.Ptr(cycle(m.locationOptions(), m.browser.Filter().Location))})
	case keyBucket:
		m.browser.UpdateFilters(models.FilterPatch{Employees: utils.Ptr(cycle(models.Buckets, m.browser.Filter().Employees))})
	case keySort:
		m.browser.SetSort(cycle(models.SortOptions, m.browser.Sort()))
	case keyReset:
		m.search.SetValue("")
		m.browser.ResetFilters()
	case keyLeft, keyPrevAlt:
		m.browser.PrevPage()
	case keyRight, keyNextAlt:
		m.browser.NextPage()
	}
	return m, nil
}

func (m Model) industryOptions() []string {
	return append([]string{models.All}, catalog.Industries(m.browser.Catalog())...)
}

func (m Model) locationOptions() []string {
	return append([]string{models.All}, catalog.Locations(m.browser.Catalog())...)
}

// cycle returns the option after current, wrapping around. An unknown
// current value restarts at the first option.
func cycle[T comparable](options []T, current T) T {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}
