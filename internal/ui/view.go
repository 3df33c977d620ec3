package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/model"
	"github.com/abelbrown/hogwash/internal/player"
	"github.com/abelbrown/hogwash/internal/session"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerLines = 1
	footerLines = 4 // now playing, progress, notice, help
)

const recommendFailed = "We couldn't Forage for you this time. Please try again later."

// View renders the App.
func (a App) View() string {
	header := a.renderHeader()
	footer := a.renderFooter()
	bodyH := a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch {
	case a.prompt.active():
		body = lipgloss.Place(a.width, bodyH, lipgloss.Center, lipgloss.Center, a.prompt.view(a.width))
	case a.palette.IsActive():
		body = lipgloss.Place(a.width, bodyH, lipgloss.Center, lipgloss.Top, a.palette.View())
	case a.debug:
		body = debugOverlay(a.deps.Ring, a.width, bodyH)
	default:
		body = a.renderBody(bodyH)
	}
	body = lipgloss.NewStyle().Height(bodyH).MaxHeight(bodyH).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// bodyHeight is the body area with the short help footer.
func (a App) bodyHeight() int {
	return max(3, a.height-headerLines-footerLines)
}

func (a App) renderHeader() string {
	title := Header.Render(" OINK · VIDEO HOGG ")
	view := ViewTitle.Render(" " + a.viewTitle())

	status := ""
	for _, p := range a.deps.Content.Platforms() {
		if a.deps.Content.Loading(p.ID) {
			status = CardMeta.Render("  refreshing " + p.Name + "…")
			break
		}
	}
	return title + view + status
}

func (a App) viewTitle() string {
	s := a.deps.Session
	switch s.View() {
	case session.ViewFeed:
		return "The Trough"
	case session.ViewPlayer:
		return a.platformName(s.Platform())
	case session.ViewLive:
		return "LIVE"
	case session.ViewRecommend:
		return "Forage For Me"
	case session.ViewBinge:
		return "HOGG WILD"
	case session.ViewHistory:
		return "Left-Overs"
	case session.ViewMudhole:
		return "Mud Hole"
	case session.ViewNewsroom:
		return "Newsroom"
	}
	return s.View().String()
}

func (a App) renderFooter() string {
	lines := []string{a.renderNowPlaying(), a.renderProgress(), a.renderNotice()}
	lines = append(lines, a.help.View(a.keys))
	return strings.Join(lines, "\n")
}

func (a App) renderNowPlaying() string {
	s := a.deps.Session
	if _, ok := s.NowPlaying(); !ok {
		return StatusBar.Render("Nothing playing")
	}
	m := s.Media()
	line := "▶ " + m.Title
	switch {
	case s.Queued():
		line += "  (waiting for player)"
	case s.Paused():
		line = "⏸ " + m.Title
	}
	switch m.Kind {
	case player.Widget:
		line += "  · in browser"
	case player.Preview:
		line += "  · preview"
	}
	return NowPlaying.Render(truncate(line, a.width-2))
}

func (a App) renderProgress() string {
	if a.duration <= 0 {
		return ""
	}
	pct := a.position / a.duration
	if pct > 1 {
		pct = 1
	}
	return a.progress.ViewAs(pct) + CardMeta.Render(" "+clock(a.position)+" / "+clock(a.duration))
}

func (a App) renderNotice() string {
	if a.notice == "" {
		return ""
	}
	if a.noticeErr {
		return ErrorStyle.Render(a.notice)
	}
	return NoticeStyle.Render(a.notice)
}

func clock(seconds float64) string {
	s := int(seconds)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func (a App) renderBody(height int) string {
	s := a.deps.Session
	switch s.View() {
	case session.ViewFeed:
		return a.renderFeed(height)
	case session.ViewPlayer, session.ViewBinge:
		return a.renderGrid(height)
	case session.ViewRecommend:
		return a.renderRecommend(height)
	case session.ViewLive, session.ViewHistory:
		return a.renderList(s.Playlist(), height)
	case session.ViewNewsroom:
		return renderNewsroom(a.deps.Newsroom, a.width, height)
	case session.ViewMudhole:
		return a.md.render(mudholeMarkdown(a.points, s.History().Items()), a.width)
	}
	return ""
}

// nowKey is the identity of the playing record, or "".
func (a App) nowKey() string {
	if v, ok := a.deps.Session.NowPlaying(); ok {
		return v.Key()
	}
	return ""
}

func (a App) renderGrid(height int) string {
	list := a.deps.Session.Playlist()
	if len(list) == 0 {
		return CardMeta.Render("Rooting around for slop… (r to refresh)")
	}
	grid := a.grid
	if len(grid.items) != len(list) {
		grid = layoutMasonry(list, a.width)
	}
	now := a.nowKey()
	block := grid.render(list, func(i int) cardState {
		switch {
		case i == a.cursor:
			return cardSelected
		case list[i].Key() == now:
			return cardPlaying
		}
		return cardNormal
	})
	return window(block, a.scroll.offset(), height)
}

func (a App) renderList(list []model.Video, height int) string {
	if len(list) == 0 {
		return CardMeta.Render("Nothing here yet.")
	}
	now := a.nowKey()
	var rows []string
	top, cursorH := 0, 0
	lines := 0
	for i, v := range list {
		state := cardNormal
		switch {
		case i == a.cursor:
			state = cardSelected
		case v.Key() == now:
			state = cardPlaying
		}
		row := renderRow(v, a.width, state)
		h := lipgloss.Height(row)
		if i == a.cursor {
			top, cursorH = lines, h
		}
		lines += h
		rows = append(rows, row)
	}
	offset := 0
	if top+cursorH > height {
		offset = top + cursorH - height
	}
	return window(strings.Join(rows, "\n"), offset, height)
}

func (a App) renderRecommend(height int) string {
	state, errText := a.deps.Session.Recommend()
	switch state {
	case session.RecommendEmpty:
		return a.md.render(recommendEmptyMarkdown, a.width)
	case session.RecommendLoading:
		return a.spinner.View() + " " + CardMeta.Render("Foraging through your left-overs for fresh slop…")
	case session.RecommendFailed:
		return ErrorStyle.Render(recommendFailed) + "\n" + CardMeta.Render(errText)
	}
	return a.renderList(a.deps.Session.Playlist(), height)
}
