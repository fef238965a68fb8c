package ui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle      = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true)
	hourLabelSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	gridLineSt    = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	nowLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	selectionSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("111")).Bold(true)
	todayMarkSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("255")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	capacityOkSt  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	capacityWarnS = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	capacityBadSt = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("170")).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)

	sheetBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))
	fieldLabelSt = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)
