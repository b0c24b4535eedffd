package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: saved, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: write functions, warnings
	ColorError     = lipgloss.Color("#FF4444") // red: errors, destructive actions
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, record ids
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: primary values
	ColorMeta      = lipgloss.Color("#555555") // dim gray: timestamps, hints
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorNetwork   = lipgloss.Color("#9B5DE5") // purple: network names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: selected rows
	ColorInfo      = lipgloss.Color("#4EA8DE") // blue: read functions, info
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleNetwork = lipgloss.NewStyle().Foreground(ColorNetwork).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorNetwork).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the w3forms ASCII banner. version may be empty.
func Banner(version string) string {
	art := `
  ██╗    ██╗██████╗ ███████╗ ██████╗ ██████╗ ███╗   ███╗███████╗
  ██║    ██║╚════██╗██╔════╝██╔═══██╗██╔══██╗████╗ ████║██╔════╝
  ██║ █╗ ██║ █████╔╝█████╗  ██║   ██║██████╔╝██╔████╔██║███████╗
  ██║███╗██║ ╚═══██╗██╔══╝  ██║   ██║██╔══██╗██║╚██╔╝██║╚════██║
  ╚███╔███╔╝██████╔╝██║     ╚██████╔╝██║  ██║██║ ╚═╝ ██║███████║
   ╚══╝╚══╝ ╚═════╝ ╚═╝      ╚═════╝ ╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝`

	tagline := "     No-code forms for smart contract calls"
	if version != "" {
		tagline += "  ⚡  v" + version
	}
	features := StyleMeta.Render("  ✦ 20 networks  ✦ Auto-save  ✦ ABI import & export")

	return StyleNetwork.Render(art) + "\n" + StyleMeta.Render(tagline) + "\n" + features + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a followup suggestion.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address or record id.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// NetworkName formats a network name.
func NetworkName(n string) string { return StyleNetwork.Render(n) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
