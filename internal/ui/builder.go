package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/w3forms/internal/contract"
	"github.com/Mohsinsiddi/w3forms/internal/form"
	"github.com/Mohsinsiddi/w3forms/internal/wizard"
)

// ── Messages ─────────────────────────────────────────────────────────────────

// RefreshMsg re-renders the builder after a background state change
// (auto-save flags, record binding). Sent by the container subscription.
type RefreshMsg struct{}

// AutosaveErrorMsg surfaces a failed background save in the status bar.
type AutosaveErrorMsg struct{ Err error }

type definitionLoadedMsg struct{ err error }

// ── Key maps ─────────────────────────────────────────────────────────────────

type navKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding
}

func (k navKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit, k.Help}
}

func (k navKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit, k.Help},
	}
}

type contractKeyMap struct {
	Switch  key.Binding
	Load    key.Binding
	Builtin key.Binding
	Back    key.Binding
	Quit    key.Binding
}

func (k contractKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Load, k.Builtin, k.Back, k.Quit}
}

func (k contractKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Switch, k.Load, k.Builtin},
		{k.Back, k.Quit},
	}
}

type formKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Focus    key.Binding
	Edit     key.Binding
	Required key.Binding
	Hidden   key.Binding
	Method   key.Binding
	Finish   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Required, k.Method, k.Finish, k.Back}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Edit},
		{k.Required, k.Hidden, k.Method},
		{k.Finish, k.Back, k.Quit},
	}
}

type doneKeyMap struct {
	New  key.Binding
	Quit key.Binding
}

func (k doneKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.New, k.Quit} }

func (k doneKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.New, k.Quit}} }

func newNavKeys() navKeyMap {
	return navKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func newContractKeys() contractKeyMap {
	return contractKeyMap{
		Switch:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch input")),
		Load:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		Builtin: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "ERC-20 template")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func newFormKeys() formKeyMap {
	return formKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "title/description")),
		Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit label")),
		Required: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle required")),
		Hidden:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle hidden")),
		Method:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "execution method")),
		Finish:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "finish")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func newDoneKeys() doneKeyMap {
	return doneKeyMap{
		New:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new form")),
		Quit: key.NewBinding(key.WithKeys("q", "enter", "esc"), key.WithHelp("q", "quit")),
	}
}

// ── Model ────────────────────────────────────────────────────────────────────

type focusArea int

const (
	focusFields focusArea = iota
	focusAddress
	focusDefinition
	focusTitle
	focusDescription
)

// Builder is the bubbletea model for the five-step form builder. All state
// mutations go through the session's controllers; the model itself only
// carries view concerns (cursor, inputs, spinner).
type Builder struct {
	session *wizard.Session

	help         help.Model
	navKeys      navKeyMap
	contractKeys contractKeyMap
	formKeys     formKeyMap
	doneKeys     doneKeyMap

	spin    spinner.Model
	loading bool

	cursor int
	focus  focusArea

	addressInput textinput.Model
	defInput     textinput.Model
	titleInput   textinput.Model
	descInput    textinput.Model
	labelInput   textinput.Model

	editingField string // field id being renamed, empty when not editing

	status    string
	statusErr bool

	width    int
	height   int
	quitting bool
}

// NewBuilder creates the builder model over an existing wizard session.
func NewBuilder(session *wizard.Session) Builder {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StyleInfo

	address := textinput.New()
	address.Placeholder = "0x0000000000000000000000000000000000000000"
	address.Width = 46

	def := textinput.New()
	def.Placeholder = `[{"name":"transfer","type":"function", …}] or artifact JSON`
	def.Width = 64

	title := textinput.New()
	title.Placeholder = "Form title"
	title.Width = 46

	desc := textinput.New()
	desc.Placeholder = "Shown to the person filling the form"
	desc.Width = 64

	label := textinput.New()
	label.Width = 30

	b := Builder{
		session:      session,
		help:         help.New(),
		navKeys:      newNavKeys(),
		contractKeys: newContractKeys(),
		formKeys:     newFormKeys(),
		doneKeys:     newDoneKeys(),
		spin:         s,
		addressInput: address,
		defInput:     def,
		titleInput:   title,
		descInput:    desc,
		labelInput:   label,
	}
	b.syncInputs(session.Container.Snapshot())
	return b
}

// Init implements tea.Model.
func (b Builder) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (b Builder) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
		return b, nil

	case RefreshMsg:
		return b, nil

	case AutosaveErrorMsg:
		b.status = "auto-save failed: " + trimErr(msg.Err.Error())
		b.statusErr = true
		return b, nil

	case spinner.TickMsg:
		if !b.loading {
			return b, nil
		}
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		return b, cmd

	case definitionLoadedMsg:
		b.loading = false
		if msg.err != nil {
			b.status, b.statusErr = trimErr(msg.err.Error()), true
			return b, nil
		}
		b.cursor = 0
		b.syncInputs(b.session.Container.Snapshot())
		return b, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			b.quitting = true
			return b, tea.Quit
		}
		if b.loading {
			return b, nil
		}
		b.status, b.statusErr = "", false
		return b.handleKey(msg)
	}
	return b, nil
}

func (b Builder) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := b.session.Container.Snapshot()
	switch snap.CurrentStep {
	case wizard.StepNetwork:
		return b.updateNetworkStep(msg)
	case wizard.StepContract:
		return b.updateContractStep(msg, snap)
	case wizard.StepFunction:
		return b.updateFunctionStep(msg)
	case wizard.StepForm:
		return b.updateFormStep(msg, snap)
	default:
		return b.updateCompleteStep(msg)
	}
}

// ── Step: network ────────────────────────────────────────────────────────────

func (b Builder) updateNetworkStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nets := b.session.Network.Networks()
	switch {
	case key.Matches(msg, b.navKeys.Quit), msg.String() == "esc":
		b.quitting = true
		return b, tea.Quit
	case key.Matches(msg, b.navKeys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, b.navKeys.Down):
		if b.cursor < len(nets)-1 {
			b.cursor++
		}
	case key.Matches(msg, b.navKeys.Select):
		if b.cursor < len(nets) {
			if err := b.session.Network.Select(nets[b.cursor].ID); err != nil {
				b.status, b.statusErr = err.Error(), true
				return b, nil
			}
			b.cursor = 0
			b.syncInputs(b.session.Container.Snapshot())
		}
	case key.Matches(msg, b.navKeys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return b, nil
}

// ── Step: contract ───────────────────────────────────────────────────────────

func (b Builder) updateContractStep(msg tea.KeyMsg, snap wizard.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.contractKeys.Back):
		b.session.Back()
		b.cursor = 0
		return b, nil

	case key.Matches(msg, b.contractKeys.Switch):
		if b.focus == focusAddress {
			b.setFocus(focusDefinition)
		} else {
			b.setFocus(focusAddress)
		}
		return b, nil

	case key.Matches(msg, b.contractKeys.Builtin):
		b.loading = true
		return b, tea.Batch(b.spin.Tick, b.loadBuiltinCmd("erc20"))

	case key.Matches(msg, b.contractKeys.Load):
		addr := strings.TrimSpace(b.addressInput.Value())
		def := strings.TrimSpace(b.defInput.Value())
		// A resumed record carries its definition; reload it rather than
		// refetching when the user submits the prefilled form untouched.
		if snap.NeedsDefinitionLoad && def == "" && (addr == "" || addr == snap.Contract.Address) {
			b.loading = true
			return b, tea.Batch(b.spin.Tick, b.reloadCmd())
		}
		if addr == "" && def == "" {
			b.status, b.statusErr = "enter a contract address or paste a definition", true
			return b, nil
		}
		b.loading = true
		return b, tea.Batch(b.spin.Tick, b.loadCmd(contract.LoadInput{Address: addr, DefinitionText: def}))
	}

	var cmd tea.Cmd
	if b.focus == focusDefinition {
		b.defInput, cmd = b.defInput.Update(msg)
	} else {
		b.addressInput, cmd = b.addressInput.Update(msg)
	}
	return b, cmd
}

// ── Step: function ───────────────────────────────────────────────────────────

func (b Builder) updateFunctionStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := functionNav(b.session.Function.Functions())
	switch {
	case key.Matches(msg, b.navKeys.Quit):
		b.quitting = true
		return b, tea.Quit
	case key.Matches(msg, b.navKeys.Back):
		b.session.Back()
		b.setFocus(focusAddress)
		b.syncInputs(b.session.Container.Snapshot())
		return b, nil
	case key.Matches(msg, b.navKeys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, b.navKeys.Down):
		if b.cursor < len(nav)-1 {
			b.cursor++
		}
	case key.Matches(msg, b.navKeys.Select):
		if b.cursor < len(nav) {
			if err := b.session.Function.Select(nav[b.cursor].ID); err != nil {
				b.status, b.statusErr = err.Error(), true
				return b, nil
			}
			b.cursor = 0
			b.syncInputs(b.session.Container.Snapshot())
		}
	case key.Matches(msg, b.navKeys.Help):
		b.help.ShowAll = !b.help.ShowAll
	}
	return b, nil
}

// ── Step: form customize ─────────────────────────────────────────────────────

func (b Builder) updateFormStep(msg tea.KeyMsg, snap wizard.State) (tea.Model, tea.Cmd) {
	if snap.FormConfig == nil {
		if key.Matches(msg, b.formKeys.Back) {
			b.session.Back()
		}
		return b, nil
	}

	if b.editingField != "" {
		return b.updateLabelEdit(msg)
	}

	switch b.focus {
	case focusTitle:
		return b.updateTitleInput(msg, snap)
	case focusDescription:
		return b.updateDescriptionInput(msg, snap)
	}

	fields := snap.FormConfig.Fields
	switch {
	case key.Matches(msg, b.formKeys.Back):
		b.session.Back()
		b.cursor = 0
		return b, nil
	case key.Matches(msg, b.formKeys.Focus):
		b.setFocus(focusTitle)
	case key.Matches(msg, b.formKeys.Up):
		if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, b.formKeys.Down):
		if b.cursor < len(fields)-1 {
			b.cursor++
		}
	case key.Matches(msg, b.formKeys.Required):
		if b.cursor < len(fields) {
			id := fields[b.cursor].ID
			if err := b.session.Form.UpdateField(id, func(f *form.Field) { f.Required = !f.Required }); err != nil {
				b.status, b.statusErr = err.Error(), true
			}
		}
	case key.Matches(msg, b.formKeys.Hidden):
		if b.cursor < len(fields) {
			id := fields[b.cursor].ID
			if err := b.session.Form.UpdateField(id, func(f *form.Field) { f.Hidden = !f.Hidden }); err != nil {
				b.status, b.statusErr = err.Error(), true
			}
		}
	case key.Matches(msg, b.formKeys.Edit):
		if b.cursor < len(fields) {
			f := fields[b.cursor]
			b.editingField = f.ID
			b.labelInput.SetValue(f.Label)
			b.labelInput.Focus()
		}
	case key.Matches(msg, b.formKeys.Method):
		next := nextExecutionMethod(snap.FormConfig.Execution.Method)
		cfg := snap.FormConfig.Execution
		cfg.Method = next
		if err := b.session.Form.SetExecution(cfg); err != nil {
			b.status, b.statusErr = err.Error(), true
		}
	case key.Matches(msg, b.formKeys.Finish):
		if err := b.session.Form.Complete(); err != nil {
			b.status, b.statusErr = err.Error(), true
			return b, nil
		}
		b.cursor = 0
	}
	return b, nil
}

func (b Builder) updateLabelEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		id := b.editingField
		label := strings.TrimSpace(b.labelInput.Value())
		b.editingField = ""
		b.labelInput.Blur()
		if label != "" {
			if err := b.session.Form.UpdateField(id, func(f *form.Field) { f.Label = label }); err != nil {
				b.status, b.statusErr = err.Error(), true
			}
		}
		return b, nil
	case "esc":
		b.editingField = ""
		b.labelInput.Blur()
		return b, nil
	}
	var cmd tea.Cmd
	b.labelInput, cmd = b.labelInput.Update(msg)
	return b, cmd
}

func (b Builder) updateTitleInput(msg tea.KeyMsg, snap wizard.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "tab":
		title := strings.TrimSpace(b.titleInput.Value())
		// Only a real edit pins the title as custom.
		if title != "" && title != snap.FormConfig.Title {
			if err := b.session.Form.SetTitle(title); err != nil {
				b.status, b.statusErr = err.Error(), true
			}
		}
		b.setFocus(focusDescription)
		return b, nil
	case "esc":
		b.setFocus(focusFields)
		return b, nil
	}
	var cmd tea.Cmd
	b.titleInput, cmd = b.titleInput.Update(msg)
	return b, cmd
}

func (b Builder) updateDescriptionInput(msg tea.KeyMsg, snap wizard.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "tab":
		desc := strings.TrimSpace(b.descInput.Value())
		if desc != snap.FormConfig.Description {
			if err := b.session.Form.SetDescription(desc); err != nil {
				b.status, b.statusErr = err.Error(), true
			}
		}
		b.setFocus(focusFields)
		return b, nil
	case "esc":
		b.setFocus(focusFields)
		return b, nil
	}
	var cmd tea.Cmd
	b.descInput, cmd = b.descInput.Update(msg)
	return b, cmd
}

// ── Step: complete ───────────────────────────────────────────────────────────

func (b Builder) updateCompleteStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.doneKeys.New):
		b.session.StartNew()
		b.cursor = 0
		b.setFocus(focusFields)
		b.syncInputs(b.session.Container.Snapshot())
	case key.Matches(msg, b.doneKeys.Quit):
		b.quitting = true
		return b, tea.Quit
	}
	return b, nil
}

// ── Commands ─────────────────────────────────────────────────────────────────

func (b Builder) loadCmd(in contract.LoadInput) tea.Cmd {
	sess := b.session
	return func() tea.Msg {
		return definitionLoadedMsg{err: sess.Contract.Load(context.Background(), in)}
	}
}

func (b Builder) reloadCmd() tea.Cmd {
	sess := b.session
	return func() tea.Msg {
		return definitionLoadedMsg{err: sess.Contract.Reload(context.Background())}
	}
}

func (b Builder) loadBuiltinCmd(id string) tea.Cmd {
	sess := b.session
	return func() tea.Msg {
		return definitionLoadedMsg{err: sess.Contract.LoadBuiltin(context.Background(), id)}
	}
}

// ── View ─────────────────────────────────────────────────────────────────────

// View implements tea.Model.
func (b Builder) View() string {
	if b.quitting {
		return ""
	}
	snap := b.session.Container.Snapshot()

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("  w3forms · form builder") + "\n")
	sb.WriteString(stepCrumbs(snap.CurrentStep) + "\n\n")

	switch snap.CurrentStep {
	case wizard.StepNetwork:
		sb.WriteString(b.viewNetworkStep())
	case wizard.StepContract:
		sb.WriteString(b.viewContractStep(snap))
	case wizard.StepFunction:
		sb.WriteString(b.viewFunctionStep(snap))
	case wizard.StepForm:
		sb.WriteString(b.viewFormStep(snap))
	default:
		sb.WriteString(b.viewCompleteStep(snap))
	}

	sb.WriteString("\n" + b.viewStatus(snap) + "\n")
	sb.WriteString(b.help.View(b.currentKeys(snap)))
	return sb.String()
}

func stepCrumbs(current wizard.Step) string {
	names := []string{"Network", "Contract", "Function", "Form", "Done"}
	parts := make([]string, len(names))
	for i, name := range names {
		if wizard.Step(i) == current {
			parts[i] = StyleHeader.Render(name)
		} else {
			parts[i] = StyleMeta.Render(name)
		}
	}
	return "  " + strings.Join(parts, StyleMeta.Render(" › "))
}

func (b Builder) viewNetworkStep() string {
	nets := b.session.Network.Networks()

	tbl := NewTable([]Column{
		{Title: "NETWORK", Width: 22},
		{Title: "CHAIN ID", Width: 10},
		{Title: "TESTNET", Width: 8},
	})
	for _, n := range nets {
		chainID := ""
		if n.ChainID != 0 {
			chainID = strconv.FormatInt(n.ChainID, 10)
		}
		tbl.AddRow(Row{n.Name, chainID, yesNo(n.Testnet)})
	}
	tbl.SelIdx = b.cursor

	var sb strings.Builder
	sb.WriteString(StyleValue.Render("  Where will this form's contract live?") + "\n\n")
	sb.WriteString(indent(tbl.Render(), 2))
	sb.WriteString("\n" + StyleMeta.Render(fmt.Sprintf("  %d networks · custom entries come from networks.json or catalog sync", len(nets))) + "\n")
	return sb.String()
}

func (b Builder) viewContractStep(snap wizard.State) string {
	var sb strings.Builder

	net := snap.SelectedNetworkID
	sb.WriteString("  " + StyleMeta.Render("Network") + "  " + NetworkName(net) + "\n\n")

	sb.WriteString("  " + StyleValue.Render("Contract address") + "\n")
	sb.WriteString("  " + b.addressInput.View() + "\n\n")
	sb.WriteString("  " + StyleValue.Render("Or paste a definition (ABI array or build artifact)") + "\n")
	sb.WriteString("  " + b.defInput.View() + "\n\n")

	if b.loading {
		sb.WriteString("  " + b.spin.View() + StyleInfo.Render(" loading definition…") + "\n")
		return sb.String()
	}

	if snap.NeedsDefinitionLoad && snap.Contract.DefinitionJSON != "" {
		sb.WriteString("  " + Info("this form has a stored definition, press enter to load it") + "\n")
	}
	if snap.Contract.Err != "" {
		sb.WriteString("  " + Err(snap.Contract.Err) + "\n")
	}
	sb.WriteString("  " + Hint("ctrl+b loads the built-in ERC-20 template") + "\n")
	return sb.String()
}

func (b Builder) viewFunctionStep(snap wizard.State) string {
	nav := functionNav(b.session.Function.Functions())

	var reads, writes []contract.Function
	for _, fn := range nav {
		if fn.IsReadOnly() {
			reads = append(reads, fn)
		} else {
			writes = append(writes, fn)
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + StyleMeta.Render("Contract") + "  " + Addr(TruncateAddr(snap.Contract.Address)) + "\n")
	if snap.RequiresReimport {
		sb.WriteString("  " + Warn("definition was trimmed on export; reload the full definition to change the function") + "\n")
	}
	sb.WriteString("\n")

	pos := 0
	renderSection := func(title string, fns []contract.Function, nameStyle func(string) string) {
		if len(fns) == 0 {
			return
		}
		sb.WriteString(sectionHeader(fmt.Sprintf("%s (%d)", title, len(fns))) + "\n")
		for _, fn := range fns {
			selected := pos == b.cursor
			prefix := "    "
			if selected {
				prefix = "  ▸ "
			}
			line := fmt.Sprintf("%s%s  %s(%s)",
				prefix,
				StyleMeta.Render(fn.Selector),
				nameStyle(fn.Name),
				StyleMeta.Render(paramSig(fn.Inputs)),
			)
			if selected {
				sb.WriteString(StyleSelected.Render(line) + "\n")
			} else {
				sb.WriteString(line + "\n")
			}
			pos++
		}
		sb.WriteString("\n")
	}

	renderSection("Read", reads, func(s string) string { return StyleInfo.Render(s) })
	renderSection("Write", writes, func(s string) string { return StyleWarning.Render(s) })

	// Signature panel for the highlighted entry.
	if b.cursor < len(nav) {
		fn := nav[b.cursor]
		detail := fn.ID
		if len(fn.Outputs) > 0 {
			detail += "  →  " + paramSig(fn.Outputs)
		}
		sb.WriteString("  " + StyleMeta.Render(detail) + "\n")
	}
	return sb.String()
}

func (b Builder) viewFormStep(snap wizard.State) string {
	cfg := snap.FormConfig
	if cfg == nil {
		return "  " + Err("no form to customize; select a function first") + "\n"
	}

	var sb strings.Builder

	titleView := b.titleInput.View()
	if b.focus != focusTitle {
		titleView = StyleValue.Render(cfg.Title)
	}
	descView := b.descInput.View()
	if b.focus != focusDescription {
		if cfg.Description == "" {
			descView = StyleMeta.Render("(none)")
		} else {
			descView = StyleValue.Render(cfg.Description)
		}
	}
	sb.WriteString("  " + StyleMeta.Render(padR("Title", 13)) + titleView + "\n")
	sb.WriteString("  " + StyleMeta.Render(padR("Description", 13)) + descView + "\n")
	sb.WriteString("  " + StyleMeta.Render(padR("Execution", 13)) + StyleValue.Render(string(cfg.Execution.Method)) + "\n\n")

	sb.WriteString(sectionHeader(fmt.Sprintf("Fields (%d)", len(cfg.Fields))) + "\n")
	for i, f := range cfg.Fields {
		if b.editingField == f.ID {
			sb.WriteString("  ▸ " + b.labelInput.View() + StyleMeta.Render("  enter saves · esc cancels") + "\n")
			continue
		}

		required := StyleMeta.Render("optional")
		if f.Required {
			required = StyleInfo.Render("required")
		}
		flags := ""
		if f.Hidden {
			flags = StyleMeta.Render("  hidden")
		}

		selected := b.focus == focusFields && i == b.cursor
		prefix := "    "
		if selected {
			prefix = "  ▸ "
		}
		line := prefix +
			padR(StyleValue.Render(f.Label), 26) +
			padR(StyleMeta.Render(string(f.Type)), 12) +
			required + flags
		if selected {
			sb.WriteString(StyleSelected.Render(line) + "\n")
		} else {
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func (b Builder) viewCompleteStep(snap wizard.State) string {
	var sb strings.Builder
	sb.WriteString("  " + Success("Form complete") + "\n\n")

	pairs := [][2]string{
		{"Network", snap.SelectedNetworkID},
		{"Contract", snap.Contract.Address},
		{"Function", snap.SelectedFunction},
	}
	if snap.FormConfig != nil {
		pairs = append(pairs,
			[2]string{"Title", snap.FormConfig.Title},
			[2]string{"Fields", strconv.Itoa(len(snap.FormConfig.Fields))},
			[2]string{"Execution", string(snap.FormConfig.Execution.Method)},
		)
	}
	if snap.LoadedConfigurationID != "" {
		pairs = append(pairs, [2]string{"Record", snap.LoadedConfigurationID})
	}
	sb.WriteString(indent(KeyValueBlock("", pairs), 2) + "\n")
	sb.WriteString("  " + Hint("w3forms list shows every saved form") + "\n")
	return sb.String()
}

func (b Builder) viewStatus(snap wizard.State) string {
	var left string
	switch {
	case b.statusErr:
		left = Err(b.status)
	case b.status != "":
		left = Meta(b.status)
	}

	var save string
	switch {
	case snap.IsAutoSaving:
		save = StyleInfo.Render("● saving…")
	case snap.LoadedConfigurationID != "":
		save = StyleMeta.Render("✓ saved " + ShortID(snap.LoadedConfigurationID))
	}

	if left == "" {
		return "  " + save
	}
	if save == "" {
		return "  " + left
	}
	return "  " + left + "   " + save
}

func (b Builder) currentKeys(snap wizard.State) help.KeyMap {
	switch snap.CurrentStep {
	case wizard.StepContract:
		return b.contractKeys
	case wizard.StepForm:
		return b.formKeys
	case wizard.StepComplete:
		return b.doneKeys
	default:
		return b.navKeys
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (b *Builder) setFocus(f focusArea) {
	b.focus = f
	b.addressInput.Blur()
	b.defInput.Blur()
	b.titleInput.Blur()
	b.descInput.Blur()
	switch f {
	case focusAddress:
		b.addressInput.Focus()
	case focusDefinition:
		b.defInput.Focus()
	case focusTitle:
		b.titleInput.Focus()
	case focusDescription:
		b.descInput.Focus()
	}
}

// syncInputs refreshes the text inputs from a fresh snapshot after a step
// change or an external state load.
func (b *Builder) syncInputs(snap wizard.State) {
	b.addressInput.SetValue(snap.Contract.Address)
	b.defInput.SetValue("")
	if snap.FormConfig != nil {
		b.titleInput.SetValue(snap.FormConfig.Title)
		b.descInput.SetValue(snap.FormConfig.Description)
	} else {
		b.titleInput.SetValue("")
		b.descInput.SetValue("")
	}
	if snap.CurrentStep == wizard.StepContract {
		b.setFocus(focusAddress)
	} else {
		b.setFocus(focusFields)
	}
}

// functionNav orders functions for display and selection: reads first, then
// writes, keeping the schema order inside each group.
func functionNav(fns []contract.Function) []contract.Function {
	var reads, writes []contract.Function
	for _, fn := range fns {
		if fn.IsReadOnly() {
			reads = append(reads, fn)
		} else {
			writes = append(writes, fn)
		}
	}
	return append(reads, writes...)
}

func nextExecutionMethod(m form.ExecutionMethod) form.ExecutionMethod {
	switch m {
	case form.ExecutionEOA:
		return form.ExecutionRelayer
	case form.ExecutionRelayer:
		return form.ExecutionMultisig
	default:
		return form.ExecutionEOA
	}
}

func paramSig(params []contract.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Name != "" {
			parts[i] = p.Type + " " + p.Name
		} else {
			parts[i] = p.Type
		}
	}
	return strings.Join(parts, ", ")
}

func sectionHeader(title string) string {
	const sepWidth = 72
	hdr := fmt.Sprintf("  ── %s ", title)
	fill := sepWidth - len(hdr) - 2
	if fill < 0 {
		fill = 0
	}
	return StyleHeader.Render(hdr) + StyleMeta.Render(strings.Repeat("─", fill))
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n") + "\n"
}

// RunBuilder launches the interactive form builder over an existing session
// and blocks until the user exits. saveErrs, when non-nil, delivers
// auto-save failures into the status bar.
func RunBuilder(session *wizard.Session, saveErrs <-chan error) error {
	m := NewBuilder(session)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Background saves flip state flags outside the key loop; nudge the
	// program so the status bar stays current. The goroutine avoids blocking
	// the container's notify path while the program is mid-update.
	unsubscribe := session.Container.Subscribe(func(wizard.State) {
		go p.Send(RefreshMsg{})
	})
	defer unsubscribe()

	if saveErrs != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case err, ok := <-saveErrs:
					if !ok {
						return
					}
					p.Send(AutosaveErrorMsg{Err: err})
				case <-done:
					return
				}
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	return nil
}
