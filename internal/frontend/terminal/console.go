package terminal

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

var menuCodes = map[string]int{
	command.HandlerAttack: battle.MenuAttack,
	command.HandlerSkill:  battle.MenuSkill,
	command.HandlerItem:   battle.MenuItem,
	command.HandlerSave:   battle.MenuSave,
	command.HandlerLoad:   battle.MenuLoad,
	command.HandlerUndo:   battle.MenuUndo,
	command.HandlerRedo:   battle.MenuRedo,
}

// Console reads hero decisions line by line and writes rendered events.
// It implements battle.Input; Notify is a battle.Notifier.
//
// Arguments typed after a command answer the following prompts, so
// "skill 1 2" picks the first skill and the second target, and
// "save run.csv" saves without asking for a path.
type Console struct {
	reader   *bufio.Reader
	mu       sync.Mutex
	out      io.Writer
	registry *command.Registry
	color    bool
	roster   *combat.Roster

	pending []string
	path    *string
}

// Option configures a Console.
type Option func(*Console)

// WithColor enables or disables ANSI colors. Colors are on by default.
func WithColor(on bool) Option {
	return func(c *Console) { c.color = on }
}

// NewConsole creates a Console over in and out.
//
// Precondition: in and out must be non-nil.
func NewConsole(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		reader:   bufio.NewReaderSize(in, 4096),
		out:      out,
		registry: command.DefaultRegistry(),
		color:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Watch sets the roster shown by the status command.
func (c *Console) Watch(r *combat.Roster) { c.roster = r }

// Notify writes one rendered event. It has the battle.Notifier signature.
func (c *Console) Notify(ev battle.Event) {
	c.write(RenderEvent(ev) + "\n")
}

// Print writes pre-rendered text.
func (c *Console) Print(text string) {
	c.write(text)
}

func (c *Console) write(text string) {
	if !c.color {
		text = StripANSI(text)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = io.WriteString(c.out, text)
}

func (c *Console) prompt(text string) {
	c.write(Colorize(Bold, text))
}

// ReadLine reads a single line of input, dropping control characters.
// The returned line does not include the trailing line terminator.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
func (c *Console) ReadLine() (string, error) {
	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			if err == io.EOF && line.Len() > 0 {
				return line.String(), nil
			}
			return line.String(), err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			break
		}
		if b < 32 && b != '\t' {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}

// ChooseAction implements battle.Input. Status and help are answered here
// and the menu is shown again. A number that names no command is passed
// through so the session can reject it.
func (c *Console) ChooseAction(hero *combat.Combatant) (int, error) {
	c.pending, c.path = nil, nil
	for {
		c.write(RenderActionMenu(hero))
		c.prompt("> ")
		line, err := c.ReadLine()
		if err != nil {
			return 0, err
		}
		parsed := command.Parse(line)
		if parsed.Command == "" {
			continue
		}
		cmd, ok := c.registry.Resolve(parsed.Command)
		if !ok {
			if n, err := strconv.Atoi(parsed.Command); err == nil {
				return n, nil
			}
			c.write(Colorf(Red, "Unknown command %q. Type help for a list.", parsed.Command) + "\n")
			continue
		}
		switch cmd.Handler {
		case command.HandlerStatus:
			if c.roster != nil {
				c.write(RenderRoster(c.roster))
			}
			continue
		case command.HandlerHelp:
			c.write(RenderHelp(c.registry))
			continue
		case command.HandlerBack:
			continue
		case command.HandlerSave, command.HandlerLoad:
			if parsed.RawArgs != "" {
				p := parsed.RawArgs
				c.path = &p
			}
		default:
			c.pending = parsed.Args
		}
		return menuCodes[cmd.Handler], nil
	}
}

// ChooseSkill implements battle.Input.
func (c *Console) ChooseSkill(hero *combat.Combatant, skills []combat.Skill) (int, error) {
	return c.chooseIndex(RenderSkills(hero, skills, c.roster), "Skill #: ")
}

// ChooseItem implements battle.Input.
func (c *Console) ChooseItem(hero *combat.Combatant, items []inventory.Stack) (int, error) {
	return c.chooseIndex(RenderItems(hero, items), "Item #: ")
}

// ChooseTarget implements battle.Input.
func (c *Console) ChooseTarget(prompt string, candidates []*combat.Combatant) (int, error) {
	return c.chooseIndex(RenderTargets(prompt, candidates), "Target #: ")
}

// ChoosePath implements battle.Input. A blank answer selects the default.
func (c *Console) ChoosePath(prompt string) (string, error) {
	if c.path != nil {
		p := *c.path
		c.path = nil
		return p, nil
	}
	c.prompt(prompt + " (blank for default): ")
	line, err := c.ReadLine()
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if cmd, ok := c.registry.Resolve(line); ok && cmd.Handler == command.HandlerBack {
		return "", battle.ErrBack
	}
	return line, nil
}

// chooseIndex turns a 1-based answer into a 0-based index. A pending
// argument is used before reading; anything that is not a number is -1.
//
// Postcondition: returns battle.ErrBack when the answer is the back command.
func (c *Console) chooseIndex(listing, prompt string) (int, error) {
	var answer string
	if len(c.pending) > 0 {
		answer, c.pending = c.pending[0], c.pending[1:]
	} else {
		c.write(listing)
		c.prompt(prompt)
		line, err := c.ReadLine()
		if err != nil {
			return 0, err
		}
		answer = strings.TrimSpace(line)
	}
	if cmd, ok := c.registry.Resolve(answer); ok && cmd.Handler == command.HandlerBack {
		c.pending = nil
		return 0, battle.ErrBack
	}
	n := command.Choice(answer)
	if n < 0 {
		c.pending = nil
	}
	return n, nil
}
