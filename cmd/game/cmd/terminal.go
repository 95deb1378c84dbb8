package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/server"
)

var errQuit = errors.New("quit")

// terminal is a line-oriented prompt on top of any reader and writer.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) readLine() (string, error) {
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.in.Text()), nil
}

// ask returns the typed answer, or def on an empty line.
func (t *terminal) ask(prompt, def string) (string, error) {
	t.printf("%s [%s]: ", prompt, def)
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// choose shows a numbered menu and returns the picked option.
func (t *terminal) choose(prompt string, options []string) (string, error) {
	for {
		t.printf("%s\n", prompt)
		for i, o := range options {
			t.printf("  %d) %s\n", i+1, o)
		}
		t.printf("> ")
		line, err := t.readLine()
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, o := range options {
			if strings.EqualFold(o, line) {
				return o, nil
			}
		}
		t.printf("Unknown choice %q.\n", line)
	}
}

// match is a fight the terminal can drive, local or remote.
type match interface {
	Act(ctx context.Context, action string) (server.ActionResponse, error)
}

var commands = map[string]string{
	"h": server.ActionHit, "hit": server.ActionHit,
	"s": server.ActionSkill, "skill": server.ActionSkill,
	"p": server.ActionPass, "pass": server.ActionPass,
}

// fight reads commands until the match is over or the player quits.
func (t *terminal) fight(ctx context.Context, m match, start server.ActionResponse) (server.ActionResponse, error) {
	last := start
	t.render(last)
	for {
		if last.State != nil && last.State.Status == game.StatusFinished {
			return last, nil
		}
		t.printf("[h]it, [s]kill, [p]ass, [q]uit > ")
		line, err := t.readLine()
		if err != nil {
			return last, err
		}
		line = strings.ToLower(line)
		if line == "q" || line == "quit" {
			return last, errQuit
		}
		action, ok := commands[line]
		if !ok {
			t.printf("Unknown command %q.\n", line)
			continue
		}
		resp, err := m.Act(ctx, action)
		if err != nil {
			return last, err
		}
		last = resp
		t.render(resp)
	}
}

func (t *terminal) render(r server.ActionResponse) {
	if r.Result != "" {
		t.printf("%s\n", r.Result)
	}
	if st := r.State; st != nil && st.Player != nil && st.Enemy != nil {
		t.printf("  %s\n  %s\n", statusLine(st.Player), statusLine(st.Enemy))
	}
	if r.BattleResult != "" {
		t.printf("%s\n", r.BattleResult)
	}
}

func statusLine(c *game.CombatantState) string {
	skill := c.Skill
	if c.SkillUsed {
		skill += " (used)"
	}
	return fmt.Sprintf("%-12s %-8s HP %5.1f/%-5.1f ST %5.1f/%-5.1f %s",
		c.Name, c.Class, c.Health, c.MaxHealth, c.Stamina, c.MaxStamina, skill)
}
