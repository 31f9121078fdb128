// Package console is a line-oriented front end for the in-process stores:
// todos, notes, the counter, the calculator and the stopwatch share one
// session, so state survives between commands until the process exits.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskboard/internal/calculator"
	"taskboard/internal/counter"
	"taskboard/internal/models"
	"taskboard/internal/notes"
	"taskboard/internal/timer"
	"taskboard/internal/todo"
)

// ErrQuit is returned by Exec for "quit" and "exit".
var ErrQuit = errors.New("quit")

// Console dispatches commands to the stores it was built with.
type Console struct {
	Todos   *todo.Store
	Notes   *notes.Store
	Counter *counter.Counter
	Watch   *timer.Stopwatch
	out     io.Writer
}

// New returns a console with fresh stores writing to out.
func New(out io.Writer) *Console {
	return &Console{
		Todos:   todo.NewStore(),
		Notes:   notes.NewStore(),
		Counter: counter.New(0),
		Watch:   timer.New(),
		out:     out,
	}
}

// Run executes lines from in until EOF, "quit" or ctx is cancelled.
// Command errors are printed and do not stop the session.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := c.Exec(sc.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
	}
	return sc.Err()
}

// Exec runs a single command line.
func (c *Console) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	switch fields[0] {
	case "todo":
		return c.todo(rest)
	case "note":
		return c.note(rest)
	case "count":
		return c.count(rest)
	case "calc":
		v, err := calculator.Calculate(rest)
		if err != nil {
			return err
		}
		c.println(formatNumber(v))
	case "sqrt":
		x, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return fmt.Errorf("%w: %s", calculator.ErrInvalidNumber, rest)
		}
		v, err := calculator.Sqrt(x)
		if err != nil {
			return err
		}
		c.println(formatNumber(v))
	case "watch":
		return c.watch(rest)
	case "help":
		c.println(help)
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return nil
}

func (c *Console) todo(args string) error {
	sub, rest := split(args)
	switch sub {
	case "add":
		parts := pipeFields(rest, 2)
		if parts[0] == "" {
			return errors.New("usage: todo add <title> [| description]")
		}
		t := c.Todos.Add(parts[0], parts[1])
		c.printTodo(t)
	case "list", "":
		c.printTodos(c.Todos.List())
	case "done":
		c.printTodos(c.Todos.ListCompleted())
	case "pending":
		c.printTodos(c.Todos.ListPending())
	case "toggle":
		t, ok := c.Todos.Toggle(rest)
		if !ok {
			return fmt.Errorf("todo %s not found", rest)
		}
		c.printTodo(t)
	case "rm":
		if !c.Todos.Remove(rest) {
			return fmt.Errorf("todo %s not found", rest)
		}
		c.println("removed")
	case "clear":
		c.println(fmt.Sprintf("cleared %d", c.Todos.ClearCompleted()))
	default:
		return fmt.Errorf("unknown todo command %q", sub)
	}
	return nil
}

func (c *Console) note(args string) error {
	sub, rest := split(args)
	switch sub {
	case "add":
		parts := pipeFields(rest, 3)
		if parts[0] == "" {
			return errors.New("usage: note add <title> | <content> [| color]")
		}
		c.printNote(c.Notes.Add(parts[0], parts[1], parts[2]))
	case "edit":
		id, body := split(rest)
		parts := pipeFields(body, 3)
		var color *string
		if parts[2] != "" {
			color = &parts[2]
		}
		n, ok := c.Notes.Update(id, parts[0], parts[1], color)
		if !ok {
			return fmt.Errorf("note %s not found", id)
		}
		c.printNote(n)
	case "show":
		n, ok := c.Notes.Get(rest)
		if !ok {
			return fmt.Errorf("note %s not found", rest)
		}
		c.printNote(n)
		c.println("  " + n.Content)
	case "rm":
		if !c.Notes.Delete(rest) {
			return fmt.Errorf("note %s not found", rest)
		}
		c.println("removed")
	case "list", "":
		for _, n := range c.Notes.List() {
			c.printNote(n)
		}
	case "search":
		for _, n := range c.Notes.Search(rest) {
			c.printNote(n)
		}
	default:
		return fmt.Errorf("unknown note command %q", sub)
	}
	return nil
}

func (c *Console) count(args string) error {
	var v int
	switch args {
	case "inc", "+":
		v = c.Counter.Increment()
	case "dec", "-":
		v = c.Counter.Decrement()
	case "reset":
		v = c.Counter.Reset()
	case "show", "":
		v = c.Counter.Value()
	default:
		return fmt.Errorf("unknown count command %q", args)
	}
	c.println(strconv.Itoa(v))
	return nil
}

func (c *Console) watch(args string) error {
	switch args {
	case "start":
		c.Watch.Start()
	case "pause":
		c.Watch.Pause()
	case "reset":
		c.Watch.Reset()
	case "show", "":
	default:
		return fmt.Errorf("unknown watch command %q", args)
	}
	c.println(c.Watch.Format() + " " + c.Watch.Status().String())
	return nil
}

func (c *Console) printTodos(items []models.TodoItem) {
	for _, t := range items {
		c.printTodo(t)
	}
}

func (c *Console) printTodo(t models.TodoItem) {
	mark := " "
	if t.IsCompleted {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s %s", mark, t.ID, t.Title)
	if t.Description != "" {
		line += " - " + t.Description
	}
	c.println(line)
}

func (c *Console) printNote(n models.Note) {
	c.println(fmt.Sprintf("%s %s %s", n.ID, n.Color, n.Title))
}

func (c *Console) println(s string) { fmt.Fprintln(c.out, s) }

func split(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	head, rest, _ = strings.Cut(s, " ")
	return head, strings.TrimSpace(rest)
}

// pipeFields splits s on "|" into exactly n trimmed fields; the last field keeps any extra pipes.
func pipeFields(s string, n int) []string {
	out := make([]string, n)
	for i, p := range strings.SplitN(s, "|", n) {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

const help = `commands:
  todo add <title> [| description]   todo list|done|pending|clear
  todo toggle <id>                   todo rm <id>
  note add <title> | <content> [| color]
  note edit <id> <title> | <content> [| color]
  note show|rm <id>                  note list|search <query>
  count inc|dec|reset|show
  calc <a> <op> <b>                  sqrt <x>
  watch start|pause|reset|show
  quit`
