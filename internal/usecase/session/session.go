// Package session is the interactive driver: it reads operator commands,
// feeds them to the page actor, and prints every payload the engine posts on
// the channel. It plays the role the background orchestrator would play in a
// full deployment.
package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"page-pilot/internal/application/port/output"
	"page-pilot/internal/domain/entity"
	"page-pilot/internal/infrastructure/channel"
	"page-pilot/internal/usecase/actor"
)

// Browser is the slice of the browser adapter the driver needs directly;
// everything else goes through the actor.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Screenshot(ctx context.Context) ([]byte, error)
	CurrentURL() string
}

// StateSink receives each extracted page state, in addition to the console
// output. The inspect server hangs off this.
type StateSink interface {
	RecordPageState(state *entity.PageState)
}

type Session struct {
	actor   *actor.Actor
	pipe    *channel.Pipe
	browser Browser
	sink    StateSink
	log     output.LoggerPort

	in  io.Reader
	out io.Writer
}

func New(act *actor.Actor, pipe *channel.Pipe, browser Browser,
	sink StateSink, log output.LoggerPort) *Session {
	return &Session{
		actor:   act,
		pipe:    pipe,
		browser: browser,
		sink:    sink,
		log:     log,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run consumes pipe payloads in the background and processes commands until
// quit, EOF, or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.pipe.Close()

	go s.consume(ctx)

	fmt.Fprintln(s.out, "commands: goto URL | extract | click N | type N TEXT | select N TEXT |")
	fmt.Fprintln(s.out, "          enter N | enterf | hover N | up | down | highlight N |")
	fmt.Fprintln(s.out, "          discard | shot FILE | quit")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := s.handle(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Session) handle(ctx context.Context, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	switch cmd {
	case "goto":
		if rest == "" {
			return errors.New("goto needs a URL")
		}
		if err := s.browser.Navigate(ctx, rest); err != nil {
			return err
		}
		// Echo where navigation actually landed; redirects make this
		// differ from the requested URL.
		fmt.Fprintf(s.out, "at %s\n", s.browser.CurrentURL())
		return nil
	case "extract":
		return s.actor.Extract(ctx)
	case "discard":
		s.actor.Discard()
		return nil
	case "click":
		return s.perform(ctx, entity.ActionClick, rest, false)
	case "type":
		return s.perform(ctx, entity.ActionType, rest, true)
	case "select":
		return s.perform(ctx, entity.ActionSelect, rest, true)
	case "enter":
		return s.perform(ctx, entity.ActionPressEnter, rest, false)
	case "enterf":
		return s.actor.Perform(ctx, entity.ActionRequest{Kind: entity.ActionPressEnterFocused})
	case "hover":
		return s.perform(ctx, entity.ActionHover, rest, false)
	case "up":
		return s.actor.Perform(ctx, entity.ActionRequest{Kind: entity.ActionScrollUp})
	case "down":
		return s.actor.Perform(ctx, entity.ActionRequest{Kind: entity.ActionScrollDown})
	case "highlight":
		index, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return fmt.Errorf("highlight needs an element index: %w", err)
		}
		return s.actor.Highlight(ctx, index)
	case "shot":
		return s.screenshot(ctx, strings.TrimSpace(rest))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// perform parses "N" or "N VALUE" out of rest and dispatches the action.
func (s *Session) perform(ctx context.Context, kind entity.ActionKind, rest string, takesValue bool) error {
	indexPart, value, _ := strings.Cut(strings.TrimSpace(rest), " ")
	index, err := strconv.Atoi(indexPart)
	if err != nil {
		return fmt.Errorf("%s needs an element index: %w", strings.ToLower(string(kind)), err)
	}
	if !takesValue {
		value = ""
	}
	return s.actor.Perform(ctx, entity.ActionRequest{Kind: kind, Target: index, Value: value})
}

func (s *Session) screenshot(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("shot needs a file path")
	}
	img, err := s.browser.Screenshot(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	fmt.Fprintf(s.out, "saved %s (%d bytes)\n", path, len(img))
	return nil
}

// consume prints every engine payload and forwards page states to the sink.
func (s *Session) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-s.pipe.Messages():
			s.print(m)
		}
	}
}

func (s *Session) print(m channel.Message) {
	switch m.Kind {
	case channel.KindPageState:
		if s.sink != nil {
			s.sink.RecordPageState(m.PageState)
		}
		fmt.Fprintf(s.out, "\n[page] %s (%d interactive elements)\n",
			m.PageState.URL, len(m.PageState.InteractiveElements))
		for _, rec := range m.PageState.InteractiveElements {
			fmt.Fprintf(s.out, "  %3d  <%s>  %s\n", rec.Index, rec.TagSignature, rec.Description)
		}
	case channel.KindActionResult:
		data, err := json.Marshal(m.ActionResult)
		if err != nil {
			s.log.Error("failed to marshal action result", "error", err)
			return
		}
		fmt.Fprintf(s.out, "\n[result] %s\n", data)
	case channel.KindTerminal:
		fmt.Fprintf(s.out, "\n[terminal] %s\n", m.Terminal.Reason)
	}
}
