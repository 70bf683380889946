// Package console is a line-oriented Messenger for local development: the
// bot can be driven from a terminal without a messaging platform account.
//
// Input syntax, one event per line:
//
//	/command            command
//	btn:<payload>       button press
//	photo:<file-id>     image upload
//	anything else       plain text
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/avzakharova/studio-bot/internal/transport"
)

type Console struct {
	out     io.Writer
	mu      sync.Mutex
	nextID  atomic.Int64
	updates chan transport.Update
	user    transport.User
}

// New wires a console messenger around the given reader/writer. All inbound
// lines are attributed to the supplied user identity.
func New(in io.Reader, out io.Writer, user transport.User) *Console {
	c := &Console{
		out:     out,
		updates: make(chan transport.Update),
		user:    user,
	}
	go c.readLoop(in)
	return c
}

func (c *Console) readLoop(in io.Reader) {
	defer close(c.updates)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.updates <- c.parse(line)
	}
}

func (c *Console) parse(line string) transport.Update {
	u := transport.Update{From: c.user}
	switch {
	case strings.HasPrefix(line, "/"):
		u.Kind = transport.UpdateCommand
		u.Command = strings.TrimPrefix(strings.Fields(line)[0], "/")
	case strings.HasPrefix(line, "btn:"):
		u.Kind = transport.UpdateCallback
		u.Data = strings.TrimPrefix(line, "btn:")
		// a console press always refers to the last printed message
		u.MessageID = int(c.nextID.Load())
	case strings.HasPrefix(line, "photo:"):
		u.Kind = transport.UpdatePhoto
		u.PhotoID = strings.TrimPrefix(line, "photo:")
	default:
		u.Kind = transport.UpdateText
		u.Text = line
	}
	return u
}

func (c *Console) Updates() <-chan transport.Update {
	return c.updates
}

func (c *Console) Reply(_ context.Context, chatID int64, text string, controls *transport.Controls) (int, error) {
	id := int(c.nextID.Add(1))
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[->%d #%d] %s\n", chatID, id, text)
	c.printControls(controls)
	return id, nil
}

func (c *Console) SendPhoto(_ context.Context, chatID int64, photoRef, caption string, controls *transport.Controls) (int, error) {
	id := int(c.nextID.Add(1))
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[->%d #%d] <photo %s> %s\n", chatID, id, photoRef, caption)
	c.printControls(controls)
	return id, nil
}

func (c *Console) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[->%d] delete #%d\n", chatID, messageID)
	return nil
}

func (c *Console) EditMessage(_ context.Context, chatID int64, messageID int, text string, controls *transport.Controls) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[->%d #%d edited] %s\n", chatID, messageID, text)
	c.printControls(controls)
	return nil
}

func (c *Console) printControls(controls *transport.Controls) {
	if controls == nil {
		return
	}
	for _, row := range controls.Inline {
		var labels []string
		for _, b := range row {
			labels = append(labels, fmt.Sprintf("[%s|%s]", b.Label, b.Data))
		}
		fmt.Fprintf(c.out, "    %s\n", strings.Join(labels, " "))
	}
	for _, row := range controls.Menu {
		fmt.Fprintf(c.out, "    {%s}\n", strings.Join(row, "} {"))
	}
}
