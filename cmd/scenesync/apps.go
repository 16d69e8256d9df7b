package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vango-dev/scenesync/pkg/dom"
	"github.com/vango-dev/scenesync/pkg/native"
	"github.com/vango-dev/scenesync/pkg/server"
	"github.com/vango-dev/scenesync/pkg/style"
	"github.com/vango-dev/scenesync/pkg/vdom"
)

// demoApp returns the handler for the named demo.
func demoApp(name string, sheet style.Sheet) (server.Handler, error) {
	switch name {
	case "counter":
		return counterApp(sheet), nil
	case "document":
		return documentApp(sheet), nil
	}
	return nil, fmt.Errorf("unknown app %q (want counter or document)", name)
}

// counterApp renders a counter with increment and reset buttons through
// vdom. Button styles come from the sheet.
func counterApp(sheet style.Sheet) server.Handler {
	return func(ctx context.Context, c *server.Client) error {
		root := vdom.NewRoot(c.Host())
		count := 0

		var render func() error
		// Listeners are built once so re-renders do not rebind them.
		inc := native.NewListener(func(native.Event) {
			count++
			if err := render(); err != nil {
				c.Logger.Warn("counter render failed", "error", err)
			}
		})
		reset := native.NewListener(func(native.Event) {
			count = 0
			if err := render(); err != nil {
				c.Logger.Warn("counter render failed", "error", err)
			}
		})

		button := func(label string, l *native.Listener) *vdom.VNode {
			return vdom.El("button",
				vdom.Key(label),
				vdom.Style(sheet.For("button")),
				vdom.Prop("onClick", l),
				vdom.Text(label),
			)
		}
		render = func() error {
			return root.Render(ctx, vdom.El("body",
				vdom.Style(sheet.For("body")),
				vdom.El("h1", vdom.Style(sheet.For("h1")), vdom.Textf("Count: %d", count)),
				button("+1", inc),
				vdom.If(count > 0, button("reset", reset)),
			))
		}
		return render()
	}
}

// documentApp builds the same counter imperatively with the dom API.
func documentApp(sheet style.Sheet) server.Handler {
	return func(ctx context.Context, c *server.Client) error {
		doc, err := c.Document(ctx, dom.WithSheet(sheet))
		if err != nil {
			return err
		}

		var label *dom.Text
		count := 0
		return doc.Update(ctx, func() error {
			h1, err := doc.CreateElement("h1")
			if err != nil {
				return err
			}
			if label, err = doc.CreateTextNode("Count: 0"); err != nil {
				return err
			}
			btn, err := doc.CreateElement("button")
			if err != nil {
				return err
			}
			if err := btn.SetID("increment"); err != nil {
				return err
			}
			text, err := doc.CreateTextNode("+1")
			if err != nil {
				return err
			}

			onClick := native.NewListener(func(native.Event) {
				count++
				err := doc.Update(ctx, func() error {
					return label.SetData("Count: " + strconv.Itoa(count))
				})
				if err != nil {
					c.Logger.Warn("counter update failed", "error", err)
				}
			})
			if err := btn.AddEventListener("click", onClick); err != nil {
				return err
			}

			if err := h1.AppendChild(label); err != nil {
				return err
			}
			if err := btn.AppendChild(text); err != nil {
				return err
			}
			body := doc.Body()
			if err := body.AppendChild(h1); err != nil {
				return err
			}
			return body.AppendChild(btn)
		})
	}
}
