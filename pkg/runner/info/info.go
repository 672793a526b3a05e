// Package info prints where tokenbar keeps its data and which addresses it
// knows.
package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/tokenbar/pkg/app"
	"tableflip.dev/tokenbar/pkg/store"
)

type Info struct {
	Config  store.Config
	Service *app.Service
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("TOKENBAR_CONFIG_PATH"); override != "" {
		fmt.Fprintln(out, "TOKENBAR_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Fprintln(out, "TOKENBAR_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Config.path: ", n.Config.BasePath())
	address := n.Config.Address()
	if address == "" {
		address = "(not set)"
	}
	fmt.Fprintln(out, "Config.address: ", address)
	fmt.Fprintln(out, "Config.settle_delay: ", n.Config.SettleDelay())

	if n.Service == nil {
		return fmt.Errorf("info: no service")
	}

	addresses, err := n.Service.Addresses(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Addresses:\n")
	for _, a := range addresses {
		fmt.Fprintf(out, "  %s\n", a)
	}
	if len(addresses) == 0 {
		fmt.Fprintf(out, "  %s\n", "no addresses")
	}
	return nil
}
